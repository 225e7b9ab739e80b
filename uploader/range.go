package uploader

import (
	"fmt"
	"regexp"
	"strings"
)

const MaxColumns = 26

var columnRegex = regexp.MustCompile(`^[A-Za-z]$`)
var plainSheetRegex = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// quote wraps worksheet names containing spaces or punctuation in single quotes
// for use in A1 notation e.g. 'Overlay Data'!A1.
func quote(sheet string) string {
	if plainSheetRegex.MatchString(sheet) {
		return sheet
	}

	return "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
}

// column returns the column letter for a zero-based column offset. Multi-letter
// columns (AA, AB, ...) are not supported.
func column(offset int) (string, error) {
	if offset < 0 || offset >= MaxColumns {
		return "", ErrTooManyColumns
	}

	return string(rune('A' + offset)), nil
}

// pad right-pads the rows with empty strings so that every row is as wide as the
// widest row. Returns the padded rows and the common width.
func pad(rows [][]string) ([][]any, int) {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	padded := make([][]any, 0, len(rows))
	for _, row := range rows {
		record := make([]any, width)
		for i := range record {
			if i < len(row) {
				record[i] = row[i]
			} else {
				record[i] = ""
			}
		}

		padded = append(padded, record)
	}

	return padded, width
}

// tableRange returns the A1 range for a block of 'rows' x 'columns' cells anchored
// at column A of 'top' e.g. Sheet1!A5:B6.
func tableRange(sheet string, top int, rows int, columns int) (string, error) {
	right, err := column(columns - 1)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s!A%d:%s%d", quote(sheet), top, right, top+rows-1), nil
}

// columnRange returns the A1 range for the first cell of a column e.g. Sheet1!C7.
func columnRange(sheet string, col string, top int) (string, error) {
	if !columnRegex.MatchString(col) {
		return "", fmt.Errorf("invalid column '%s' - expected a single letter A-Z", col)
	}

	return fmt.Sprintf("%s!%s%d", quote(sheet), strings.ToUpper(col), top), nil
}
