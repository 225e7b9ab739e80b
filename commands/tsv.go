package commands

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// tsvToRows reads a TSV file as a (possibly ragged) list of rows. Blank lines
// are skipped.
func tsvToRows(f io.Reader) ([][]string, error) {
	r := csv.NewReader(f)
	r.Comma = '\t'
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	rows := [][]string{}
	for _, record := range records {
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}

		rows = append(rows, record)
	}

	return rows, nil
}

// tsvToItems reads a TSV file as a list of column items. Single field lines are
// scalar items, multi-field lines are lists.
func tsvToItems(f io.Reader) ([]any, error) {
	rows, err := tsvToRows(f)
	if err != nil {
		return nil, err
	}

	items := make([]any, 0, len(rows))
	for _, row := range rows {
		if len(row) == 1 {
			items = append(items, row[0])
		} else {
			items = append(items, row)
		}
	}

	return items, nil
}

// open returns the named file, or stdin for "-".
func open(file string) (io.ReadCloser, error) {
	if strings.TrimSpace(file) == "" {
		return nil, fmt.Errorf("--file is a required option")
	}

	if file == "-" {
		return io.NopCloser(os.Stdin), nil
	}

	return os.Open(file)
}
