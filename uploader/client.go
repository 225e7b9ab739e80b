// Package uploader appends rows and columns of string cells to a Google Sheets
// worksheet, starting at the first empty row.
package uploader

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/sheets/v4"
)

const ValueInputOption = "USER_ENTERED"

type Client struct {
	service Service
	policy  RetryPolicy
	pacer   *Pacer
	sleep   func(time.Duration)
}

func NewClient(service Service, policy RetryPolicy, pacer *Pacer) *Client {
	return &Client{
		service: service,
		policy:  policy,
		pacer:   pacer,
		sleep:   time.Sleep,
	}
}

// WithSleep replaces the function used to wait between rate limited attempts.
func (c *Client) WithSleep(sleep func(time.Duration)) *Client {
	c.sleep = sleep
	return c
}

// Spreadsheet fetches the spreadsheet metadata. Used to check that the spreadsheet
// exists and is accessible before reading or writing.
func (c *Client) Spreadsheet(ctx context.Context, spreadsheet string) (*sheets.Spreadsheet, error) {
	if err := c.pacer.Wait(ctx); err != nil {
		return nil, err
	}

	return c.service.Spreadsheet(ctx, spreadsheet)
}

// FindFirstEmptyRow returns the 1-based index of the first row after the existing
// values in the worksheet i.e. 1 for an empty worksheet and N+1 for a worksheet
// with N rows.
func (c *Client) FindFirstEmptyRow(ctx context.Context, spreadsheet string, sheet string) (int, error) {
	if err := c.pacer.Wait(ctx); err != nil {
		return 0, err
	}

	response, err := c.service.Values(ctx, spreadsheet, quote(sheet))
	if err != nil {
		return 0, fmt.Errorf("error finding empty row in '%s' (%w)", sheet, err)
	}

	if response == nil || len(response.Values) == 0 {
		return 1, nil
	}

	return len(response.Values) + 1, nil
}

// AppendColumn writes the items down a single column starting at startRow. Each
// item is either a scalar or a []string, which is joined with spaces into a
// single cell.
func (c *Client) AppendColumn(ctx context.Context, spreadsheet string, sheet string, startRow int, col string, items []any) error {
	if startRow < 1 {
		warnf("No empty row found in worksheet '%s'", sheet)
		return nil
	}

	area, err := columnRange(sheet, col, startRow)
	if err != nil {
		return err
	}

	values := make([][]any, 0, len(items))
	for _, item := range items {
		values = append(values, []any{cell(item)})
	}

	rq := sheets.BatchUpdateValuesRequest{
		ValueInputOption: ValueInputOption,
		Data: []*sheets.ValueRange{
			{
				Range:  area,
				Values: values,
			},
		},
	}

	if err := c.pacer.Wait(ctx); err != nil {
		return err
	}

	if _, err := c.service.BatchUpdate(ctx, spreadsheet, &rq); err != nil {
		return err
	}

	infof("Column %s data appended successfully", strings.ToUpper(col))

	return nil
}

// AppendTable writes a block of rows anchored at column A of startRow, padding
// short rows with empty cells. Rate limited writes are retried according to
// the client retry policy and ErrRetriesExhausted is returned if the policy
// runs out.
func (c *Client) AppendTable(ctx context.Context, spreadsheet string, sheet string, startRow int, rows [][]string) error {
	if startRow < 1 || len(rows) == 0 {
		warnf("No data or empty row found in worksheet '%s'", sheet)
		return nil
	}

	values, width := pad(rows)
	if width == 0 {
		warnf("No data to append to worksheet '%s'", sheet)
		return nil
	}

	area, err := tableRange(sheet, startRow, len(values), width)
	if err != nil {
		return err
	}

	rq := sheets.BatchUpdateValuesRequest{
		ValueInputOption: ValueInputOption,
		Data: []*sheets.ValueRange{
			{
				Range:  area,
				Values: values,
			},
		},
	}

	err = c.retry(func() error {
		if err := c.pacer.Wait(ctx); err != nil {
			return err
		}

		_, err := c.service.BatchUpdate(ctx, spreadsheet, &rq)
		return err
	})

	if err != nil {
		return err
	}

	infof("2D table data appended successfully (%s)", area)

	return nil
}

func cell(item any) string {
	switch v := item.(type) {
	case string:
		return v
	case []string:
		return strings.Join(v, " ")
	case []any:
		s := make([]string, 0, len(v))
		for _, w := range v {
			s = append(s, fmt.Sprintf("%v", w))
		}
		return strings.Join(s, " ")
	default:
		return fmt.Sprintf("%v", v)
	}
}
