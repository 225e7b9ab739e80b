package uploader

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Service is the subset of the Google Sheets API used by the uploader.
type Service interface {
	Values(ctx context.Context, spreadsheet string, area string) (*sheets.ValueRange, error)
	BatchUpdate(ctx context.Context, spreadsheet string, rq *sheets.BatchUpdateValuesRequest) (*sheets.BatchUpdateValuesResponse, error)
	Spreadsheet(ctx context.Context, spreadsheet string) (*sheets.Spreadsheet, error)
}

type google struct {
	sheets *sheets.Service
}

// NewGoogleService creates a Service backed by the Google Sheets v4 API, using the
// (already authorised) HTTP client for all requests.
func NewGoogleService(ctx context.Context, client *http.Client) (Service, error) {
	service, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create new Sheets client (%w)", err)
	}

	return &google{
		sheets: service,
	}, nil
}

func (g *google) Values(ctx context.Context, spreadsheet string, area string) (*sheets.ValueRange, error) {
	return g.sheets.Spreadsheets.Values.Get(spreadsheet, area).Context(ctx).Do()
}

func (g *google) BatchUpdate(ctx context.Context, spreadsheet string, rq *sheets.BatchUpdateValuesRequest) (*sheets.BatchUpdateValuesResponse, error) {
	return g.sheets.Spreadsheets.Values.BatchUpdate(spreadsheet, rq).Context(ctx).Do()
}

func (g *google) Spreadsheet(ctx context.Context, spreadsheet string) (*sheets.Spreadsheet, error) {
	return g.sheets.Spreadsheets.Get(spreadsheet).Context(ctx).Do()
}
