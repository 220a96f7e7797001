package source

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsSource reads the catalogue through the Google Sheets API.
type SheetsSource struct {
	service       *sheets.Service
	spreadsheetID string
	readRange     string
}

// NewSheetsSource creates a Sheets API source authenticated with an API key.
// Extra options are appended, which lets tests point it at another endpoint.
func NewSheetsSource(ctx context.Context, spreadsheetID, readRange, apiKey string, opts ...option.ClientOption) (*SheetsSource, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &SheetsSource{
		service:       service,
		spreadsheetID: spreadsheetID,
		readRange:     readRange,
	}, nil
}

func (s *SheetsSource) Name() string {
	return "sheets"
}

func (s *SheetsSource) FetchRows(ctx context.Context) ([][]string, error) {
	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, s.readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read range %q: %w", s.readRange, err)
	}
	if len(resp.Values) == 0 {
		return nil, ErrEmptyPayload
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, values := range resp.Values {
		row := make([]string, len(values))
		for i, v := range values {
			if v != nil {
				row[i] = fmt.Sprint(v)
			}
		}
		rows = append(rows, row)
	}
	return dataRows(rows, true), nil
}
