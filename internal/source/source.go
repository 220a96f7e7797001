// Package source fetches raw catalogue rows from the published spreadsheet.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/iyhunko/sheets-storefront/internal/config"
)

// maxPayloadSize bounds how much of an export is read into memory.
var maxPayloadSize int64 = 32 << 20

var (
	// ErrEmptyPayload is returned when the source answers with no content.
	ErrEmptyPayload = errors.New("empty payload")

	// ErrUnknownSource is returned for an unsupported source kind.
	ErrUnknownSource = errors.New("unknown source kind")

	// ErrPayloadTooLarge is returned when an export exceeds maxPayloadSize.
	ErrPayloadTooLarge = errors.New("payload too large")
)

// Source yields the data rows of the catalogue sheet, header excluded.
type Source interface {
	Name() string
	FetchRows(ctx context.Context) ([][]string, error)
}

// StatusError reports a non-2xx answer from the spreadsheet host.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetching %s: unexpected status %d", e.URL, e.StatusCode)
}

// New builds the source selected by cfg.Kind. A nil client means http.DefaultClient.
func New(ctx context.Context, cfg config.SourceConfig, client *http.Client) (Source, error) {
	if client == nil {
		client = http.DefaultClient
	}

	switch cfg.Kind {
	case config.SourceCSV:
		return NewCSVSource(cfg.CSVURL, client), nil
	case config.SourceXLSX:
		return NewXLSXSource(cfg.XLSXURL, cfg.SheetName, client), nil
	case config.SourceSheets:
		return NewSheetsSource(ctx, cfg.SpreadsheetID, cfg.Range, cfg.APIKey)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, cfg.Kind)
	}
}

// download GETs url and returns the body of a 2xx response.
func download(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > maxPayloadSize {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrPayloadTooLarge, url, maxPayloadSize)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, ErrEmptyPayload
	}
	return body, nil
}

// dataRows drops the header row and blank rows. With padShort, rows shorter
// than the header are padded with empty cells; the Sheets API and XLSX reader
// omit trailing blank cells, while a short CSV line really is short.
func dataRows(rows [][]string, padShort bool) [][]string {
	if len(rows) == 0 {
		return nil
	}

	width := len(rows[0])
	out := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		if padShort {
			row = pad(row, width)
		}
		out = append(out, row)
	}
	return out
}

func pad(row []string, width int) []string {
	if len(row) >= width {
		return row
	}
	padded := make([]string, width)
	copy(padded, row)
	return padded
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
