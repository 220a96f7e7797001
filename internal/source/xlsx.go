package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/xuri/excelize/v2"
)

// ErrNoSheet is returned when the workbook has no worksheet to read.
var ErrNoSheet = errors.New("workbook has no matching sheet")

// XLSXSource reads the catalogue from a spreadsheet XLSX export.
type XLSXSource struct {
	url    string
	sheet  string
	client *http.Client
}

// NewXLSXSource creates a new XLSXSource. An empty sheet name reads the first sheet.
func NewXLSXSource(url, sheet string, client *http.Client) *XLSXSource {
	return &XLSXSource{url: url, sheet: sheet, client: client}
}

func (s *XLSXSource) Name() string {
	return "xlsx"
}

func (s *XLSXSource) FetchRows(ctx context.Context) ([][]string, error) {
	body, err := download(ctx, s.client, s.url)
	if err != nil {
		return nil, err
	}

	rows, err := ReadWorkbook(bytes.NewReader(body), s.sheet)
	if err != nil {
		return nil, err
	}
	return dataRows(rows, true), nil
}

// ReadWorkbook returns every row of the named sheet, or of the first sheet
// when name is empty.
func ReadWorkbook(r io.Reader, name string) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheet
	}
	if name == "" {
		name = sheets[0]
	} else if idx, _ := f.GetSheetIndex(name); idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoSheet, name)
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
	}
	return rows, nil
}
