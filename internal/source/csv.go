package source

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// CSVSource reads the catalogue from a published CSV export.
type CSVSource struct {
	url    string
	client *http.Client
}

// NewCSVSource creates a new CSVSource.
func NewCSVSource(url string, client *http.Client) *CSVSource {
	return &CSVSource{url: url, client: client}
}

func (s *CSVSource) Name() string {
	return "csv"
}

func (s *CSVSource) FetchRows(ctx context.Context) ([][]string, error) {
	body, err := download(ctx, s.client, s.url)
	if err != nil {
		return nil, err
	}

	rows, err := ParseCSV(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	return dataRows(rows, false), nil
}

// ParseCSV splits delimited text into rows of fields. Quoted fields may
// contain commas, stray quotes are tolerated and rows may differ in length.
func ParseCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse csv: %w", err)
		}
		rows = append(rows, record)
	}
	return rows, nil
}
