// Package csvutil reads header-keyed CSV files, tolerating the messy
// exports spreadsheet tools produce (BOM prefixes, padded headers,
// ragged rows).
package csvutil

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Row is one CSV record keyed by header name.
type Row map[string]string

// Get returns the value for the first key that has one. Lookup is
// exact first, then case-insensitive with whitespace trimmed, so
// "Skip Import" still resolves when the header reads " skip import ".
func (r Row) Get(keys ...string) string {
	for _, key := range keys {
		if v, ok := r[key]; ok && v != "" {
			return v
		}
	}
	for _, key := range keys {
		want := strings.ToLower(strings.TrimSpace(key))
		for k, v := range r {
			if strings.ToLower(strings.TrimSpace(k)) == want && v != "" {
				return v
			}
		}
	}
	return ""
}

// LoadRows reads a CSV file into header-keyed rows and returns the
// header in file order. Records that fail to parse are skipped with a
// warning; an unreadable file or header is an error.
func LoadRows(filename string) ([]Row, []string, error) {
	csvFile, err := os.Open(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer func() { _ = csvFile.Close() }()

	reader := csv.NewReader(csvFile)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if len(header) > 0 {
		// Excel exports often lead with a UTF-8 BOM.
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			slog.Warn("Error reading record", "error", err)
			continue
		}

		row := make(Row, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = record[i]
			}
		}
		rows = append(rows, row)
	}

	return rows, header, nil
}
