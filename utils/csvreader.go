package utils

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

func ParseCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ParseCSVRows reads a CSV with a header line and returns one map per row
// keyed by the header names.
func ParseCSVRows(r io.Reader) ([]map[string]string, error) {
	records, err := ParseCSV(r)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv is empty")
	}

	header := Map(records[0], strings.TrimSpace)
	rows := make([]map[string]string, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) != len(header) {
			return nil, fmt.Errorf("row %d: expected %d columns, got %d", i+2, len(header), len(rec))
		}
		row := make(map[string]string, len(header))
		for j, h := range header {
			row[h] = rec[j]
		}
		rows = append(rows, row)
	}
	return rows, nil
}
