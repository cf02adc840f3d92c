package sheet

import (
	"encoding/json"
	"fmt"
)

// Serialization helpers
//
// Header rows and data rows are stored as JSON arrays of strings, one array
// per Redis string value / list element or SQLite column.

// EncodeRow encodes a row (or header row) as a JSON array.
// A nil row encodes as "[]".
func EncodeRow(row []string) (string, error) {
	if row == nil {
		row = []string{}
	}
	data, err := json.Marshal(row)
	if err != nil {
		return "", fmt.Errorf("failed to marshal row: %w", err)
	}
	return string(data), nil
}

// DecodeRow decodes a JSON array produced by EncodeRow.
// The result is never nil.
func DecodeRow(data string) (Row, error) {
	var row Row
	if err := json.Unmarshal([]byte(data), &row); err != nil {
		return nil, fmt.Errorf("failed to unmarshal row: %w", err)
	}
	if row == nil {
		row = Row{}
	}
	return row, nil
}

// DecodeRows decodes a list of encoded rows, preserving order.
func DecodeRows(data []string) ([]Row, error) {
	rows := make([]Row, 0, len(data))
	for i, d := range data {
		row, err := DecodeRow(d)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
