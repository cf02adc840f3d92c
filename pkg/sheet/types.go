package sheet

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// MissingValue is the cell value used for a header with no submitted value.
const MissingValue = " "

// Row is a row-value array: the cells of one row, ordered like the headers.
type Row []string

// RowEvent is published after a row has been appended to a sheet.
type RowEvent struct {
	ID          string `json:"id"`            // UUID of this event
	Sheet       string `json:"sheet"`         // Sheet the row was appended to
	Index       int    `json:"index"`         // Zero-based data row index (header excluded)
	Values      Row    `json:"values"`        // Appended cells
	CreatedAtMs int64  `json:"created_at_ms"` // Unix timestamp in milliseconds
}

// AppendResult is the response body of a successful row submission: the raw
// submitted parameters and the row that was built from them.
type AppendResult struct {
	Data   map[string]string `json:"data"`
	Holder Row               `json:"holder"`
}

// Validate checks that the event carries a UUID, a sheet name and a
// non-negative index.
func (e *RowEvent) Validate() error {
	if _, err := uuid.Parse(e.ID); err != nil {
		return fmt.Errorf("invalid id: %w", err)
	}
	if err := ValidateName(e.Sheet); err != nil {
		return err
	}
	if e.Index < 0 {
		return fmt.Errorf("index must be >= 0, got %d", e.Index)
	}
	return nil
}

// ValidateName returns an error if name cannot be used as a sheet name.
// Names must be non-blank and must not contain ':' (the key separator).
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("sheet name cannot be empty")
	}
	if strings.Contains(name, ":") {
		return fmt.Errorf("sheet name %q cannot contain ':'", name)
	}
	return nil
}

// ValidateHeaders returns an error unless headers is a non-empty list of
// unique, non-blank names.
func ValidateHeaders(headers []string) error {
	if len(headers) == 0 {
		return ErrNoHeaders
	}
	seen := make(map[string]int, len(headers))
	for i, h := range headers {
		if strings.TrimSpace(h) == "" {
			return fmt.Errorf("header %d is blank", i+1)
		}
		if prev, ok := seen[h]; ok {
			return fmt.Errorf("duplicate header %q (columns %d and %d)", h, prev+1, i+1)
		}
		seen[h] = i
	}
	return nil
}

// checkWidth verifies that row has one cell per header.
func checkWidth(headers []string, row Row) error {
	if len(row) != len(headers) {
		return fmt.Errorf("%w: row has %d cells, sheet has %d headers", ErrRowWidth, len(row), len(headers))
	}
	return nil
}
