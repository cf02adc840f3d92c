package sheet

import (
	"context"
	"fmt"
)

// Store is the storage contract shared by every sheet backend.
// Implementations must be safe for concurrent use.
type Store interface {
	// Headers returns the header row of a sheet.
	// Returns ErrSheetNotFound if the sheet has no header row.
	Headers(ctx context.Context, sheetName string) ([]string, error)

	// Rows returns every data row of a sheet in append order, header excluded.
	// Returns an empty slice for a sheet without data rows and
	// ErrSheetNotFound for an unknown sheet.
	Rows(ctx context.Context, sheetName string) ([]Row, error)

	// SetHeaders creates a sheet or replaces its header row. Replacing the
	// header of a sheet that already has rows must keep the same width.
	SetHeaders(ctx context.Context, sheetName string, headers []string) error

	// AppendRow appends one data row. The row must be as wide as the header.
	AppendRow(ctx context.Context, sheetName string, row Row) (*RowEvent, error)

	// Sheets returns the names of all sheets, sorted.
	Sheets(ctx context.Context) ([]string, error)

	// Ping verifies that the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the backend's resources.
	Close() error
}

// Ensure makes sure sheetName exists. A missing sheet is created with the
// given headers; an existing sheet keeps its own header row, which is
// returned.
func Ensure(ctx context.Context, s Store, sheetName string, headers []string) ([]string, error) {
	existing, err := s.Headers(ctx, sheetName)
	if err == nil {
		return existing, nil
	}
	if !IsNotFound(err) {
		return nil, err
	}
	if err := s.SetHeaders(ctx, sheetName, headers); err != nil {
		return nil, fmt.Errorf("failed to create sheet %q: %w", sheetName, err)
	}
	return append([]string(nil), headers...), nil
}

// Submit builds a row from params with BuildRow, appends it and returns the
// submission result echoed to clients.
func Submit(ctx context.Context, s Store, sheetName string, params map[string][]string) (*AppendResult, error) {
	headers, err := s.Headers(ctx, sheetName)
	if err != nil {
		return nil, err
	}

	row := BuildRow(headers, params)
	if _, err := s.AppendRow(ctx, sheetName, row); err != nil {
		return nil, err
	}

	return &AppendResult{
		Data:   FirstValues(params),
		Holder: row,
	}, nil
}
