package sheet

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS sheets (
	name    TEXT PRIMARY KEY,
	headers TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS sheet_rows (
	id    INTEGER PRIMARY KEY AUTOINCREMENT,
	sheet TEXT NOT NULL REFERENCES sheets(name),
	cells TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sheet_rows_sheet ON sheet_rows(sheet, id);
`

// SQLiteStore keeps sheets in a SQLite database file.
// It implements Store but does not publish row events.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens (creating if needed) the database at path and applies the
// schema. Use ":memory:" for a throwaway database.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path cannot be empty")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// A single connection serializes writers and keeps ":memory:" databases alive.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply sqlite schema: %w", err)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping verifies the database is usable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Headers returns the header row of a sheet.
func (s *SQLiteStore) Headers(ctx context.Context, sheetName string) ([]string, error) {
	if err := ValidateName(sheetName); err != nil {
		return nil, err
	}
	return s.headers(ctx, s.db, sheetName)
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *SQLiteStore) headers(ctx context.Context, q queryer, sheetName string) ([]string, error) {
	var encoded string
	err := q.QueryRowContext(ctx, `SELECT headers FROM sheets WHERE name = ?`, sheetName).Scan(&encoded)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, sheetName)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read headers: %w", err)
	}

	headers, err := DecodeRow(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize headers: %w", err)
	}
	return headers, nil
}

// Rows returns the data rows of a sheet in insertion order.
func (s *SQLiteStore) Rows(ctx context.Context, sheetName string) ([]Row, error) {
	if _, err := s.Headers(ctx, sheetName); err != nil {
		return nil, err
	}

	rs, err := s.db.QueryContext(ctx, `SELECT cells FROM sheet_rows WHERE sheet = ? ORDER BY id`, sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to query rows: %w", err)
	}
	defer rs.Close()

	var raw []string
	for rs.Next() {
		var cells string
		if err := rs.Scan(&cells); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		raw = append(raw, cells)
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	rows, err := DecodeRows(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize rows: %w", err)
	}
	return rows, nil
}

// SetHeaders creates or replaces the header row of a sheet.
func (s *SQLiteStore) SetHeaders(ctx context.Context, sheetName string, headers []string) error {
	if err := ValidateName(sheetName); err != nil {
		return err
	}
	if err := ValidateHeaders(headers); err != nil {
		return fmt.Errorf("invalid headers: %w", err)
	}

	encoded, err := EncodeRow(headers)
	if err != nil {
		return fmt.Errorf("failed to serialize headers: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var rowCount int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM sheet_rows WHERE sheet = ?`, sheetName).Scan(&rowCount); err != nil {
		return fmt.Errorf("failed to count rows: %w", err)
	}
	if rowCount > 0 {
		existing, err := s.headers(ctx, tx, sheetName)
		if err != nil && !IsNotFound(err) {
			return err
		}
		if existing != nil && len(existing) != len(headers) {
			return fmt.Errorf("%w: sheet %q has %d rows of width %d, new header has %d columns",
				ErrRowWidth, sheetName, rowCount, len(existing), len(headers))
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sheets (name, headers) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET headers = excluded.headers`,
		sheetName, encoded); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit headers: %w", err)
	}
	return nil
}

// AppendRow inserts a row and returns the resulting event.
func (s *SQLiteStore) AppendRow(ctx context.Context, sheetName string, row Row) (*RowEvent, error) {
	if err := ValidateName(sheetName); err != nil {
		return nil, err
	}

	encoded, err := EncodeRow(row)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize row: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	headers, err := s.headers(ctx, tx, sheetName)
	if err != nil {
		return nil, err
	}
	if err := checkWidth(headers, row); err != nil {
		return nil, err
	}

	var index int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM sheet_rows WHERE sheet = ?`, sheetName).Scan(&index); err != nil {
		return nil, fmt.Errorf("failed to count rows: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO sheet_rows (sheet, cells) VALUES (?, ?)`, sheetName, encoded); err != nil {
		return nil, fmt.Errorf("failed to insert row: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit row: %w", err)
	}

	return &RowEvent{
		ID:          uuid.New().String(),
		Sheet:       sheetName,
		Index:       index,
		Values:      append(Row(nil), row...),
		CreatedAtMs: s.now().UnixMilli(),
	}, nil
}

// Sheets returns all sheet names, sorted.
func (s *SQLiteStore) Sheets(ctx context.Context) ([]string, error) {
	rs, err := s.db.QueryContext(ctx, `SELECT name FROM sheets ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sheets: %w", err)
	}
	defer rs.Close()

	names := []string{}
	for rs.Next() {
		var name string
		if err := rs.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan sheet name: %w", err)
		}
		names = append(names, name)
	}
	return names, rs.Err()
}
