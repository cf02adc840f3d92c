// Package rowfmt renders sheet rows for the terminal.
package rowfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/grekz/tally/pkg/sheet"
)

// OutputFormat specifies how rows are rendered.
type OutputFormat string

const (
	// OutputFormatDefault renders an aligned table with truncated cells
	OutputFormatDefault OutputFormat = "default"

	// OutputFormatJSONL renders one JSON array per line
	OutputFormatJSONL OutputFormat = "jsonl"

	// OutputFormatJSON renders all rows as one JSON array of arrays
	OutputFormatJSON OutputFormat = "json"
)

// maxCellWidth bounds table columns, in terminal cells; longer cells are
// truncated with "...". Wide runes (CJK, emoji) count as two cells.
const maxCellWidth = 24

// ParseFormat converts a --output flag value into an OutputFormat.
func ParseFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case OutputFormatDefault, OutputFormatJSONL, OutputFormatJSON:
		return OutputFormat(s), nil
	}
	return "", fmt.Errorf("unknown format: %s", s)
}

// Write renders rows in the requested format.
func Write(w io.Writer, format OutputFormat, sheetName string, headers []string, rows []sheet.Row) error {
	switch format {
	case OutputFormatJSONL:
		return FormatJSONL(w, rows)
	case OutputFormatJSON:
		return FormatJSON(w, rows)
	default:
		FormatTable(w, sheetName, headers, rows)
		return nil
	}
}

// FormatTable writes rows as an aligned table preceded by the header row.
// Returns the number of rows formatted.
func FormatTable(w io.Writer, sheetName string, headers []string, rows []sheet.Row) int {
	if len(rows) == 0 {
		fmt.Fprintf(w, "No rows found in sheet '%s'\n", sheetName)
		return 0
	}

	fmt.Fprintf(w, "Rows in sheet '%s':\n\n", sheetName)

	widths := columnWidths(headers, rows)

	writeLine(w, widths, "#", headers)
	rule := make([]string, len(widths)-1)
	for i := range rule {
		rule[i] = strings.Repeat("-", widths[i+1])
	}
	writeLine(w, widths, strings.Repeat("-", widths[0]), rule)

	for i, row := range rows {
		writeLine(w, widths, fmt.Sprintf("%d", i+1), row)
	}

	countMsg := "row"
	if len(rows) != 1 {
		countMsg = "rows"
	}
	fmt.Fprintf(w, "\n%d %s found\n", len(rows), countMsg)

	return len(rows)
}

// FormatJSONL writes each row as a compact JSON array on its own line.
// This format is ideal for streaming and processing with tools like jq.
func FormatJSONL(w io.Writer, rows []sheet.Row) error {
	for _, row := range rows {
		data, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("failed to marshal row to JSON: %w", err)
		}
		if _, err := fmt.Fprintf(w, "%s\n", data); err != nil {
			return fmt.Errorf("failed to write JSONL output: %w", err)
		}
	}
	return nil
}

// FormatJSON writes all rows as one pretty-printed JSON array, the same
// document GET /exec returns.
func FormatJSON(w io.Writer, rows []sheet.Row) error {
	if rows == nil {
		rows = []sheet.Row{}
	}
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal rows to JSON: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write JSON output: %w", err)
	}
	fmt.Fprintln(w)
	return nil
}

// columnWidths returns the display width of the index column followed by
// one width per header column.
func columnWidths(headers []string, rows []sheet.Row) []int {
	widths := make([]int, len(headers)+1)
	widths[0] = max(1, len(fmt.Sprintf("%d", len(rows))))
	for i, h := range headers {
		widths[i+1] = runewidth.StringWidth(formatCell(h))
	}
	for _, row := range rows {
		for i := range headers {
			if i < len(row) {
				widths[i+1] = max(widths[i+1], runewidth.StringWidth(formatCell(row[i])))
			}
		}
	}
	return widths
}

func writeLine(w io.Writer, widths []int, index string, cells []string) {
	var b strings.Builder
	b.WriteString(pad(index, widths[0]))
	for i := 1; i < len(widths); i++ {
		cell := ""
		if i-1 < len(cells) {
			cell = formatCell(cells[i-1])
		}
		b.WriteString("  ")
		b.WriteString(pad(cell, widths[i]))
	}
	fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
}

// formatCell renders blank cells as "-" and truncates long cells to the
// first line, at most maxCellWidth characters.
func formatCell(cell string) string {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return "-"
	}
	if i := strings.IndexByte(cell, '\n'); i >= 0 {
		cell = strings.TrimSpace(cell[:i]) + "..."
	}
	return runewidth.Truncate(cell, maxCellWidth, "...")
}

func pad(s string, width int) string {
	return runewidth.FillRight(s, width)
}
