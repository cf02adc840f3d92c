package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grekz/tally/internal/filter"
	"github.com/grekz/tally/internal/printer"
	"github.com/grekz/tally/internal/rowfmt"
	"github.com/grekz/tally/pkg/sheet"
)

var (
	rowsSheet        string
	rowsOutputFormat string
	rowsWhere        []string
)

var rowsCmd = &cobra.Command{
	Use:   "rows",
	Short: "List the data rows of a sheet",
	Long: `List the data rows of a sheet, header excluded.

Output Formats:
  default - Aligned table with the header row and truncated cells
  jsonl   - One JSON array per row, for piping to jq
  json    - The same JSON document GET /exec returns

Filters:
  --where Column=pattern  - Keep rows whose cell matches a glob pattern
                            (repeatable, ANDed; blank cells match "")

Examples:
  # Show the configured sheet
  tally rows

  # Rows whose first name starts with A and that have no email
  tally rows --where 'First=A*' --where 'Email='

  # Stream another sheet as JSONL
  tally rows --sheet Signups --output=jsonl | jq '.[4]'`,
	Args: noArgs,
	RunE: runRows,
}

func init() {
	rowsCmd.Flags().StringVarP(&rowsSheet, "sheet", "s", "", "Sheet name (default: sheet.name from config)")
	rowsCmd.Flags().StringVarP(&rowsOutputFormat, "output", "o", "default", "Output format: default, jsonl or json")
	rowsCmd.Flags().StringArrayVarP(&rowsWhere, "where", "w", nil, "Filter as Column=pattern (repeatable)")
	rootCmd.AddCommand(rowsCmd)
}

func runRows(cmd *cobra.Command, args []string) error {
	format, err := rowfmt.ParseFormat(rowsOutputFormat)
	if err != nil {
		return printer.Error(
			"invalid output format",
			fmt.Sprintf("Unknown format: %s", rowsOutputFormat),
			[]string{"Valid formats: default, jsonl, json"},
		)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	name := sheetNameOr(rowsSheet, cfg)

	headers, err := store.Headers(ctx, name)
	if err != nil {
		if sheet.IsNotFound(err) {
			return sheetNotFound(name, cfg)
		}
		return fmt.Errorf("failed to read headers: %w", err)
	}

	criteria, err := filter.Parse(headers, rowsWhere)
	if err != nil {
		return printer.Error("invalid filter", err.Error(), nil)
	}

	rows, err := store.Rows(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to read rows: %w", err)
	}
	rows = criteria.Apply(rows)

	return rowfmt.Write(printer.Out(), format, name, headers, rows)
}
