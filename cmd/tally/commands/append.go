package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/grekz/tally/internal/printer"
	"github.com/grekz/tally/pkg/sheet"
)

var (
	appendSheet  string
	appendFields []string
)

var appendCmd = &cobra.Command{
	Use:   "append",
	Short: "Append a row the way POST /exec does",
	Long: `Append a row built from --field values, exactly as POST /exec would.

Each --field is Name=value. Fields are matched to header names; headers
without a field are stored as a single space. Fields that match no header
are echoed in "data" but not stored. The response envelope is printed as
JSON.

Examples:
  tally append --field First=Ada --field Last=Lovelace
  tally append --sheet Signups --field Email=ada@example.com`,
	Args: noArgs,
	RunE: runAppend,
}

func init() {
	appendCmd.Flags().StringVarP(&appendSheet, "sheet", "s", "", "Sheet name (default: sheet.name from config)")
	appendCmd.Flags().StringArrayVarP(&appendFields, "field", "f", nil, "Field as Name=value (repeatable)")
	rootCmd.AddCommand(appendCmd)
}

func runAppend(cmd *cobra.Command, args []string) error {
	params, err := parseFields(appendFields)
	if err != nil {
		return printer.Error(
			"invalid field",
			err.Error(),
			[]string{"Pass fields as Name=value:\n  tally append --field First=Ada"},
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

	name := sheetNameOr(appendSheet, cfg)

	result, err := sheet.Submit(ctx, store, name, params)
	if err != nil {
		if sheet.IsNotFound(err) {
			return sheetNotFound(name, cfg)
		}
		return printer.ErrorWithContext(
			"append failed",
			err.Error(),
			map[string]string{"Sheet": name},
			nil,
		)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	printer.Println(string(data))
	return nil
}

// parseFields turns Name=value pairs into form-style parameters. Repeated
// names keep every value in order, like a repeated form field.
func parseFields(fields []string) (map[string][]string, error) {
	params := make(map[string][]string, len(fields))
	for _, f := range fields {
		name, value, ok := strings.Cut(f, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("field %q is not in Name=value form", f)
		}
		params[name] = append(params[name], value)
	}
	return params, nil
}
