package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grekz/tally/internal/printer"
)

var sheetsOutputFormat string

var sheetsCmd = &cobra.Command{
	Use:   "sheets",
	Short: "List the sheets of the configured instance",
	Long: `List every sheet that has a header row, sorted by name.

The sheet served on /exec (sheet.name) is marked with '*'.

Output Formats:
  default - One sheet per line
  json    - JSON array of sheet names`,
	Args: noArgs,
	RunE: runSheets,
}

func init() {
	sheetsCmd.Flags().StringVarP(&sheetsOutputFormat, "output", "o", "default", "Output format: default or json")
	rootCmd.AddCommand(sheetsCmd)
}

func runSheets(cmd *cobra.Command, args []string) error {
	if sheetsOutputFormat != "default" && sheetsOutputFormat != "json" {
		return printer.Error(
			"invalid output format",
			fmt.Sprintf("Unknown format: %s", sheetsOutputFormat),
			[]string{"Valid formats: default, json"},
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

	names, err := store.Sheets(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sheets: %w", err)
	}

	if sheetsOutputFormat == "json" {
		data, err := json.Marshal(names)
		if err != nil {
			return fmt.Errorf("failed to marshal sheet names: %w", err)
		}
		printer.Println(string(data))
		return nil
	}

	if len(names) == 0 {
		printer.Info("No sheets found for instance '%s'\n", cfg.Instance)
		return nil
	}
	for _, name := range names {
		marker := " "
		if name == cfg.Sheet.Name {
			marker = "*"
		}
		printer.Printf("%s %s\n", marker, name)
	}
	return nil
}
