package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grekz/tally/internal/library"
	"github.com/grekz/tally/internal/printer"
)

var booksOutputFormat string

var booksCmd = &cobra.Command{
	Use:   "books",
	Short: "List the sample book catalogue",
	Long: `List the sample book catalogue, the same data GET /books returns.

Output Formats:
  default - One line per book
  json    - JSON array of {"id", "name"} objects`,
	Args: noArgs,
	RunE: runBooks,
}

func init() {
	booksCmd.Flags().StringVarP(&booksOutputFormat, "output", "o", "default", "Output format: default or json")
	rootCmd.AddCommand(booksCmd)
}

func runBooks(cmd *cobra.Command, args []string) error {
	books := library.NewResolver().Books()

	switch booksOutputFormat {
	case "default":
		for _, b := range books {
			printer.Printf("%s  %s\n", b.ID, b.Name)
		}
		return nil
	case "json":
		data, err := json.MarshalIndent(books, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal books: %w", err)
		}
		printer.Println(string(data))
		return nil
	default:
		return printer.Error(
			"invalid output format",
			fmt.Sprintf("Unknown format: %s", booksOutputFormat),
			[]string{"Valid formats: default, json"},
		)
	}
}
