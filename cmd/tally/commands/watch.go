package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/grekz/tally/internal/config"
	"github.com/grekz/tally/internal/filter"
	"github.com/grekz/tally/internal/printer"
	"github.com/grekz/tally/internal/watch"
	"github.com/grekz/tally/pkg/sheet"
)

var (
	watchSheet        string
	watchOutputFormat string
	watchWhere        []string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream rows as they are appended",
	Long: `Stream row-append events for a sheet until interrupted.

Requires the Redis backend; events are published on every append made by
'tally serve' or 'tally append'.

Output Formats:
  default - One line per row: time, sheet, row number and values
  json    - One RowEvent JSON object per line`,
	Args: noArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchSheet, "sheet", "s", "", "Sheet name (default: sheet.name from config)")
	watchCmd.Flags().StringVarP(&watchOutputFormat, "output", "o", "default", "Output format: default or json")
	watchCmd.Flags().StringArrayVarP(&watchWhere, "where", "w", nil, "Only show rows matching Column=pattern (repeatable)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	var format watch.OutputFormat
	switch watchOutputFormat {
	case "default":
		format = watch.OutputFormatDefault
	case "json":
		format = watch.OutputFormatJSON
	default:
		return printer.Error(
			"invalid output format",
			fmt.Sprintf("Unknown format: %s", watchOutputFormat),
			[]string{"Valid formats: default, json"},
		)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Store.Backend != config.BackendRedis {
		return printer.ErrorWithContext(
			"watch requires the Redis backend",
			"Row events are only published by the Redis store.",
			map[string]string{"Backend": cfg.Store.Backend},
			[]string{"Set store.backend: redis in tally.yml"},
		)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := openRedis(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	name := sheetNameOr(watchSheet, cfg)
	headers, err := client.Headers(ctx, name)
	if err != nil {
		if sheet.IsNotFound(err) {
			return sheetNotFound(name, cfg)
		}
		return fmt.Errorf("failed to read headers: %w", err)
	}

	criteria, err := filter.Parse(headers, watchWhere)
	if err != nil {
		return printer.Error("invalid filter", err.Error(), nil)
	}

	sub, err := client.SubscribeRowEvents(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to subscribe to row events: %w", err)
	}
	defer sub.Close()

	var match func(sheet.Row) bool
	if criteria.HasFilters() {
		match = criteria.Matches
	}

	if format == watch.OutputFormatDefault {
		if criteria.HasFilters() {
			printer.Step("Watching sheet '%s' on instance '%s' where %s (Ctrl+C to stop)...\n", name, client.InstanceName(), criteria)
		} else {
			printer.Step("Watching sheet '%s' on instance '%s' (Ctrl+C to stop)...\n", name, client.InstanceName())
		}
	}

	return watch.StreamRows(ctx, sub, format, match, printer.Out())
}
