package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/grekz/tally/internal/printer"
)

var (
	version string
	commit  string
	date    string
)

// Global flags
var (
	configPath string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tally",
	Short: "Tally - sheet-backed form collector and sequence toolkit",
	Long: `Tally stores form submissions as rows in a sheet and serves them as JSON.

The sheet lives in Redis (or a local SQLite file). 'tally serve' exposes
GET/POST /exec, and the other commands inspect, append to and watch the
same sheet from the terminal. Tally also ships small demos of its
sequence toolkit: prefix sums and menu filtering.`,
	Version: version,
	// Prevent silent success when unknown flags are passed to root command
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
	FParseErrWhitelist: cobra.FParseErrWhitelist{},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	// Silence Cobra's default error and usage printing
	// We print formatted colored errors directly in the printer package
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

// flagError prints cobra's flag parsing errors, which SilenceErrors would
// otherwise swallow. Inherited by every subcommand.
func flagError(cmd *cobra.Command, err error) error {
	suggestions := []string{fmt.Sprintf("See usage:\n  %s --help", cmd.CommandPath())}
	if cmd.Name() == "prefix" && strings.Contains(err.Error(), "shorthand flag") {
		suggestions = append([]string{"Put '--' before negative numbers:\n  tally prefix -- -3 3"}, suggestions...)
	}
	return printer.Error("invalid flag", err.Error(), suggestions)
}

// noArgs rejects positional arguments with a formatted error.
func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return nil
	}
	return printer.Error(
		"unexpected arguments",
		fmt.Sprintf("%s takes no arguments, got: %s", cmd.CommandPath(), strings.Join(args, " ")),
		[]string{fmt.Sprintf("See usage:\n  %s --help", cmd.CommandPath())},
	)
}

func init() {
	rootCmd.SetFlagErrorFunc(flagError)
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to tally.yml (default: ./tally.yml when present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}
