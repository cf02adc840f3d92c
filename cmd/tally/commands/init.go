package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/grekz/tally/internal/printer"
	"github.com/grekz/tally/internal/scaffold"
)

var (
	forceInit bool
	initDir   string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new tally project",
	Long: `Initialize a new tally project with default configuration.

Creates:
  • tally.yml - store, sheet and server configuration
  • menu.yml  - sample menu for 'tally menu --file'

Use --force to reinitialize an existing project (WARNING: overwrites existing configuration).`,
	Args: noArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite existing tally.yml and menu.yml")
	initCmd.Flags().StringVar(&initDir, "dir", ".", "Directory to initialize")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	if !forceInit {
		if err := scaffold.CheckExisting(initDir); err != nil {
			explanation := strings.TrimSpace(strings.TrimPrefix(err.Error(), "project already initialized"))
			return printer.Error("project already initialized", explanation, nil)
		}
	}

	if err := scaffold.Initialize(initDir, forceInit, printer.Out()); err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	scaffold.PrintSuccess(printer.Out())
	return nil
}
