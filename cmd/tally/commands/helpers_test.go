package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/grekz/tally/internal/printer"
)

// runCLI executes the root command with args and returns what the printer
// wrote to stdout and stderr. Flags are reset to their defaults first since
// cobra keeps flag values between executions.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return runCLIContext(t, context.Background(), args...)
}

// runCLIContext is runCLI with a caller-controlled context, for commands
// that run until cancelled.
func runCLIContext(t *testing.T, ctx context.Context, args ...string) (string, string, error) {
	t.Helper()

	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	restore := printer.SetOutput(&stdout, &stderr)
	prevNoColor := color.NoColor
	color.NoColor = true
	defer func() {
		restore()
		color.NoColor = prevNoColor
	}()

	rootCmd.SetArgs(args)
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	err := rootCmd.ExecuteContext(ctx)

	return stdout.String(), stderr.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetFlags(child)
	}
}

// writeConfig writes a tally.yml into a temp dir and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tally.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// redisConfig starts miniredis and returns a config path pointing at it.
func redisConfig(t *testing.T) (string, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	t.Setenv("TALLY_REDIS_URL", "")
	t.Setenv("TALLY_INSTANCE_NAME", "")
	path := writeConfig(t, `version: "1.0"
instance: cli-test
store:
  backend: redis
  redis_url: redis://`+mr.Addr()+`/0
sheet:
  name: Sheet1
  headers: [First, Last, Email]
`)
	return path, mr
}

// sqliteConfig returns a config path for a fresh SQLite database.
func sqliteConfig(t *testing.T) string {
	t.Helper()
	t.Setenv("TALLY_REDIS_URL", "")
	t.Setenv("TALLY_INSTANCE_NAME", "")
	dbPath := filepath.Join(t.TempDir(), "tally.db")
	return writeConfig(t, `version: "1.0"
store:
  backend: sqlite
  sqlite_path: `+dbPath+`
sheet:
  name: Sheet1
  headers: [First, Last, Email]
`)
}
