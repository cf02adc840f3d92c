package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/grekz/tally/internal/printer"
	"github.com/grekz/tally/pkg/prefix"
	"github.com/grekz/tally/pkg/seq"
)

var (
	prefixStrategy string
	prefixFloat    bool
	prefixCheck    bool
)

var prefixCmd = &cobra.Command{
	Use:   "prefix [--] N...",
	Short: "Print the running sum of a list of numbers",
	Long: `Print the inclusive prefix sum of the given numbers: element i of the
output is the sum of inputs 0 through i.

Numbers are parsed as 64-bit integers unless --float is given. Put '--'
before the numbers when the first one is negative.

Examples:
  tally prefix 2 4 6 8 10 12 14
  tally prefix --strategy fold -- -3 3 -3 3
  tally prefix --float --check 0.5 1.25 2`,
	RunE: runPrefix,
}

func init() {
	prefixCmd.Flags().StringVar(&prefixStrategy, "strategy", string(prefix.StrategyIterative), "Strategy: iterative or fold")
	prefixCmd.Flags().BoolVar(&prefixFloat, "float", false, "Parse numbers as float64")
	prefixCmd.Flags().BoolVar(&prefixCheck, "check", false, "Run every strategy and fail if they disagree")
	rootCmd.AddCommand(prefixCmd)
}

func runPrefix(cmd *cobra.Command, args []string) error {
	strategy, err := prefix.ParseStrategy(prefixStrategy)
	if err != nil {
		return printer.Error(
			"invalid strategy",
			err.Error(),
			[]string{"Valid strategies: iterative, fold"},
		)
	}

	if prefixFloat {
		xs, err := parseNumbers(args, func(s string) (float64, error) {
			return strconv.ParseFloat(s, 64)
		})
		if err != nil {
			return err
		}
		return printPrefix(strategy, xs)
	}

	xs, err := parseNumbers(args, func(s string) (int64, error) {
		return strconv.ParseInt(s, 10, 64)
	})
	if err != nil {
		return err
	}
	return printPrefix(strategy, xs)
}

func parseNumbers[T seq.Number](args []string, parse func(string) (T, error)) ([]T, error) {
	xs := make([]T, 0, len(args))
	for _, arg := range args {
		x, err := parse(arg)
		if err != nil {
			kind := "an integer"
			if prefixFloat {
				kind = "a number"
			}
			return nil, printer.Error(
				"invalid number",
				fmt.Sprintf("'%s' is not %s", arg, kind),
				[]string{"Use --float for decimal input", "Put '--' before negative numbers:\n  tally prefix -- -3 3"},
			)
		}
		xs = append(xs, x)
	}
	return xs, nil
}

func printPrefix[T seq.Number](strategy prefix.Strategy, xs []T) error {
	if prefixCheck {
		out, idx := prefix.Equivalent(xs)
		if idx >= 0 {
			return printer.ErrorWithContext(
				"strategies disagree",
				fmt.Sprintf("iterative and fold differ at index %d", idx),
				map[string]string{"Input": formatNumbers(xs)},
				nil,
			)
		}
		printer.Println(formatNumbers(out))
		printer.Success("iterative and fold agree on %d values\n", len(xs))
		return nil
	}

	out, err := prefix.Compute(strategy, xs)
	if err != nil {
		return err
	}
	printer.Println(formatNumbers(out))
	return nil
}

// formatNumbers renders xs as a bracketed, comma-separated list.
func formatNumbers[T seq.Number](xs []T) string {
	parts := seq.Map(xs, func(x T, _ int) string { return fmt.Sprint(x) })
	return "[" + strings.Join(parts, ", ") + "]"
}
