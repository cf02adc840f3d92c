package commands

import (
	"github.com/spf13/cobra"

	"github.com/grekz/tally/internal/menu"
	"github.com/grekz/tally/internal/printer"
)

var (
	menuCheaper  int
	menuSpicy    bool
	menuInflate  int
	menuSpanisho bool
	menuFile     string
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Filter, map and total a menu",
	Long: `Print a menu after applying filters and transforms, followed by its total.

Filters run before transforms, in flag order: --cheaper, --spicy, then
--inflate and --spanisho. Without --file the built-in taco menu is used.

Examples:
  tally menu --cheaper 6
  tally menu --spicy --spanisho
  tally menu --file menu.yml --inflate 1`,
	Args: noArgs,
	RunE: runMenu,
}

func init() {
	menuCmd.Flags().IntVar(&menuCheaper, "cheaper", 0, "Keep items priced below N")
	menuCmd.Flags().BoolVar(&menuSpicy, "spicy", false, "Keep spicy items only")
	menuCmd.Flags().IntVar(&menuInflate, "inflate", 0, "Add N to every price")
	menuCmd.Flags().BoolVar(&menuSpanisho, "spanisho", false, "Append 'o' to every name")
	menuCmd.Flags().StringVar(&menuFile, "file", "", "Load items from a YAML menu file")
	rootCmd.AddCommand(menuCmd)
}

func runMenu(cmd *cobra.Command, args []string) error {
	items := menu.Tacos()
	if menuFile != "" {
		loaded, err := menu.Load(menuFile)
		if err != nil {
			return printer.ErrorWithContext(
				"invalid menu file",
				err.Error(),
				map[string]string{"File": menuFile},
				[]string{"Generate a sample menu:\n  tally init"},
			)
		}
		items = loaded
	}

	if cmd.Flags().Changed("cheaper") {
		items = menu.Cheaper(items, menuCheaper)
	}
	if menuSpicy {
		items = menu.Spicy(items)
	}
	if menuInflate != 0 {
		items = menu.Inflate(items, menuInflate)
	}
	if menuSpanisho {
		items = menu.Spanisho(items)
	}

	if len(items) == 0 {
		printer.Warning("No items match\n")
		return nil
	}

	for _, it := range items {
		spicy := ""
		if it.Spicy {
			spicy = " 🌶"
		}
		printer.Printf("  %-12s %4d%s\n", it.Name, it.Price, spicy)
	}
	printer.Printf("\nTotal: %d\n", menu.TotalPrice(items))
	return nil
}
