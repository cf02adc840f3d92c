// Package menu holds the item records used by the collection demos:
// filtering, mapping and reducing a small priced menu.
package menu

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/grekz/tally/pkg/seq"
)

// Item is one priced menu entry.
type Item struct {
	Name  string `yaml:"name" json:"name"`
	Price int    `yaml:"price" json:"price"`
	Spicy bool   `yaml:"spicy" json:"spicy"`
}

// File is the on-disk menu format.
type File struct {
	Items []Item `yaml:"items"`
}

// DemoAmounts are the loose amounts summed by the reduce demo.
var DemoAmounts = []int{12, 9, 4, 0, 11}

// Tacos returns the demo menu. Each call returns a fresh slice.
func Tacos() []Item {
	return []Item{
		{Name: "Cheese", Price: 4, Spicy: true},
		{Name: "Pastor", Price: 5, Spicy: true},
		{Name: "Beef", Price: 7, Spicy: false},
		{Name: "Fish", Price: 9, Spicy: false},
	}
}

// Cheaper returns the items priced strictly below limit.
func Cheaper(items []Item, limit int) []Item {
	return seq.Filter(items, func(it Item, _ int) bool { return it.Price < limit })
}

// Spicy returns the spicy items.
func Spicy(items []Item) []Item {
	return seq.Filter(items, func(it Item, _ int) bool { return it.Spicy })
}

// Inflate returns copies of items with delta added to every price.
func Inflate(items []Item, delta int) []Item {
	return seq.Map(items, func(it Item, _ int) Item {
		it.Price += delta
		return it
	})
}

// Spanisho returns copies of items with an "o" appended to every name.
func Spanisho(items []Item) []Item {
	return seq.Map(items, func(it Item, _ int) Item {
		it.Name += "o"
		return it
	})
}

// Names returns the item names in order.
func Names(items []Item) []string {
	return seq.Map(items, func(it Item, _ int) string { return it.Name })
}

// TotalPrice is the price of ordering one of each item.
func TotalPrice(items []Item) int {
	return seq.Reduce(items, 0, func(sum int, it Item, _ int) int { return sum + it.Price })
}

// SumAmounts adds up amounts.
func SumAmounts(amounts []int) int {
	return seq.Sum(amounts)
}

// Validate checks that every item has a name and a non-negative price.
func Validate(items []Item) error {
	for i, it := range items {
		if it.Name == "" {
			return fmt.Errorf("item %d: name is required", i+1)
		}
		if it.Price < 0 {
			return fmt.Errorf("item '%s': price must be >= 0, got %d", it.Name, it.Price)
		}
	}
	return nil
}

// Load reads a menu file.
func Load(path string) ([]Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read menu: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(f.Items) == 0 {
		return nil, fmt.Errorf("menu %s has no items", path)
	}
	if err := Validate(f.Items); err != nil {
		return nil, fmt.Errorf("invalid menu: %w", err)
	}

	return f.Items, nil
}
