// Package filter selects sheet rows by column glob patterns.
package filter

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/grekz/tally/pkg/seq"
	"github.com/grekz/tally/pkg/sheet"
)

// Criteria defines filtering criteria for rows.
// All conditions are ANDed together - a row must match ALL of them to pass.
type Criteria struct {
	conds []condition
}

type condition struct {
	column  int
	header  string
	pattern string
}

// Parse builds criteria from Column=glob expressions resolved against
// headers. A blank cell is matched as the empty string, so "Email=" selects
// rows without an email.
func Parse(headers []string, exprs []string) (*Criteria, error) {
	c := &Criteria{}
	for _, expr := range exprs {
		name, pattern, ok := strings.Cut(expr, "=")
		if !ok {
			return nil, fmt.Errorf("filter %q is not in Column=pattern form", expr)
		}

		column := -1
		for i, h := range headers {
			if h == name {
				column = i
				break
			}
		}
		if column < 0 {
			return nil, fmt.Errorf("unknown column %q (headers: %s)", name, strings.Join(headers, ", "))
		}

		// Reject malformed patterns up front; Match only reports them lazily.
		if _, err := filepath.Match(pattern, ""); err != nil {
			return nil, fmt.Errorf("invalid pattern %q for column %s: %w", pattern, name, err)
		}

		c.conds = append(c.conds, condition{column: column, header: name, pattern: pattern})
	}
	return c, nil
}

// Matches returns true if the row matches all filter criteria.
func (c *Criteria) Matches(row sheet.Row) bool {
	for _, cond := range c.conds {
		cell := ""
		if cond.column < len(row) {
			cell = strings.TrimSpace(row[cond.column])
		}
		matched, err := filepath.Match(cond.pattern, cell)
		if err != nil || !matched {
			return false
		}
	}
	return true
}

// HasFilters returns true if any filters are active.
func (c *Criteria) HasFilters() bool {
	return len(c.conds) > 0
}

// Apply returns the rows that match, in order.
func (c *Criteria) Apply(rows []sheet.Row) []sheet.Row {
	if !c.HasFilters() {
		return rows
	}
	return seq.Filter(rows, func(row sheet.Row, _ int) bool { return c.Matches(row) })
}

// String describes the criteria, e.g. "First=A* AND Email=".
func (c *Criteria) String() string {
	parts := seq.Map(c.conds, func(cond condition, _ int) string {
		return cond.header + "=" + cond.pattern
	})
	return strings.Join(parts, " AND ")
}
