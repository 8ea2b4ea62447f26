// Package filter narrows table rows with simple field conditions.
//
// A condition is written as field=value (case-insensitive substring match),
// field!=value (negated), or field>value / field<value (numeric comparison).
// Several values may be given separated by "|", a row then matches when any
// of them does:
//
//	f, err := filter.Parse([]string{"class=WT|PRT", "season>2019"})
//	rows = f.Apply(rows)
//
// Conditions are combined with AND. An empty filter matches every row.
package filter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pfrederiksen/procyclingstats/internal/table"
)

// Op is a comparison operator
type Op string

const (
	OpContains    Op = "="
	OpNotContains Op = "!="
	OpGreater     Op = ">"
	OpLess        Op = "<"
)

// Condition tests one field of a row
type Condition struct {
	Field  string
	Op     Op
	Values []string
}

// Filter is a conjunction of conditions
type Filter struct {
	Conditions []Condition
}

// IsEmpty reports whether the filter matches every row
func (f *Filter) IsEmpty() bool {
	return f == nil || len(f.Conditions) == 0
}

// Matches checks a row against every condition
func (f *Filter) Matches(row *table.Row) bool {
	if f.IsEmpty() {
		return true
	}
	for _, c := range f.Conditions {
		if !c.Matches(row) {
			return false
		}
	}
	return true
}

// Apply returns the matching rows, keeping their order
func (f *Filter) Apply(rows []*table.Row) []*table.Row {
	if f.IsEmpty() {
		return rows
	}
	kept := make([]*table.Row, 0, len(rows))
	for _, row := range rows {
		if f.Matches(row) {
			kept = append(kept, row)
		}
	}
	return kept
}

// Matches checks one row. Rows without the field, or with a nil value, only
// match negated conditions.
func (c Condition) Matches(row *table.Row) bool {
	v, ok := row.Get(c.Field)
	if !ok || v == nil {
		return c.Op == OpNotContains
	}

	switch c.Op {
	case OpGreater, OpLess:
		n, ok := toFloat(v)
		if !ok {
			return false
		}
		limit, err := strconv.ParseFloat(c.Values[0], 64)
		if err != nil {
			return false
		}
		if c.Op == OpGreater {
			return n > limit
		}
		return n < limit
	}

	text := strings.ToLower(fmt.Sprint(v))
	found := false
	for _, want := range c.Values {
		if strings.Contains(text, strings.ToLower(want)) {
			found = true
			break
		}
	}
	if c.Op == OpNotContains {
		return !found
	}
	return found
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}
