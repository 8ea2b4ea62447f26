package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pfrederiksen/procyclingstats/internal/field"
	"github.com/pfrederiksen/procyclingstats/internal/table"
)

// sortRows orders rows by the named field. An empty name leaves the order
// unchanged; rows missing the field or holding nil go last.
func sortRows(rows []*table.Row, name string) error {
	if name == "" || len(rows) == 0 {
		return nil
	}
	if _, ok := rows[0].Get(name); !ok {
		return fmt.Errorf("cannot sort by %q: rows have fields %s", name, strings.Join(rows[0].Keys(), ", "))
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, _ := rows[i].Get(name)
		b, _ := rows[j].Get(name)
		return less(a, b)
	})
	return nil
}

// sortRecordTables sorts every table in rec that has the field. Tables
// without it are left as they are.
func sortRecordTables(rec *field.Record, name string) {
	if name == "" {
		return
	}
	for _, key := range rec.Keys() {
		v, _ := rec.Get(key)
		rows, ok := v.([]*table.Row)
		if !ok {
			continue
		}
		_ = sortRows(rows, name)
	}
}

// less compares two cell values. Numbers compare numerically and before
// strings, strings case-insensitively, nil sorts last.
func less(a, b any) bool {
	if a == nil || b == nil {
		return a != nil
	}
	na, aNum := number(a)
	nb, bNum := number(b)
	switch {
	case aNum && bNum:
		return na < nb
	case aNum != bNum:
		return aNum
	}
	return strings.ToLower(fmt.Sprint(a)) < strings.ToLower(fmt.Sprint(b))
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
