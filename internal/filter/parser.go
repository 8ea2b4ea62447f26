package filter

import (
	"fmt"
	"strconv"
	"strings"
)

// operators in match order, two character operators first
var operators = []Op{OpNotContains, OpContains, OpGreater, OpLess}

// Parse builds a filter from condition expressions
func Parse(exprs []string) (*Filter, error) {
	f := &Filter{Conditions: make([]Condition, 0, len(exprs))}
	for _, expr := range exprs {
		c, err := ParseCondition(expr)
		if err != nil {
			return nil, err
		}
		f.Conditions = append(f.Conditions, c)
	}
	return f, nil
}

// ParseCondition parses one field<op>value expression
func ParseCondition(expr string) (Condition, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Condition{}, fmt.Errorf("condition cannot be empty")
	}

	for _, op := range operators {
		i := strings.Index(expr, string(op))
		if i < 0 {
			continue
		}
		field := strings.TrimSpace(expr[:i])
		value := strings.TrimSpace(expr[i+len(op):])
		if field == "" {
			return Condition{}, fmt.Errorf("missing field in condition %q", expr)
		}
		if value == "" {
			return Condition{}, fmt.Errorf("missing value in condition %q", expr)
		}

		c := Condition{Field: field, Op: op}
		if op == OpGreater || op == OpLess {
			if _, err := strconv.ParseFloat(value, 64); err != nil {
				return Condition{}, fmt.Errorf("condition %q needs a number: %w", expr, err)
			}
			c.Values = []string{value}
			return c, nil
		}
		for _, v := range strings.Split(value, "|") {
			if v = strings.TrimSpace(v); v != "" {
				c.Values = append(c.Values, v)
			}
		}
		if len(c.Values) == 0 {
			return Condition{}, fmt.Errorf("missing value in condition %q", expr)
		}
		return c, nil
	}
	return Condition{}, fmt.Errorf("no operator in condition %q (use =, !=, > or <)", expr)
}
