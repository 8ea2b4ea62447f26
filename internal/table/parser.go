package table

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrSchema is matched by every error caused by a mismatch between the
// caller's request and the table's shape or field rules.
var ErrSchema = errors.New("table schema")

// ErrShapeMismatch is returned by Extend when the number of values differs
// from the number of rows.
var ErrShapeMismatch = fmt.Errorf("%w: shape mismatch", ErrSchema)

// UnknownFieldError is returned when a field has no extraction rule
type UnknownFieldError struct {
	Name string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown table field: %q", e.Name)
}

// Is makes UnknownFieldError match ErrSchema
func (e *UnknownFieldError) Is(target error) bool {
	return target == ErrSchema
}

// Rule locates a field's value inside a row.
//
// The cell at position Cell (negative values count from the row's end) is
// taken unless InRow is set, in which case the whole row is the starting
// point. Selector then narrows to a descendant. The value is the node's text,
// or the named attribute when Attr is set, passed through Convert if present.
type Rule struct {
	Cell     int
	InRow    bool
	Selector string
	Attr     string
	Convert  func(string) any
}

// Schema maps field names to their rules
type Schema map[string]Rule

// Transform decodes the text of an extra column. It must return a default
// value for text it does not recognize, including the empty string.
type Transform func(text string) any

// Parser extracts rows from one table node
type Parser struct {
	schema Schema
	nodes  []Node
	rows   []*Row
}

// NewParser prepares one empty row per row node. A nil node is an empty table.
func NewParser(node Node, schema Schema) *Parser {
	p := &Parser{schema: schema}
	if node != nil {
		p.nodes = node.Rows()
	}
	p.rows = make([]*Row, len(p.nodes))
	for i := range p.rows {
		p.rows[i] = NewRow()
	}
	return p
}

// Rows returns the current rows
func (p *Parser) Rows() []*Row {
	return p.rows
}

// Len returns the current row count
func (p *Parser) Len() int {
	return len(p.rows)
}

// ParseFields sets each named field on every row. Cells missing from a row
// produce nil values. Unknown names are rejected before any row is touched.
func (p *Parser) ParseFields(names ...string) error {
	rules := make([]Rule, len(names))
	for i, name := range names {
		rule, ok := p.schema[name]
		if !ok {
			return &UnknownFieldError{Name: name}
		}
		rules[i] = rule
	}

	for i, node := range p.nodes {
		for j, name := range names {
			p.rows[i].Set(name, rules[j].value(node))
		}
	}
	return nil
}

// ParseExtraColumn reads the cell at index in every row and decodes it with
// transform. Rows too short for index contribute transform(""). The result is
// aligned with Rows but not merged into them.
func (p *Parser) ParseExtraColumn(index int, transform Transform) []any {
	values := make([]any, len(p.nodes))
	for i, node := range p.nodes {
		text := ""
		if cell, ok := cellAt(node, index); ok {
			text = cell.Text()
		}
		values[i] = transform(text)
	}
	return values
}

// Extend adds field name to every row from the index-aligned values
func (p *Parser) Extend(name string, values []any) error {
	if len(values) != len(p.rows) {
		return fmt.Errorf("%w: %d values for %d rows in field %q", ErrShapeMismatch, len(values), len(p.rows), name)
	}
	for i, row := range p.rows {
		row.Set(name, values[i])
	}
	return nil
}

// Filter keeps the rows for which keep returns true
func (p *Parser) Filter(keep func(*Row) bool) {
	nodes := p.nodes[:0]
	rows := p.rows[:0]
	for i, row := range p.rows {
		if keep(row) {
			nodes = append(nodes, p.nodes[i])
			rows = append(rows, row)
		}
	}
	p.nodes = nodes
	p.rows = rows
}

// Prune removes the named fields from every row
func (p *Parser) Prune(names ...string) {
	for _, row := range p.rows {
		for _, name := range names {
			row.Delete(name)
		}
	}
}

// NotNil is a Filter predicate keeping rows whose field is present and non-nil
func NotNil(field string) func(*Row) bool {
	return func(r *Row) bool {
		v, ok := r.Get(field)
		return ok && v != nil
	}
}

// SelectFields resolves a caller's field request against the fields a table
// offers. An empty request selects every available field.
func SelectFields(requested, available []string) ([]string, error) {
	if len(requested) == 0 {
		return append([]string(nil), available...), nil
	}
	known := make(map[string]bool, len(available))
	for _, f := range available {
		known[f] = true
	}
	for _, f := range requested {
		if !known[f] {
			return nil, &UnknownFieldError{Name: f}
		}
	}
	return requested, nil
}

// Contains reports whether name is among fields
func Contains(fields []string, name string) bool {
	for _, f := range fields {
		if f == name {
			return true
		}
	}
	return false
}

// Int converts cell text such as "1,234" to an int, or nil when it is not a number
func Int(text string) any {
	n, err := strconv.Atoi(strings.ReplaceAll(text, ",", ""))
	if err != nil {
		return nil
	}
	return n
}

// Float converts cell text to a float64, or nil when it is not a number
func Float(text string) any {
	f, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", ""), 64)
	if err != nil {
		return nil
	}
	return f
}

func (r Rule) value(row Node) any {
	target := row
	if !r.InRow {
		cell, ok := cellAt(row, r.Cell)
		if !ok {
			return nil
		}
		target = cell
	}
	if r.Selector != "" {
		target = target.Find(r.Selector)
		if target == nil {
			return nil
		}
	}

	var raw string
	if r.Attr != "" {
		v, ok := target.Attr(r.Attr)
		if !ok {
			return nil
		}
		raw = v
	} else {
		raw = target.Text()
	}

	if r.Convert != nil {
		return r.Convert(raw)
	}
	return raw
}

func cellAt(row Node, index int) (Node, bool) {
	cells := row.Cells()
	if index < 0 {
		index += len(cells)
	}
	if index < 0 || index >= len(cells) {
		return nil, false
	}
	return cells[index], true
}
