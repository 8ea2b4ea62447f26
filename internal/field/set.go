package field

import (
	"fmt"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// reserved names belong to the record lifecycle, not to extraction
var reserved = map[string]bool{
	"update": true,
	"parse":  true,
}

// Extractor reads one value from a parsed page
type Extractor func(doc *goquery.Document) Result

// Operation is a named extractor
type Operation struct {
	Name    string
	Extract Extractor
}

// Op adapts a typed extraction function
func Op[T any](name string, fn func(*goquery.Document) (T, error)) Operation {
	return Operation{
		Name: name,
		Extract: func(doc *goquery.Document) Result {
			v, err := fn(doc)
			return From(v, err)
		},
	}
}

// Set is the declared, immutable list of a variant's operations, ordered by name
type Set struct {
	ops []Operation
}

// NewSet validates and orders operations
func NewSet(ops ...Operation) (*Set, error) {
	seen := make(map[string]bool, len(ops))
	sorted := make([]Operation, 0, len(ops))
	for _, op := range ops {
		switch {
		case op.Name == "":
			return nil, fmt.Errorf("operation without a name")
		case reserved[op.Name]:
			return nil, fmt.Errorf("operation name %q is reserved", op.Name)
		case seen[op.Name]:
			return nil, fmt.Errorf("duplicate operation %q", op.Name)
		case op.Extract == nil:
			return nil, fmt.Errorf("operation %q has no extractor", op.Name)
		}
		seen[op.Name] = true
		sorted = append(sorted, op)
	}
	slices.SortFunc(sorted, func(a, b Operation) int {
		return strings.Compare(a.Name, b.Name)
	})
	return &Set{ops: sorted}, nil
}

// MustSet is like NewSet but panics on an invalid declaration
func MustSet(ops ...Operation) *Set {
	s, err := NewSet(ops...)
	if err != nil {
		panic(err)
	}
	return s
}

// Names returns operation names in dispatch order
func (s *Set) Names() []string {
	names := make([]string, len(s.ops))
	for i, op := range s.ops {
		names[i] = op.Name
	}
	return names
}

// Lookup finds an operation by name
func (s *Set) Lookup(name string) (Operation, bool) {
	for _, op := range s.ops {
		if op.Name == name {
			return op, true
		}
	}
	return Operation{}, false
}

// Len returns the number of operations
func (s *Set) Len() int {
	return len(s.ops)
}
