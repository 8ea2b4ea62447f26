package table

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/unicode/norm"
)

// Node is the minimal tree interface the parser needs
type Node interface {
	// Rows returns the row-like children of a table node
	Rows() []Node
	// Cells returns the cell-like children of a row node
	Cells() []Node
	// Find returns the first descendant matching selector, or nil
	Find(selector string) Node
	// Text returns the normalized text content
	Text() string
	// Attr returns the value of the named attribute
	Attr(name string) (string, bool)
}

// CleanText applies NFKC normalization (turning non-breaking spaces into plain
// spaces) and collapses runs of whitespace.
func CleanText(s string) string {
	return strings.Join(strings.Fields(norm.NFKC.String(s)), " ")
}

type selectionNode struct {
	sel *goquery.Selection
}

// FromSelection adapts the first node of sel. It returns nil for an empty
// selection so that a missing table parses to zero rows.
func FromSelection(sel *goquery.Selection) Node {
	if sel == nil || sel.Length() == 0 {
		return nil
	}
	return selectionNode{sel: sel.First()}
}

// Rows of a <table> are its <tr> elements carrying at least one <td>, which
// skips header rows. Rows of any other container are its element children.
func (n selectionNode) Rows() []Node {
	var rows *goquery.Selection
	if goquery.NodeName(n.sel) == "table" {
		rows = n.sel.Find("tr").FilterFunction(func(_ int, s *goquery.Selection) bool {
			return s.ChildrenFiltered("td").Length() > 0
		})
	} else {
		rows = n.sel.Children()
	}
	return wrap(rows)
}

func (n selectionNode) Cells() []Node {
	if goquery.NodeName(n.sel) == "tr" {
		return wrap(n.sel.ChildrenFiltered("td, th"))
	}
	return wrap(n.sel.Children())
}

func (n selectionNode) Find(selector string) Node {
	return FromSelection(n.sel.Find(selector))
}

func (n selectionNode) Text() string {
	return CleanText(n.sel.Text())
}

func (n selectionNode) Attr(name string) (string, bool) {
	return n.sel.Attr(name)
}

func wrap(sel *goquery.Selection) []Node {
	nodes := make([]Node, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, selectionNode{sel: s})
	})
	return nodes
}
