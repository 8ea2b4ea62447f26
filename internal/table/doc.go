// Package table reads irregular markup tables into row records.
//
// A Parser is built over one table-like Node and a Schema that maps field
// names to extraction rules (cell position, nested selector, attribute and an
// optional value converter). Named fields are parsed in one pass per row.
// Facts hidden in free-text cells are decoded in a second pass by position
// (ParseExtraColumn) and merged back with Extend. Rows that are structurally
// present but semantically empty are dropped with Filter, and helper fields
// are removed uniformly with Prune.
//
// The engine only depends on the Node interface; FromSelection adapts
// goquery selections to it.
package table
