// Package rider extracts rider profiles from procyclingstats rider pages.
//
// Every profile field is a method returning field.ErrUnavailable when the
// page's layout does not carry it. Parse runs all of them through the field
// dispatcher and returns the ordered record.
package rider
