package table

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Row is one parsed table row: an insertion-ordered mapping from field name
// to a scalar value (string, int, float64 or nil).
type Row struct {
	fields *orderedmap.OrderedMap[string, any]
}

// NewRow returns an empty row
func NewRow() *Row {
	return &Row{fields: orderedmap.New[string, any]()}
}

// Get returns the value of a field and whether the field is present
func (r *Row) Get(name string) (any, bool) {
	return r.fields.Get(name)
}

// Set adds or replaces a field. Replaced fields keep their position.
func (r *Row) Set(name string, value any) {
	r.fields.Set(name, value)
}

// Delete removes a field, keeping the order of the remaining ones
func (r *Row) Delete(name string) {
	r.fields.Delete(name)
}

// Len returns the number of fields
func (r *Row) Len() int {
	return r.fields.Len()
}

// Keys returns field names in order
func (r *Row) Keys() []string {
	keys := make([]string, 0, r.fields.Len())
	for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Map returns an unordered copy of the row
func (r *Row) Map() map[string]any {
	m := make(map[string]any, r.fields.Len())
	for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
		m[pair.Key] = pair.Value
	}
	return m
}

// MarshalJSON encodes the row as a JSON object with keys in field order
func (r *Row) MarshalJSON() ([]byte, error) {
	return r.fields.MarshalJSON()
}

// UnmarshalJSON decodes a JSON object, preserving key order
func (r *Row) UnmarshalJSON(data []byte) error {
	if r.fields == nil {
		r.fields = orderedmap.New[string, any]()
	}
	return r.fields.UnmarshalJSON(data)
}
