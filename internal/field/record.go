package field

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Record is the ordered output of a dispatch: operation name to value
type Record struct {
	fields *orderedmap.OrderedMap[string, any]
}

// NewRecord returns an empty record
func NewRecord() *Record {
	return &Record{fields: orderedmap.New[string, any]()}
}

// Set adds or replaces a value
func (r *Record) Set(name string, value any) {
	r.fields.Set(name, value)
}

// Get returns a value and whether it is present
func (r *Record) Get(name string) (any, bool) {
	return r.fields.Get(name)
}

// Keys returns names in dispatch order
func (r *Record) Keys() []string {
	keys := make([]string, 0, r.fields.Len())
	for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Len returns the number of fields
func (r *Record) Len() int {
	return r.fields.Len()
}

func (r *Record) MarshalJSON() ([]byte, error) {
	return r.fields.MarshalJSON()
}

func (r *Record) UnmarshalJSON(data []byte) error {
	if r.fields == nil {
		r.fields = orderedmap.New[string, any]()
	}
	return r.fields.UnmarshalJSON(data)
}
