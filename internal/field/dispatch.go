package field

import (
	"errors"
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoDocument is returned when Dispatch is given no page to read
var ErrNoDocument = errors.New("no document to dispatch over")

// Options controls how Dispatch treats ignorable results
type Options struct {
	// Ignore lists the error kinds turned into nil values. A nil slice means
	// ErrUnavailable only; an empty non-nil slice ignores nothing.
	Ignore []error
	// OmitIgnored drops ignored fields instead of setting them to nil
	OmitIgnored bool
}

func (o Options) ignores(err error) bool {
	ignore := o.Ignore
	if ignore == nil {
		ignore = []error{ErrUnavailable}
	}
	for _, kind := range ignore {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

// OperationError wraps the failure that aborted a dispatch
type OperationError struct {
	Name string
	Err  error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("field %s: %v", e.Name, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// Dispatch runs every operation of set over doc in order. Ignorable results
// become nil (or are omitted), any other failure stops the dispatch and no
// record is returned.
func Dispatch(doc *goquery.Document, set *Set, opts Options) (*Record, error) {
	if doc == nil {
		return nil, ErrNoDocument
	}
	record := NewRecord()
	for _, op := range set.ops {
		res := op.Extract(doc)
		if res.Kind() == KindValue {
			record.Set(op.Name, res.Value())
			continue
		}
		if !opts.ignores(res.Err()) {
			return nil, &OperationError{Name: op.Name, Err: res.Err()}
		}
		if !opts.OmitIgnored {
			record.Set(op.Name, nil)
		}
	}
	return record, nil
}
