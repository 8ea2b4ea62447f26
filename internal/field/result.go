package field

import (
	"errors"
	"fmt"
)

// ErrUnavailable marks a field that the page's layout legitimately does not carry
var ErrUnavailable = errors.New("field unavailable")

// Unavailablef returns an error wrapping ErrUnavailable
func Unavailablef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnavailable, fmt.Sprintf(format, args...))
}

// Kind tags a Result
type Kind int

const (
	KindValue Kind = iota
	KindUnavailable
	KindFailure
)

func (k Kind) String() string {
	switch k {
	case KindValue:
		return "value"
	case KindUnavailable:
		return "unavailable"
	case KindFailure:
		return "failure"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Result is the outcome of one extraction operation
type Result struct {
	kind  Kind
	value any
	err   error
}

// Value wraps an extracted value
func Value(v any) Result {
	return Result{kind: KindValue, value: v}
}

// Unavailable reports a field missing from the page layout. A nil err is
// replaced by ErrUnavailable.
func Unavailable(err error) Result {
	if err == nil {
		err = ErrUnavailable
	}
	return Result{kind: KindUnavailable, err: err}
}

// Failure reports an unexpected error
func Failure(err error) Result {
	return Result{kind: KindFailure, err: err}
}

// From classifies the return values of an extraction method
func From(v any, err error) Result {
	switch {
	case err == nil:
		return Value(v)
	case errors.Is(err, ErrUnavailable):
		return Unavailable(err)
	default:
		return Failure(err)
	}
}

// Kind reports which variant the result holds
func (r Result) Kind() Kind {
	return r.kind
}

// Value is the extracted value of a KindValue result
func (r Result) Value() any {
	return r.value
}

// Err is the error of an unavailable or failed result
func (r Result) Err() error {
	return r.err
}
