package dataprep

import (
	"errors"
	"fmt"
)

// Sentinel errors for broad classification.
var (
	ErrNotFitted       = errors.New("encoder not fitted")
	ErrMissingColumn   = errors.New("missing column")
	ErrUnseenCategory  = errors.New("unseen category")
	ErrInvalidInteger  = errors.New("value is not an integer")
	ErrInvalidSpec     = errors.New("invalid column spec")
	ErrDuplicateColumn = errors.New("column configured more than once")
)

// ErrorKind is a coarse-grained categorization for encoding errors.
type ErrorKind string

const (
	KindNotFitted      ErrorKind = "not_fitted"
	KindMissingColumn  ErrorKind = "missing_column"
	KindUnseenCategory ErrorKind = "unseen_category"
	KindInvalidInteger ErrorKind = "invalid_integer"
	KindInvalidSpec    ErrorKind = "invalid_spec"
)

// EncodingError wraps an encoding failure with the operation, column and
// offending value.
type EncodingError struct {
	Op     string
	Kind   ErrorKind
	Column string
	Value  string
	Err    error
}

func (e *EncodingError) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Column != "" {
		base += fmt.Sprintf(" (column=%s", e.Column)
		if e.Value != "" {
			base += fmt.Sprintf(" value=%q", e.Value)
		}
		base += ")"
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *EncodingError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsKind reports whether err is an EncodingError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var ee *EncodingError
	if errors.As(err, &ee) {
		return ee.Kind == kind
	}
	return false
}
