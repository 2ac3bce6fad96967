package metainfo

import (
	"errors"
	"fmt"

	"github.com/WendelHime/metainfo/internal/bencode"
)

var (
	ErrNotADictionary    = errors.New("metainfo: top-level value is not a dictionary")
	ErrMissingField      = errors.New("metainfo: missing field")
	ErrWrongType         = errors.New("metainfo: wrong type for field")
	ErrInvalidText       = errors.New("metainfo: field is not valid UTF-8")
	ErrInvalidValue      = errors.New("metainfo: invalid value for field")
	ErrConflictingLayout = errors.New("metainfo: info has both length and files")
	ErrMissingLayout     = errors.New("metainfo: info has neither length nor files")
)

// FieldError describes why a single field was rejected. Field is a dotted
// path such as "info.files[1].path[0]".
type FieldError struct {
	Field    string
	Expected bencode.Kind
	Actual   bencode.Kind
	Reason   string
	Err      error
}

func (e *FieldError) Error() string {
	msg := fmt.Sprintf("%v %q", e.Err, e.Field)
	if e.Expected != 0 {
		msg += fmt.Sprintf(": expected %s, got %s", e.Expected, e.Actual)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func missing(field string) error {
	return &FieldError{Field: field, Err: ErrMissingField}
}

func wrongType(field string, expected bencode.Kind, actual bencode.Value) error {
	e := &FieldError{Field: field, Expected: expected, Err: ErrWrongType}
	if actual != nil {
		e.Actual = actual.Kind()
	}
	return e
}

func invalidText(field string) error {
	return &FieldError{Field: field, Err: ErrInvalidText}
}

func invalidValue(field, reason string) error {
	return &FieldError{Field: field, Reason: reason, Err: ErrInvalidValue}
}
