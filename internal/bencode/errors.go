package bencode

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedTag   = errors.New("bencode: malformed tag")
	ErrInvalidLength  = errors.New("bencode: invalid byte string length")
	ErrInvalidInteger = errors.New("bencode: invalid integer")
	ErrUnterminated   = errors.New("bencode: unterminated list or dictionary")
	ErrDepthExceeded  = errors.New("bencode: maximum nesting depth exceeded")
	ErrIncomplete     = errors.New("bencode: incomplete input")
)

// SyntaxError reports structurally invalid input. Offset is the position in
// the decoded buffer of the offending byte.
type SyntaxError struct {
	Offset int
	Err    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%v at offset %d", e.Err, e.Offset)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// IncompleteError means the buffer is a valid prefix that ends too early.
// Needed is a lower bound on the number of additional bytes required.
type IncompleteError struct {
	Needed int
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("%v: need at least %d more bytes", ErrIncomplete, e.Needed)
}

func (e *IncompleteError) Is(target error) bool {
	return target == ErrIncomplete
}
