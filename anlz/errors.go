package anlz

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat indicates bytes that do not form a valid analysis file.
	ErrFormat = errors.New("anlz: invalid format")
	// ErrLengthMismatch indicates an encoded length disagreeing with a declared one.
	ErrLengthMismatch = errors.New("anlz: length mismatch")
	// ErrCountMismatch indicates parallel arrays of different lengths.
	ErrCountMismatch = errors.New("anlz: count mismatch")
	// ErrUnsupportedTag indicates a tag code without a decoder.
	ErrUnsupportedTag = errors.New("anlz: unsupported tag")
)

// FormatError reports where decoding failed.
type FormatError struct {
	Path   string // source file, empty for in-memory buffers
	Offset int    // absolute byte offset
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	msg := fmt.Sprintf("anlz: %s at offset %d", e.Reason, e.Offset)
	if e.Path != "" {
		msg = fmt.Sprintf("anlz: %s: %s at offset %d", e.Path, e.Reason, e.Offset)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrFormat, e.Err}
	}
	return []error{ErrFormat}
}

// LengthMismatchError reports a tag or file whose emitted size differs from
// its declared length.
type LengthMismatchError struct {
	Type     string
	Expected int
	Actual   int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("anlz: %s: declared length %d, encoded %d bytes", e.Type, e.Expected, e.Actual)
}

func (e *LengthMismatchError) Unwrap() error { return ErrLengthMismatch }

// CountMismatchError reports a setter call with inconsistent array sizes.
type CountMismatchError struct {
	Field string
	Want  int
	Got   int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("anlz: %s: want %d entries, got %d", e.Field, e.Want, e.Got)
}

func (e *CountMismatchError) Unwrap() error { return ErrCountMismatch }

// UnsupportedTagError reports an unknown tag met under AbortOnUnknown with Strict set.
type UnsupportedTagError struct {
	Type   string
	Offset int
}

func (e *UnsupportedTagError) Error() string {
	return fmt.Sprintf("anlz: unsupported tag %q at offset %d", e.Type, e.Offset)
}

func (e *UnsupportedTagError) Unwrap() error { return ErrUnsupportedTag }
