package pdb

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat indicates bytes that do not form a valid database.
	ErrFormat = errors.New("pdb: invalid format")
	// ErrTruncated indicates a read past the end of a buffer.
	ErrTruncated = errors.New("pdb: truncated")
	// ErrUnknownString indicates a string whose leading byte is not a known form.
	ErrUnknownString = errors.New("pdb: unknown string encoding")
	// ErrRowTooLarge indicates a row that cannot fit on an empty page.
	ErrRowTooLarge = errors.New("pdb: row larger than a page")
	// ErrLengthMismatch indicates an encoded size disagreeing with a declared one.
	ErrLengthMismatch = errors.New("pdb: length mismatch")
)

// FormatError reports where decoding failed.
type FormatError struct {
	Path   string // source file, empty for in-memory buffers
	Page   int    // page index, -1 for the file header
	Offset int    // absolute byte offset
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	var msg string
	switch {
	case e.Page < 0:
		msg = fmt.Sprintf("%s at offset %d", e.Reason, e.Offset)
	default:
		msg = fmt.Sprintf("page %d: %s at offset %d", e.Page, e.Reason, e.Offset)
	}
	if e.Path != "" {
		msg = e.Path + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return "pdb: " + msg
}

func (e *FormatError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrFormat, e.Err}
	}
	return []error{ErrFormat}
}

// LengthMismatchError reports a page or file whose emitted size differs from
// the size it was declared with.
type LengthMismatchError struct {
	What     string
	Expected int
	Actual   int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("pdb: %s: expected %d bytes, encoded %d", e.What, e.Expected, e.Actual)
}

func (e *LengthMismatchError) Unwrap() error { return ErrLengthMismatch }
