package settings

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat indicates bytes that do not form a settings file.
	ErrFormat = errors.New("settings: invalid format")
	// ErrChecksum indicates a stored checksum that does not match the contents.
	ErrChecksum = errors.New("settings: checksum mismatch")
	// ErrUnknownField indicates a field name the file kind does not define.
	ErrUnknownField = errors.New("settings: unknown field")
	// ErrInvalidValue indicates a byte or value name outside a field's enumeration.
	ErrInvalidValue = errors.New("settings: invalid value")
)

// FormatError reports where decoding failed.
type FormatError struct {
	Path   string
	Offset int
	Reason string
}

func (e *FormatError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("settings: %s: %s at offset %d", e.Path, e.Reason, e.Offset)
	}
	return fmt.Sprintf("settings: %s at offset %d", e.Reason, e.Offset)
}

func (e *FormatError) Unwrap() error { return ErrFormat }

// ChecksumError reports the stored and computed checksums.
type ChecksumError struct {
	Stored   uint16
	Computed uint16
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("settings: checksum 0x%04x, contents give 0x%04x", e.Stored, e.Computed)
}

func (e *ChecksumError) Unwrap() error { return ErrChecksum }
