package buf

import (
	"errors"
	"fmt"
	"math"
)

// ErrOutOfRange is wrapped by every bounds failure reported from this package.
var ErrOutOfRange = errors.New("buf: out of range")

// RangeError describes an access of N bytes at Off into a buffer of length Len.
type RangeError struct {
	Off int
	N   int
	Len int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("buf: access [%d, +%d) outside buffer of %d bytes", e.Off, e.N, e.Len)
}

func (e *RangeError) Unwrap() error { return ErrOutOfRange }

// AddOverflowSafe adds a and b, returning ok = false when the result would overflow int.
func AddOverflowSafe(a, b int) (int, bool) {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return 0, false
	case b < 0 && a < math.MinInt-b:
		return 0, false
	default:
		return a + b, true
	}
}

// MulOverflowSafe multiplies two non-negative sizes, returning ok = false on
// overflow or when either operand is negative.
func MulOverflowSafe(a, b int) (int, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > math.MaxInt/b {
		return 0, false
	}
	return a * b, true
}

// CheckListBounds validates that count elements of elementSize bytes fit in a
// buffer of bufLen bytes starting at offset, and returns the end offset.
//
//	end, err := buf.CheckListBounds(len(tag), 24, int(count), 8)
//	if err != nil {
//	    return nil, fmt.Errorf("PQTZ entries: %w", err)
//	}
func CheckListBounds(bufLen, offset, count, elementSize int) (int, error) {
	if offset < 0 || count < 0 || elementSize < 0 {
		return 0, &RangeError{Off: offset, N: count * elementSize, Len: bufLen}
	}
	total, ok := MulOverflowSafe(count, elementSize)
	if !ok {
		return 0, fmt.Errorf("overflow: count=%d * elemSize=%d: %w", count, elementSize, ErrOutOfRange)
	}
	end, ok := AddOverflowSafe(offset, total)
	if !ok || end > bufLen {
		return 0, &RangeError{Off: offset, N: total, Len: bufLen}
	}
	return end, nil
}

// Slice returns the sub-slice [off:off+n] if it fits within len(b).
func Slice(b []byte, off, n int) ([]byte, bool) {
	if off < 0 || n < 0 || off > len(b) {
		return nil, false
	}
	end, ok := AddOverflowSafe(off, n)
	if !ok || end > len(b) {
		return nil, false
	}
	return b[off:end], true
}

// Has reports whether b[off:off+n] is within bounds.
func Has(b []byte, off, n int) bool {
	_, ok := Slice(b, off, n)
	return ok
}

// Align rounds n up to the next multiple of a. a must be a power of two.
func Align(n, a int) int {
	return (n + a - 1) &^ (a - 1)
}
