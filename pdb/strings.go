package pdb

import (
	"fmt"

	"github.com/joshuapare/pioneerkit/internal/buf"
	"github.com/joshuapare/pioneerkit/internal/textenc"
)

// Leading bytes of the two long string forms. Any odd leading byte is a
// short string whose length is (b>>1)-1.
const (
	stringLongASCII = 0x40
	stringLongUTF16 = 0x90

	// shortStringMax is the longest ASCII string written in short form.
	shortStringMax = 125
	longHeaderLen  = 4
)

// EncodeString returns the on-disk form of s:
//
//	short  1 byte (2n+3), n ASCII bytes          ASCII, n <= 125
//	long   0x40, u16 n+4, pad, n ASCII bytes     ASCII, n > 125
//	wide   0x90, u16 2u+4, pad, u UTF-16LE units any non-ASCII rune
func EncodeString(s string) ([]byte, error) {
	if !textenc.IsASCII(s) {
		units, err := textenc.EncodeUTF16LE(s)
		if err != nil {
			return nil, fmt.Errorf("pdb: encode string: %w", err)
		}
		return longString(stringLongUTF16, units)
	}
	if len(s) <= shortStringMax {
		out := make([]byte, 1+len(s))
		out[0] = byte(2*len(s) + 3)
		copy(out[1:], s)
		return out, nil
	}
	return longString(stringLongASCII, []byte(s))
}

func longString(marker byte, body []byte) ([]byte, error) {
	n := len(body) + longHeaderLen
	if n > 0xFFFF {
		return nil, fmt.Errorf("pdb: string of %d bytes exceeds the 16-bit length", len(body))
	}
	out := make([]byte, n)
	out[0] = marker
	out[1] = byte(n)
	out[2] = byte(n >> 8)
	copy(out[longHeaderLen:], body)
	return out, nil
}

// DecodeString decodes the string at b[off:] and returns it with the number
// of bytes it occupies.
func DecodeString(b []byte, off int) (string, int, error) {
	if off < 0 || off >= len(b) {
		return "", 0, fmt.Errorf("string at %d of %d bytes: %w", off, len(b), ErrTruncated)
	}
	switch m := b[off]; {
	case m == stringLongASCII || m == stringLongUTF16:
		if !buf.Has(b, off, longHeaderLen) {
			return "", 0, fmt.Errorf("string header at %d: %w", off, ErrTruncated)
		}
		n := int(buf.U16LE(b[off+1:]))
		if n < longHeaderLen || !buf.Has(b, off, n) {
			return "", 0, fmt.Errorf("string at %d declares %d bytes with %d left: %w", off, n, len(b)-off, ErrTruncated)
		}
		body := b[off+longHeaderLen : off+n]
		if m == stringLongASCII {
			return textenc.DecodeLatin1(body), n, nil
		}
		s, err := textenc.DecodeUTF16LE(body)
		if err != nil {
			return "", 0, fmt.Errorf("string at %d: %w", off, err)
		}
		return s, n, nil
	case m&1 == 1:
		n := int(m>>1) - 1
		if n < 0 || !buf.Has(b, off+1, n) {
			return "", 0, fmt.Errorf("short string at %d: %w", off, ErrTruncated)
		}
		return textenc.DecodeLatin1(b[off+1 : off+1+n]), 1 + n, nil
	default:
		return "", 0, fmt.Errorf("leading byte 0x%02x at %d: %w", m, off, ErrUnknownString)
	}
}

// putString appends the encoded s to a and returns its offset.
func putString(a *buf.Arena, s string) (int, error) {
	enc, err := EncodeString(s)
	if err != nil {
		return 0, err
	}
	return a.Append(enc), nil
}

func readString(row []byte, off int) (string, error) {
	s, _, err := DecodeString(row, off)
	return s, err
}
