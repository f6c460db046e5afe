// Package textenc converts between Go strings and the byte encodings used by
// Pioneer files: Latin-1 for narrow PDB strings, UTF-16LE for wide PDB strings
// and UTF-16BE for ANLZ paths and cue comments.
package textenc

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

var (
	utf16LE = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	utf16BE = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
)

// IsASCII reports whether s holds only 7-bit characters.
func IsASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func isASCIIBytes(b []byte) bool {
	for _, c := range b {
		if c >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// DecodeLatin1 decodes ISO 8859-1 bytes. ASCII input is returned as is.
func DecodeLatin1(b []byte) string {
	if isASCIIBytes(b) {
		return string(b)
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		// Every byte value maps to a code point in ISO 8859-1.
		return string(b)
	}
	return string(out)
}

// EncodeLatin1 encodes s as ISO 8859-1, failing on characters above U+00FF.
func EncodeLatin1(s string) ([]byte, error) {
	if IsASCII(s) {
		return []byte(s), nil
	}
	out, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("textenc: latin-1: %w", err)
	}
	return out, nil
}

// DecodeUTF16LE decodes little-endian UTF-16 bytes.
func DecodeUTF16LE(b []byte) (string, error) {
	return decode16(utf16LE, b)
}

// EncodeUTF16LE encodes s as little-endian UTF-16 without a terminator.
func EncodeUTF16LE(s string) ([]byte, error) {
	return encode16(utf16LE, s)
}

// DecodeUTF16BE decodes big-endian UTF-16 bytes.
func DecodeUTF16BE(b []byte) (string, error) {
	return decode16(utf16BE, b)
}

// EncodeUTF16BE encodes s as big-endian UTF-16 without a terminator.
func EncodeUTF16BE(s string) ([]byte, error) {
	return encode16(utf16BE, s)
}

func decode16(enc encoding.Encoding, b []byte) (string, error) {
	if len(b) == 0 {
		return "", nil
	}
	if len(b)%2 != 0 {
		return "", fmt.Errorf("textenc: utf-16 data has odd length %d", len(b))
	}
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("textenc: utf-16: %w", err)
	}
	return string(out), nil
}

func encode16(enc encoding.Encoding, s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	out, err := enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("textenc: utf-16: %w", err)
	}
	return out, nil
}
