package buf

import "encoding/binary"

// Reader reads fixed-width fields at absolute offsets of a fixed buffer.
//
// The first out-of-range access is recorded and every later read returns the
// zero value, so a decoder can read a whole structure and check Err once.
type Reader struct {
	b   []byte
	err error
}

// NewReader returns a Reader over b. The Reader never copies b.
func NewReader(b []byte) *Reader {
	return &Reader{b: b}
}

// Len returns the size of the underlying buffer.
func (r *Reader) Len() int { return len(r.b) }

// Err returns the first range error encountered, if any.
func (r *Reader) Err() error { return r.err }

func (r *Reader) view(off, n int) []byte {
	if r.err != nil {
		return nil
	}
	s, ok := Slice(r.b, off, n)
	if !ok {
		r.err = &RangeError{Off: off, N: n, Len: len(r.b)}
		return nil
	}
	return s
}

// U8 reads one byte.
func (r *Reader) U8(off int) uint8 {
	s := r.view(off, 1)
	if s == nil {
		return 0
	}
	return s[0]
}

// U16BE reads a big-endian uint16.
func (r *Reader) U16BE(off int) uint16 {
	s := r.view(off, 2)
	if s == nil {
		return 0
	}
	return binary.BigEndian.Uint16(s)
}

// U32BE reads a big-endian uint32.
func (r *Reader) U32BE(off int) uint32 {
	s := r.view(off, 4)
	if s == nil {
		return 0
	}
	return binary.BigEndian.Uint32(s)
}

// I32BE reads a big-endian int32.
func (r *Reader) I32BE(off int) int32 {
	return int32(r.U32BE(off))
}

// U16LE reads a little-endian uint16.
func (r *Reader) U16LE(off int) uint16 {
	s := r.view(off, 2)
	if s == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(s)
}

// U32LE reads a little-endian uint32.
func (r *Reader) U32LE(off int) uint32 {
	s := r.view(off, 4)
	if s == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(s)
}

// Bytes returns a copy of b[off:off+n]. The copy keeps decoded models valid
// after the source buffer (possibly a memory mapping) is released.
func (r *Reader) Bytes(off, n int) []byte {
	s := r.view(off, n)
	if s == nil {
		return nil
	}
	out := make([]byte, n)
	copy(out, s)
	return out
}

// View returns b[off:off+n] without copying.
func (r *Reader) View(off, n int) []byte {
	return r.view(off, n)
}

// Copy fills dst from b[off:].
func (r *Reader) Copy(dst []byte, off int) {
	if s := r.view(off, len(dst)); s != nil {
		copy(dst, s)
	}
}
