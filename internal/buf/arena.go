package buf

import "encoding/binary"

// Arena is a growable byte buffer used by the encoders. Space is reserved
// with Grow or Append, then filled with the Put methods at absolute offsets.
// A Put outside the reserved space is recorded as an error instead of
// panicking or growing implicitly; check Err once the structure is written.
type Arena struct {
	b   []byte
	err error
}

// NewArena returns an empty Arena with capacity for sizeHint bytes.
func NewArena(sizeHint int) *Arena {
	if sizeHint < 0 {
		sizeHint = 0
	}
	return &Arena{b: make([]byte, 0, sizeHint)}
}

// Len returns the number of reserved bytes.
func (a *Arena) Len() int { return len(a.b) }

// Bytes returns the reserved bytes. The slice aliases the arena.
func (a *Arena) Bytes() []byte { return a.b }

// Err returns the first out-of-range write, if any.
func (a *Arena) Err() error { return a.err }

// Grow reserves n zero bytes and returns the offset of the first one.
func (a *Arena) Grow(n int) int {
	off := len(a.b)
	if n <= 0 {
		return off
	}
	a.b = append(a.b, make([]byte, n)...)
	return off
}

// Append reserves len(p) bytes holding p and returns their offset.
func (a *Arena) Append(p []byte) int {
	off := len(a.b)
	a.b = append(a.b, p...)
	return off
}

// PadTo grows the arena with zero bytes until its length is a multiple of align.
func (a *Arena) PadTo(align int) {
	a.Grow(Align(len(a.b), align) - len(a.b))
}

func (a *Arena) slot(off, n int) []byte {
	if a.err != nil {
		return nil
	}
	s, ok := Slice(a.b, off, n)
	if !ok {
		a.err = &RangeError{Off: off, N: n, Len: len(a.b)}
		return nil
	}
	return s
}

// PutU8 writes v at off.
func (a *Arena) PutU8(off int, v uint8) {
	if s := a.slot(off, 1); s != nil {
		s[0] = v
	}
}

// PutU16BE writes v big-endian at off.
func (a *Arena) PutU16BE(off int, v uint16) {
	if s := a.slot(off, 2); s != nil {
		binary.BigEndian.PutUint16(s, v)
	}
}

// PutU32BE writes v big-endian at off.
func (a *Arena) PutU32BE(off int, v uint32) {
	if s := a.slot(off, 4); s != nil {
		binary.BigEndian.PutUint32(s, v)
	}
}

// PutI32BE writes v big-endian at off.
func (a *Arena) PutI32BE(off int, v int32) {
	a.PutU32BE(off, uint32(v))
}

// PutU16LE writes v little-endian at off.
func (a *Arena) PutU16LE(off int, v uint16) {
	if s := a.slot(off, 2); s != nil {
		binary.LittleEndian.PutUint16(s, v)
	}
}

// PutU32LE writes v little-endian at off.
func (a *Arena) PutU32LE(off int, v uint32) {
	if s := a.slot(off, 4); s != nil {
		binary.LittleEndian.PutUint32(s, v)
	}
}

// PutBytes copies p to off.
func (a *Arena) PutBytes(off int, p []byte) {
	if s := a.slot(off, len(p)); s != nil {
		copy(s, p)
	}
}
