package anlz

import (
	"fmt"
	"strings"

	"github.com/joshuapare/pioneerkit/internal/buf"
	"github.com/joshuapare/pioneerkit/internal/textenc"
)

// CueListType distinguishes memory cues from hot cues.
type CueListType uint32

const (
	CueListMemory CueListType = 0
	CueListHotCue CueListType = 1
)

func (t CueListType) String() string {
	switch t {
	case CueListMemory:
		return "memory"
	case CueListHotCue:
		return "hotcue"
	}
	return fmt.Sprintf("CueListType(%d)", uint32(t))
}

// CueType distinguishes single cues from loops.
type CueType uint8

const (
	CueSingle CueType = 1
	CueLoop   CueType = 2
)

// NoLoop is the loop time written for cues that are not loops.
const NoLoop = 0xFFFFFFFF

// CuePoint is a PCPT entry of a PCOB list.
//
//	0x00  4  "PCPT"
//	0x04  4  len_header (28)
//	0x08  4  len_entry
//	0x0C  4  hot cue number (0 for memory cues)
//	0x10  4  status (0 disabled, 4 enabled)
//	0x14  4  unknown (0x10000)
//	0x18  2  order first
//	0x1A  2  order last
//	0x1C  1  type
//	0x1D  1  unknown
//	0x1E  2  unknown (1000)
//	0x20  4  time (ms)
//	0x24  4  loop time (ms)
//	0x28  n  trailing bytes up to len_entry
type CuePoint struct {
	HotCue     uint32
	Status     uint32
	Unknown1   uint32
	OrderFirst uint16
	OrderLast  uint16
	Type       CueType
	Unknown2   uint8
	Unknown3   uint16
	Time       uint32
	LoopTime   uint32
	Tail       []byte
}

const (
	cuePointHeaderLen = 28
	cuePointFixedLen  = 40
	cuePointEntryLen  = 56
)

// NewCuePoint returns a single cue at timeMs with rekordbox's defaults.
func NewCuePoint(hotCue uint32, timeMs uint32) CuePoint {
	return CuePoint{
		HotCue:     hotCue,
		Unknown1:   0x10000,
		OrderFirst: 0xFFFF,
		OrderLast:  0xFFFF,
		Type:       CueSingle,
		Unknown3:   1000,
		Time:       timeMs,
		LoopTime:   NoLoop,
		Tail:       make([]byte, cuePointEntryLen-cuePointFixedLen),
	}
}

// Seconds returns the cue position in seconds.
func (c CuePoint) Seconds() float64 { return float64(c.Time) / 1000 }

// IsLoop reports whether the cue describes a loop.
func (c CuePoint) IsLoop() bool { return c.Type == CueLoop && c.LoopTime != NoLoop }

// CueList is the PCOB tag.
//
//	0x0C  4  list type
//	0x10  2  unknown
//	0x12  2  entry count
//	0x14  4  memory count (-1)
//	0x18  n  PCPT entries
type CueList struct {
	Type        CueListType
	Unknown     uint16
	MemoryCount int32
	Cues        []CuePoint
}

// NewCueList returns a PCOB list of the given type.
func NewCueList(t CueListType, cues []CuePoint) *CueList {
	return &CueList{Type: t, MemoryCount: -1, Cues: cues}
}

func (*CueList) Kind() Kind { return KindCueList }

func (*CueList) headerLen() uint32 { return 24 }

func decodeCueList(b []byte) (Payload, error) {
	r := buf.NewReader(b)
	l := &CueList{
		Type:        CueListType(r.U32BE(12)),
		Unknown:     r.U16BE(16),
		MemoryCount: r.I32BE(20),
	}
	n := int(r.U16BE(18))
	if err := r.Err(); err != nil {
		return nil, err
	}
	l.Cues = make([]CuePoint, 0, n)
	off := 24
	for i := 0; i < n; i++ {
		if code := string(r.View(off, 4)); code != codeCuePoint {
			if r.Err() != nil {
				return nil, fmt.Errorf("cue %d: %w", i, r.Err())
			}
			return nil, fmt.Errorf("cue %d at %d: found %q, want %q", i, off, code, codeCuePoint)
		}
		size := int(r.U32BE(off + 8))
		if size < cuePointFixedLen {
			return nil, fmt.Errorf("cue %d: len_entry %d shorter than %d", i, size, cuePointFixedLen)
		}
		c := CuePoint{
			HotCue:     r.U32BE(off + 12),
			Status:     r.U32BE(off + 16),
			Unknown1:   r.U32BE(off + 20),
			OrderFirst: r.U16BE(off + 24),
			OrderLast:  r.U16BE(off + 26),
			Type:       CueType(r.U8(off + 28)),
			Unknown2:   r.U8(off + 29),
			Unknown3:   r.U16BE(off + 30),
			Time:       r.U32BE(off + 32),
			LoopTime:   r.U32BE(off + 36),
			Tail:       r.Bytes(off+cuePointFixedLen, size-cuePointFixedLen),
		}
		if err := r.Err(); err != nil {
			return nil, fmt.Errorf("cue %d: %w", i, err)
		}
		l.Cues = append(l.Cues, c)
		off += size
	}
	return l, nil
}

func (l *CueList) encode(a *buf.Arena, at int) error {
	if len(l.Cues) > 0xFFFF {
		return fmt.Errorf("%d cues exceed the 16-bit count", len(l.Cues))
	}
	a.Grow(24 - TagHeaderSize)
	a.PutU32BE(at+12, uint32(l.Type))
	a.PutU16BE(at+16, l.Unknown)
	a.PutU16BE(at+18, uint16(len(l.Cues)))
	a.PutI32BE(at+20, l.MemoryCount)
	for _, c := range l.Cues {
		size := cuePointFixedLen + len(c.Tail)
		off := a.Grow(size)
		a.PutBytes(off, []byte(codeCuePoint))
		a.PutU32BE(off+4, cuePointHeaderLen)
		a.PutU32BE(off+8, uint32(size))
		a.PutU32BE(off+12, c.HotCue)
		a.PutU32BE(off+16, c.Status)
		a.PutU32BE(off+20, c.Unknown1)
		a.PutU16BE(off+24, c.OrderFirst)
		a.PutU16BE(off+26, c.OrderLast)
		a.PutU8(off+28, uint8(c.Type))
		a.PutU8(off+29, c.Unknown2)
		a.PutU16BE(off+30, c.Unknown3)
		a.PutU32BE(off+32, c.Time)
		a.PutU32BE(off+36, c.LoopTime)
		a.PutBytes(off+cuePointFixedLen, c.Tail)
	}
	return nil
}

// ExtCuePoint is a PCP2 entry of a PCO2 list.
//
//	0x00  4  "PCP2"
//	0x04  4  len_header (16)
//	0x08  4  len_entry
//	0x0C  4  hot cue number
//	0x10  1  type
//	0x11  3  unknown
//	0x14  4  time (ms)
//	0x18  4  loop time (ms)
//	0x1C  1  color id
//	0x1D  7  unknown
//	0x24  2  loop numerator
//	0x26  2  loop denominator
//	0x28  4  len_comment
//	0x2C  n  comment, UTF-16BE with a NUL terminator
//	      4  color code, red, green, blue
//	      m  trailing bytes up to len_entry
//
// CommentSize and NoColor are set by the decoder only when an entry departs
// from the usual layout, so a decoded list re-encodes byte for byte.
type ExtCuePoint struct {
	HotCue          uint32
	Type            CueType
	Unknown1        [3]byte
	Time            uint32
	LoopTime        uint32
	ColorID         uint8
	Unknown2        [7]byte
	LoopNumerator   uint16
	LoopDenominator uint16
	Comment         string
	ColorCode       uint8
	Red             uint8
	Green           uint8
	Blue            uint8
	Tail            []byte

	// CommentSize is a len_comment that differs from the NUL terminated
	// encoding of Comment. The text is NUL padded up to it, and it is
	// ignored once Comment no longer fits.
	CommentSize uint32
	// NoColor marks an entry that ends after the comment. The color fields
	// are not written and Tail follows the comment directly.
	NoColor bool
}

const (
	extCueHeaderLen = 16
	extCueFixedLen  = 44
	extCueTailLen   = 40
)

// NewExtCuePoint returns a hot cue at timeMs colored r, g, b.
func NewExtCuePoint(hotCue uint32, timeMs uint32, comment string, r, g, b uint8) ExtCuePoint {
	return ExtCuePoint{
		HotCue:   hotCue,
		Type:     CueSingle,
		Time:     timeMs,
		LoopTime: NoLoop,
		Comment:  comment,
		Red:      r,
		Green:    g,
		Blue:     b,
		Tail:     make([]byte, extCueTailLen),
	}
}

// ExtCueList is the PCO2 tag.
//
//	0x0C  4  list type
//	0x10  2  entry count
//	0x12  2  unknown
//	0x14  n  PCP2 entries
type ExtCueList struct {
	Type    CueListType
	Unknown uint16
	Cues    []ExtCuePoint
}

// NewExtCueList returns a PCO2 list of the given type.
func NewExtCueList(t CueListType, cues []ExtCuePoint) *ExtCueList {
	return &ExtCueList{Type: t, Cues: cues}
}

func (*ExtCueList) Kind() Kind { return KindExtCueList }

func (*ExtCueList) headerLen() uint32 { return 20 }

func decodeExtCueList(b []byte) (Payload, error) {
	r := buf.NewReader(b)
	l := &ExtCueList{Type: CueListType(r.U32BE(12)), Unknown: r.U16BE(18)}
	n := int(r.U16BE(16))
	if err := r.Err(); err != nil {
		return nil, err
	}
	l.Cues = make([]ExtCuePoint, 0, n)
	off := 20
	for i := 0; i < n; i++ {
		c, size, err := decodeExtCuePoint(r, off)
		if err != nil {
			return nil, fmt.Errorf("extended cue %d: %w", i, err)
		}
		l.Cues = append(l.Cues, c)
		off += size
	}
	return l, nil
}

func decodeExtCuePoint(r *buf.Reader, off int) (ExtCuePoint, int, error) {
	if code := string(r.View(off, 4)); code != codeExtCuePoint {
		if r.Err() != nil {
			return ExtCuePoint{}, 0, r.Err()
		}
		return ExtCuePoint{}, 0, fmt.Errorf("found %q at %d, want %q", code, off, codeExtCuePoint)
	}
	size := int(r.U32BE(off + 8))
	commentLen := int(r.U32BE(off + 40))
	if size < extCueFixedLen+commentLen {
		return ExtCuePoint{}, 0, fmt.Errorf("len_entry %d cannot hold a %d-byte comment", size, commentLen)
	}
	if r.View(off, size) == nil {
		return ExtCuePoint{}, 0, r.Err()
	}
	c := ExtCuePoint{
		HotCue:          r.U32BE(off + 12),
		Type:            CueType(r.U8(off + 16)),
		Time:            r.U32BE(off + 20),
		LoopTime:        r.U32BE(off + 24),
		ColorID:         r.U8(off + 28),
		LoopNumerator:   r.U16BE(off + 36),
		LoopDenominator: r.U16BE(off + 38),
	}
	r.Copy(c.Unknown1[:], off+17)
	r.Copy(c.Unknown2[:], off+29)
	comment := r.View(off+extCueFixedLen, commentLen)
	if err := r.Err(); err != nil {
		return ExtCuePoint{}, 0, err
	}
	s, err := textenc.DecodeUTF16BE(comment)
	if err != nil {
		return ExtCuePoint{}, 0, fmt.Errorf("comment: %w", err)
	}
	c.Comment = strings.TrimRight(s, "\x00")
	if canonical, err := encodeComment(c.Comment, 0); err != nil || len(canonical) != commentLen {
		c.CommentSize = uint32(commentLen)
	}

	// Entries written without the color block end right after the comment.
	colorOff := off + extCueFixedLen + commentLen
	end := off + size
	if colorOff+4 > end {
		c.NoColor = true
		if colorOff < end {
			c.Tail = r.Bytes(colorOff, end-colorOff)
		}
		return c, size, r.Err()
	}
	c.ColorCode = r.U8(colorOff)
	c.Red = r.U8(colorOff + 1)
	c.Green = r.U8(colorOff + 2)
	c.Blue = r.U8(colorOff + 3)
	c.Tail = r.Bytes(colorOff+4, end-colorOff-4)
	return c, size, r.Err()
}

// encodeComment writes s as UTF-16BE. With size zero a non-empty comment
// gets one NUL terminator; otherwise the text is NUL padded to size bytes.
func encodeComment(s string, size uint32) ([]byte, error) {
	if s == "" && size == 0 {
		return nil, nil
	}
	b, err := textenc.EncodeUTF16BE(s)
	if err != nil {
		return nil, err
	}
	if size == 0 || int(size) < len(b) {
		return append(b, 0, 0), nil
	}
	return append(b, make([]byte, int(size)-len(b))...), nil
}

func (l *ExtCueList) encode(a *buf.Arena, at int) error {
	if len(l.Cues) > 0xFFFF {
		return fmt.Errorf("%d cues exceed the 16-bit count", len(l.Cues))
	}
	a.Grow(20 - TagHeaderSize)
	a.PutU32BE(at+12, uint32(l.Type))
	a.PutU16BE(at+16, uint16(len(l.Cues)))
	a.PutU16BE(at+18, l.Unknown)
	for i, c := range l.Cues {
		comment, err := encodeComment(c.Comment, c.CommentSize)
		if err != nil {
			return fmt.Errorf("extended cue %d: %w", i, err)
		}
		colorLen := 4
		if c.NoColor {
			colorLen = 0
		}
		size := extCueFixedLen + len(comment) + colorLen + len(c.Tail)
		off := a.Grow(size)
		a.PutBytes(off, []byte(codeExtCuePoint))
		a.PutU32BE(off+4, extCueHeaderLen)
		a.PutU32BE(off+8, uint32(size))
		a.PutU32BE(off+12, c.HotCue)
		a.PutU8(off+16, uint8(c.Type))
		a.PutBytes(off+17, c.Unknown1[:])
		a.PutU32BE(off+20, c.Time)
		a.PutU32BE(off+24, c.LoopTime)
		a.PutU8(off+28, c.ColorID)
		a.PutBytes(off+29, c.Unknown2[:])
		a.PutU16BE(off+36, c.LoopNumerator)
		a.PutU16BE(off+38, c.LoopDenominator)
		a.PutU32BE(off+40, uint32(len(comment)))
		a.PutBytes(off+extCueFixedLen, comment)
		colorOff := off + extCueFixedLen + len(comment)
		if !c.NoColor {
			a.PutU8(colorOff, c.ColorCode)
			a.PutU8(colorOff+1, c.Red)
			a.PutU8(colorOff+2, c.Green)
			a.PutU8(colorOff+3, c.Blue)
		}
		a.PutBytes(colorOff+colorLen, c.Tail)
	}
	return nil
}
