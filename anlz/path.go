package anlz

import (
	"fmt"
	"strings"

	"github.com/joshuapare/pioneerkit/internal/buf"
	"github.com/joshuapare/pioneerkit/internal/textenc"
)

// Path is the PPTH tag: the audio file location on the export medium.
//
//	0x0C  4  len_path
//	0x10  n  path, UTF-16BE with a NUL terminator
type Path struct {
	Path string
}

// NewPath returns a PPTH payload. Backslashes are normalized to slashes.
func NewPath(p string) *Path {
	return &Path{Path: strings.ReplaceAll(p, `\`, "/")}
}

func (*Path) Kind() Kind { return KindPath }

func (*Path) headerLen() uint32 { return 16 }

func decodePath(b []byte) (Payload, error) {
	r := buf.NewReader(b)
	n := int(r.U32BE(12))
	raw := r.View(16, n)
	if err := r.Err(); err != nil {
		return nil, err
	}
	s, err := textenc.DecodeUTF16BE(raw)
	if err != nil {
		return nil, fmt.Errorf("path: %w", err)
	}
	return &Path{Path: strings.TrimRight(s, "\x00")}, nil
}

func (p *Path) encode(a *buf.Arena, at int) error {
	raw, err := textenc.EncodeUTF16BE(p.Path)
	if err != nil {
		return err
	}
	raw = append(raw, 0, 0)
	a.Grow(16 - TagHeaderSize)
	a.PutU32BE(at+12, uint32(len(raw)))
	a.Append(raw)
	return nil
}

// VBRIndexSize is the number of seek entries in a PVBR tag.
const VBRIndexSize = 400

// VBRIndex is the PVBR tag: a seek table for variable bit rate audio.
//
//	0x0C    4     unknown
//	0x10    1600  400 × u32 index
//	0x650   4     unknown
type VBRIndex struct {
	Unknown1 uint32
	Index    [VBRIndexSize]uint32
	Unknown2 uint32
}

const vbrTagLen = 16 + 4*VBRIndexSize + 4

// NewVBRIndex returns the empty seek table rekordbox writes for constant bit rate files.
func NewVBRIndex() *VBRIndex {
	return &VBRIndex{Unknown2: 0x7f5180}
}

func (*VBRIndex) Kind() Kind { return KindVBR }

func (*VBRIndex) headerLen() uint32 { return 16 }

func decodeVBRIndex(b []byte) (Payload, error) {
	if len(b) < vbrTagLen {
		return nil, fmt.Errorf("PVBR is %d bytes, want %d: %w", len(b), vbrTagLen, buf.ErrOutOfRange)
	}
	r := buf.NewReader(b)
	v := &VBRIndex{Unknown1: r.U32BE(12), Unknown2: r.U32BE(16 + 4*VBRIndexSize)}
	for i := range v.Index {
		v.Index[i] = r.U32BE(16 + 4*i)
	}
	return v, r.Err()
}

func (v *VBRIndex) encode(a *buf.Arena, at int) error {
	a.Grow(vbrTagLen - TagHeaderSize)
	a.PutU32BE(at+12, v.Unknown1)
	for i, x := range v.Index {
		a.PutU32BE(at+16+4*i, x)
	}
	a.PutU32BE(at+16+4*VBRIndexSize, v.Unknown2)
	return nil
}
