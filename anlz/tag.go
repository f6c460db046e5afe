package anlz

import (
	"fmt"
	"log/slog"

	"github.com/joshuapare/pioneerkit/internal/buf"
)

// Payload is the decoded body of a tag. The set of implementations is closed:
// one type per known tag code plus Opaque.
type Payload interface {
	// Kind identifies the variant.
	Kind() Kind

	headerLen() uint32
	// encode writes bytes [12, len_tag) of a tag whose 12-byte header
	// already sits at offset at of the arena. Offsets inside the payload
	// are relative to at, matching the documented layouts.
	encode(a *buf.Arena, at int) error
}

// Tag is one record of an analysis file.
type Tag struct {
	Type      string // four-character code as stored in the file
	LenHeader uint32
	LenTag    uint32
	Payload   Payload
}

// NewTag wraps p in a Tag with its type code and lengths filled in.
func NewTag(p Payload) (*Tag, error) {
	t := &Tag{Type: p.Kind().Code(), Payload: p}
	if o, ok := p.(*Opaque); ok {
		t.Type = o.Code
	}
	if err := t.UpdateLen(); err != nil {
		return nil, err
	}
	return t, nil
}

// Kind returns the payload variant.
func (t *Tag) Kind() Kind { return t.Payload.Kind() }

// UpdateLen recomputes LenHeader and LenTag from the payload.
func (t *Tag) UpdateLen() error {
	a := buf.NewArena(TagHeaderSize)
	a.Grow(TagHeaderSize)
	if err := t.Payload.encode(a, 0); err != nil {
		return fmt.Errorf("anlz: %s: %w", t.Type, err)
	}
	if err := a.Err(); err != nil {
		return fmt.Errorf("anlz: %s: %w", t.Type, err)
	}
	t.LenHeader = t.Payload.headerLen()
	t.LenTag = uint32(a.Len())
	return nil
}

// Encode serializes the tag. The emitted size must equal LenTag; call
// UpdateLen after mutating the payload.
func (t *Tag) Encode() ([]byte, error) {
	a := buf.NewArena(int(t.LenTag))
	if err := t.encodeTo(a); err != nil {
		return nil, err
	}
	return a.Bytes(), nil
}

func (t *Tag) encodeTo(a *buf.Arena) error {
	if len(t.Type) != 4 {
		return fmt.Errorf("anlz: tag type %q is not four characters: %w", t.Type, ErrFormat)
	}
	at := a.Grow(TagHeaderSize)
	a.PutBytes(at, []byte(t.Type))
	a.PutU32BE(at+4, t.LenHeader)
	a.PutU32BE(at+8, t.LenTag)
	if err := t.Payload.encode(a, at); err != nil {
		return fmt.Errorf("anlz: %s: %w", t.Type, err)
	}
	if err := a.Err(); err != nil {
		return fmt.Errorf("anlz: %s: %w", t.Type, err)
	}
	if n := a.Len() - at; n != int(t.LenTag) {
		return &LengthMismatchError{Type: t.Type, Expected: int(t.LenTag), Actual: n}
	}
	if ss, ok := t.Payload.(*SongStructure); ok && ss.Obfuscated {
		maskSongStructure(a.Bytes()[at:], uint16(len(ss.Phrases)))
	}
	return nil
}

type decodeFunc func(tag []byte) (Payload, error)

var decoders = map[Kind]decodeFunc{
	KindBeatGrid:             decodeBeatGrid,
	KindExtBeatGrid:          decodeExtBeatGrid,
	KindCueList:              decodeCueList,
	KindExtCueList:           decodeExtCueList,
	KindPath:                 decodePath,
	KindVBR:                  decodeVBRIndex,
	KindSongStructure:        decodeSongStructure,
	KindWaveformPreview:      decodeWaveformPreview,
	KindTinyWaveformPreview:  decodeTinyWaveformPreview,
	KindWaveformDetail:       decodeWaveformDetail,
	KindColorWaveformPreview: decodeColorWaveformPreview,
	KindColorWaveformDetail:  decodeColorWaveformDetail,
	KindThreeBandPreview:     decodeThreeBandPreview,
	KindThreeBandDetail:      decodeThreeBandDetail,
	KindWaveformColorConfig:  decodeWaveformColorConfig,
}

// DecodeTag decodes the tag at the start of b. Unknown codes yield an Opaque
// payload; they are never an error.
func DecodeTag(b []byte) (*Tag, error) {
	return decodeTag(b, 0, discard)
}

// decodeTag decodes one tag; base is the tag's offset in the file and is
// only used for diagnostics.
func decodeTag(b []byte, base int, log *slog.Logger) (*Tag, error) {
	if len(b) < TagHeaderSize {
		return nil, &FormatError{Offset: base, Reason: "truncated tag header", Err: buf.ErrOutOfRange}
	}
	t := &Tag{
		Type:      string(b[0:4]),
		LenHeader: buf.U32BE(b[4:]),
		LenTag:    buf.U32BE(b[8:]),
	}
	if t.LenTag < TagHeaderSize || int(t.LenTag) > len(b) {
		return nil, &FormatError{
			Offset: base,
			Reason: fmt.Sprintf("tag %q declares len_tag %d with %d bytes available", t.Type, t.LenTag, len(b)),
		}
	}
	body := b[:t.LenTag]

	kind := KindOf(t.Type)
	if kind == KindOpaque {
		t.Payload = &Opaque{
			Code:   t.Type,
			Header: t.LenHeader,
			Raw:    append([]byte(nil), body[TagHeaderSize:]...),
		}
		return t, nil
	}
	if want := kind.expectedHeaderLen(); t.LenHeader != want {
		log.Warn("anlz: unexpected tag header length",
			"tag", t.Type, "offset", base, "expected", want, "actual", t.LenHeader)
	}
	p, err := decoders[kind](body)
	if err != nil {
		return nil, &FormatError{Offset: base, Reason: "decode " + t.Type, Err: err}
	}
	t.Payload = p
	return t, nil
}

// Opaque carries a tag this package has no decoder for.
type Opaque struct {
	Code   string
	Header uint32 // len_header as read
	Raw    []byte // bytes [12, len_tag)
}

func (*Opaque) Kind() Kind { return KindOpaque }

func (o *Opaque) headerLen() uint32 { return o.Header }

func (o *Opaque) encode(a *buf.Arena, _ int) error {
	a.Append(o.Raw)
	return nil
}
