package anlz

import (
	"fmt"

	"github.com/joshuapare/pioneerkit/internal/buf"
)

// Columns is a monochrome waveform: each byte packs a height in the low five
// bits and a whiteness in the high three.
type Columns []byte

// PackColumn builds one monochrome column byte.
func PackColumn(height, whiteness uint8) byte {
	return whiteness<<5 | height&0x1f
}

// Heights returns the height of every column (0..31).
func (c Columns) Heights() []uint8 {
	out := make([]uint8, len(c))
	for i, b := range c {
		out[i] = b & 0x1f
	}
	return out
}

// Whiteness returns the whiteness of every column (0..7).
func (c Columns) Whiteness() []uint8 {
	out := make([]uint8, len(c))
	for i, b := range c {
		out[i] = b >> 5
	}
	return out
}

// Preview sizes written by rekordbox.
const (
	WaveformPreviewLen     = 400
	TinyWaveformPreviewLen = 100
	ColorPreviewLen        = 1200
	ColorPreviewEntryLen   = 6
)

const previewUnknown = 0x10000

// WaveformPreview is the PWAV tag.
//
//	0x0C  4  len_preview
//	0x10  4  unknown (0x10000)
//	0x14  n  columns
type WaveformPreview struct {
	Unknown uint32
	Columns Columns
}

// NewWaveformPreview wraps cols in a PWAV payload.
func NewWaveformPreview(cols Columns) *WaveformPreview {
	return &WaveformPreview{Unknown: previewUnknown, Columns: cols}
}

func (*WaveformPreview) Kind() Kind { return KindWaveformPreview }

func (*WaveformPreview) headerLen() uint32 { return 20 }

func decodeWaveformPreview(b []byte) (Payload, error) {
	u, cols, err := decodePreview(b)
	if err != nil {
		return nil, err
	}
	return &WaveformPreview{Unknown: u, Columns: cols}, nil
}

func (w *WaveformPreview) encode(a *buf.Arena, at int) error {
	encodePreview(a, at, w.Unknown, w.Columns)
	return nil
}

// TinyWaveformPreview is the PWV2 tag, laid out like PWAV with 100 columns
// of four-bit heights.
type TinyWaveformPreview struct {
	Unknown uint32
	Columns Columns
}

// NewTinyWaveformPreview wraps cols in a PWV2 payload.
func NewTinyWaveformPreview(cols Columns) *TinyWaveformPreview {
	return &TinyWaveformPreview{Unknown: previewUnknown, Columns: cols}
}

func (*TinyWaveformPreview) Kind() Kind { return KindTinyWaveformPreview }

func (*TinyWaveformPreview) headerLen() uint32 { return 20 }

func decodeTinyWaveformPreview(b []byte) (Payload, error) {
	u, cols, err := decodePreview(b)
	if err != nil {
		return nil, err
	}
	return &TinyWaveformPreview{Unknown: u, Columns: cols}, nil
}

func (w *TinyWaveformPreview) encode(a *buf.Arena, at int) error {
	encodePreview(a, at, w.Unknown, w.Columns)
	return nil
}

func decodePreview(b []byte) (uint32, Columns, error) {
	r := buf.NewReader(b)
	n := int(r.U32BE(12))
	u := r.U32BE(16)
	cols := r.Bytes(20, n)
	if err := r.Err(); err != nil {
		return 0, nil, fmt.Errorf("preview columns: %w", err)
	}
	return u, cols, nil
}

func encodePreview(a *buf.Arena, at int, unknown uint32, cols Columns) {
	a.Grow(20 - TagHeaderSize)
	a.PutU32BE(at+12, uint32(len(cols)))
	a.PutU32BE(at+16, unknown)
	a.Append(cols)
}

// entryTable is the shared layout of the PWV3..PWV7 tags:
//
//	0x0C  4  len_entry_bytes
//	0x10  4  len_entries
//	0x14  4  unknown (absent in PWV6)
//	      n  len_entries × len_entry_bytes
type entryTable struct {
	entryLen uint32
	unknown  uint32
	data     []byte
}

func decodeEntryTable(b []byte, withUnknown bool) (entryTable, error) {
	r := buf.NewReader(b)
	t := entryTable{entryLen: r.U32BE(12)}
	n := int(r.U32BE(16))
	start := 20
	if withUnknown {
		t.unknown = r.U32BE(20)
		start = 24
	}
	if err := r.Err(); err != nil {
		return t, err
	}
	end, err := buf.CheckListBounds(len(b), start, n, int(t.entryLen))
	if err != nil {
		return t, fmt.Errorf("waveform entries: %w", err)
	}
	t.data = r.Bytes(start, end-start)
	return t, r.Err()
}

func (t entryTable) encode(a *buf.Arena, at int, withUnknown bool) error {
	var n int
	if t.entryLen > 0 {
		if len(t.data)%int(t.entryLen) != 0 {
			return fmt.Errorf("%d bytes are not a whole number of %d-byte entries", len(t.data), t.entryLen)
		}
		n = len(t.data) / int(t.entryLen)
	} else if len(t.data) > 0 {
		return fmt.Errorf("zero entry size with %d bytes of entries", len(t.data))
	}
	hdr := 20
	if withUnknown {
		hdr = 24
	}
	a.Grow(hdr - TagHeaderSize)
	a.PutU32BE(at+12, t.entryLen)
	a.PutU32BE(at+16, uint32(n))
	if withUnknown {
		a.PutU32BE(at+20, t.unknown)
	}
	a.Append(t.data)
	return nil
}

// WaveformDetail is the PWV3 tag: one monochrome column per 1/150 s.
type WaveformDetail struct {
	Unknown uint32
	Columns Columns
}

// NewWaveformDetail wraps cols in a PWV3 payload.
func NewWaveformDetail(cols Columns) *WaveformDetail {
	return &WaveformDetail{Unknown: 0x960000, Columns: cols}
}

func (*WaveformDetail) Kind() Kind { return KindWaveformDetail }

func (*WaveformDetail) headerLen() uint32 { return 24 }

func decodeWaveformDetail(b []byte) (Payload, error) {
	t, err := decodeEntryTable(b, true)
	if err != nil {
		return nil, err
	}
	if t.entryLen != 1 {
		return nil, fmt.Errorf("PWV3 entry size %d, want 1", t.entryLen)
	}
	return &WaveformDetail{Unknown: t.unknown, Columns: t.data}, nil
}

func (w *WaveformDetail) encode(a *buf.Arena, at int) error {
	return entryTable{entryLen: 1, unknown: w.Unknown, data: w.Columns}.encode(a, at, true)
}

// ColorPreviewColumn is one six-byte PWV4 entry.
type ColorPreviewColumn [ColorPreviewEntryLen]byte

// ColorWaveformPreview is the PWV4 tag.
type ColorWaveformPreview struct {
	Unknown uint32
	Entries []ColorPreviewColumn
}

// NewColorWaveformPreview wraps entries in a PWV4 payload.
func NewColorWaveformPreview(entries []ColorPreviewColumn) *ColorWaveformPreview {
	return &ColorWaveformPreview{Entries: entries}
}

func (*ColorWaveformPreview) Kind() Kind { return KindColorWaveformPreview }

func (*ColorWaveformPreview) headerLen() uint32 { return 24 }

func decodeColorWaveformPreview(b []byte) (Payload, error) {
	t, err := decodeEntryTable(b, true)
	if err != nil {
		return nil, err
	}
	if t.entryLen != ColorPreviewEntryLen {
		return nil, fmt.Errorf("PWV4 entry size %d, want %d", t.entryLen, ColorPreviewEntryLen)
	}
	w := &ColorWaveformPreview{Unknown: t.unknown, Entries: make([]ColorPreviewColumn, len(t.data)/ColorPreviewEntryLen)}
	for i := range w.Entries {
		copy(w.Entries[i][:], t.data[i*ColorPreviewEntryLen:])
	}
	return w, nil
}

func (w *ColorWaveformPreview) encode(a *buf.Arena, at int) error {
	data := make([]byte, 0, len(w.Entries)*ColorPreviewEntryLen)
	for _, e := range w.Entries {
		data = append(data, e[:]...)
	}
	return entryTable{entryLen: ColorPreviewEntryLen, unknown: w.Unknown, data: data}.encode(a, at, true)
}

// ColorColumn is one decoded PWV5 entry.
type ColorColumn struct {
	Red, Green, Blue uint8 // 0..7
	Height           uint8 // 0..31
}

// Pack returns the 16-bit PWV5 encoding of c.
func (c ColorColumn) Pack() uint16 {
	return uint16(c.Red&7)<<13 | uint16(c.Green&7)<<10 | uint16(c.Blue&7)<<7 | uint16(c.Height&0x1f)<<2
}

// UnpackColorColumn decodes a PWV5 entry.
func UnpackColorColumn(v uint16) ColorColumn {
	return ColorColumn{
		Red:    uint8(v & 0xe000 >> 13),
		Green:  uint8(v & 0x1c00 >> 10),
		Blue:   uint8(v & 0x0380 >> 7),
		Height: uint8(v & 0x007c >> 2),
	}
}

// ColorWaveformDetail is the PWV5 tag: one 16-bit color column per 1/150 s.
type ColorWaveformDetail struct {
	Unknown uint32
	Entries []uint16
}

// NewColorWaveformDetail packs cols into a PWV5 payload.
func NewColorWaveformDetail(cols []ColorColumn) *ColorWaveformDetail {
	w := &ColorWaveformDetail{Unknown: 0x960305, Entries: make([]uint16, len(cols))}
	for i, c := range cols {
		w.Entries[i] = c.Pack()
	}
	return w
}

// Columns decodes every entry.
func (w *ColorWaveformDetail) Columns() []ColorColumn {
	out := make([]ColorColumn, len(w.Entries))
	for i, v := range w.Entries {
		out[i] = UnpackColorColumn(v)
	}
	return out
}

func (*ColorWaveformDetail) Kind() Kind { return KindColorWaveformDetail }

func (*ColorWaveformDetail) headerLen() uint32 { return 24 }

func decodeColorWaveformDetail(b []byte) (Payload, error) {
	t, err := decodeEntryTable(b, true)
	if err != nil {
		return nil, err
	}
	if t.entryLen != 2 {
		return nil, fmt.Errorf("PWV5 entry size %d, want 2", t.entryLen)
	}
	w := &ColorWaveformDetail{Unknown: t.unknown, Entries: make([]uint16, len(t.data)/2)}
	for i := range w.Entries {
		w.Entries[i] = buf.U16BE(t.data[2*i:])
	}
	return w, nil
}

func (w *ColorWaveformDetail) encode(a *buf.Arena, at int) error {
	data := make([]byte, 2*len(w.Entries))
	for i, v := range w.Entries {
		data[2*i] = byte(v >> 8)
		data[2*i+1] = byte(v)
	}
	return entryTable{entryLen: 2, unknown: w.Unknown, data: data}.encode(a, at, true)
}

// ThreeBandPreview is the PWV6 tag (CDJ-3000 three band preview). Entries
// are kept raw, EntryLen bytes each.
type ThreeBandPreview struct {
	EntryLen uint32
	Data     []byte
}

func (*ThreeBandPreview) Kind() Kind { return KindThreeBandPreview }

func (*ThreeBandPreview) headerLen() uint32 { return 20 }

func decodeThreeBandPreview(b []byte) (Payload, error) {
	t, err := decodeEntryTable(b, false)
	if err != nil {
		return nil, err
	}
	return &ThreeBandPreview{EntryLen: t.entryLen, Data: t.data}, nil
}

func (w *ThreeBandPreview) encode(a *buf.Arena, at int) error {
	return entryTable{entryLen: w.EntryLen, data: w.Data}.encode(a, at, false)
}

// ThreeBandDetail is the PWV7 tag (CDJ-3000 three band detail).
type ThreeBandDetail struct {
	EntryLen uint32
	Unknown  uint32
	Data     []byte
}

func (*ThreeBandDetail) Kind() Kind { return KindThreeBandDetail }

func (*ThreeBandDetail) headerLen() uint32 { return 24 }

func decodeThreeBandDetail(b []byte) (Payload, error) {
	t, err := decodeEntryTable(b, true)
	if err != nil {
		return nil, err
	}
	return &ThreeBandDetail{EntryLen: t.entryLen, Unknown: t.unknown, Data: t.data}, nil
}

func (w *ThreeBandDetail) encode(a *buf.Arena, at int) error {
	return entryTable{entryLen: w.EntryLen, unknown: w.Unknown, data: w.Data}.encode(a, at, true)
}

// WaveformColorConfig is the PWVC tag.
//
//	0x0C  2  unknown
//	0x0E  6  three u16 values
type WaveformColorConfig struct {
	Unknown uint16
	Values  [3]uint16
}

func (*WaveformColorConfig) Kind() Kind { return KindWaveformColorConfig }

func (*WaveformColorConfig) headerLen() uint32 { return 14 }

func decodeWaveformColorConfig(b []byte) (Payload, error) {
	r := buf.NewReader(b)
	w := &WaveformColorConfig{Unknown: r.U16BE(12)}
	for i := range w.Values {
		w.Values[i] = r.U16BE(14 + 2*i)
	}
	return w, r.Err()
}

func (w *WaveformColorConfig) encode(a *buf.Arena, at int) error {
	a.Grow(20 - TagHeaderSize)
	a.PutU16BE(at+12, w.Unknown)
	for i, v := range w.Values {
		a.PutU16BE(at+14+2*i, v)
	}
	return nil
}
