package anlz

import (
	"fmt"
	"math"

	"github.com/joshuapare/pioneerkit/internal/buf"
)

// BeatGridEntry is one beat of a PQTZ grid.
type BeatGridEntry struct {
	Beat  uint16 // position in the bar, 1..4
	Tempo uint16 // BPM × 100
	Time  uint32 // milliseconds from the start of the track
}

// BeatGrid is the PQTZ tag.
//
//	0x0C  4  unknown
//	0x10  4  unknown (0x80000)
//	0x14  4  entry count
//	0x18  8n entries: beat u16, tempo u16, time u32
type BeatGrid struct {
	Unknown1 uint32
	Unknown2 uint32
	Entries  []BeatGridEntry
}

const beatGridUnknown2 = 0x80000

// NewBeatGrid returns a grid holding entries with the reserved fields set
// the way rekordbox writes them.
func NewBeatGrid(entries []BeatGridEntry) *BeatGrid {
	return &BeatGrid{Unknown2: beatGridUnknown2, Entries: entries}
}

func (*BeatGrid) Kind() Kind { return KindBeatGrid }

func (*BeatGrid) headerLen() uint32 { return 24 }

func decodeBeatGrid(b []byte) (Payload, error) {
	r := buf.NewReader(b)
	g := &BeatGrid{Unknown1: r.U32BE(12), Unknown2: r.U32BE(16)}
	n := int(r.U32BE(20))
	if err := r.Err(); err != nil {
		return nil, err
	}
	if _, err := buf.CheckListBounds(len(b), 24, n, 8); err != nil {
		return nil, fmt.Errorf("beat entries: %w", err)
	}
	g.Entries = make([]BeatGridEntry, n)
	for i := range g.Entries {
		off := 24 + 8*i
		g.Entries[i] = BeatGridEntry{Beat: r.U16BE(off), Tempo: r.U16BE(off + 2), Time: r.U32BE(off + 4)}
	}
	return g, r.Err()
}

func (g *BeatGrid) encode(a *buf.Arena, at int) error {
	a.Grow(24 - TagHeaderSize + 8*len(g.Entries))
	a.PutU32BE(at+12, g.Unknown1)
	a.PutU32BE(at+16, g.Unknown2)
	a.PutU32BE(at+20, uint32(len(g.Entries)))
	for i, e := range g.Entries {
		off := at + 24 + 8*i
		a.PutU16BE(off, e.Beat)
		a.PutU16BE(off+2, e.Tempo)
		a.PutU32BE(off+4, e.Time)
	}
	return nil
}

// Beats returns the bar positions of every beat.
func (g *BeatGrid) Beats() []uint16 {
	out := make([]uint16, len(g.Entries))
	for i, e := range g.Entries {
		out[i] = e.Beat
	}
	return out
}

// BPMs returns the tempo at every beat.
func (g *BeatGrid) BPMs() []float64 {
	out := make([]float64, len(g.Entries))
	for i, e := range g.Entries {
		out[i] = float64(e.Tempo) / 100
	}
	return out
}

// Times returns the time of every beat in seconds.
func (g *BeatGrid) Times() []float64 {
	out := make([]float64, len(g.Entries))
	for i, e := range g.Entries {
		out[i] = float64(e.Time) / 1000
	}
	return out
}

// Set replaces the grid. The three slices must have equal length.
func (g *BeatGrid) Set(beats []uint16, bpms, times []float64) error {
	if len(bpms) != len(beats) {
		return &CountMismatchError{Field: "bpms", Want: len(beats), Got: len(bpms)}
	}
	if len(times) != len(beats) {
		return &CountMismatchError{Field: "times", Want: len(beats), Got: len(times)}
	}
	entries := make([]BeatGridEntry, len(beats))
	for i := range entries {
		entries[i] = BeatGridEntry{Beat: beats[i], Tempo: tempoOf(bpms[i]), Time: millisOf(times[i])}
	}
	g.Entries = entries
	return nil
}

// SetBeats overwrites the bar positions; len(beats) must match the grid.
func (g *BeatGrid) SetBeats(beats []uint16) error {
	if len(beats) != len(g.Entries) {
		return &CountMismatchError{Field: "beats", Want: len(g.Entries), Got: len(beats)}
	}
	for i := range g.Entries {
		g.Entries[i].Beat = beats[i]
	}
	return nil
}

// SetBPMs overwrites the tempos; len(bpms) must match the grid.
func (g *BeatGrid) SetBPMs(bpms []float64) error {
	if len(bpms) != len(g.Entries) {
		return &CountMismatchError{Field: "bpms", Want: len(g.Entries), Got: len(bpms)}
	}
	for i := range g.Entries {
		g.Entries[i].Tempo = tempoOf(bpms[i])
	}
	return nil
}

// SetTimes overwrites the beat times in seconds; len(times) must match the grid.
func (g *BeatGrid) SetTimes(times []float64) error {
	if len(times) != len(g.Entries) {
		return &CountMismatchError{Field: "times", Want: len(g.Entries), Got: len(times)}
	}
	for i := range g.Entries {
		g.Entries[i].Time = millisOf(times[i])
	}
	return nil
}

func tempoOf(bpm float64) uint16 { return uint16(math.Round(bpm * 100)) }

func millisOf(sec float64) uint32 { return uint32(math.Round(sec * 1000)) }

// ExtBeatEntry is one entry of a PQT2 grid.
type ExtBeatEntry struct {
	Beat    uint8
	Unknown uint8
}

// ExtBeatGrid is the PQT2 tag found in .EXT files.
//
//	0x0C  4  unknown
//	0x10  4  unknown (0x01000002)
//	0x14  4  unknown
//	0x18  8  first tempo marker (beat u16, tempo u16, time u32)
//	0x20  8  second tempo marker
//	0x28  4  beat count
//	0x2C  4  unknown (0x02234121)
//	0x30  4  unknown
//	0x34  4  unknown
//	0x38  2n entries
//
// BeatCount is stored separately from Entries: rekordbox may describe more
// beats than it stores entries for.
type ExtBeatGrid struct {
	Unknown0  uint32
	Unknown1  uint32
	Unknown2  uint32
	Markers   [2]BeatGridEntry
	BeatCount uint32
	Unknown3  uint32
	Unknown4  uint32
	Unknown5  uint32
	Entries   []ExtBeatEntry
}

const (
	extBeatGridUnknown1 = 0x01000002
	extBeatGridUnknown3 = 0x02234121
)

// NewExtBeatGrid returns a PQT2 grid with one entry per beat.
func NewExtBeatGrid(markers [2]BeatGridEntry, entries []ExtBeatEntry) *ExtBeatGrid {
	return &ExtBeatGrid{
		Unknown1:  extBeatGridUnknown1,
		Unknown3:  extBeatGridUnknown3,
		Markers:   markers,
		BeatCount: uint32(len(entries)),
		Entries:   entries,
	}
}

func (*ExtBeatGrid) Kind() Kind { return KindExtBeatGrid }

func (*ExtBeatGrid) headerLen() uint32 { return 56 }

func decodeExtBeatGrid(b []byte) (Payload, error) {
	r := buf.NewReader(b)
	g := &ExtBeatGrid{
		Unknown0:  r.U32BE(12),
		Unknown1:  r.U32BE(16),
		Unknown2:  r.U32BE(20),
		BeatCount: r.U32BE(40),
		Unknown3:  r.U32BE(44),
		Unknown4:  r.U32BE(48),
		Unknown5:  r.U32BE(52),
	}
	for i := range g.Markers {
		off := 24 + 8*i
		g.Markers[i] = BeatGridEntry{Beat: r.U16BE(off), Tempo: r.U16BE(off + 2), Time: r.U32BE(off + 4)}
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	rest := len(b) - 56
	if rest%2 != 0 {
		return nil, fmt.Errorf("PQT2 body of %d bytes is not a whole number of entries", rest)
	}
	g.Entries = make([]ExtBeatEntry, rest/2)
	for i := range g.Entries {
		g.Entries[i] = ExtBeatEntry{Beat: b[56+2*i], Unknown: b[57+2*i]}
	}
	return g, nil
}

func (g *ExtBeatGrid) encode(a *buf.Arena, at int) error {
	a.Grow(56 - TagHeaderSize + 2*len(g.Entries))
	a.PutU32BE(at+12, g.Unknown0)
	a.PutU32BE(at+16, g.Unknown1)
	a.PutU32BE(at+20, g.Unknown2)
	for i, m := range g.Markers {
		off := at + 24 + 8*i
		a.PutU16BE(off, m.Beat)
		a.PutU16BE(off+2, m.Tempo)
		a.PutU32BE(off+4, m.Time)
	}
	a.PutU32BE(at+40, g.BeatCount)
	a.PutU32BE(at+44, g.Unknown3)
	a.PutU32BE(at+48, g.Unknown4)
	a.PutU32BE(at+52, g.Unknown5)
	for i, e := range g.Entries {
		a.PutU8(at+56+2*i, e.Beat)
		a.PutU8(at+57+2*i, e.Unknown)
	}
	return nil
}
