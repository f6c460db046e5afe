package anlz

import (
	"fmt"

	"github.com/joshuapare/pioneerkit/internal/buf"
)

// Mood is the overall phrase style of a track.
type Mood uint16

const (
	MoodHigh Mood = 1
	MoodMid  Mood = 2
	MoodLow  Mood = 3
)

func (m Mood) String() string {
	switch m {
	case MoodHigh:
		return "high"
	case MoodMid:
		return "mid"
	case MoodLow:
		return "low"
	}
	return fmt.Sprintf("Mood(%d)", uint16(m))
}

// Phrase is one 24-byte PSSI entry.
type Phrase struct {
	Index    uint16
	Beat     uint16
	Kind     uint16
	Unknown1 uint8
	K1       uint8
	Unknown2 uint8
	K2       uint8
	Unknown3 uint8
	B        uint8
	Beat2    uint16
	Beat3    uint16
	Beat4    uint16
	Unknown4 uint8
	K3       uint8
	Unknown5 uint8
	Fill     uint8
	BeatFill uint16
}

// SongStructure is the PSSI tag.
//
//	0x0C  4   len_entry_bytes (24)
//	0x10  2   len_entries
//	0x12  2   mood
//	0x14  6   unknown
//	0x1A  2   end beat
//	0x1C  2   bank
//	0x1E  2   unknown
//	0x20  24n phrases
//
// Exported files carry the tag XOR-masked from offset 0x12 on. Decoding
// unmasks it and sets Obfuscated so Encode masks it again.
type SongStructure struct {
	LenEntryBytes uint32
	Mood          Mood
	Unknown1      [6]byte
	EndBeat       uint16
	Bank          uint16
	Unknown2      [2]byte
	Phrases       []Phrase
	Obfuscated    bool
}

const phraseLen = 24

// pssiMask is added to len_entries and XORed over the tag from offset 18.
var pssiMask = [19]byte{
	0xCB, 0xE1, 0xEE, 0xFA, 0xE5, 0xEE, 0xAD, 0xEE, 0xE9, 0xD2,
	0xE9, 0xEB, 0xE1, 0xE9, 0xF3, 0xE8, 0xE9, 0xF4, 0xE1,
}

// maskSongStructure XORs tag[18:] in place. Applying it twice with the same
// lenEntries restores the input.
func maskSongStructure(tag []byte, lenEntries uint16) {
	if len(tag) <= 18 {
		return
	}
	for x, p := 0, tag[18:]; x < len(p); x++ {
		p[x] ^= pssiMask[x%len(pssiMask)] + byte(lenEntries)
	}
}

// isPlainSongStructure reports whether mood and bank hold values only a
// plaintext tag can have.
func isPlainSongStructure(tag []byte) bool {
	mood := buf.U16BE(tag[18:])
	bank := buf.U16BE(tag[28:])
	return mood >= 1 && mood <= 3 && bank >= 1 && bank <= 8
}

// NewSongStructure returns a PSSI payload that is written obfuscated, as
// rekordbox does for exported media.
func NewSongStructure(mood Mood, bank uint16, endBeat uint16, phrases []Phrase) *SongStructure {
	return &SongStructure{
		LenEntryBytes: phraseLen,
		Mood:          mood,
		Bank:          bank,
		EndBeat:       endBeat,
		Phrases:       phrases,
		Obfuscated:    true,
	}
}

func (*SongStructure) Kind() Kind { return KindSongStructure }

func (*SongStructure) headerLen() uint32 { return 32 }

func decodeSongStructure(b []byte) (Payload, error) {
	if len(b) < 32 {
		return nil, fmt.Errorf("PSSI is %d bytes: %w", len(b), buf.ErrOutOfRange)
	}
	tag := append([]byte(nil), b...)
	obfuscated := !isPlainSongStructure(tag)
	n := buf.U16BE(tag[16:])
	if obfuscated {
		maskSongStructure(tag, n)
	}

	r := buf.NewReader(tag)
	s := &SongStructure{
		LenEntryBytes: r.U32BE(12),
		Mood:          Mood(r.U16BE(18)),
		EndBeat:       r.U16BE(26),
		Bank:          r.U16BE(28),
		Obfuscated:    obfuscated,
	}
	r.Copy(s.Unknown1[:], 20)
	r.Copy(s.Unknown2[:], 30)
	stride := int(s.LenEntryBytes)
	if stride < phraseLen {
		return nil, fmt.Errorf("PSSI entry size %d below %d", stride, phraseLen)
	}
	if _, err := buf.CheckListBounds(len(tag), 32, int(n), stride); err != nil {
		return nil, fmt.Errorf("phrases: %w", err)
	}
	s.Phrases = make([]Phrase, n)
	for i := range s.Phrases {
		off := 32 + stride*i
		s.Phrases[i] = Phrase{
			Index:    r.U16BE(off),
			Beat:     r.U16BE(off + 2),
			Kind:     r.U16BE(off + 4),
			Unknown1: r.U8(off + 6),
			K1:       r.U8(off + 7),
			Unknown2: r.U8(off + 8),
			K2:       r.U8(off + 9),
			Unknown3: r.U8(off + 10),
			B:        r.U8(off + 11),
			Beat2:    r.U16BE(off + 12),
			Beat3:    r.U16BE(off + 14),
			Beat4:    r.U16BE(off + 16),
			Unknown4: r.U8(off + 18),
			K3:       r.U8(off + 19),
			Unknown5: r.U8(off + 20),
			Fill:     r.U8(off + 21),
			BeatFill: r.U16BE(off + 22),
		}
	}
	return s, r.Err()
}

// encode writes the plaintext form; Tag.encodeTo applies the mask.
func (s *SongStructure) encode(a *buf.Arena, at int) error {
	if len(s.Phrases) > 0xFFFF {
		return fmt.Errorf("%d phrases exceed the 16-bit count", len(s.Phrases))
	}
	stride := int(s.LenEntryBytes)
	if stride < phraseLen {
		stride = phraseLen
	}
	a.Grow(32 - TagHeaderSize + stride*len(s.Phrases))
	a.PutU32BE(at+12, uint32(stride))
	a.PutU16BE(at+16, uint16(len(s.Phrases)))
	a.PutU16BE(at+18, uint16(s.Mood))
	a.PutBytes(at+20, s.Unknown1[:])
	a.PutU16BE(at+26, s.EndBeat)
	a.PutU16BE(at+28, s.Bank)
	a.PutBytes(at+30, s.Unknown2[:])
	for i, p := range s.Phrases {
		off := at + 32 + stride*i
		a.PutU16BE(off, p.Index)
		a.PutU16BE(off+2, p.Beat)
		a.PutU16BE(off+4, p.Kind)
		a.PutU8(off+6, p.Unknown1)
		a.PutU8(off+7, p.K1)
		a.PutU8(off+8, p.Unknown2)
		a.PutU8(off+9, p.K2)
		a.PutU8(off+10, p.Unknown3)
		a.PutU8(off+11, p.B)
		a.PutU16BE(off+12, p.Beat2)
		a.PutU16BE(off+14, p.Beat3)
		a.PutU16BE(off+16, p.Beat4)
		a.PutU8(off+18, p.Unknown4)
		a.PutU8(off+19, p.K3)
		a.PutU8(off+20, p.Unknown5)
		a.PutU8(off+21, p.Fill)
		a.PutU16BE(off+22, p.BeatFill)
	}
	return nil
}
