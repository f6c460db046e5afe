package pdb

import (
	"fmt"

	"github.com/joshuapare/pioneerkit/internal/buf"
)

// Track row layout:
//
//	0x00  2   subtype (0x24)
//	0x02  2   index shift
//	0x04  4   bitmask
//	0x08  4   sample rate
//	0x0C  4   composer id
//	0x10  4   file size
//	0x14  4   unknown
//	0x18  2   unknown
//	0x1A  2   unknown
//	0x1C  4   artwork id
//	0x20  4   key id
//	0x24  4   original artist id
//	0x28  4   label id
//	0x2C  4   remixer id
//	0x30  4   bitrate
//	0x34  4   track number
//	0x38  4   tempo (BPM × 100)
//	0x3C  4   genre id
//	0x40  4   album id
//	0x44  4   artist id
//	0x48  4   id
//	0x4C  2   disc number
//	0x4E  2   play count
//	0x50  2   year
//	0x52  2   sample depth
//	0x54  2   duration (s)
//	0x56  2   unknown (41)
//	0x58  1   color id
//	0x59  1   rating
//	0x5A  2   unknown (1)
//	0x5C  2   unknown
//	0x5E  42  21 string offsets
//	0x88      strings
const (
	trackStringsAt   = 0x5E
	trackStringCount = 21
	trackFixedLen    = trackStringsAt + 2*trackStringCount
)

// Track is a row of the tracks table.
type Track struct {
	Subtype      uint16
	IndexShift   uint16 // as read; recomputed from the row position on write
	Bitmask      uint32
	SampleRate   uint32
	ComposerID   uint32
	FileSize     uint32
	Unknown2     uint32
	Unknown3     uint16
	Unknown4     uint16
	ArtworkID    uint32
	KeyID        uint32
	OrigArtistID uint32
	LabelID      uint32
	RemixerID    uint32
	Bitrate      uint32
	TrackNumber  uint32
	Tempo        uint32
	GenreID      uint32
	AlbumID      uint32
	ArtistID     uint32
	ID           uint32
	DiscNumber   uint16
	PlayCount    uint16
	Year         uint16
	SampleDepth  uint16
	Duration     uint16
	Unknown5     uint16
	ColorID      uint8
	Rating       uint8
	Unknown6     uint16
	Unknown7     uint16

	ISRC            string
	Lyricist        string
	UnknownString2  string
	UnknownString3  string
	UnknownString4  string
	Message         string
	KuvoPublic      string
	AutoloadHotcues string
	UnknownString5  string
	UnknownString6  string
	DateAdded       string
	ReleaseDate     string
	MixName         string
	UnknownString7  string
	AnalyzePath     string
	AnalyzeDate     string
	Comment         string
	Title           string
	UnknownString8  string
	Filename        string
	FilePath        string
}

// NewTrack returns a track row with the reserved fields rekordbox writes.
func NewTrack(id uint32) *Track {
	return &Track{
		Subtype:         0x24,
		Bitmask:         0xC0700,
		Unknown3:        0xAE49,
		Unknown4:        0xDF0C,
		ID:              id,
		SampleDepth:     16,
		Unknown5:        41,
		Unknown6:        1,
		Unknown7:        3,
		UnknownString2:  "2",
		UnknownString3:  "2",
		KuvoPublic:      "ON",
		AutoloadHotcues: "ON",
	}
}

func (*Track) Table() TableType { return TableTracks }

// strings lists the string fields in offset-table order.
func (t *Track) strings() [trackStringCount]*string {
	return [trackStringCount]*string{
		&t.ISRC, &t.Lyricist, &t.UnknownString2, &t.UnknownString3, &t.UnknownString4,
		&t.Message, &t.KuvoPublic, &t.AutoloadHotcues, &t.UnknownString5, &t.UnknownString6,
		&t.DateAdded, &t.ReleaseDate, &t.MixName, &t.UnknownString7, &t.AnalyzePath,
		&t.AnalyzeDate, &t.Comment, &t.Title, &t.UnknownString8, &t.Filename,
		&t.FilePath,
	}
}

func decodeTrack(row []byte) (Row, error) {
	if len(row) < trackFixedLen {
		return nil, fmt.Errorf("track row of %d bytes, need %d: %w", len(row), trackFixedLen, ErrTruncated)
	}
	r := newRowReader(row)
	t := &Track{
		Subtype:      r.U16LE(0x00),
		IndexShift:   r.U16LE(0x02),
		Bitmask:      r.U32LE(0x04),
		SampleRate:   r.U32LE(0x08),
		ComposerID:   r.U32LE(0x0C),
		FileSize:     r.U32LE(0x10),
		Unknown2:     r.U32LE(0x14),
		Unknown3:     r.U16LE(0x18),
		Unknown4:     r.U16LE(0x1A),
		ArtworkID:    r.U32LE(0x1C),
		KeyID:        r.U32LE(0x20),
		OrigArtistID: r.U32LE(0x24),
		LabelID:      r.U32LE(0x28),
		RemixerID:    r.U32LE(0x2C),
		Bitrate:      r.U32LE(0x30),
		TrackNumber:  r.U32LE(0x34),
		Tempo:        r.U32LE(0x38),
		GenreID:      r.U32LE(0x3C),
		AlbumID:      r.U32LE(0x40),
		ArtistID:     r.U32LE(0x44),
		ID:           r.U32LE(0x48),
		DiscNumber:   r.U16LE(0x4C),
		PlayCount:    r.U16LE(0x4E),
		Year:         r.U16LE(0x50),
		SampleDepth:  r.U16LE(0x52),
		Duration:     r.U16LE(0x54),
		Unknown5:     r.U16LE(0x56),
		ColorID:      r.U8(0x58),
		Rating:       r.U8(0x59),
		Unknown6:     r.U16LE(0x5A),
		Unknown7:     r.U16LE(0x5C),
	}
	// Each string is self-delimiting, so its offset alone locates it.
	for i, p := range t.strings() {
		*p = r.str(int(r.U16LE(trackStringsAt + 2*i)))
		if err := r.Err(); err != nil {
			return nil, fmt.Errorf("track %d string %d: %w", t.ID, i, err)
		}
	}
	return t, nil
}

func (t *Track) encode(a *buf.Arena, index int) error {
	a.Grow(trackFixedLen)
	a.PutU16LE(0x00, t.Subtype)
	a.PutU16LE(0x02, indexShift(index))
	a.PutU32LE(0x04, t.Bitmask)
	a.PutU32LE(0x08, t.SampleRate)
	a.PutU32LE(0x0C, t.ComposerID)
	a.PutU32LE(0x10, t.FileSize)
	a.PutU32LE(0x14, t.Unknown2)
	a.PutU16LE(0x18, t.Unknown3)
	a.PutU16LE(0x1A, t.Unknown4)
	a.PutU32LE(0x1C, t.ArtworkID)
	a.PutU32LE(0x20, t.KeyID)
	a.PutU32LE(0x24, t.OrigArtistID)
	a.PutU32LE(0x28, t.LabelID)
	a.PutU32LE(0x2C, t.RemixerID)
	a.PutU32LE(0x30, t.Bitrate)
	a.PutU32LE(0x34, t.TrackNumber)
	a.PutU32LE(0x38, t.Tempo)
	a.PutU32LE(0x3C, t.GenreID)
	a.PutU32LE(0x40, t.AlbumID)
	a.PutU32LE(0x44, t.ArtistID)
	a.PutU32LE(0x48, t.ID)
	a.PutU16LE(0x4C, t.DiscNumber)
	a.PutU16LE(0x4E, t.PlayCount)
	a.PutU16LE(0x50, t.Year)
	a.PutU16LE(0x52, t.SampleDepth)
	a.PutU16LE(0x54, t.Duration)
	a.PutU16LE(0x56, t.Unknown5)
	a.PutU8(0x58, t.ColorID)
	a.PutU8(0x59, t.Rating)
	a.PutU16LE(0x5A, t.Unknown6)
	a.PutU16LE(0x5C, t.Unknown7)
	for i, p := range t.strings() {
		off, err := putString(a, *p)
		if err != nil {
			return fmt.Errorf("string %d: %w", i, err)
		}
		if off > 0xFFFF {
			return fmt.Errorf("string %d at offset %d: %w", i, off, ErrRowTooLarge)
		}
		a.PutU16LE(trackStringsAt+2*i, uint16(off))
	}
	return nil
}

// BPM returns the tempo in beats per minute.
func (t *Track) BPM() float64 { return float64(t.Tempo) / 100 }
