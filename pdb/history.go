package pdb

import (
	"fmt"

	"github.com/joshuapare/pioneerkit/internal/buf"
)

// HistoryPlaylist is a row of table 17. Exports carry a fixed set of these.
type HistoryPlaylist struct {
	Unknown1 uint16
	Unknown2 uint16
	Unknown3 uint8
	Unknown4 uint8
	Unknown5 uint16
}

func (*HistoryPlaylist) Table() TableType { return TableHistoryPlaylists }

func decodeHistoryPlaylist(row []byte) (Row, error) {
	r := buf.NewReader(row)
	h := &HistoryPlaylist{
		Unknown1: r.U16LE(0),
		Unknown2: r.U16LE(2),
		Unknown3: r.U8(4),
		Unknown4: r.U8(5),
		Unknown5: r.U16LE(6),
	}
	return h, r.Err()
}

func (h *HistoryPlaylist) encode(a *buf.Arena, _ int) error {
	a.Grow(8)
	a.PutU16LE(0, h.Unknown1)
	a.PutU16LE(2, h.Unknown2)
	a.PutU8(4, h.Unknown3)
	a.PutU8(5, h.Unknown4)
	a.PutU16LE(6, h.Unknown5)
	return nil
}

// HistoryEntry is a row of table 18.
type HistoryEntry struct {
	TrackID    uint16
	PlaylistID uint16
	EntryIndex uint32
}

func (*HistoryEntry) Table() TableType { return TableHistoryEntries }

func decodeHistoryEntry(row []byte) (Row, error) {
	r := buf.NewReader(row)
	e := &HistoryEntry{TrackID: r.U16LE(0), PlaylistID: r.U16LE(2), EntryIndex: r.U32LE(4)}
	return e, r.Err()
}

func (e *HistoryEntry) encode(a *buf.Arena, _ int) error {
	a.Grow(8)
	a.PutU16LE(0, e.TrackID)
	a.PutU16LE(2, e.PlaylistID)
	a.PutU32LE(4, e.EntryIndex)
	return nil
}

// History is a row of table 19.
//
//	0x00  1  unknown
//	0x01  1  unknown
//	0x02  1  unknown
//	0x03  2  unknown
//	0x05  4  unknown
//	0x09  2  unknown
//	0x0B  1  unknown
//	0x0C     date string, then u8, u8, number string, u16 and 8 zero bytes
type History struct {
	Unknown1  uint8
	Unknown2  uint8
	Unknown3  uint8
	Unknown4  uint16
	Unknown5  uint32
	Unknown6  uint16
	Unknown7  uint8
	Date      string
	Unknown8  uint8
	Unknown9  uint8
	Number    string
	Unknown10 uint16
}

const historyTailLen = 8

func (*History) Table() TableType { return TableHistory }

func decodeHistory(row []byte) (Row, error) {
	r := buf.NewReader(row)
	h := &History{
		Unknown1: r.U8(0),
		Unknown2: r.U8(1),
		Unknown3: r.U8(2),
		Unknown4: r.U16LE(3),
		Unknown5: r.U32LE(5),
		Unknown6: r.U16LE(9),
		Unknown7: r.U8(11),
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	date, n, err := DecodeString(row, 12)
	if err != nil {
		return nil, fmt.Errorf("history date: %w", err)
	}
	off := 12 + n
	h.Date = date
	h.Unknown8 = r.U8(off)
	h.Unknown9 = r.U8(off + 1)
	num, m, err := DecodeString(row, off+2)
	if err != nil {
		return nil, fmt.Errorf("history number: %w", err)
	}
	h.Number = num
	h.Unknown10 = r.U16LE(off + 2 + m)
	return h, r.Err()
}

func (h *History) encode(a *buf.Arena, _ int) error {
	a.Grow(12)
	a.PutU8(0, h.Unknown1)
	a.PutU8(1, h.Unknown2)
	a.PutU8(2, h.Unknown3)
	a.PutU16LE(3, h.Unknown4)
	a.PutU32LE(5, h.Unknown5)
	a.PutU16LE(9, h.Unknown6)
	a.PutU8(11, h.Unknown7)
	if _, err := putString(a, h.Date); err != nil {
		return err
	}
	off := a.Grow(2)
	a.PutU8(off, h.Unknown8)
	a.PutU8(off+1, h.Unknown9)
	if _, err := putString(a, h.Number); err != nil {
		return err
	}
	off = a.Grow(2 + historyTailLen)
	a.PutU16LE(off, h.Unknown10)
	return nil
}
