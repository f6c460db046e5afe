package pdb

import (
	"fmt"

	"github.com/joshuapare/pioneerkit/internal/buf"
)

// Genre is a row of the genres table: id u32, name string at 0x04.
type Genre struct {
	ID   uint32
	Name string
}

func (*Genre) Table() TableType { return TableGenres }

func decodeGenre(row []byte) (Row, error) {
	id, name, err := decodeNamed(row)
	if err != nil {
		return nil, err
	}
	return &Genre{ID: id, Name: name}, nil
}

func (g *Genre) encode(a *buf.Arena, _ int) error { return encodeNamed(a, g.ID, g.Name) }

// Label is a row of the labels table, laid out like Genre.
type Label struct {
	ID   uint32
	Name string
}

func (*Label) Table() TableType { return TableLabels }

func decodeLabel(row []byte) (Row, error) {
	id, name, err := decodeNamed(row)
	if err != nil {
		return nil, err
	}
	return &Label{ID: id, Name: name}, nil
}

func (l *Label) encode(a *buf.Arena, _ int) error { return encodeNamed(a, l.ID, l.Name) }

// Artwork is a row of the artwork table: id u32, path string at 0x04.
type Artwork struct {
	ID   uint32
	Path string
}

func (*Artwork) Table() TableType { return TableArtwork }

func decodeArtwork(row []byte) (Row, error) {
	id, path, err := decodeNamed(row)
	if err != nil {
		return nil, err
	}
	return &Artwork{ID: id, Path: path}, nil
}

func (w *Artwork) encode(a *buf.Arena, _ int) error { return encodeNamed(a, w.ID, w.Path) }

func decodeNamed(row []byte) (uint32, string, error) {
	r := newRowReader(row)
	id := r.U32LE(0)
	name := r.str(4)
	return id, name, r.Err()
}

func encodeNamed(a *buf.Arena, id uint32, name string) error {
	a.Grow(4)
	a.PutU32LE(0, id)
	_, err := putString(a, name)
	return err
}

// Artist subtypes select where the name offset is stored.
const (
	ArtistNear uint16 = 0x60 // u8 offset at 0x09
	ArtistFar  uint16 = 0x64 // u16 offset at 0x0A
)

// Artist is a row of the artists table.
//
//	0x00  2  subtype
//	0x02  2  index shift
//	0x04  4  id
//	0x08  1  unknown (3)
//	0x09  1  near name offset
//	0x0A  2  far name offset (far subtype only)
type Artist struct {
	Subtype    uint16
	IndexShift uint16 // as read; recomputed on write
	ID         uint32
	Unknown1   uint8
	Name       string
}

// NewArtist returns an artist row using the near layout.
func NewArtist(id uint32, name string) *Artist {
	return &Artist{Subtype: ArtistNear, ID: id, Unknown1: 3, Name: name}
}

func (*Artist) Table() TableType { return TableArtists }

func decodeArtist(row []byte) (Row, error) {
	r := newRowReader(row)
	ar := &Artist{
		Subtype:    r.U16LE(0),
		IndexShift: r.U16LE(2),
		ID:         r.U32LE(4),
		Unknown1:   r.U8(8),
	}
	off := int(r.U8(9))
	if ar.Subtype == ArtistFar {
		off = int(r.U16LE(10))
	}
	ar.Name = r.str(off)
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("artist %d: %w", ar.ID, err)
	}
	return ar, nil
}

func (ar *Artist) encode(a *buf.Arena, index int) error {
	fixed := 10
	if ar.Subtype == ArtistFar {
		fixed = 12
	}
	a.Grow(fixed)
	a.PutU16LE(0, ar.Subtype)
	a.PutU16LE(2, indexShift(index))
	a.PutU32LE(4, ar.ID)
	a.PutU8(8, ar.Unknown1)
	off, err := putString(a, ar.Name)
	if err != nil {
		return err
	}
	if ar.Subtype == ArtistFar {
		a.PutU8(9, 0)
		a.PutU16LE(10, uint16(off))
	} else {
		a.PutU8(9, uint8(off))
	}
	return nil
}

// Album subtypes select where the name offset is stored.
const (
	AlbumNear uint16 = 0x80 // u8 offset at 0x15
	AlbumFar  uint16 = 0x84 // u16 offset at 0x16
)

// Album is a row of the albums table.
//
//	0x00  2  subtype
//	0x02  2  index shift
//	0x04  4  unknown
//	0x08  4  artist id
//	0x0C  4  id
//	0x10  4  unknown
//	0x14  1  unknown (3)
//	0x15  1  near name offset
//	0x16  2  far name offset (far subtype only)
type Album struct {
	Subtype    uint16
	IndexShift uint16 // as read; recomputed on write
	Unknown2   uint32
	ArtistID   uint32
	ID         uint32
	Unknown3   uint32
	Unknown4   uint8
	Name       string
}

// NewAlbum returns an album row using the near layout.
func NewAlbum(id, artistID uint32, name string) *Album {
	return &Album{Subtype: AlbumNear, ID: id, ArtistID: artistID, Unknown4: 3, Name: name}
}

func (*Album) Table() TableType { return TableAlbums }

func decodeAlbum(row []byte) (Row, error) {
	r := newRowReader(row)
	al := &Album{
		Subtype:    r.U16LE(0x00),
		IndexShift: r.U16LE(0x02),
		Unknown2:   r.U32LE(0x04),
		ArtistID:   r.U32LE(0x08),
		ID:         r.U32LE(0x0C),
		Unknown3:   r.U32LE(0x10),
		Unknown4:   r.U8(0x14),
	}
	off := int(r.U8(0x15))
	if al.Subtype == AlbumFar {
		off = int(r.U16LE(0x16))
	}
	al.Name = r.str(off)
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("album %d: %w", al.ID, err)
	}
	return al, nil
}

func (al *Album) encode(a *buf.Arena, index int) error {
	fixed := 0x16
	if al.Subtype == AlbumFar {
		fixed = 0x18
	}
	a.Grow(fixed)
	a.PutU16LE(0x00, al.Subtype)
	a.PutU16LE(0x02, indexShift(index))
	a.PutU32LE(0x04, al.Unknown2)
	a.PutU32LE(0x08, al.ArtistID)
	a.PutU32LE(0x0C, al.ID)
	a.PutU32LE(0x10, al.Unknown3)
	a.PutU8(0x14, al.Unknown4)
	off, err := putString(a, al.Name)
	if err != nil {
		return err
	}
	if al.Subtype == AlbumFar {
		a.PutU16LE(0x16, uint16(off))
	} else {
		a.PutU8(0x15, uint8(off))
	}
	return nil
}

// Key is a row of the keys table: id u32, id2 u32, name string at 0x08.
type Key struct {
	ID   uint32
	ID2  uint32
	Name string
}

func (*Key) Table() TableType { return TableKeys }

func decodeKey(row []byte) (Row, error) {
	r := newRowReader(row)
	k := &Key{ID: r.U32LE(0), ID2: r.U32LE(4)}
	k.Name = r.str(8)
	return k, r.Err()
}

func (k *Key) encode(a *buf.Arena, _ int) error {
	a.Grow(8)
	a.PutU32LE(0, k.ID)
	a.PutU32LE(4, k.ID2)
	_, err := putString(a, k.Name)
	return err
}

// Color is a row of the colors table.
//
//	0x00  4  unknown
//	0x04  1  unknown (equal to id in exports)
//	0x05  2  id
//	0x07  1  unknown
//	0x08     name
type Color struct {
	Unknown1 uint32
	Unknown2 uint8
	ID       uint16
	Unknown3 uint8
	Name     string
}

func (*Color) Table() TableType { return TableColors }

func decodeColor(row []byte) (Row, error) {
	r := newRowReader(row)
	c := &Color{Unknown1: r.U32LE(0), Unknown2: r.U8(4), ID: r.U16LE(5), Unknown3: r.U8(7)}
	c.Name = r.str(8)
	return c, r.Err()
}

func (c *Color) encode(a *buf.Arena, _ int) error {
	a.Grow(8)
	a.PutU32LE(0, c.Unknown1)
	a.PutU8(4, c.Unknown2)
	a.PutU16LE(5, c.ID)
	a.PutU8(7, c.Unknown3)
	_, err := putString(a, c.Name)
	return err
}
