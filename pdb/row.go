package pdb

import (
	"fmt"

	"github.com/joshuapare/pioneerkit/internal/buf"
)

// Row is one decoded table row. The set of implementations is closed: one
// type per known table plus UnknownRow.
type Row interface {
	// Table identifies the table the row belongs to.
	Table() TableType

	// encode writes the row at offset 0 of a. index is the row's position
	// on its page, which some layouts store.
	encode(a *buf.Arena, index int) error
}

type rowDecoder func(row []byte) (Row, error)

var rowDecoders = map[TableType]rowDecoder{
	TableTracks:           decodeTrack,
	TableGenres:           decodeGenre,
	TableArtists:          decodeArtist,
	TableAlbums:           decodeAlbum,
	TableLabels:           decodeLabel,
	TableKeys:             decodeKey,
	TableColors:           decodeColor,
	TablePlaylistTree:     decodePlaylistTreeNode,
	TablePlaylistEntries:  decodePlaylistEntry,
	TableArtwork:          decodeArtwork,
	TableColumns:          decodeColumn,
	TableHistoryPlaylists: decodeHistoryPlaylist,
	TableHistoryEntries:   decodeHistoryEntry,
	TableHistory:          decodeHistory,
}

// DecodeRow decodes row, the bytes from a row's heap offset up to the next
// row, as a row of table t. Tables without a known layout yield an UnknownRow.
func DecodeRow(t TableType, row []byte) (Row, error) {
	dec, ok := rowDecoders[t]
	if !ok {
		return &UnknownRow{Type: t, Raw: append([]byte(nil), row...)}, nil
	}
	return dec(row)
}

// EncodeRow returns the bytes of r as it would be written at position index
// of a page.
func EncodeRow(r Row, index int) ([]byte, error) {
	a := buf.NewArena(64)
	if err := r.encode(a, index); err != nil {
		return nil, fmt.Errorf("pdb: %s row: %w", r.Table(), err)
	}
	if err := a.Err(); err != nil {
		return nil, fmt.Errorf("pdb: %s row: %w", r.Table(), err)
	}
	return a.Bytes(), nil
}

// indexShift is the value rekordbox stores for the row at position index.
func indexShift(index int) uint16 { return uint16(32 * index) }

// UnknownRow carries a row of a table without a known layout.
type UnknownRow struct {
	Type TableType
	Raw  []byte
}

func (r *UnknownRow) Table() TableType { return r.Type }

func (r *UnknownRow) encode(a *buf.Arena, _ int) error {
	a.Append(r.Raw)
	return nil
}

// rowReader wraps buf.Reader with the string lookups rows need.
type rowReader struct {
	*buf.Reader
	row []byte
	err error
}

func newRowReader(row []byte) *rowReader {
	return &rowReader{Reader: buf.NewReader(row), row: row}
}

func (r *rowReader) str(off int) string {
	if r.err != nil {
		return ""
	}
	s, err := readString(r.row, off)
	if err != nil {
		r.err = err
	}
	return s
}

func (r *rowReader) Err() error {
	if err := r.Reader.Err(); err != nil {
		return err
	}
	return r.err
}
