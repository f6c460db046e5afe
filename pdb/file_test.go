package pdb

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/joshuapare/pioneerkit/internal/buf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDatabase() *Database {
	db := New(nil)
	db.InstallDefaults()

	tr := amazingGrace()
	db.Add(
		tr,
		&Genre{ID: 1, Name: "Gospel"},
		NewArtist(1, "Choir"),
		NewAlbum(1, 1, "Hymns"),
		&Key{ID: 1, ID2: 1, Name: "G"},
		&Artwork{ID: 1, Path: "/PIONEER/Artwork/00001/a1.jpg"},
		&PlaylistTreeNode{ID: 1, Name: "Sunday"},
		&PlaylistEntry{EntryIndex: 1, TrackID: 1, PlaylistID: 1},
	)
	return db
}

func TestEmptyDatabaseLayout(t *testing.T) {
	data, err := New(nil).Build()
	require.NoError(t, err)

	pages := 1 + 2*NumTables
	require.Len(t, data, pages*DefaultPageSize)
	assert.Equal(t, uint32(DefaultPageSize), buf.U32LE(data[0x04:]))
	assert.Equal(t, uint32(NumTables), buf.U32LE(data[0x08:]))
	assert.Equal(t, uint32(pages), buf.U32LE(data[0x0C:]))
	assert.Equal(t, uint32(5), buf.U32LE(data[0x10:]))
	assert.Equal(t, uint32(1), buf.U32LE(data[0x14:]))

	// tracks: header page 1, empty candidate page 2
	assert.Equal(t, []uint32{0, 2, 1, 1}, []uint32{
		buf.U32LE(data[28:]), buf.U32LE(data[32:]), buf.U32LE(data[36:]), buf.U32LE(data[40:]),
	})

	hdr := data[DefaultPageSize : 2*DefaultPageSize]
	assert.Equal(t, uint32(1), buf.U32LE(hdr[0x04:]))
	assert.Equal(t, FlagHeader, hdr[0x1B])
	assert.Equal(t, uint16(rowCountSentinel), buf.U16LE(hdr[0x22:]))
	assert.Equal(t, uint32(1), buf.U32LE(hdr[PageHeaderSize:]))
	assert.Equal(t, uint32(headerPageNone), buf.U32LE(hdr[PageHeaderSize+4:]))
	assert.Equal(t, uint32(headerPageMarker), buf.U32LE(hdr[PageHeaderSize+16:]))
	assert.Equal(t, uint32(headerPageFill), buf.U32LE(hdr[PageHeaderSize+20:]))

	assert.Equal(t, make([]byte, DefaultPageSize), data[2*DefaultPageSize:3*DefaultPageSize])
}

func TestDatabaseRoundTrip(t *testing.T) {
	db := sampleDatabase()
	data, err := db.Build()
	require.NoError(t, err)

	got, err := Parse(data, nil)
	require.NoError(t, err)
	assert.Equal(t, db.Header, got.Header)
	assert.Equal(t, db.Pointers, got.Pointers)
	assert.Equal(t, db.Tables(), got.Tables())
	for _, tt := range db.Tables() {
		assert.Equal(t, db.Rows(tt), got.Rows(tt), tt.String())
	}

	again, err := got.Build()
	require.NoError(t, err)
	assert.True(t, bytes.Equal(data, again), "re-encoding a decoded database is byte-identical")
}

func TestDatabaseTablePages(t *testing.T) {
	db := sampleDatabase()
	_, err := db.Build()
	require.NoError(t, err)

	tracks := db.Pointers[TableTracks]
	assert.Equal(t, uint32(1), tracks.FirstPage)
	assert.Equal(t, uint32(2), tracks.LastPage)
	assert.Equal(t, uint32(3), tracks.EmptyCandidate)

	genres := db.Pointers[TableGenres]
	assert.Equal(t, uint32(4), genres.FirstPage)

	labels := db.Pointers[TableLabels]
	assert.Equal(t, labels.FirstPage, labels.LastPage, "a table without rows has only its header page")
}

func TestDatabaseOverflowAcrossPages(t *testing.T) {
	db := New(nil)
	db.SetRows(TableTracks, bulkyTracks(60))
	data, err := db.Build()
	require.NoError(t, err)

	ptr := db.Pointers[TableTracks]
	assert.Greater(t, ptr.LastPage, ptr.FirstPage+1)

	// each data page links to the one after it
	for idx := ptr.FirstPage + 1; idx < ptr.LastPage; idx++ {
		page := data[int(idx)*DefaultPageSize:]
		assert.Equal(t, idx+1, buf.U32LE(page[0x0C:]))
	}

	got, err := Parse(data, nil)
	require.NoError(t, err)
	tracks := got.Tracks()
	require.Len(t, tracks, 60)
	for i, tr := range tracks {
		assert.Equal(t, uint32(i+1), tr.ID)
	}
}

func TestDatabaseAccessors(t *testing.T) {
	db := sampleDatabase()
	db.Add(
		&PlaylistEntry{EntryIndex: 3, TrackID: 2, PlaylistID: 1},
		&PlaylistEntry{EntryIndex: 2, TrackID: 99, PlaylistID: 1},
		&PlaylistEntry{EntryIndex: 1, TrackID: 2, PlaylistID: 5},
	)
	second := NewTrack(2)
	second.Title = "Be Thou My Vision"
	db.Add(second)

	tr, ok := db.TrackByID(2)
	require.True(t, ok)
	assert.Equal(t, "Be Thou My Vision", tr.Title)
	_, ok = db.TrackByID(42)
	assert.False(t, ok)

	playlist := db.PlaylistTracks(1)
	require.Len(t, playlist, 2)
	assert.Equal(t, uint32(1), playlist[0].ID)
	assert.Equal(t, uint32(2), playlist[1].ID)

	assert.Len(t, db.Colors(), 8)
	assert.Len(t, db.Columns(), 27)
	assert.Len(t, db.Genres(), 1)
	assert.Len(t, db.Artists(), 1)
	assert.Len(t, db.Albums(), 1)
	assert.Len(t, db.Keys(), 1)
	assert.Len(t, db.Labels(), 0)
	assert.Len(t, db.Artworks(), 1)
	assert.Len(t, db.PlaylistTree(), 1)
	assert.Len(t, db.HistoryPlaylists(), 22)
	assert.Len(t, db.HistoryEntries(), 17)
	assert.Len(t, db.History(), 1)
}

func TestBuildRejectsOversizedRow(t *testing.T) {
	db := New(nil)
	tr := NewTrack(1)
	tr.Comment = string(make([]byte, 5000))
	db.Add(tr)
	_, err := db.Build()
	require.ErrorIs(t, err, ErrRowTooLarge)
}

func TestBuildHonorsPageSize(t *testing.T) {
	db := New(&Options{PageSize: 1024})
	db.SetRows(TableGenres, genreRows(200))
	data, err := db.Build()
	require.NoError(t, err)
	assert.Zero(t, len(data)%1024)

	got, err := Parse(data, nil)
	require.NoError(t, err)
	assert.Equal(t, uint32(1024), got.Header.PageSize)
	assert.Len(t, got.Genres(), 200)
}

func TestParseErrors(t *testing.T) {
	data, err := sampleDatabase().Build()
	require.NoError(t, err)

	t.Run("short header", func(t *testing.T) {
		_, err := Parse(data[:10], nil)
		require.ErrorIs(t, err, ErrFormat)
		require.ErrorIs(t, err, ErrTruncated)
	})

	t.Run("bad page size", func(t *testing.T) {
		bad := bytes.Clone(data[:DefaultPageSize])
		bad[4], bad[5] = 7, 0
		_, err := Parse(bad, nil)
		var fe *FormatError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, -1, fe.Page)
		assert.Equal(t, 4, fe.Offset)
	})

	t.Run("missing pages", func(t *testing.T) {
		_, err := Parse(data[:3*DefaultPageSize], nil)
		var fe *FormatError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, 3, fe.Page)
		assert.Equal(t, 3*DefaultPageSize, fe.Offset)
		require.ErrorIs(t, err, ErrTruncated)
	})

	t.Run("corrupt page", func(t *testing.T) {
		bad := bytes.Clone(data)
		page := bad[2*DefaultPageSize:]
		page[0x1E], page[0x1F] = 0xFF, 0xFF
		_, err := Parse(bad, nil)
		var fe *FormatError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, 2, fe.Page)
		assert.Contains(t, err.Error(), "page 2")
	})
}

func TestParseFile(t *testing.T) {
	data, err := sampleDatabase().Build()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "export.pdb")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	db, err := ParseFile(path, &Options{Logger: logger})
	require.NoError(t, err)
	assert.Equal(t, path, db.Source)
	assert.Len(t, db.Tracks(), 1)
	assert.Contains(t, logs.String(), "pdb: page decoded")

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.pdb"), nil)
	require.True(t, errors.Is(err, os.ErrNotExist))

	truncated := filepath.Join(t.TempDir(), "short.pdb")
	require.NoError(t, os.WriteFile(truncated, data[:2*DefaultPageSize], 0o644))
	_, err = ParseFile(truncated, nil)
	require.ErrorIs(t, err, ErrFormat)
	assert.Contains(t, err.Error(), truncated)
}
