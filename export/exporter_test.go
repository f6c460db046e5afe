package export

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/pioneerkit/anlz"
	"github.com/joshuapare/pioneerkit/internal/writer"
	"github.com/joshuapare/pioneerkit/pdb"
	"github.com/joshuapare/pioneerkit/settings"
)

type fakeSamples struct {
	fail string
}

func (f fakeSamples) Samples(_ context.Context, location string) ([]float64, error) {
	if location == f.fail {
		return nil, errors.New("decode failed")
	}
	return ramp(300), nil
}

type fakeArtwork map[string]*Artwork

func (f fakeArtwork) Artwork(location string) (*Artwork, error) {
	return f[location], nil
}

type fakeTags map[string]Tags

func (f fakeTags) Tags(location string) (Tags, error) {
	return f[location], nil
}

func audioFile(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte("audio:"+name), 0o644))
	return p
}

func testCollection(t *testing.T) *Collection {
	dir := t.TempDir()
	return &Collection{
		Tracks: []Track{
			{
				ID: 101, Location: audioFile(t, dir, "one.mp3"),
				Title: "One", Artist: "Alpha", Album: "First", Genre: "House", Key: "Am",
				Composer: "Writer", Label: "Label A",
				Duration: 4, AverageBPM: 120, Year: 2020, Rating: 204, DateAdded: "2024-01-02",
				Tempos: []TempoMarker{{Start: 0, BPM: 120, Beat: 1}},
				Marks:  []PositionMark{{Num: 0, Start: 1}},
			},
			{
				ID: 102, Location: audioFile(t, dir, "two.mp3"),
				Title: "Two", Artist: "Beta", Album: "First", Genre: "House", Key: "Am",
				Duration: 2,
			},
			{
				ID: 103, Location: audioFile(t, dir, "three.mp3"),
				Artist: "Alpha", Album: "First", Key: "Cm",
			},
		},
		Playlists: []Playlist{
			{Name: TrialPlaylist, TrackIDs: []uint32{101}},
			{Name: "Warmup", TrackIDs: []uint32{102, 999, 101}},
			{Name: "Sets", Folder: true, Children: []Playlist{
				{Name: "Friday", TrackIDs: []uint32{103}},
			}},
		},
	}
}

func fixedNow() time.Time { return time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC) }

func TestBuildPlanCatalogs(t *testing.T) {
	col := testCollection(t)
	p, err := buildPlan(col, &Options{Now: fixedNow})
	require.NoError(t, err)
	db := p.db

	artists := db.Artists()
	require.Len(t, artists, 3)
	assert.Equal(t, []string{"Alpha", "Writer", "Beta"}, []string{artists[0].Name, artists[1].Name, artists[2].Name})

	albums := db.Albums()
	require.Len(t, albums, 2, "same album name under two artists")
	assert.Equal(t, uint32(1), albums[0].ArtistID)
	assert.Equal(t, uint32(3), albums[1].ArtistID)

	keys := db.Keys()
	require.Len(t, keys, 2)
	assert.Equal(t, keys[1].ID, keys[1].ID2)
	assert.Len(t, db.Genres(), 1)
	assert.Len(t, db.Labels(), 1)

	tracks := db.Tracks()
	require.Len(t, tracks, 3)
	one := tracks[0]
	assert.Equal(t, uint32(1), one.ID)
	assert.Equal(t, uint32(101), one.Unknown2)
	assert.Equal(t, uint32(12000), one.Tempo)
	assert.Equal(t, uint8(4), one.Rating)
	assert.Equal(t, uint32(2), one.ComposerID)
	assert.Equal(t, "2026-03-04", one.AnalyzeDate)
	assert.Equal(t, "/Contents/Alpha/First/one.mp3", one.FilePath)
	assert.Equal(t, "one.mp3", one.Filename)
	assert.Equal(t, AnalysisPath(hashID(101)), one.AnalyzePath)

	assert.Equal(t, "three", tracks[2].Title, "title falls back to the file name")
	assert.Equal(t, albums[0].ID, tracks[2].AlbumID)

	assert.Len(t, db.Colors(), 8)
	assert.Len(t, db.Columns(), 27)
}

func TestBuildPlanPlaylists(t *testing.T) {
	p, err := buildPlan(testCollection(t), &Options{})
	require.NoError(t, err)

	tree := p.db.PlaylistTree()
	require.Len(t, tree, 3)
	assert.Equal(t, "Warmup", tree[0].Name)
	assert.Equal(t, uint32(1), tree[0].ID)
	assert.Equal(t, "Sets", tree[1].Name)
	assert.True(t, tree[1].IsFolder())
	assert.Equal(t, uint32(1), tree[1].SortOrder)
	assert.Equal(t, "Friday", tree[2].Name)
	assert.Equal(t, tree[1].ID, tree[2].ParentID)
	assert.Equal(t, uint32(0), tree[2].SortOrder)

	warmup := p.db.PlaylistTracks(1)
	require.Len(t, warmup, 2, "unknown ids are dropped")
	assert.Equal(t, "Two", warmup[0].Title)
	assert.Equal(t, "One", warmup[1].Title)

	entries := p.db.PlaylistEntries()
	require.Len(t, entries, 3)
	assert.Equal(t, uint32(2), entries[1].EntryIndex)
}

func TestBuildPlanTagFallbackAndArtwork(t *testing.T) {
	col := testCollection(t)
	loc := col.Tracks[2].Location
	opts := &Options{
		Tags:    fakeTags{loc: {Title: "Three (tag)", Genre: "Techno", Year: 1999}},
		Artwork: fakeArtwork{loc: {Image: []byte{0xFF, 0xD8}, Thumbnail: []byte{0xFF}}},
	}
	p, err := buildPlan(col, opts)
	require.NoError(t, err)

	three := p.db.Tracks()[2]
	assert.Equal(t, "Three (tag)", three.Title)
	assert.Equal(t, uint16(1999), three.Year)
	assert.NotZero(t, three.GenreID)
	assert.Equal(t, uint32(1), three.ArtworkID)

	art := p.db.Artworks()
	require.Len(t, art, 1)
	assert.Equal(t, "/PIONEER/Artwork/00001/a1.jpg", art[0].Path)
	assert.Zero(t, p.db.Tracks()[0].ArtworkID)
}

func TestStars(t *testing.T) {
	for in, want := range map[int]uint8{0: 0, 3: 3, 51: 1, 102: 2, 255: 5, 300: 5, -1: 0} {
		assert.Equal(t, want, stars(in), "%d", in)
	}
}

func TestExportToMemory(t *testing.T) {
	col := testCollection(t)
	sink := &writer.MemWriter{}
	var mu sync.Mutex
	var calls []int
	opts := &Options{
		Workers:  2,
		Samples:  fakeSamples{},
		Sink:     sink,
		Settings: true,
		Verify:   true,
		Now:      fixedNow,
		Progress: func(done, total int) {
			mu.Lock()
			defer mu.Unlock()
			assert.Equal(t, 3, total)
			calls = append(calls, done)
		},
	}

	sum, err := New(opts).Export(context.Background(), col, "unused")
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Tracks)
	assert.Equal(t, 3, sum.Playlists)
	assert.Equal(t, []int{1, 2, 3}, calls)

	raw, ok := sink.File(DatabasePath)
	require.True(t, ok)
	assert.Equal(t, len(raw), sum.Database)
	db, err := pdb.Parse(raw, nil)
	require.NoError(t, err)
	require.Len(t, db.Tracks(), 3)

	for _, tr := range db.Tracks() {
		audio, ok := sink.File(rel(tr.FilePath))
		require.True(t, ok, tr.FilePath)
		assert.Contains(t, string(audio), "audio:")

		dat, ok := sink.File(rel(tr.AnalyzePath))
		require.True(t, ok, tr.AnalyzePath)
		f, err := anlz.Parse(dat, nil)
		require.NoError(t, err)
		assert.Equal(t, tr.FilePath, f.Path())

		ext, ok := sink.File(rel(extPath(tr.AnalyzePath)))
		require.True(t, ok)
		g, err := anlz.Parse(ext, nil)
		require.NoError(t, err)
		tag, ok := g.Tag(anlz.KindWaveformDetail)
		require.True(t, ok)
		assert.Len(t, tag.Payload.(*anlz.WaveformDetail).Columns, 300)
	}

	for _, k := range settings.Kinds {
		data, ok := sink.File("PIONEER/" + k.FileName())
		require.True(t, ok, k.FileName())
		f, err := settings.Parse(data, k)
		require.NoError(t, err)
		require.NoError(t, f.Verify())
	}
}

func TestExportWithoutSamplesWritesSilentWaveforms(t *testing.T) {
	sink := &writer.MemWriter{}
	_, err := New(&Options{Sink: sink}).Export(context.Background(), testCollection(t), "")
	require.NoError(t, err)

	_, ok := sink.File("PIONEER/MYSETTING.DAT")
	assert.False(t, ok, "settings are opt-in through Options")

	p, err := buildPlan(testCollection(t), &Options{})
	require.NoError(t, err)
	dat, ok := sink.File(rel(p.db.Tracks()[0].AnalyzePath))
	require.True(t, ok)
	f, err := anlz.Parse(dat, nil)
	require.NoError(t, err)
	tag, ok := f.Tag(anlz.KindWaveformPreview)
	require.True(t, ok)
	assert.Len(t, tag.Payload.(*anlz.WaveformPreview).Columns, anlz.WaveformPreviewLen)
}

func TestExportWritesArtwork(t *testing.T) {
	col := testCollection(t)
	sink := &writer.MemWriter{}
	opts := &Options{
		Sink:    sink,
		Artwork: fakeArtwork{col.Tracks[0].Location: {Image: []byte{1}, Thumbnail: []byte{2}}},
	}
	sum, err := New(opts).Export(context.Background(), col, "")
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Artwork)

	img, ok := sink.File("PIONEER/Artwork/00001/a1.jpg")
	require.True(t, ok)
	assert.Equal(t, []byte{1}, img)
	thumb, ok := sink.File("PIONEER/Artwork/00001/a1_m.jpg")
	require.True(t, ok)
	assert.Equal(t, []byte{2}, thumb)
}

func TestExportFirstErrorStopsDatabase(t *testing.T) {
	col := testCollection(t)
	sink := &writer.MemWriter{}
	opts := &Options{Workers: 1, Sink: sink, Samples: fakeSamples{fail: col.Tracks[1].Location}}

	_, err := New(opts).Export(context.Background(), col, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode failed")

	_, ok := sink.File(DatabasePath)
	assert.False(t, ok)
}

func TestExportCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sink := &writer.MemWriter{}
	_, err := New(&Options{Sink: sink}).Export(ctx, testCollection(t), "")
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, sink.Names())
}

func TestExportMissingAudio(t *testing.T) {
	col := testCollection(t)
	col.Tracks[0].Location = filepath.Join(t.TempDir(), "gone.mp3")
	_, err := New(&Options{Sink: &writer.MemWriter{}}).Export(context.Background(), col, "")
	require.Error(t, err)
}

func TestExportToDisk(t *testing.T) {
	root := t.TempDir()
	_, err := New(&Options{Workers: 3, Settings: true}).Export(context.Background(), testCollection(t), root)
	require.NoError(t, err)

	db, err := pdb.ParseFile(filepath.Join(root, "PIONEER", "rekordbox", "export.pdb"), nil)
	require.NoError(t, err)
	require.Len(t, db.Tracks(), 3)
	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(rel(db.Tracks()[1].FilePath))))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(root, "PIONEER", "DEVSETTING.DAT"))
	require.NoError(t, err)
}
