package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/pioneerkit/anlz"
)

func TestBeatGrid(t *testing.T) {
	g := BeatGrid([]TempoMarker{{Start: 0.5, BPM: 120, Beat: 2}}, 3)

	require.Len(t, g.Entries, 6)
	assert.Equal(t, []uint16{2, 3, 4, 1, 2, 3}, g.Beats())
	for i, e := range g.Entries {
		assert.Equal(t, uint16(12000), e.Tempo)
		assert.Equal(t, uint32(500+500*i), e.Time)
	}
}

func TestBeatGridDefaultsFirstBeat(t *testing.T) {
	g := BeatGrid([]TempoMarker{{Start: 0, BPM: 128}}, 1)
	require.NotEmpty(t, g.Entries)
	assert.Equal(t, uint16(1), g.Entries[0].Beat)
	assert.Equal(t, uint16(12800), g.Entries[0].Tempo)
}

func TestBeatGridRoundsTimesHalfDown(t *testing.T) {
	// 90 BPM: beats every 0.6666 s.
	g := BeatGrid([]TempoMarker{{Start: 0, BPM: 90, Beat: 1}}, 2)
	require.Len(t, g.Entries, 3)
	assert.Equal(t, []uint32{0, 667, 1333}, []uint32{g.Entries[0].Time, g.Entries[1].Time, g.Entries[2].Time})
}

func TestBeatGridWithoutTempo(t *testing.T) {
	assert.Empty(t, BeatGrid(nil, 300).Entries)
	assert.Empty(t, BeatGrid([]TempoMarker{{BPM: 0}}, 300).Entries)
	assert.Empty(t, ExtBeatGrid(nil, 300).Entries)
}

func TestExtBeatGrid(t *testing.T) {
	tempos := []TempoMarker{{Start: 0.5, BPM: 120, Beat: 3}, {Start: 10, BPM: 121, Beat: 1}}
	g := ExtBeatGrid(tempos, 2)

	assert.Equal(t, anlz.BeatGridEntry{Beat: 3, Tempo: 12000, Time: 500}, g.Markers[0])
	assert.Equal(t, anlz.BeatGridEntry{Beat: 1, Tempo: 12100, Time: 10000}, g.Markers[1])
	assert.Equal(t, uint32(4), g.BeatCount)
	require.Len(t, g.Entries, 4)
	assert.Equal(t, anlz.ExtBeatEntry{Beat: 3}, g.Entries[0])
	assert.Equal(t, anlz.ExtBeatEntry{Beat: 2}, g.Entries[3])
}

func TestExtBeatGridSingleMarker(t *testing.T) {
	g := ExtBeatGrid([]TempoMarker{{BPM: 120}}, 1)
	assert.Equal(t, [2]anlz.BeatGridEntry{}, g.Markers)
	assert.Len(t, g.Entries, 2)
}

func marks() []PositionMark {
	return []PositionMark{
		{Name: "intro", Num: 0, Start: 1.5, Red: 40, Green: 226, Blue: 20},
		{Num: 1, Start: 2},
		{Num: 1, Start: 9},
		{Name: "drop", Num: 3, Start: 60.25, Type: loopMark, End: 64.25},
		{Num: MemoryCue, Start: 5},
		{Num: 8, Start: 7},
	}
}

func TestHotCuesSplitBetweenFiles(t *testing.T) {
	dat := HotCues(marks(), datFirstCue, datLastCue)
	require.Len(t, dat, 2)
	assert.Equal(t, uint32(1), dat[0].HotCue)
	assert.Equal(t, uint32(1500), dat[0].Time)
	assert.Equal(t, uint32(2), dat[1].HotCue)
	assert.Equal(t, uint32(2000), dat[1].Time, "first mark of a number wins")
	assert.False(t, dat[0].IsLoop())

	ext := HotCues(marks(), extFirstCue, extLastCue)
	require.Len(t, ext, 1)
	assert.Equal(t, uint32(4), ext[0].HotCue)
	assert.True(t, ext[0].IsLoop())
	assert.Equal(t, uint32(64250), ext[0].LoopTime)
}

func TestExtHotCues(t *testing.T) {
	cues := ExtHotCues(marks())
	require.Len(t, cues, 3)
	assert.Equal(t, "intro", cues[0].Comment)
	assert.Equal(t, [3]uint8{40, 226, 20}, [3]uint8{cues[0].Red, cues[0].Green, cues[0].Blue})
	assert.Equal(t, uint32(4), cues[2].HotCue)
	assert.Equal(t, "drop", cues[2].Comment)
}

func sampleTrack() *Track {
	return &Track{
		ID:       7,
		Location: "/music/song.mp3",
		Title:    "Song",
		Duration: 4,
		Tempos:   []TempoMarker{{Start: 0, BPM: 120, Beat: 1}, {Start: 2, BPM: 120, Beat: 1}},
		Marks:    marks(),
	}
}

func kinds(f *anlz.File) []anlz.Kind {
	out := make([]anlz.Kind, len(f.Tags))
	for i, tg := range f.Tags {
		out[i] = tg.Kind()
	}
	return out
}

func TestBuildDAT(t *testing.T) {
	f, err := BuildDAT(sampleTrack(), "/Contents/A/B/song.mp3", ramp(600))
	require.NoError(t, err)
	assert.Equal(t, []anlz.Kind{
		anlz.KindPath, anlz.KindVBR, anlz.KindBeatGrid, anlz.KindWaveformPreview,
		anlz.KindTinyWaveformPreview, anlz.KindCueList, anlz.KindCueList,
	}, kinds(f))

	data, err := f.Build()
	require.NoError(t, err)
	back, err := anlz.Parse(data, nil)
	require.NoError(t, err)
	assert.Equal(t, "/Contents/A/B/song.mp3", back.Path())
	g, ok := back.BeatGrid()
	require.True(t, ok)
	assert.Len(t, g.Entries, 8)
	assert.Len(t, back.CuePoints(anlz.CueListHotCue), 2)
	assert.Empty(t, back.CuePoints(anlz.CueListMemory))
}

func TestBuildEXT(t *testing.T) {
	f, err := BuildEXT(sampleTrack(), "/Contents/A/B/song.mp3", ramp(600))
	require.NoError(t, err)
	assert.Equal(t, []anlz.Kind{
		anlz.KindPath, anlz.KindWaveformDetail, anlz.KindCueList, anlz.KindCueList,
		anlz.KindExtCueList, anlz.KindExtCueList, anlz.KindExtBeatGrid,
		anlz.KindColorWaveformDetail, anlz.KindColorWaveformPreview,
	}, kinds(f))

	data, err := f.Build()
	require.NoError(t, err)
	back, err := anlz.Parse(data, nil)
	require.NoError(t, err)
	assert.Len(t, back.ExtCuePoints(anlz.CueListHotCue), 3)
	assert.Len(t, back.CuePoints(anlz.CueListHotCue), 1)
	tag, ok := back.Tag(anlz.KindWaveformDetail)
	require.True(t, ok)
	assert.Len(t, tag.Payload.(*anlz.WaveformDetail).Columns, 600)
}
