package export

import (
	"math"

	"github.com/joshuapare/pioneerkit/anlz"
)

// Hot cue ranges carried by each analysis file.
const (
	datFirstCue = 0
	datLastCue  = 2
	extFirstCue = 3
	extLastCue  = 7
	loopMark    = 4
)

// beats returns the beat count and spacing (seconds) implied by the first
// tempo marker over total seconds.
func beats(tempos []TempoMarker, total float64) (int, float64) {
	if len(tempos) == 0 || tempos[0].BPM <= 0 {
		return 0, 0
	}
	gap := 60 / tempos[0].BPM
	return int(roundHalfDown(total / gap)), gap
}

func firstBeat(m TempoMarker) int {
	if m.Beat == 0 {
		return 1
	}
	return m.Beat
}

func tempoOf(bpm float64) uint16 { return uint16(math.Round(bpm * 100)) }

func millis(sec float64) uint32 { return uint32(math.Round(sec * 1000)) }

// BeatGrid lays a constant grid from the first tempo marker to the end of
// the track.
func BeatGrid(tempos []TempoMarker, total float64) *anlz.BeatGrid {
	n, gap := beats(tempos, total)
	entries := make([]anlz.BeatGridEntry, n)
	if n == 0 {
		return anlz.NewBeatGrid(entries)
	}
	m := tempos[0]
	start, tempo := firstBeat(m), tempoOf(m.BPM)
	for i := range entries {
		entries[i] = anlz.BeatGridEntry{
			Beat:  uint16((start+i-1)%4 + 1),
			Tempo: tempo,
			Time:  uint32(roundHalfDown((m.Start + gap*float64(i)) * 1000)),
		}
	}
	return anlz.NewBeatGrid(entries)
}

// ExtBeatGrid builds the PQT2 grid: the first two tempo markers and the bar
// position of every beat.
func ExtBeatGrid(tempos []TempoMarker, total float64) *anlz.ExtBeatGrid {
	var markers [2]anlz.BeatGridEntry
	if len(tempos) >= 2 {
		for i := range markers {
			markers[i] = anlz.BeatGridEntry{
				Beat:  uint16(tempos[i].Beat),
				Tempo: tempoOf(tempos[i].BPM),
				Time:  millis(tempos[i].Start),
			}
		}
	}
	n, _ := beats(tempos, total)
	entries := make([]anlz.ExtBeatEntry, n)
	if n > 0 {
		start := firstBeat(tempos[0])
		for i := range entries {
			entries[i] = anlz.ExtBeatEntry{Beat: uint8((start+i-1)%4 + 1)}
		}
	}
	return anlz.NewExtBeatGrid(markers, entries)
}

// hotMarks keeps the first mark of every hot cue number in [lo, hi].
func hotMarks(marks []PositionMark, lo, hi int) []PositionMark {
	var out []PositionMark
	seen := make(map[int]bool)
	for _, m := range marks {
		if m.Num < lo || m.Num > hi || seen[m.Num] {
			continue
		}
		seen[m.Num] = true
		out = append(out, m)
	}
	return out
}

// HotCues returns PCPT entries for the hot cues numbered lo..hi.
func HotCues(marks []PositionMark, lo, hi int) []anlz.CuePoint {
	hot := hotMarks(marks, lo, hi)
	cues := make([]anlz.CuePoint, len(hot))
	for i, m := range hot {
		c := anlz.NewCuePoint(uint32(m.Num+1), millis(m.Start))
		if m.Type == loopMark && m.End > m.Start {
			c.Type = anlz.CueLoop
			c.LoopTime = millis(m.End)
		}
		cues[i] = c
	}
	return cues
}

// ExtHotCues returns PCP2 entries, with colour and name, for hot cues A..H.
func ExtHotCues(marks []PositionMark) []anlz.ExtCuePoint {
	hot := hotMarks(marks, datFirstCue, extLastCue)
	cues := make([]anlz.ExtCuePoint, len(hot))
	for i, m := range hot {
		c := anlz.NewExtCuePoint(uint32(m.Num+1), millis(m.Start), m.Name, m.Red, m.Green, m.Blue)
		if m.Type == loopMark && m.End > m.Start {
			c.Type = anlz.CueLoop
			c.LoopTime = millis(m.End)
		}
		cues[i] = c
	}
	return cues
}

func newFile(payloads ...anlz.Payload) (*anlz.File, error) {
	f := anlz.New()
	for _, p := range payloads {
		if _, err := f.Add(p); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// BuildDAT assembles ANLZ0000.DAT for a track whose audio lives at
// usbPath on the export.
func BuildDAT(t *Track, usbPath string, samples []float64) (*anlz.File, error) {
	total := float64(t.Duration)
	return newFile(
		anlz.NewPath(usbPath),
		anlz.NewVBRIndex(),
		BeatGrid(t.Tempos, total),
		WaveformPreview(samples),
		TinyWaveformPreview(samples),
		anlz.NewCueList(anlz.CueListHotCue, HotCues(t.Marks, datFirstCue, datLastCue)),
		anlz.NewCueList(anlz.CueListMemory, nil),
	)
}

// BuildEXT assembles ANLZ0000.EXT.
func BuildEXT(t *Track, usbPath string, samples []float64) (*anlz.File, error) {
	total := float64(t.Duration)
	return newFile(
		anlz.NewPath(usbPath),
		WaveformDetail(samples),
		anlz.NewCueList(anlz.CueListHotCue, HotCues(t.Marks, extFirstCue, extLastCue)),
		anlz.NewCueList(anlz.CueListMemory, nil),
		anlz.NewExtCueList(anlz.CueListHotCue, ExtHotCues(t.Marks)),
		anlz.NewExtCueList(anlz.CueListMemory, nil),
		ExtBeatGrid(t.Tempos, total),
		ColorWaveformDetail(samples),
		ColorWaveformPreview(samples),
	)
}
