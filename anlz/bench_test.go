package anlz

import "testing"

// benchFile is a five-minute EXT-sized file: detail waveforms at 150
// columns per second, a full beat grid and an obfuscated phrase list.
func benchFile(b *testing.B) []byte {
	b.Helper()
	const cols = 150 * 300
	detail := make(Columns, cols)
	colors := make([]ColorColumn, cols)
	for i := range detail {
		detail[i] = PackColumn(uint8(i%32), 5)
		colors[i] = ColorColumn{Red: uint8(i % 8), Green: uint8(i % 5), Blue: uint8(i % 3), Height: uint8(i % 32)}
	}
	beats := make([]BeatGridEntry, 600)
	for i := range beats {
		beats[i] = BeatGridEntry{Beat: uint16(i%4 + 1), Tempo: 12000, Time: uint32(i * 500)}
	}
	phrases := make([]Phrase, 40)
	for i := range phrases {
		phrases[i] = Phrase{Index: uint16(i + 1), Beat: uint16(i*16 + 1), Kind: 1}
	}

	f := New()
	for _, p := range []Payload{
		NewPath("/Contents/Artist/Album/track.mp3"),
		NewBeatGrid(beats),
		NewWaveformDetail(detail),
		NewColorWaveformDetail(colors),
		NewSongStructure(MoodHigh, 1, 640, phrases),
	} {
		if _, err := f.Add(p); err != nil {
			b.Fatalf("add: %v", err)
		}
	}
	data, err := f.Build()
	if err != nil {
		b.Fatalf("build: %v", err)
	}
	return data
}

func BenchmarkParse(b *testing.B) {
	data := benchFile(b)
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Parse(data, nil); err != nil {
			b.Fatalf("parse: %v", err)
		}
	}
}

func BenchmarkBuild(b *testing.B) {
	f, err := Parse(benchFile(b), nil)
	if err != nil {
		b.Fatalf("parse: %v", err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := f.Build(); err != nil {
			b.Fatalf("build: %v", err)
		}
	}
}
