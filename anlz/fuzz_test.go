package anlz

import "testing"

func FuzzParse(f *testing.F) {
	seed := func(payloads ...Payload) []byte {
		file := New()
		for _, p := range payloads {
			if _, err := file.Add(p); err != nil {
				f.Fatal(err)
			}
		}
		b, err := file.Build()
		if err != nil {
			f.Fatal(err)
		}
		return b
	}
	f.Add(seed())
	f.Add(seed(NewPath("/a.mp3"), NewBeatGrid(threeBeats())))
	f.Add(seed(NewCueList(CueListHotCue, []CuePoint{NewCuePoint(1, 5)}),
		NewExtCueList(CueListHotCue, []ExtCuePoint{NewExtCuePoint(1, 5, "x", 1, 2, 3)})))
	f.Add(seed(NewSongStructure(MoodMid, 2, 9, samplePhrases())))
	f.Add(seed(NewColorWaveformDetail([]ColorColumn{{1, 2, 3, 4}})))

	f.Fuzz(func(t *testing.T, data []byte) {
		file, err := Parse(data, nil)
		if err != nil {
			return
		}
		// Anything that decodes must encode again.
		if _, err := file.Build(); err != nil {
			t.Fatalf("decoded file does not rebuild: %v", err)
		}
	})
}
