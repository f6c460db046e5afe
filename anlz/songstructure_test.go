package anlz

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePhrases() []Phrase {
	return []Phrase{
		{Index: 1, Beat: 1, Kind: 1, K1: 1, K2: 1, B: 0, Beat2: 17, Fill: 1, BeatFill: 29},
		{Index: 2, Beat: 33, Kind: 2, K1: 0, K2: 1, B: 1, Beat2: 49, Beat3: 57, Beat4: 61, K3: 1},
	}
}

func TestMaskIsInvolution(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	orig := make([]byte, 96)
	rng.Read(orig)
	work := make([]byte, len(orig))

	for n := 0; n <= 0xFFFF; n++ {
		copy(work, orig)
		maskSongStructure(work, uint16(n))
		maskSongStructure(work, uint16(n))
		if !bytes.Equal(work, orig) {
			t.Fatalf("mask twice with len_entries=%d did not restore the input", n)
		}
	}
}

func TestMaskLeavesHeaderPrefix(t *testing.T) {
	tag := make([]byte, 40)
	maskSongStructure(tag, 2)
	assert.Equal(t, make([]byte, 18), tag[:18])
	assert.Equal(t, byte(0xCB+2), tag[18])
	assert.Equal(t, byte(0xE1+2), tag[19])
	// The key repeats every 19 bytes.
	assert.Equal(t, tag[18], tag[18+19])
}

func TestSongStructureObfuscatedRoundTrip(t *testing.T) {
	s := NewSongStructure(MoodMid, 5, 200, samplePhrases())
	got, b := roundTripTag(t, s)
	assert.Len(t, b, 32+24*2)

	// The stored mood is masked, so a reader that ignores the mask sees garbage.
	assert.False(t, isPlainSongStructure(b))
	assert.Equal(t, byte(0xCB+2), b[18])

	ss := got.Payload.(*SongStructure)
	assert.True(t, ss.Obfuscated)
	assert.Equal(t, MoodMid, ss.Mood)
	assert.Equal(t, uint16(5), ss.Bank)
	assert.Equal(t, uint16(200), ss.EndBeat)
	assert.Equal(t, uint32(24), ss.LenEntryBytes)
	assert.Equal(t, samplePhrases(), ss.Phrases)

	again, err := mustTag(t, ss).Encode()
	require.NoError(t, err)
	assert.Equal(t, b, again)
}

func TestSongStructurePlaintextRoundTrip(t *testing.T) {
	s := NewSongStructure(MoodLow, 8, 64, samplePhrases())
	s.Obfuscated = false
	got, b := roundTripTag(t, s)

	assert.True(t, isPlainSongStructure(b))
	assert.Equal(t, []byte{0, 3}, b[18:20])
	assert.Equal(t, []byte{0, 8}, b[28:30])

	ss := got.Payload.(*SongStructure)
	assert.False(t, ss.Obfuscated)
	assert.Equal(t, MoodLow, ss.Mood)
	assert.Equal(t, samplePhrases(), ss.Phrases)
}

func TestSongStructureNoPhrases(t *testing.T) {
	got, b := roundTripTag(t, NewSongStructure(MoodHigh, 1, 0, nil))
	assert.Len(t, b, 32)
	ss := got.Payload.(*SongStructure)
	assert.Equal(t, MoodHigh, ss.Mood)
	assert.Empty(t, ss.Phrases)
}

func TestSongStructureWideEntries(t *testing.T) {
	s := NewSongStructure(MoodHigh, 2, 10, samplePhrases())
	s.LenEntryBytes = 28
	got, b := roundTripTag(t, s)
	assert.Len(t, b, 32+28*2)
	assert.Equal(t, samplePhrases(), got.Payload.(*SongStructure).Phrases)
}

func TestMoodString(t *testing.T) {
	assert.Equal(t, "high", MoodHigh.String())
	assert.Equal(t, "low", MoodLow.String())
	assert.Equal(t, "Mood(9)", Mood(9).String())
}

func FuzzMaskSongStructure(f *testing.F) {
	f.Add([]byte("PSSI0000000000000000000000000000"), uint16(3))
	f.Fuzz(func(t *testing.T, data []byte, n uint16) {
		work := append([]byte(nil), data...)
		maskSongStructure(work, n)
		maskSongStructure(work, n)
		if !bytes.Equal(work, data) {
			t.Fatalf("mask is not an involution for n=%d", n)
		}
	})
}
