package anlz

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCueListRoundTrip(t *testing.T) {
	cues := []CuePoint{NewCuePoint(1, 1500), NewCuePoint(3, 64250)}
	cues[1].Type = CueLoop
	cues[1].LoopTime = 68250

	got, b := roundTripTag(t, NewCueList(CueListHotCue, cues))
	assert.Len(t, b, 24+2*cuePointEntryLen)

	l := got.Payload.(*CueList)
	assert.Equal(t, CueListHotCue, l.Type)
	assert.Equal(t, int32(-1), l.MemoryCount)
	require.Len(t, l.Cues, 2)
	assert.Equal(t, cues, l.Cues)
	assert.Equal(t, 1.5, l.Cues[0].Seconds())
	assert.False(t, l.Cues[0].IsLoop())
	assert.True(t, l.Cues[1].IsLoop())
}

func TestCueListEmptyMemory(t *testing.T) {
	got, b := roundTripTag(t, NewCueList(CueListMemory, nil))
	assert.Len(t, b, 24)
	assert.Empty(t, got.Payload.(*CueList).Cues)
	assert.Equal(t, "memory", got.Payload.(*CueList).Type.String())
}

func TestCueListBadEntryCode(t *testing.T) {
	b, err := mustTag(t, NewCueList(CueListHotCue, []CuePoint{NewCuePoint(1, 0)})).Encode()
	require.NoError(t, err)
	copy(b[24:], "XXXX")
	_, err = DecodeTag(b)
	require.ErrorIs(t, err, ErrFormat)
}

func TestExtCueListRoundTrip(t *testing.T) {
	cues := []ExtCuePoint{
		NewExtCuePoint(1, 1000, "Drop", 0xff, 0x00, 0x80),
		NewExtCuePoint(2, 2000, "", 0x10, 0x20, 0x30),
		NewExtCuePoint(3, 3000, "Büro ♫", 1, 2, 3),
	}
	got, b := roundTripTag(t, NewExtCueList(CueListHotCue, cues))

	// "Drop" is four UTF-16 units plus a NUL terminator.
	first := 44 + 10 + 4 + extCueTailLen
	second := 44 + 0 + 4 + extCueTailLen
	third := 44 + 2*7 + 4 + extCueTailLen
	assert.Len(t, b, 20+first+second+third)

	l := got.Payload.(*ExtCueList)
	require.Len(t, l.Cues, 3)
	assert.Equal(t, cues, l.Cues)
}

// rawExtCueList lays out a PCO2 tag by hand from PCP2 entries whose comment
// and trailer bytes are given verbatim.
func rawExtCueList(entries ...[2][]byte) []byte {
	b := make([]byte, 20)
	copy(b, "PCO2")
	binary.BigEndian.PutUint32(b[4:], 20)
	binary.BigEndian.PutUint32(b[12:], uint32(CueListHotCue))
	binary.BigEndian.PutUint16(b[16:], uint16(len(entries)))
	for i, e := range entries {
		comment, trailer := e[0], e[1]
		entry := make([]byte, extCueFixedLen, extCueFixedLen+len(comment)+len(trailer))
		copy(entry, codeExtCuePoint)
		binary.BigEndian.PutUint32(entry[4:], extCueHeaderLen)
		binary.BigEndian.PutUint32(entry[8:], uint32(cap(entry)))
		binary.BigEndian.PutUint32(entry[12:], uint32(i+1))
		binary.BigEndian.PutUint32(entry[20:], uint32(1000*(i+1)))
		binary.BigEndian.PutUint32(entry[24:], NoLoop)
		binary.BigEndian.PutUint32(entry[40:], uint32(len(comment)))
		entry = append(entry, comment...)
		entry = append(entry, trailer...)
		b = append(b, entry...)
	}
	binary.BigEndian.PutUint32(b[8:], uint32(len(b)))
	return b
}

func TestExtCueListKeepsEntryLayout(t *testing.T) {
	color := []byte{0x01, 0xff, 0x00, 0x80}
	in := rawExtCueList(
		// no color block
		[2][]byte{[]byte("\x00H\x00i\x00\x00"), nil},
		// comment without a NUL terminator
		[2][]byte{[]byte("\x00H\x00i"), color},
		// comment padded past its terminator, short trailer
		[2][]byte{[]byte("\x00H\x00i\x00\x00\x00\x00"), []byte{0xAA, 0xBB}},
		// an empty comment that still carries a terminator
		[2][]byte{[]byte("\x00\x00"), color},
	)

	tag, err := DecodeTag(in)
	require.NoError(t, err)
	l := tag.Payload.(*ExtCueList)
	require.Len(t, l.Cues, 4)

	assert.True(t, l.Cues[0].NoColor)
	assert.Equal(t, "Hi", l.Cues[0].Comment)
	assert.Zero(t, l.Cues[0].CommentSize)

	assert.False(t, l.Cues[1].NoColor)
	assert.Equal(t, "Hi", l.Cues[1].Comment)
	assert.Equal(t, uint32(4), l.Cues[1].CommentSize)
	assert.Equal(t, uint8(0xff), l.Cues[1].Red)

	assert.True(t, l.Cues[2].NoColor)
	assert.Equal(t, uint32(8), l.Cues[2].CommentSize)
	assert.Equal(t, []byte{0xAA, 0xBB}, l.Cues[2].Tail)

	assert.Equal(t, "", l.Cues[3].Comment)
	assert.Equal(t, uint32(2), l.Cues[3].CommentSize)

	out, err := tag.Encode()
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestExtCueListEditedCommentOutgrowsSize(t *testing.T) {
	tag, err := DecodeTag(rawExtCueList([2][]byte{[]byte("\x00H\x00i"), nil}))
	require.NoError(t, err)
	l := tag.Payload.(*ExtCueList)
	l.Cues[0].Comment = "Hello"
	require.NoError(t, tag.UpdateLen())

	b, err := tag.Encode()
	require.NoError(t, err)
	got, err := DecodeTag(b)
	require.NoError(t, err)
	c := got.Payload.(*ExtCueList).Cues[0]
	assert.Equal(t, "Hello", c.Comment)
	assert.Zero(t, c.CommentSize)
	assert.True(t, c.NoColor)
}
