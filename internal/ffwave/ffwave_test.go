package ffwave

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPCM16(t *testing.T) {
	got := PCM16([]byte{0x00, 0x00, 0x00, 0x40, 0x00, 0x80, 0xFF, 0x7F, 0x01})
	require.Len(t, got, 4)
	assert.Equal(t, 0.0, got[0])
	assert.Equal(t, 0.5, got[1])
	assert.Equal(t, -1.0, got[2])
	assert.InDelta(t, 1.0, got[3], 1e-4)
}

func TestArgs(t *testing.T) {
	args := Args("/music/a b.mp3")
	assert.Contains(t, args, "/music/a b.mp3")
	assert.Equal(t, "pipe:1", args[len(args)-1])
	assert.Contains(t, args, "150")
}

func TestSamplesMissingTool(t *testing.T) {
	s := Source{Path: filepath.Join(t.TempDir(), "no-ffmpeg")}
	_, err := s.Samples(context.Background(), "x.mp3")
	require.Error(t, err)
}

func TestSamplesLookup(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err == nil {
		t.Skip("ffmpeg installed")
	}
	_, err := Source{}.Samples(context.Background(), "x.mp3")
	assert.True(t, errors.Is(err, ErrToolNotFound))
}

func TestAvailable(t *testing.T) {
	assert.NoError(t, Source{Path: "/opt/ffmpeg"}.Available())
	if _, err := exec.LookPath("ffmpeg"); err == nil {
		assert.NoError(t, Source{}.Available())
	} else {
		assert.ErrorIs(t, Source{}.Available(), ErrToolNotFound)
	}
}
