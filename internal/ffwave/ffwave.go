// Package ffwave decodes audio to the low-rate mono sample stream the
// waveform tags are drawn from, using an external ffmpeg binary.
package ffwave

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
)

// SampleRate is the detail waveform rate: 150 columns per second.
const SampleRate = 150

// ErrToolNotFound is returned when ffmpeg is not installed.
var ErrToolNotFound = errors.New("ffwave: ffmpeg not found")

// Source implements export.SampleSource by piping audio through ffmpeg.
type Source struct {
	// Path is the ffmpeg binary. Empty means look it up on PATH.
	Path string
}

func (s Source) tool() (string, error) {
	if s.Path != "" {
		return s.Path, nil
	}
	p, err := exec.LookPath("ffmpeg")
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrToolNotFound, err)
	}
	return p, nil
}

// Available reports ErrToolNotFound when no ffmpeg binary can be located.
func (s Source) Available() error {
	_, err := s.tool()
	return err
}

// Args returns the ffmpeg arguments that decode location to signed 16-bit
// little-endian mono PCM at SampleRate on stdout.
func Args(location string) []string {
	return []string{
		"-v", "error",
		"-i", location,
		"-vn",
		"-ac", "1",
		"-ar", strconv.Itoa(SampleRate),
		"-acodec", "pcm_s16le",
		"-f", "s16le",
		"pipe:1",
	}
}

// Samples decodes location and returns samples normalized to [-1, 1).
func (s Source) Samples(ctx context.Context, location string) ([]float64, error) {
	bin, err := s.tool()
	if err != nil {
		return nil, err
	}
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, Args(location)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffwave: ffmpeg failed on %s: %w\noutput: %s", location, err, stderr.String())
	}
	return PCM16(stdout.Bytes()), nil
}

// PCM16 converts signed 16-bit little-endian PCM to normalized samples. A
// trailing odd byte is ignored.
func PCM16(b []byte) []float64 {
	out := make([]float64, len(b)/2)
	for i := range out {
		out[i] = float64(int16(binary.LittleEndian.Uint16(b[2*i:]))) / 32768
	}
	return out
}
