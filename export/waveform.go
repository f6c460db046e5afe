package export

import (
	"math"

	"github.com/joshuapare/pioneerkit/anlz"
)

const (
	previewWhiteness = 5

	// Fixed PWV5 colour of synthesized detail columns.
	detailRed   = 0
	detailGreen = 1
	detailBlue  = 6
)

// roundHalfDown rounds to the nearest integer, sending exact halves down.
func roundHalfDown(x float64) float64 {
	if x-math.Floor(x) > 0.5 {
		return math.Ceil(x)
	}
	return math.Floor(x)
}

// height maps a sample in [-1, 1] to a column height of the given scale.
func height(s float64, scale float64) uint8 {
	return uint8(int(roundHalfDown((0.5+0.5*s)*scale)) & 0x1f)
}

// sampleAt returns the sample feeding column i of n, rounding the index.
func sampleAt(samples []float64, i, n int) float64 {
	idx := int(roundHalfDown(float64(len(samples)) / float64(n) * float64(i)))
	if idx >= len(samples) {
		idx = len(samples) - 1
	}
	return samples[idx]
}

// previewColumns downsamples to n monochrome columns.
func previewColumns(samples []float64, n int, scale float64, whiteness uint8) anlz.Columns {
	cols := make(anlz.Columns, n)
	if len(samples) == 0 {
		return cols
	}
	for i := range cols {
		cols[i] = anlz.PackColumn(height(sampleAt(samples, i, n), scale), whiteness)
	}
	return cols
}

// WaveformPreview builds the 400 column PWAV payload.
func WaveformPreview(samples []float64) *anlz.WaveformPreview {
	return anlz.NewWaveformPreview(previewColumns(samples, anlz.WaveformPreviewLen, 32, previewWhiteness))
}

// TinyWaveformPreview builds the 100 column PWV2 payload.
func TinyWaveformPreview(samples []float64) *anlz.TinyWaveformPreview {
	return anlz.NewTinyWaveformPreview(previewColumns(samples, anlz.TinyWaveformPreviewLen, 16, 0))
}

// WaveformDetail builds the PWV3 payload, one column per sample.
func WaveformDetail(samples []float64) *anlz.WaveformDetail {
	cols := make(anlz.Columns, len(samples))
	for i, s := range samples {
		cols[i] = anlz.PackColumn(height(s, 32), previewWhiteness)
	}
	return anlz.NewWaveformDetail(cols)
}

// ColorWaveformDetail builds the PWV5 payload, one column per sample.
func ColorWaveformDetail(samples []float64) *anlz.ColorWaveformDetail {
	cols := make([]anlz.ColorColumn, len(samples))
	for i, s := range samples {
		cols[i] = anlz.ColorColumn{Red: detailRed, Green: detailGreen, Blue: detailBlue, Height: height(s, 32)}
	}
	return anlz.NewColorWaveformDetail(cols)
}

// colorBands maps a preview height to red, green and blue factors.
var colorBands = []struct {
	above   int
	r, g, b float64
}{
	{150, 1, 0.2, 0.1},
	{100, 1, 0.3, 0.15},
	{50, 1, 0.4, 0.2},
	{20, 0.4, 1.4, 0.5},
	{-1, 0.2, 1.7, 1},
}

// ColorPreviewColumn renders height y (0..255) as a PWV4 entry.
func ColorPreviewColumn(y int) anlz.ColorPreviewColumn {
	var c anlz.ColorPreviewColumn
	for _, band := range colorBands {
		if y > band.above {
			fy := float64(y)
			c = anlz.ColorPreviewColumn{
				byte(y), byte(255 - y), byte(y),
				byte(fy * band.r), byte(fy * band.g), byte(fy * band.b),
			}
			break
		}
	}
	return c
}

// ColorWaveformPreview builds the 1200 entry PWV4 payload. Heights are
// normalized to the loudest sample.
func ColorWaveformPreview(samples []float64) *anlz.ColorWaveformPreview {
	entries := make([]anlz.ColorPreviewColumn, anlz.ColorPreviewLen)
	var peak float64
	for _, s := range samples {
		peak = math.Max(peak, math.Abs(s))
	}
	for i := range entries {
		y := 0
		if peak > 0 {
			idx := int(math.Floor(float64(len(samples)) / float64(len(entries)) * float64(i)))
			y = int(math.Floor(math.Abs(samples[idx]) * 255 / peak))
		}
		entries[i] = ColorPreviewColumn(y)
	}
	return anlz.NewColorWaveformPreview(entries)
}
