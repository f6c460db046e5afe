// Package artwork reads embedded cover art and tags from audio files and
// renders the two JPEG sizes CDJ players display.
package artwork

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	_ "image/png" // PNG covers in ID3 APIC and MP4 covr atoms
	"os"

	"github.com/dhowden/tag"

	"github.com/joshuapare/pioneerkit/export"
)

// Edge lengths of the artwork files rekordbox exports.
const (
	ImageSize     = 240
	ThumbnailSize = 80
)

// Quality is the JPEG quality used for both sizes.
const Quality = 90

// Reader implements export.ArtworkSource and export.TagSource over
// local audio files.
type Reader struct{}

// Artwork returns the scaled cover of the file at location, or nil when the
// file carries no picture or no readable tag block.
func (Reader) Artwork(location string) (*export.Artwork, error) {
	m, err := readTags(location)
	if err != nil {
		if errors.Is(err, tag.ErrNoTagsFound) {
			return nil, nil
		}
		return nil, err
	}
	pic := m.Picture()
	if pic == nil || len(pic.Data) == 0 {
		return nil, nil
	}
	art, err := Render(pic.Data)
	if err != nil {
		return nil, fmt.Errorf("artwork: %s: %w", location, err)
	}
	return art, nil
}

// Tags returns the text tags of the file at location.
func (Reader) Tags(location string) (export.Tags, error) {
	m, err := readTags(location)
	if err != nil {
		if errors.Is(err, tag.ErrNoTagsFound) {
			return export.Tags{}, nil
		}
		return export.Tags{}, err
	}
	track, _ := m.Track()
	return export.Tags{
		Title:       m.Title(),
		Artist:      m.Artist(),
		Album:       m.Album(),
		Genre:       m.Genre(),
		Composer:    m.Composer(),
		Comment:     m.Comment(),
		Year:        m.Year(),
		TrackNumber: track,
	}, nil
}

func readTags(location string) (tag.Metadata, error) {
	f, err := os.Open(location)
	if err != nil {
		return nil, fmt.Errorf("artwork: %w", err)
	}
	defer f.Close()
	m, err := tag.ReadFrom(f)
	if err != nil {
		return nil, fmt.Errorf("artwork: read tags of %s: %w", location, err)
	}
	return m, nil
}

// Render decodes a JPEG or PNG cover and encodes it at ImageSize and
// ThumbnailSize.
func Render(data []byte) (*export.Artwork, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	large, err := encode(Scale(src, ImageSize))
	if err != nil {
		return nil, err
	}
	small, err := encode(Scale(src, ThumbnailSize))
	if err != nil {
		return nil, err
	}
	return &export.Artwork{Image: large, Thumbnail: small}, nil
}

func encode(img image.Image) ([]byte, error) {
	var b bytes.Buffer
	if err := jpeg.Encode(&b, img, &jpeg.Options{Quality: Quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return b.Bytes(), nil
}

// Scale resizes src to a size×size square with a box filter. Each output
// pixel averages the source pixels its area covers, so downscaling never
// skips rows; upscaling repeats pixels.
func Scale(src image.Image, size int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return dst
	}
	for y := 0; y < size; y++ {
		y0 := b.Min.Y + y*h/size
		y1 := max(b.Min.Y+(y+1)*h/size, y0+1)
		for x := 0; x < size; x++ {
			x0 := b.Min.X + x*w/size
			x1 := max(b.Min.X+(x+1)*w/size, x0+1)
			var r, g, bl, a, n uint64
			for sy := y0; sy < y1; sy++ {
				for sx := x0; sx < x1; sx++ {
					cr, cg, cb, ca := src.At(sx, sy).RGBA()
					r += uint64(cr)
					g += uint64(cg)
					bl += uint64(cb)
					a += uint64(ca)
					n++
				}
			}
			dst.SetRGBA(x, y, color.RGBA{
				R: uint8(r / n >> 8),
				G: uint8(g / n >> 8),
				B: uint8(bl / n >> 8),
				A: uint8(a / n >> 8),
			})
		}
	}
	return dst
}
