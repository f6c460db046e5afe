// Package rbxml reads rekordbox XML library exports into an
// export.Collection.
package rbxml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joshuapare/pioneerkit/export"
)

// ErrFormat is returned for documents that are not rekordbox libraries.
var ErrFormat = errors.New("rbxml: not a rekordbox library")

// Node types of the PLAYLISTS tree.
const (
	nodeFolder   = 0
	nodePlaylist = 1

	// keyByLocation marks playlists whose TRACK keys are locations
	// rather than track ids.
	keyByLocation = 1
)

type document struct {
	XMLName    xml.Name `xml:"DJ_PLAYLISTS"`
	Version    string   `xml:"Version,attr"`
	Product    product  `xml:"PRODUCT"`
	Collection struct {
		Entries int        `xml:"Entries,attr"`
		Tracks  []xmlTrack `xml:"TRACK"`
	} `xml:"COLLECTION"`
	Playlists struct {
		Root xmlNode `xml:"NODE"`
	} `xml:"PLAYLISTS"`
}

type product struct {
	Name    string `xml:"Name,attr"`
	Version string `xml:"Version,attr"`
	Company string `xml:"Company,attr"`
}

type xmlTrack struct {
	TrackID     uint32  `xml:"TrackID,attr"`
	Name        string  `xml:"Name,attr"`
	Artist      string  `xml:"Artist,attr"`
	Composer    string  `xml:"Composer,attr"`
	Album       string  `xml:"Album,attr"`
	Genre       string  `xml:"Genre,attr"`
	Size        int64   `xml:"Size,attr"`
	TotalTime   int     `xml:"TotalTime,attr"`
	DiscNumber  int     `xml:"DiscNumber,attr"`
	TrackNumber int     `xml:"TrackNumber,attr"`
	Year        int     `xml:"Year,attr"`
	AverageBpm  float64 `xml:"AverageBpm,attr"`
	DateAdded   string  `xml:"DateAdded,attr"`
	BitRate     int     `xml:"BitRate,attr"`
	SampleRate  int     `xml:"SampleRate,attr"`
	Comments    string  `xml:"Comments,attr"`
	PlayCount   int     `xml:"PlayCount,attr"`
	Rating      int     `xml:"Rating,attr"`
	Location    string  `xml:"Location,attr"`
	Remixer     string  `xml:"Remixer,attr"`
	Tonality    string  `xml:"Tonality,attr"`
	Label       string  `xml:"Label,attr"`
	Mix         string  `xml:"Mix,attr"`

	Tempos []struct {
		Inizio  float64 `xml:"Inizio,attr"`
		Bpm     float64 `xml:"Bpm,attr"`
		Battito int     `xml:"Battito,attr"`
	} `xml:"TEMPO"`
	Marks []struct {
		Name  string  `xml:"Name,attr"`
		Type  int     `xml:"Type,attr"`
		Start float64 `xml:"Start,attr"`
		End   float64 `xml:"End,attr"`
		Num   int     `xml:"Num,attr"`
		Red   uint8   `xml:"Red,attr"`
		Green uint8   `xml:"Green,attr"`
		Blue  uint8   `xml:"Blue,attr"`
	} `xml:"POSITION_MARK"`
}

type xmlNode struct {
	Type    int       `xml:"Type,attr"`
	Name    string    `xml:"Name,attr"`
	KeyType int       `xml:"KeyType,attr"`
	Nodes   []xmlNode `xml:"NODE"`
	Tracks  []struct {
		Key string `xml:"Key,attr"`
	} `xml:"TRACK"`
}

// Library is a decoded rekordbox XML document.
type Library struct {
	Product    string
	Version    string
	Collection *export.Collection
}

// ParseFile reads the library at path.
func ParseFile(path string) (*Library, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("rbxml: %w", err)
	}
	defer f.Close()
	lib, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lib, nil
}

// Parse decodes a rekordbox XML document.
func Parse(r io.Reader) (*Library, error) {
	var doc document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}

	col := &export.Collection{Tracks: make([]export.Track, len(doc.Collection.Tracks))}
	byLocation := make(map[string]uint32, len(doc.Collection.Tracks))
	for i, xt := range doc.Collection.Tracks {
		t := convertTrack(xt)
		col.Tracks[i] = t
		byLocation[xt.Location] = t.ID
	}

	// The root NODE is an unnamed folder holding the user's playlists.
	col.Playlists = convertNodes(doc.Playlists.Root.Nodes, byLocation)

	return &Library{
		Product:    doc.Product.Name,
		Version:    doc.Product.Version,
		Collection: col,
	}, nil
}

func convertTrack(xt xmlTrack) export.Track {
	t := export.Track{
		ID:          xt.TrackID,
		Location:    DecodeLocation(xt.Location),
		Title:       xt.Name,
		Artist:      xt.Artist,
		Album:       xt.Album,
		Genre:       xt.Genre,
		Label:       xt.Label,
		Composer:    xt.Composer,
		Remixer:     xt.Remixer,
		Key:         xt.Tonality,
		Comment:     xt.Comments,
		MixName:     xt.Mix,
		DateAdded:   xt.DateAdded,
		Year:        xt.Year,
		TrackNumber: xt.TrackNumber,
		DiscNumber:  xt.DiscNumber,
		Duration:    xt.TotalTime,
		AverageBPM:  xt.AverageBpm,
		BitRate:     xt.BitRate,
		SampleRate:  xt.SampleRate,
		Size:        xt.Size,
		Rating:      xt.Rating,
		PlayCount:   xt.PlayCount,
	}
	for _, tm := range xt.Tempos {
		t.Tempos = append(t.Tempos, export.TempoMarker{Start: tm.Inizio, BPM: tm.Bpm, Beat: tm.Battito})
	}
	for _, m := range xt.Marks {
		t.Marks = append(t.Marks, export.PositionMark{
			Name: m.Name, Type: m.Type, Start: m.Start, End: m.End, Num: m.Num,
			Red: m.Red, Green: m.Green, Blue: m.Blue,
		})
	}
	return t
}

func convertNodes(nodes []xmlNode, byLocation map[string]uint32) []export.Playlist {
	out := make([]export.Playlist, 0, len(nodes))
	for _, n := range nodes {
		pl := export.Playlist{Name: n.Name}
		switch n.Type {
		case nodeFolder:
			pl.Folder = true
			pl.Children = convertNodes(n.Nodes, byLocation)
		case nodePlaylist:
			for _, tr := range n.Tracks {
				if id, ok := trackKey(tr.Key, n.KeyType, byLocation); ok {
					pl.TrackIDs = append(pl.TrackIDs, id)
				}
			}
		default:
			continue
		}
		out = append(out, pl)
	}
	return out
}

func trackKey(key string, keyType int, byLocation map[string]uint32) (uint32, bool) {
	if keyType == keyByLocation {
		id, ok := byLocation[key]
		return id, ok
	}
	id, err := strconv.ParseUint(strings.TrimSpace(key), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(id), true
}

// DecodeLocation turns a file://localhost URL into a local path. Windows
// drive paths lose the leading slash. Strings that are not URLs are
// returned unchanged.
func DecodeLocation(loc string) string {
	u, err := url.Parse(loc)
	if err != nil || u.Scheme != "file" {
		if rest, ok := strings.CutPrefix(loc, "file://localhost"); ok {
			if p, err := url.PathUnescape(rest); err == nil {
				return trimDrive(p)
			}
			return trimDrive(rest)
		}
		return loc
	}
	return trimDrive(u.Path)
}

// trimDrive maps "/C:/x" to "C:/x".
func trimDrive(p string) string {
	if len(p) >= 3 && p[0] == '/' && p[2] == ':' && isLetter(p[1]) {
		return p[1:]
	}
	return p
}

func isLetter(c byte) bool { return c|0x20 >= 'a' && c|0x20 <= 'z' }
