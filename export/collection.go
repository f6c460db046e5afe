package export

import "context"

// Collection is the normalized input of an export.
type Collection struct {
	Tracks    []Track
	Playlists []Playlist
}

// Track is one collection entry.
type Track struct {
	ID       uint32 // collection id, referenced by playlists
	Location string // local path of the audio file

	Title    string
	Artist   string
	Album    string
	Genre    string
	Label    string
	Composer string
	Remixer  string
	Key      string
	Comment  string
	MixName  string

	DateAdded   string // yyyy-mm-dd
	Year        int
	TrackNumber int
	DiscNumber  int
	Duration    int // seconds
	AverageBPM  float64
	BitRate     int // kbit/s
	SampleRate  int
	Size        int64
	Rating      int
	PlayCount   int

	Tempos []TempoMarker
	Marks  []PositionMark
}

// TempoMarker anchors the beat grid.
type TempoMarker struct {
	Start float64 // seconds
	BPM   float64
	Beat  int // bar position of the beat at Start, 1..4
}

// Memory marks carry Num -1; hot cues are numbered from 0 (A).
const MemoryCue = -1

// PositionMark is a cue or loop.
type PositionMark struct {
	Name  string
	Type  int // 0 cue, 4 loop
	Start float64
	End   float64
	Num   int

	Red, Green, Blue uint8
}

// Playlist is a playlist or, when Folder is set, a folder of playlists.
type Playlist struct {
	Name     string
	Folder   bool
	Children []Playlist
	TrackIDs []uint32
}

// Artwork holds the two JPEG sizes players read.
type Artwork struct {
	Image     []byte // 240x240
	Thumbnail []byte // 80x80
}

// Tags are text tags read from an audio file.
type Tags struct {
	Title, Artist, Album, Genre, Composer, Comment string

	Year        int
	TrackNumber int
}

// SampleSource decodes a track to mono samples in [-1, 1] at 150 per second.
type SampleSource interface {
	Samples(ctx context.Context, location string) ([]float64, error)
}

// ArtworkSource returns the artwork of a track, or nil when it has none.
type ArtworkSource interface {
	Artwork(location string) (*Artwork, error)
}

// TagSource reads file tags used when the collection leaves a field empty.
type TagSource interface {
	Tags(location string) (Tags, error)
}
