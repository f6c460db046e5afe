package export

import (
	"io"
	"log/slog"
	"runtime"
	"time"

	"github.com/joshuapare/pioneerkit/anlz"
	"github.com/joshuapare/pioneerkit/internal/writer"
)

// Options configures an Exporter.
type Options struct {
	// Workers bounds the per-track worker pool.
	// Default: runtime.NumCPU()
	Workers int

	// PageSize of export.pdb.
	// Default: 4096
	PageSize int

	// UnknownTags is the policy used when Verify re-reads written ANLZ files.
	// Default: anlz.SkipUnknown
	UnknownTags anlz.UnknownTagPolicy

	// Verify re-parses every ANLZ file before it is written.
	Verify bool

	// Settings writes default MYSETTING, MYSETTING2, DJMMYSETTING and
	// DEVSETTING files next to the database.
	Settings bool

	Samples SampleSource
	Artwork ArtworkSource
	Tags    TagSource

	// Sink receives output files. Default: a writer.FileWriter at the
	// export root.
	Sink writer.Sink

	// Progress is called after each finished track. Calls are serialized.
	Progress func(done, total int)

	// Now stamps analysis dates. Default: time.Now
	Now func() time.Time

	// Logger receives phase summaries at info level. Default: discard.
	Logger *slog.Logger
}

// DefaultOptions returns the options used when nil is passed.
func DefaultOptions() *Options {
	return &Options{Workers: runtime.NumCPU(), Settings: true}
}

func (o *Options) workers() int {
	if o.Workers < 1 {
		return 1
	}
	return o.Workers
}

func (o *Options) logger() *slog.Logger {
	if o.Logger == nil {
		return discard
	}
	return o.Logger
}

func (o *Options) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))
