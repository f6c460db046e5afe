package pdb

import (
	"io"
	"log/slog"
)

// DefaultPageSize is the page size rekordbox writes.
const DefaultPageSize = 4096

// Options configures Parse and Build.
type Options struct {
	// PageSize is used by Build when the header does not set one.
	// Default: 4096
	PageSize int

	// Logger receives page allocation and overflow events at debug level.
	// Default: discard.
	Logger *slog.Logger
}

// DefaultOptions returns the options used when nil is passed.
func DefaultOptions() *Options {
	return &Options{PageSize: DefaultPageSize}
}

func (o *Options) logger() *slog.Logger {
	if o == nil || o.Logger == nil {
		return discard
	}
	return o.Logger
}

func (o *Options) pageSize() int {
	if o == nil || o.PageSize == 0 {
		return DefaultPageSize
	}
	return o.PageSize
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))
