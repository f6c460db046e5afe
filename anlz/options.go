package anlz

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// UnknownTagPolicy selects what Parse does with tag codes it cannot decode.
type UnknownTagPolicy int

const (
	// SkipUnknown keeps the tag as an Opaque payload and continues the walk.
	SkipUnknown UnknownTagPolicy = iota
	// AbortOnUnknown stops the walk at the first unknown tag, keeping the
	// tags decoded so far. This matches the legacy exporter.
	AbortOnUnknown
)

func (p UnknownTagPolicy) String() string {
	switch p {
	case SkipUnknown:
		return "skip"
	case AbortOnUnknown:
		return "abort"
	default:
		return fmt.Sprintf("UnknownTagPolicy(%d)", int(p))
	}
}

// ParseUnknownTagPolicy maps "skip" or "abort" to a policy.
func ParseUnknownTagPolicy(s string) (UnknownTagPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "skip":
		return SkipUnknown, nil
	case "abort":
		return AbortOnUnknown, nil
	}
	return SkipUnknown, fmt.Errorf("anlz: unknown tag policy %q (want skip or abort)", s)
}

// Options configures Parse.
type Options struct {
	// UnknownTags selects skip-and-continue or abort on unknown tag codes.
	// Default: SkipUnknown
	UnknownTags UnknownTagPolicy

	// Strict turns an abort under AbortOnUnknown into an UnsupportedTagError.
	// Default: false (the walk stops silently, logging a warning)
	Strict bool

	// Logger receives read-side warnings. Default: discard.
	Logger *slog.Logger
}

// DefaultOptions returns the options used when nil is passed.
func DefaultOptions() *Options {
	return &Options{UnknownTags: SkipUnknown}
}

func (o *Options) logger() *slog.Logger {
	if o == nil || o.Logger == nil {
		return discard
	}
	return o.Logger
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))
