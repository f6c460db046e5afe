package export

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sync"

	"github.com/joshuapare/pioneerkit/anlz"
	"github.com/joshuapare/pioneerkit/internal/writer"
	"github.com/joshuapare/pioneerkit/settings"
)

// ErrVerify is returned when a written analysis file does not read back.
var ErrVerify = errors.New("export: analysis file failed verification")

// Exporter writes collections to an export root.
type Exporter struct {
	opts *Options
}

// New returns an Exporter. nil options mean DefaultOptions().
func New(opts *Options) *Exporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &Exporter{opts: opts}
}

// Summary counts what an export wrote.
type Summary struct {
	Tracks    int
	Playlists int
	Artwork   int
	Database  int // bytes
}

// Export writes col below root. The first failing track cancels the
// remaining ones; export.pdb is only written when every track succeeded.
func (e *Exporter) Export(ctx context.Context, col *Collection, root string) (*Summary, error) {
	log := e.opts.logger()
	sink := e.opts.Sink
	if sink == nil {
		sink = &writer.FileWriter{Root: root}
	}

	p, err := buildPlan(col, e.opts)
	if err != nil {
		return nil, err
	}
	log.Info("export: plan ready",
		"tracks", len(p.jobs),
		"artists", len(p.db.Artists()),
		"albums", len(p.db.Albums()),
		"playlists", p.playlists)

	if err := e.runPool(ctx, sink, p.jobs); err != nil {
		return nil, err
	}
	log.Info("export: tracks written", "tracks", len(p.jobs))

	data, err := p.db.Build()
	if err != nil {
		return nil, fmt.Errorf("export: build database: %w", err)
	}
	if err := sink.WriteFile(DatabasePath, data); err != nil {
		return nil, fmt.Errorf("export: write database: %w", err)
	}
	log.Info("export: database written", "bytes", len(data), "pages", p.db.Header.NextUnused)

	if e.opts.Settings {
		if err := writeSettings(sink); err != nil {
			return nil, err
		}
	}

	return &Summary{
		Tracks:    len(p.jobs),
		Playlists: p.playlists,
		Artwork:   len(p.db.Artworks()),
		Database:  len(data),
	}, nil
}

// runPool fans jobs out to the configured number of workers.
func (e *Exporter) runPool(parent context.Context, sink writer.Sink, jobs []job) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
		mu       sync.Mutex
		done     int
	)
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			cancel()
		})
	}

	queue := make(chan *job)
	for w := 0; w < e.opts.workers(); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range queue {
				if ctx.Err() != nil {
					continue
				}
				if err := e.writeTrack(ctx, sink, j); err != nil {
					fail(err)
					continue
				}
				if e.opts.Progress != nil {
					mu.Lock()
					done++
					e.opts.Progress(done, len(jobs))
					mu.Unlock()
				}
			}
		}()
	}

feed:
	for i := range jobs {
		select {
		case queue <- &jobs[i]:
		case <-ctx.Done():
			break feed
		}
	}
	close(queue)
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	return parent.Err()
}

// writeTrack writes the analysis files, audio and artwork of one track.
func (e *Exporter) writeTrack(ctx context.Context, sink writer.Sink, j *job) error {
	t := j.track
	var samples []float64
	if e.opts.Samples != nil {
		s, err := e.opts.Samples.Samples(ctx, t.Location)
		if err != nil {
			return fmt.Errorf("export: samples of %s: %w", t.Location, err)
		}
		samples = s
	}

	dat, err := BuildDAT(t, j.row.FilePath, samples)
	if err != nil {
		return fmt.Errorf("export: %s: %w", j.analysis, err)
	}
	ext, err := BuildEXT(t, j.row.FilePath, samples)
	if err != nil {
		return fmt.Errorf("export: %s: %w", extPath(j.analysis), err)
	}
	for _, out := range []struct {
		name string
		file *anlz.File
	}{{j.analysis, dat}, {extPath(j.analysis), ext}} {
		if err := e.writeAnalysis(sink, out.name, out.file); err != nil {
			return err
		}
	}

	if err := sink.CopyFile(rel(j.row.FilePath), t.Location); err != nil {
		return fmt.Errorf("export: copy %s: %w", t.Location, err)
	}

	if j.artwork != nil {
		if err := sink.WriteFile(rel(ArtworkPath(j.artworkID, false)), j.artwork.Image); err != nil {
			return fmt.Errorf("export: artwork %d: %w", j.artworkID, err)
		}
		if len(j.artwork.Thumbnail) > 0 {
			if err := sink.WriteFile(rel(ArtworkPath(j.artworkID, true)), j.artwork.Thumbnail); err != nil {
				return fmt.Errorf("export: artwork %d: %w", j.artworkID, err)
			}
		}
	}
	return nil
}

func (e *Exporter) writeAnalysis(sink writer.Sink, name string, f *anlz.File) error {
	data, err := f.Build()
	if err != nil {
		return fmt.Errorf("export: build %s: %w", name, err)
	}
	if e.opts.Verify {
		back, err := anlz.Parse(data, &anlz.Options{UnknownTags: e.opts.UnknownTags, Strict: true})
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrVerify, name, err)
		}
		if len(back.Tags) != len(f.Tags) {
			return fmt.Errorf("%w: %s: %d tags read back, %d written", ErrVerify, name, len(back.Tags), len(f.Tags))
		}
	}
	if err := sink.WriteFile(rel(name), data); err != nil {
		return fmt.Errorf("export: write %s: %w", name, err)
	}
	return nil
}

// writeSettings writes a default file of every settings kind.
func writeSettings(sink writer.Sink) error {
	for _, k := range settings.Kinds {
		data, err := settings.New(k).Build()
		if err != nil {
			return fmt.Errorf("export: %s: %w", k, err)
		}
		if err := sink.WriteFile(path.Join(SettingsDir, k.FileName()), data); err != nil {
			return fmt.Errorf("export: write %s: %w", k.FileName(), err)
		}
	}
	return nil
}
