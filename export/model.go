package export

import (
	"log/slog"
	"math"
	"strings"

	"github.com/joshuapare/pioneerkit/pdb"
)

// TrialPlaylist is created by rekordbox's cloud sync and never exported.
const TrialPlaylist = "Trial playlist - Cloud Library Sync"

// Date layout of the analyze_date and date_added strings.
const dateLayout = "2006-01-02"

// job is the per-track work handed to the pool.
type job struct {
	track     *Track
	row       *pdb.Track
	analysis  string // absolute DAT path
	artwork   *Artwork
	artworkID uint32
}

// plan is the fully numbered export, ready for the pool and the PDB encode.
type plan struct {
	db        *pdb.Database
	jobs      []job
	playlists int
}

// catalog numbers distinct names of one table from 1. Names can be scoped
// by an owner id, as albums are by artist.
type catalog struct {
	ids  map[catalogKey]uint32
	rows []pdb.Row
	mk   func(id uint32, name string, owner uint32) pdb.Row
}

type catalogKey struct {
	name  string
	owner uint32
}

func newCatalog(mk func(id uint32, name string, owner uint32) pdb.Row) *catalog {
	return &catalog{ids: make(map[catalogKey]uint32), mk: mk}
}

// id returns the id of name, adding a row on first sight. Empty names map
// to 0.
func (c *catalog) id(name string) uint32 {
	return c.owned(name, 0)
}

func (c *catalog) owned(name string, owner uint32) uint32 {
	if name == "" {
		return 0
	}
	k := catalogKey{name, owner}
	if id, ok := c.ids[k]; ok {
		return id
	}
	id := uint32(len(c.rows) + 1)
	c.ids[k] = id
	c.rows = append(c.rows, c.mk(id, name, owner))
	return id
}

// planner accumulates rows while walking the collection.
type planner struct {
	opts *Options
	log  *slog.Logger
	date string

	artists, albums, genres, labels, keys *catalog

	contents *contentPaths
	analysis *analysisPaths

	byCollectionID map[uint32]uint32
	artworks       []pdb.Row
	tree           []pdb.Row
	entries        []pdb.Row
}

func newPlanner(opts *Options) *planner {
	return &planner{
		opts: opts,
		log:  opts.logger(),
		date: opts.now().Format(dateLayout),
		artists: newCatalog(func(id uint32, name string, _ uint32) pdb.Row {
			return pdb.NewArtist(id, name)
		}),
		albums: newCatalog(func(id uint32, name string, artist uint32) pdb.Row {
			return pdb.NewAlbum(id, artist, name)
		}),
		genres: newCatalog(func(id uint32, name string, _ uint32) pdb.Row {
			return &pdb.Genre{ID: id, Name: name}
		}),
		labels: newCatalog(func(id uint32, name string, _ uint32) pdb.Row {
			return &pdb.Label{ID: id, Name: name}
		}),
		keys: newCatalog(func(id uint32, name string, _ uint32) pdb.Row {
			return &pdb.Key{ID: id, ID2: id, Name: name}
		}),
		contents:       newContentPaths(),
		analysis:       newAnalysisPaths(),
		byCollectionID: make(map[uint32]uint32),
	}
}

// buildPlan turns col into PDB rows and per-track jobs.
func buildPlan(col *Collection, opts *Options) (*plan, error) {
	p := newPlanner(opts)

	jobs := make([]job, len(col.Tracks))
	tracks := make([]pdb.Row, len(col.Tracks))
	for i := range col.Tracks {
		t := col.Tracks[i]
		p.fillFromTags(&t)

		row := pdb.NewTrack(uint32(i + 1))
		row.ArtistID = p.artists.id(t.Artist)
		row.AlbumID = p.albums.owned(t.Album, row.ArtistID)
		row.GenreID = p.genres.id(t.Genre)
		row.LabelID = p.labels.id(t.Label)
		row.KeyID = p.keys.id(t.Key)
		row.ComposerID = p.artists.id(t.Composer)
		row.RemixerID = p.artists.id(t.Remixer)

		name, filePath, err := p.contents.assign(t.Artist, t.Album, t.Location)
		if err != nil {
			return nil, err
		}
		fillTrackRow(row, &t, p.date)
		row.Filename = name
		row.FilePath = filePath
		row.AnalyzePath = p.analysis.assign(t.ID)

		j := job{track: &t, row: row, analysis: row.AnalyzePath}
		if art := p.artwork(&t); art != nil {
			j.artwork = art
			j.artworkID = uint32(len(p.artworks) + 1)
			row.ArtworkID = j.artworkID
			p.artworks = append(p.artworks, &pdb.Artwork{ID: j.artworkID, Path: ArtworkPath(j.artworkID, false)})
		}

		if _, dup := p.byCollectionID[t.ID]; dup {
			p.log.Warn("export: duplicate collection id", "id", t.ID, "location", t.Location)
		} else {
			p.byCollectionID[t.ID] = row.ID
		}
		jobs[i] = j
		tracks[i] = row
	}

	p.addPlaylists(col.Playlists, 0)

	db := pdb.New(&pdb.Options{PageSize: opts.PageSize, Logger: opts.Logger})
	db.InstallDefaults()
	db.SetRows(pdb.TableTracks, tracks)
	db.SetRows(pdb.TableGenres, p.genres.rows)
	db.SetRows(pdb.TableArtists, p.artists.rows)
	db.SetRows(pdb.TableAlbums, p.albums.rows)
	db.SetRows(pdb.TableLabels, p.labels.rows)
	db.SetRows(pdb.TableKeys, p.keys.rows)
	db.SetRows(pdb.TableArtwork, p.artworks)
	db.SetRows(pdb.TablePlaylistTree, p.tree)
	db.SetRows(pdb.TablePlaylistEntries, p.entries)
	return &plan{db: db, jobs: jobs, playlists: len(p.tree)}, nil
}

// fillTrackRow copies the scalar and string fields of t into row.
func fillTrackRow(row *pdb.Track, t *Track, today string) {
	row.Unknown2 = t.ID
	row.SampleRate = uint32(t.SampleRate)
	row.FileSize = uint32(t.Size)
	row.Bitrate = uint32(t.BitRate)
	row.TrackNumber = uint32(t.TrackNumber)
	row.Tempo = uint32(math.Round(t.AverageBPM * 100))
	row.DiscNumber = uint16(t.DiscNumber)
	row.PlayCount = uint16(t.PlayCount)
	row.Year = uint16(t.Year)
	row.Duration = uint16(t.Duration)
	row.Rating = stars(t.Rating)
	row.DateAdded = t.DateAdded
	row.MixName = t.MixName
	row.Comment = t.Comment
	row.Title = t.Title
	row.AnalyzeDate = today
}

// stars maps the 0..255 collection rating (51 per star) to 0..5. Values
// already in 0..5 pass through.
func stars(r int) uint8 {
	switch {
	case r <= 0:
		return 0
	case r <= 5:
		return uint8(r)
	case r >= 255:
		return 5
	}
	return uint8(r / 51)
}

// fillFromTags completes empty text fields from the file's own tags.
func (p *planner) fillFromTags(t *Track) {
	if p.opts.Tags != nil && (t.Title == "" || t.Artist == "" || t.Album == "" || t.Genre == "") {
		tags, err := p.opts.Tags.Tags(t.Location)
		if err != nil {
			p.log.Warn("export: read tags", "location", t.Location, "error", err)
		} else {
			fill := func(dst *string, v string) {
				if *dst == "" {
					*dst = v
				}
			}
			fill(&t.Title, tags.Title)
			fill(&t.Artist, tags.Artist)
			fill(&t.Album, tags.Album)
			fill(&t.Genre, tags.Genre)
			fill(&t.Composer, tags.Composer)
			fill(&t.Comment, tags.Comment)
			if t.Year == 0 {
				t.Year = tags.Year
			}
			if t.TrackNumber == 0 {
				t.TrackNumber = tags.TrackNumber
			}
		}
	}
	if t.Title == "" {
		t.Title, _ = splitExt(baseName(t.Location))
	}
}

// artwork asks the artwork source for t's cover. Failures only cost the
// cover.
func (p *planner) artwork(t *Track) *Artwork {
	if p.opts.Artwork == nil {
		return nil
	}
	art, err := p.opts.Artwork.Artwork(t.Location)
	if err != nil {
		p.log.Warn("export: read artwork", "location", t.Location, "error", err)
		return nil
	}
	if art == nil || len(art.Image) == 0 {
		return nil
	}
	return art
}

// addPlaylists numbers the tree depth first. Sort order is the position
// under the parent.
func (p *planner) addPlaylists(list []Playlist, parent uint32) {
	order := uint32(0)
	for i := range list {
		pl := &list[i]
		if strings.TrimSpace(pl.Name) == TrialPlaylist {
			continue
		}
		id := uint32(len(p.tree) + 1)
		node := &pdb.PlaylistTreeNode{ParentID: parent, SortOrder: order, ID: id, Name: pl.Name}
		order++
		p.tree = append(p.tree, node)
		if pl.Folder {
			node.RawFolder = 1
			p.addPlaylists(pl.Children, id)
			continue
		}
		idx := uint32(0)
		for _, cid := range pl.TrackIDs {
			tid, ok := p.byCollectionID[cid]
			if !ok {
				p.log.Warn("export: playlist references unknown track", "playlist", pl.Name, "id", cid)
				continue
			}
			idx++
			p.entries = append(p.entries, &pdb.PlaylistEntry{EntryIndex: idx, TrackID: tid, PlaylistID: id})
		}
	}
}
