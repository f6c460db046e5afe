package pdb

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/joshuapare/pioneerkit/internal/buf"
	"github.com/joshuapare/pioneerkit/internal/mmfile"
)

const (
	fileHeaderLen  = 28
	pointerLen     = 16
	defaultUnknown = 5
)

// Header is the file header at the start of page 0.
//
//	0x00  4  zero
//	0x04  4  page size
//	0x08  4  number of table pointers
//	0x0C  4  next unused page
//	0x10  4  unknown (5)
//	0x14  4  sequence
//	0x18  4  zero
type Header struct {
	PageSize   uint32
	NumTables  uint32
	NextUnused uint32
	Unknown    uint32
	Sequence   uint32
}

// DefaultHeader returns the header of a fresh export.
func DefaultHeader() Header {
	return Header{
		PageSize:  DefaultPageSize,
		NumTables: NumTables,
		Unknown:   defaultUnknown,
		Sequence:  1,
	}
}

// Database is a decoded export database: its header, the table pointers it
// was read with, and the rows of every table in file order.
type Database struct {
	Header   Header
	Pointers []TablePointer

	// Source is the path the database was read from, used in error messages.
	Source string

	tables map[TableType][]Row
	log    *slog.Logger
}

// New returns an empty database with the default header.
func New(opts *Options) *Database {
	h := DefaultHeader()
	h.PageSize = uint32(opts.pageSize())
	return &Database{Header: h, tables: make(map[TableType][]Row), log: opts.logger()}
}

// ParseFile maps the database at path and decodes it.
func ParseFile(path string, opts *Options) (*Database, error) {
	data, release, err := mmfile.Map(path)
	if err != nil {
		return nil, fmt.Errorf("pdb: open %s: %w", path, err)
	}
	defer release()
	return parse(data, path, opts)
}

// Parse decodes a database held in memory.
func Parse(data []byte, opts *Options) (*Database, error) {
	return parse(data, "", opts)
}

func parse(data []byte, source string, opts *Options) (*Database, error) {
	log := opts.logger()
	if len(data) < fileHeaderLen {
		return nil, &FormatError{Path: source, Page: -1, Reason: "truncated file header", Err: ErrTruncated}
	}
	r := buf.NewReader(data)
	db := &Database{
		Header: Header{
			PageSize:   r.U32LE(0x04),
			NumTables:  r.U32LE(0x08),
			NextUnused: r.U32LE(0x0C),
			Unknown:    r.U32LE(0x10),
			Sequence:   r.U32LE(0x14),
		},
		Source: source,
		tables: make(map[TableType][]Row),
		log:    log,
	}
	ps := int(db.Header.PageSize)
	if ps < minPageSize || ps > maxPageSize {
		return nil, &FormatError{Path: source, Page: -1, Offset: 0x04, Reason: fmt.Sprintf("page size %d out of range", ps)}
	}
	if len(data) < ps {
		return nil, &FormatError{Path: source, Page: -1, Offset: 0, Reason: "file shorter than one page", Err: ErrTruncated}
	}
	n := int(db.Header.NumTables)
	if fileHeaderLen+n*pointerLen > ps {
		return nil, &FormatError{Path: source, Page: -1, Offset: 0x08, Reason: fmt.Sprintf("%d table pointers overflow page 0", n)}
	}

	var lastPage uint32
	db.Pointers = make([]TablePointer, n)
	for i := range db.Pointers {
		off := fileHeaderLen + i*pointerLen
		p := TablePointer{
			Type:           TableType(r.U32LE(off)),
			EmptyCandidate: r.U32LE(off + 4),
			FirstPage:      r.U32LE(off + 8),
			LastPage:       r.U32LE(off + 12),
		}
		db.Pointers[i] = p
		lastPage = max(lastPage, p.LastPage)
	}

	for idx := 1; idx <= int(lastPage); idx++ {
		start := idx * ps
		if start+ps > len(data) {
			return nil, &FormatError{Path: source, Page: idx, Offset: start, Reason: "page beyond end of file", Err: ErrTruncated}
		}
		page, err := DecodePage(data[start : start+ps])
		if err != nil {
			return nil, &FormatError{Path: source, Page: idx, Offset: start, Reason: "decode page", Err: err}
		}
		h := page.Header
		if h.PageIndex == 0 || !h.IsData() {
			continue
		}
		if int(h.PageIndex) != idx {
			log.Warn("pdb: page index disagrees with position", "path", source, "page", idx, "page_index", h.PageIndex)
		}
		db.tables[h.Type] = append(db.tables[h.Type], page.Rows...)
		log.Debug("pdb: page decoded", "page", idx, "table", h.Type, "rows", len(page.Rows))
	}
	return db, nil
}

// Rows returns the rows of table t in file order.
func (db *Database) Rows(t TableType) []Row { return db.tables[t] }

// SetRows replaces the rows of table t.
func (db *Database) SetRows(t TableType, rows []Row) {
	if db.tables == nil {
		db.tables = make(map[TableType][]Row)
	}
	db.tables[t] = rows
}

// Add appends rows to their tables.
func (db *Database) Add(rows ...Row) {
	if db.tables == nil {
		db.tables = make(map[TableType][]Row)
	}
	for _, r := range rows {
		db.tables[r.Table()] = append(db.tables[r.Table()], r)
	}
}

// Tables returns the types of every table holding rows, in ascending order.
func (db *Database) Tables() []TableType {
	var out []TableType
	for t, rows := range db.tables {
		if len(rows) > 0 {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// InstallDefaults fills the colors, columns and history tables with the rows
// every rekordbox export carries.
func (db *Database) InstallDefaults() {
	db.SetRows(TableColors, DefaultColors())
	db.SetRows(TableColumns, DefaultColumns())
	db.SetRows(TableHistoryPlaylists, DefaultHistoryPlaylists())
	db.SetRows(TableHistoryEntries, DefaultHistoryEntries())
	db.SetRows(TableHistory, DefaultHistory())
}

// Build lays every table out as a header page, its data pages and a trailing
// empty candidate page, in table order, and returns the encoded file. The
// header and table pointers are updated to describe the result.
func (db *Database) Build() ([]byte, error) {
	log := db.log
	if log == nil {
		log = discard
	}
	ps := int(db.Header.PageSize)
	if ps == 0 {
		ps = DefaultPageSize
	}
	if ps < minPageSize || ps > maxPageSize {
		return nil, fmt.Errorf("pdb: page size %d outside [%d, %d]", ps, minPageSize, maxPageSize)
	}

	numTables := NumTables
	for t, rows := range db.tables {
		if len(rows) > 0 && int(t) >= numTables {
			numTables = int(t) + 1
		}
	}
	if fileHeaderLen+numTables*pointerLen > ps {
		return nil, fmt.Errorf("pdb: %d table pointers do not fit a %d-byte page", numTables, ps)
	}

	a := buf.NewArena(ps * (1 + 3*numTables))
	alloc := func() uint32 {
		return uint32(a.Grow(ps) / ps)
	}
	alloc() // page 0

	pointers := make([]TablePointer, numTables)
	for i := range pointers {
		t := TableType(i)
		rows := db.tables[t]
		hdr := alloc()
		ptr := TablePointer{Type: t, FirstPage: hdr, LastPage: hdr}
		putHeaderPage(a, hdr, t, ps, len(rows) > 0)

		for len(rows) > 0 {
			idx := alloc()
			h := PageHeader{
				PageIndex: idx,
				Type:      t,
				NextPage:  idx + 1,
				Unknown1:  1,
				Flags:     FlagData,
				Unknown5:  1,
			}
			page, rest, err := EncodePage(h, rows, ps)
			if err != nil {
				return nil, err
			}
			a.PutBytes(int(idx)*ps, page)
			log.Debug("pdb: page allocated", "table", t, "page", idx, "rows", len(rows)-len(rest))
			if len(rest) > 0 {
				log.Debug("pdb: page overflow", "table", t, "page", idx, "remaining", len(rest))
			}
			rows = rest
			ptr.LastPage = idx
		}
		ptr.EmptyCandidate = alloc()
		pointers[i] = ptr
	}

	db.Header.PageSize = uint32(ps)
	db.Header.NumTables = uint32(numTables)
	db.Header.NextUnused = uint32(a.Len() / ps)
	db.Pointers = pointers

	a.PutU32LE(0x04, db.Header.PageSize)
	a.PutU32LE(0x08, db.Header.NumTables)
	a.PutU32LE(0x0C, db.Header.NextUnused)
	a.PutU32LE(0x10, db.Header.Unknown)
	a.PutU32LE(0x14, db.Header.Sequence)
	for i, p := range pointers {
		off := fileHeaderLen + i*pointerLen
		a.PutU32LE(off, uint32(p.Type))
		a.PutU32LE(off+4, p.EmptyCandidate)
		a.PutU32LE(off+8, p.FirstPage)
		a.PutU32LE(off+12, p.LastPage)
	}

	if err := a.Err(); err != nil {
		return nil, fmt.Errorf("pdb: build: %w", err)
	}
	if want := int(db.Header.NextUnused) * ps; a.Len() != want {
		return nil, &LengthMismatchError{What: "file", Expected: want, Actual: a.Len()}
	}
	return a.Bytes(), nil
}

func rowsOf[T Row](db *Database, t TableType) []T {
	rows := db.tables[t]
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if v, ok := r.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

func (db *Database) Tracks() []*Track     { return rowsOf[*Track](db, TableTracks) }
func (db *Database) Genres() []*Genre     { return rowsOf[*Genre](db, TableGenres) }
func (db *Database) Artists() []*Artist   { return rowsOf[*Artist](db, TableArtists) }
func (db *Database) Albums() []*Album     { return rowsOf[*Album](db, TableAlbums) }
func (db *Database) Labels() []*Label     { return rowsOf[*Label](db, TableLabels) }
func (db *Database) Keys() []*Key         { return rowsOf[*Key](db, TableKeys) }
func (db *Database) Colors() []*Color     { return rowsOf[*Color](db, TableColors) }
func (db *Database) Artworks() []*Artwork { return rowsOf[*Artwork](db, TableArtwork) }
func (db *Database) Columns() []*Column   { return rowsOf[*Column](db, TableColumns) }
func (db *Database) History() []*History  { return rowsOf[*History](db, TableHistory) }
func (db *Database) PlaylistTree() []*PlaylistTreeNode {
	return rowsOf[*PlaylistTreeNode](db, TablePlaylistTree)
}
func (db *Database) PlaylistEntries() []*PlaylistEntry {
	return rowsOf[*PlaylistEntry](db, TablePlaylistEntries)
}
func (db *Database) HistoryPlaylists() []*HistoryPlaylist {
	return rowsOf[*HistoryPlaylist](db, TableHistoryPlaylists)
}
func (db *Database) HistoryEntries() []*HistoryEntry {
	return rowsOf[*HistoryEntry](db, TableHistoryEntries)
}

// TrackByID returns the track row with the given id.
func (db *Database) TrackByID(id uint32) (*Track, bool) {
	for _, t := range db.Tracks() {
		if t.ID == id {
			return t, true
		}
	}
	return nil, false
}

// PlaylistTracks returns the tracks of playlist id ordered by entry index.
// Entries naming a missing track are skipped.
func (db *Database) PlaylistTracks(id uint32) []*Track {
	var entries []*PlaylistEntry
	for _, e := range db.PlaylistEntries() {
		if e.PlaylistID == id {
			entries = append(entries, e)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].EntryIndex < entries[j].EntryIndex })

	byID := make(map[uint32]*Track)
	for _, t := range db.Tracks() {
		byID[t.ID] = t
	}
	out := make([]*Track, 0, len(entries))
	for _, e := range entries {
		if t, ok := byID[e.TrackID]; ok {
			out = append(out, t)
		}
	}
	return out
}
