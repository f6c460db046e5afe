package pdb

import "fmt"

// TableType identifies a table by its position in the pointer directory.
type TableType uint32

const (
	TableTracks           TableType = 0
	TableGenres           TableType = 1
	TableArtists          TableType = 2
	TableAlbums           TableType = 3
	TableLabels           TableType = 4
	TableKeys             TableType = 5
	TableColors           TableType = 6
	TablePlaylistTree     TableType = 7
	TablePlaylistEntries  TableType = 8
	TableArtwork          TableType = 13
	TableColumns          TableType = 16
	TableHistoryPlaylists TableType = 17
	TableHistoryEntries   TableType = 18
	TableHistory          TableType = 19
)

// NumTables is the number of table pointers rekordbox writes.
const NumTables = 20

var tableNames = map[TableType]string{
	TableTracks:           "tracks",
	TableGenres:           "genres",
	TableArtists:          "artists",
	TableAlbums:           "albums",
	TableLabels:           "labels",
	TableKeys:             "keys",
	TableColors:           "colors",
	TablePlaylistTree:     "playlist_tree",
	TablePlaylistEntries:  "playlist_entries",
	TableArtwork:          "artwork",
	TableColumns:          "columns",
	TableHistoryPlaylists: "history_playlists",
	TableHistoryEntries:   "history_entries",
	TableHistory:          "history",
}

func (t TableType) String() string {
	if s, ok := tableNames[t]; ok {
		return s
	}
	return fmt.Sprintf("unknown_%d", uint32(t))
}

// ParseTableType maps a table name, as returned by String, to its type.
func ParseTableType(name string) (TableType, bool) {
	for t, s := range tableNames {
		if s == name {
			return t, true
		}
	}
	return 0, false
}

// TablePointer is one entry of the page 0 directory.
type TablePointer struct {
	Type           TableType
	EmptyCandidate uint32
	FirstPage      uint32
	LastPage       uint32
}
