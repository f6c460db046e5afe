package pdb

import "github.com/joshuapare/pioneerkit/internal/buf"

// PlaylistTreeNode is a row of the playlist tree table.
//
//	0x00  4  parent id (0 for the root)
//	0x04  4  unknown
//	0x08  4  sort order
//	0x0C  4  id
//	0x10  4  folder flag (non-zero for folders)
//	0x14     name
type PlaylistTreeNode struct {
	ParentID  uint32
	Unknown   uint32
	SortOrder uint32
	ID        uint32
	RawFolder uint32
	Name      string
}

// IsFolder reports whether the node groups other playlists.
func (n *PlaylistTreeNode) IsFolder() bool { return n.RawFolder != 0 }

func (*PlaylistTreeNode) Table() TableType { return TablePlaylistTree }

func decodePlaylistTreeNode(row []byte) (Row, error) {
	r := newRowReader(row)
	n := &PlaylistTreeNode{
		ParentID:  r.U32LE(0x00),
		Unknown:   r.U32LE(0x04),
		SortOrder: r.U32LE(0x08),
		ID:        r.U32LE(0x0C),
		RawFolder: r.U32LE(0x10),
	}
	n.Name = r.str(0x14)
	return n, r.Err()
}

func (n *PlaylistTreeNode) encode(a *buf.Arena, _ int) error {
	a.Grow(0x14)
	a.PutU32LE(0x00, n.ParentID)
	a.PutU32LE(0x04, n.Unknown)
	a.PutU32LE(0x08, n.SortOrder)
	a.PutU32LE(0x0C, n.ID)
	a.PutU32LE(0x10, n.RawFolder)
	_, err := putString(a, n.Name)
	return err
}

// PlaylistEntry places a track in a playlist.
type PlaylistEntry struct {
	EntryIndex uint32
	TrackID    uint32
	PlaylistID uint32
}

func (*PlaylistEntry) Table() TableType { return TablePlaylistEntries }

func decodePlaylistEntry(row []byte) (Row, error) {
	r := newRowReader(row)
	e := &PlaylistEntry{EntryIndex: r.U32LE(0), TrackID: r.U32LE(4), PlaylistID: r.U32LE(8)}
	return e, r.Err()
}

func (e *PlaylistEntry) encode(a *buf.Arena, _ int) error {
	a.Grow(12)
	a.PutU32LE(0, e.EntryIndex)
	a.PutU32LE(4, e.TrackID)
	a.PutU32LE(8, e.PlaylistID)
	return nil
}
