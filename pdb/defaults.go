package pdb

// DefaultColors returns the eight track colors every export carries.
func DefaultColors() []Row {
	names := []string{"Pink", "Red", "Orange", "Yellow", "Green", "Aqua", "Blue", "Purple"}
	rows := make([]Row, len(names))
	for i, n := range names {
		id := i + 1
		rows[i] = &Color{Unknown2: uint8(id), ID: uint16(id), Name: n}
	}
	return rows
}

var defaultColumns = []struct {
	number uint16
	label  string
}{
	{128, "GENRE"}, {129, "ARTIST"}, {130, "ALBUM"}, {131, "TRACK"},
	{133, "BPM"}, {134, "RATING"}, {135, "YEAR"}, {136, "REMIXER"},
	{137, "LABEL"}, {138, "ORIGINAL ARTIST"}, {139, "KEY"}, {141, "CUE"},
	{142, "COLOR"}, {146, "TIME"}, {147, "BITRATE"}, {148, "FILE NAME"},
	{132, "PLAYLIST"}, {152, "HOT CUE BANK"}, {149, "HISTORY"}, {145, "SEARCH"},
	{150, "COMMENTS"}, {140, "DATE ADDED"}, {151, "DJ PLAY COUNT"}, {144, "FOLDER"},
	{161, "DEFAULT"}, {162, "ALPHABET"}, {170, "MATCHING"},
}

// DefaultColumns returns the 27 browse categories rekordbox exports.
func DefaultColumns() []Row {
	rows := make([]Row, len(defaultColumns))
	for i, c := range defaultColumns {
		rows[i] = NewColumn(uint16(i+1), c.number, c.label)
	}
	return rows
}

// DefaultHistoryPlaylists returns the rows rekordbox writes to table 17.
func DefaultHistoryPlaylists() []Row {
	vals := [][5]uint16{
		{15, 20, 6, 1, 0}, {16, 21, 99, 1, 0}, {18, 23, 99, 1, 0}, {8, 9, 99, 1, 0},
		{9, 10, 99, 1, 0}, {10, 11, 99, 1, 0}, {13, 15, 99, 1, 0}, {14, 19, 4, 1, 0},
		{1, 1, 99, 1, 0}, {5, 6, 5, 1, 0}, {6, 7, 99, 1, 0}, {7, 8, 99, 1, 0},
		{2, 2, 2, 0, 1}, {3, 3, 3, 0, 2}, {4, 4, 1, 0, 3}, {11, 12, 99, 0, 4},
		{17, 5, 99, 0, 5}, {19, 22, 99, 0, 6}, {20, 18, 99, 0, 7}, {27, 26, 99, 2, 8},
		{24, 17, 99, 0, 9}, {22, 27, 99, 5, 10},
	}
	rows := make([]Row, len(vals))
	for i, v := range vals {
		rows[i] = &HistoryPlaylist{
			Unknown1: v[0], Unknown2: v[1], Unknown3: uint8(v[2]), Unknown4: uint8(v[3]), Unknown5: v[4],
		}
	}
	return rows
}

// DefaultHistoryEntries returns the rows rekordbox writes to table 18.
func DefaultHistoryEntries() []Row {
	vals := [][3]uint32{
		{22, 17, 1}, {14, 8, 1}, {8, 9, 1}, {9, 10, 1}, {10, 11, 1}, {15, 13, 1},
		{13, 15, 1}, {23, 16, 1}, {1, 6, 1}, {21, 7, 1}, {25, 0, 256}, {26, 1, 512},
		{2, 2, 768}, {3, 3, 1024}, {5, 4, 1280}, {6, 5, 1536}, {11, 12, 1792},
	}
	rows := make([]Row, len(vals))
	for i, v := range vals {
		rows[i] = &HistoryEntry{TrackID: uint16(v[0]), PlaylistID: uint16(v[1]), EntryIndex: v[2]}
	}
	return rows
}

// DefaultHistory returns the single history row an export carries.
func DefaultHistory() []Row {
	return []Row{&History{
		Unknown1:  128,
		Unknown2:  2,
		Unknown3:  128,
		Unknown4:  3073,
		Date:      "2023-12-19",
		Unknown8:  25,
		Unknown9:  30,
		Number:    "1000",
		Unknown10: 3,
	}}
}
