package pdb

import (
	"fmt"
	"testing"
)

// benchDatabase holds enough tracks to spill each table over many pages.
func benchDatabase() *Database {
	db := New(nil)
	db.InstallDefaults()
	for i := uint32(1); i <= 2000; i++ {
		t := NewTrack(i)
		t.Title = fmt.Sprintf("Track %d", i)
		t.ArtistID = i%200 + 1
		t.FilePath = fmt.Sprintf("/Contents/Artist %d/Album/track-%d.mp3", i%200+1, i)
		t.AnalyzePath = fmt.Sprintf("/PIONEER/USBANLZ/P%03X/%08X/ANLZ0000.DAT", i&0x3ff, i)
		db.Add(t, &PlaylistEntry{EntryIndex: i, TrackID: i, PlaylistID: 1})
	}
	for i := uint32(1); i <= 200; i++ {
		db.Add(NewArtist(i, fmt.Sprintf("Artist %d", i)))
	}
	db.Add(&PlaylistTreeNode{ID: 1, Name: "All"})
	return db
}

func BenchmarkBuild(b *testing.B) {
	db := benchDatabase()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := db.Build(); err != nil {
			b.Fatalf("build: %v", err)
		}
	}
}

func BenchmarkParse(b *testing.B) {
	data, err := benchDatabase().Build()
	if err != nil {
		b.Fatalf("build: %v", err)
	}
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Parse(data, nil); err != nil {
			b.Fatalf("parse: %v", err)
		}
	}
}
