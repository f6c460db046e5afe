package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/pioneerkit/pdb"
)

var (
	pdbTable    string
	pdbPlaylist uint32
)

func init() {
	rootCmd.AddCommand(newPdbCmd())
}

func newPdbCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pdb <export.pdb>",
		Short: "Report the tables of an export database",
		Long: `The pdb command decodes an export.pdb file and reports its header and the
row count of every table. A single table can be listed in full, as can the
tracks of one playlist.

Example:
  pioneerctl pdb PIONEER/rekordbox/export.pdb
  pioneerctl pdb export.pdb --table tracks
  pioneerctl pdb export.pdb --playlist 2 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPdb(args)
		},
	}
	cmd.Flags().StringVar(&pdbTable, "table", "", "List the rows of one table, e.g. tracks or artists")
	cmd.Flags().Uint32Var(&pdbPlaylist, "playlist", 0, "List the tracks of the playlist with this id")
	return cmd
}

type pdbTableCount struct {
	Table string `json:"table"`
	Rows  int    `json:"rows"`
}

type pdbTrack struct {
	ID       uint32  `json:"id"`
	Title    string  `json:"title"`
	Artist   string  `json:"artist"`
	BPM      float64 `json:"bpm"`
	Duration uint16  `json:"duration"`
	Path     string  `json:"path"`
	Analysis string  `json:"analysis"`
}

func runPdb(args []string) error {
	path := args[0]
	printVerbose("Opening database: %s\n", path)

	db, err := pdb.ParseFile(path, nil)
	if err != nil {
		return fmt.Errorf("failed to read database: %w", err)
	}

	switch {
	case pdbPlaylist != 0:
		return printTracks(db, db.PlaylistTracks(pdbPlaylist))
	case pdbTable == "tracks":
		return printTracks(db, db.Tracks())
	case pdbTable != "":
		t, ok := pdb.ParseTableType(pdbTable)
		if !ok {
			return fmt.Errorf("unknown table %q", pdbTable)
		}
		rows := db.Rows(t)
		if jsonOut {
			return printJSON(rows)
		}
		printInfo("\n%s (%d rows):\n", t, len(rows))
		for _, r := range rows {
			printInfo("  %+v\n", r)
		}
		return nil
	}

	var counts []pdbTableCount
	for _, t := range db.Tables() {
		counts = append(counts, pdbTableCount{Table: t.String(), Rows: len(db.Rows(t))})
	}
	if jsonOut {
		return printJSON(map[string]any{
			"file":      path,
			"page_size": db.Header.PageSize,
			"sequence":  db.Header.Sequence,
			"pages":     db.Header.NextUnused,
			"tables":    counts,
		})
	}

	printInfo("\nDatabase:\n")
	printInfo("  File: %s\n", path)
	printInfo("  Page size: %d\n", db.Header.PageSize)
	printInfo("  Pages: %d\n", db.Header.NextUnused)
	printInfo("  Sequence: %d\n", db.Header.Sequence)
	printInfo("\nTables:\n")
	for _, c := range counts {
		printInfo("  %-18s %6d\n", c.Table, c.Rows)
	}
	return nil
}

func printTracks(db *pdb.Database, tracks []*pdb.Track) error {
	artists := make(map[uint32]string)
	for _, a := range db.Artists() {
		artists[a.ID] = a.Name
	}
	out := make([]pdbTrack, 0, len(tracks))
	for _, t := range tracks {
		out = append(out, pdbTrack{
			ID:       t.ID,
			Title:    t.Title,
			Artist:   artists[t.ArtistID],
			BPM:      t.BPM(),
			Duration: t.Duration,
			Path:     t.FilePath,
			Analysis: t.AnalyzePath,
		})
	}
	if jsonOut {
		return printJSON(out)
	}
	printInfo("\nTracks (%d):\n", len(out))
	for _, t := range out {
		printInfo("  %4d  %-30s %-24s %6.2f  %s\n", t.ID, t.Title, t.Artist, t.BPM, t.Path)
	}
	return nil
}
