package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/pioneerkit/anlz"
	"github.com/joshuapare/pioneerkit/internal/config"
)

var (
	anlzBeats bool
	anlzCues  bool
)

func init() {
	rootCmd.AddCommand(newAnlzCmd())
}

func newAnlzCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "anlz <file>",
		Short: "List the tags of an ANLZ analysis file",
		Long: `The anlz command decodes an ANLZ0000.DAT, .EXT or .2EX file and lists its
tags in file order. Beat grids and cue lists can be printed in full.

Example:
  pioneerctl anlz ANLZ0000.DAT
  pioneerctl anlz ANLZ0000.EXT --cues
  pioneerctl anlz ANLZ0000.DAT --beats --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnlz(args)
		},
	}
	cmd.Flags().BoolVar(&anlzBeats, "beats", false, "Print every beat of the PQTZ grid")
	cmd.Flags().BoolVar(&anlzCues, "cues", false, "Print hot cues and memory cues")
	cmd.Flags().String("unknown-tags", "skip", "Unknown tag policy: skip or abort")
	vp.BindPFlag(config.KeyUnknownTags, cmd.Flags().Lookup("unknown-tags"))
	return cmd
}

type anlzTag struct {
	Type      string `json:"type"`
	Kind      string `json:"kind"`
	LenHeader uint32 `json:"len_header"`
	LenTag    uint32 `json:"len_tag"`
}

type anlzBeat struct {
	Beat uint16  `json:"beat"`
	BPM  float64 `json:"bpm"`
	Time uint32  `json:"time_ms"`
}

type anlzCue struct {
	List    string `json:"list"`
	HotCue  uint32 `json:"hot_cue"`
	Time    uint32 `json:"time_ms"`
	Loop    uint32 `json:"loop_ms,omitempty"`
	Comment string `json:"comment,omitempty"`
}

type anlzReport struct {
	File  string     `json:"file"`
	Size  uint32     `json:"size"`
	Path  string     `json:"path,omitempty"`
	Tags  []anlzTag  `json:"tags"`
	Beats []anlzBeat `json:"beats,omitempty"`
	Cues  []anlzCue  `json:"cues,omitempty"`
}

func runAnlz(args []string) error {
	path := args[0]
	printVerbose("Opening analysis file: %s\n", path)

	f, err := anlz.ParseFile(path, &anlz.Options{UnknownTags: cfg.UnknownTags})
	if err != nil {
		return fmt.Errorf("failed to read analysis file: %w", err)
	}

	rep := anlzReport{File: path, Size: f.Header.LenFile, Path: f.Path()}
	for _, t := range f.Tags {
		rep.Tags = append(rep.Tags, anlzTag{
			Type:      t.Type,
			Kind:      t.Kind().String(),
			LenHeader: t.LenHeader,
			LenTag:    t.LenTag,
		})
	}
	if anlzBeats {
		if g, ok := f.BeatGrid(); ok {
			for _, e := range g.Entries {
				rep.Beats = append(rep.Beats, anlzBeat{Beat: e.Beat, BPM: float64(e.Tempo) / 100, Time: e.Time})
			}
		}
	}
	if anlzCues {
		rep.Cues = collectCues(f)
	}

	if jsonOut {
		return printJSON(rep)
	}

	printInfo("\nAnalysis File:\n")
	printInfo("  File: %s\n", rep.File)
	printInfo("  Size: %d bytes\n", rep.Size)
	if rep.Path != "" {
		printInfo("  Audio: %s\n", rep.Path)
	}
	printInfo("\nTags (%d):\n", len(rep.Tags))
	for _, t := range rep.Tags {
		printInfo("  %s  %-24s %8d bytes\n", t.Type, t.Kind, t.LenTag)
	}
	if len(rep.Beats) > 0 {
		printInfo("\nBeats (%d):\n", len(rep.Beats))
		for _, b := range rep.Beats {
			printInfo("  %10.3fs  %d  %.2f BPM\n", float64(b.Time)/1000, b.Beat, b.BPM)
		}
	}
	if len(rep.Cues) > 0 {
		printInfo("\nCues (%d):\n", len(rep.Cues))
		for _, c := range rep.Cues {
			printInfo("  %-7s %2d  %10.3fs", c.List, c.HotCue, float64(c.Time)/1000)
			if c.Loop != 0 {
				printInfo("  loop to %.3fs", float64(c.Loop)/1000)
			}
			if c.Comment != "" {
				printInfo("  %q", c.Comment)
			}
			printInfo("\n")
		}
	}
	return nil
}

// collectCues prefers the extended PCO2 lists, which carry comments, and
// falls back to PCOB.
func collectCues(f *anlz.File) []anlzCue {
	var out []anlzCue
	for _, lt := range []anlz.CueListType{anlz.CueListHotCue, anlz.CueListMemory} {
		if ext := f.ExtCuePoints(lt); len(ext) > 0 {
			for _, c := range ext {
				out = append(out, anlzCue{List: lt.String(), HotCue: c.HotCue, Time: c.Time, Loop: loopOf(c.Type, c.LoopTime), Comment: c.Comment})
			}
			continue
		}
		for _, c := range f.CuePoints(lt) {
			out = append(out, anlzCue{List: lt.String(), HotCue: c.HotCue, Time: c.Time, Loop: loopOf(c.Type, c.LoopTime)})
		}
	}
	return out
}

func loopOf(t anlz.CueType, loop uint32) uint32 {
	if t == anlz.CueLoop && loop != anlz.NoLoop {
		return loop
	}
	return 0
}
