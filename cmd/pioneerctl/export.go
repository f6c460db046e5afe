package main

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/joshuapare/pioneerkit/export"
	"github.com/joshuapare/pioneerkit/internal/artwork"
	"github.com/joshuapare/pioneerkit/internal/config"
	"github.com/joshuapare/pioneerkit/internal/ffwave"
	"github.com/joshuapare/pioneerkit/internal/logger"
	"github.com/joshuapare/pioneerkit/internal/rbxml"
)

func init() {
	rootCmd.AddCommand(newExportCmd())
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <rekordbox.xml> <usb-root>",
		Short: "Export a rekordbox XML library to USB media",
		Long: `The export command reads a rekordbox XML library and writes everything a
Pioneer DJ player needs to the given root: the audio files under Contents,
one ANLZ0000.DAT and ANLZ0000.EXT per track, artwork, export.pdb and the
default settings files.

Waveforms are drawn from ffmpeg output. When ffmpeg cannot be found the
export continues with flat waveforms.

Example:
  pioneerctl export rekordbox.xml /media/USB
  pioneerctl export rekordbox.xml /media/USB --workers 4 --verify
  pioneerctl export rekordbox.xml out --ffmpeg /opt/bin/ffmpeg --settings=false`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args)
		},
	}
	cmd.Flags().Int("workers", 0, "Tracks processed in parallel (default: number of CPUs)")
	cmd.Flags().Bool("verify", false, "Re-read every analysis file before writing it")
	cmd.Flags().Bool("settings", true, "Write default settings files")
	cmd.Flags().String("ffmpeg", "", "Path to the ffmpeg binary (default: look up on PATH)")
	cmd.Flags().Int("page-size", 0, "export.pdb page size (default: 4096)")
	vp.BindPFlag(config.KeyWorkers, cmd.Flags().Lookup("workers"))
	vp.BindPFlag(config.KeyVerify, cmd.Flags().Lookup("verify"))
	vp.BindPFlag(config.KeySettings, cmd.Flags().Lookup("settings"))
	vp.BindPFlag(config.KeyFFmpeg, cmd.Flags().Lookup("ffmpeg"))
	vp.BindPFlag(config.KeyPageSize, cmd.Flags().Lookup("page-size"))
	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	xmlPath, root := args[0], args[1]

	printVerbose("Reading library: %s\n", xmlPath)
	lib, err := rbxml.ParseFile(xmlPath)
	if err != nil {
		return fmt.Errorf("failed to read library: %w", err)
	}
	printVerbose("%s %s: %d tracks, %d playlists\n",
		lib.Product, lib.Version, len(lib.Collection.Tracks), len(lib.Collection.Playlists))

	opts := exportOptions(cfg)
	var bar *progressbar.ProgressBar
	if !quiet && !jsonOut {
		opts.Progress = func(done, total int) {
			if bar == nil {
				bar = progressbar.Default(int64(total), "exporting")
			}
			bar.Set(done)
		}
	}

	sum, err := export.New(opts).Export(cmd.Context(), lib.Collection, root)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	if jsonOut {
		return printJSON(map[string]any{
			"root":           root,
			"tracks":         sum.Tracks,
			"playlists":      sum.Playlists,
			"artwork":        sum.Artwork,
			"database_bytes": sum.Database,
		})
	}
	printInfo("\nExport complete:\n")
	printInfo("  Root: %s\n", root)
	printInfo("  Tracks: %d\n", sum.Tracks)
	printInfo("  Playlists: %d\n", sum.Playlists)
	printInfo("  Artwork: %d\n", sum.Artwork)
	printInfo("  Database: %d bytes\n", sum.Database)
	return nil
}

// exportOptions maps the resolved configuration onto exporter options with
// the tag, artwork and ffmpeg sources attached.
func exportOptions(c *config.Config) *export.Options {
	opts := export.DefaultOptions()
	opts.Workers = c.Workers
	opts.PageSize = c.PageSize
	opts.Verify = c.Verify
	opts.Settings = c.Settings
	opts.UnknownTags = c.UnknownTags
	opts.Logger = logger.L

	reader := artwork.Reader{}
	opts.Artwork = reader
	opts.Tags = reader

	src := ffwave.Source{Path: c.FFmpeg}
	if err := src.Available(); err != nil {
		logger.Warn("waveforms will be flat", "error", err)
	} else {
		opts.Samples = src
	}
	return opts
}
