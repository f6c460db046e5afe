package main

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/pioneerkit/internal/config"
	"github.com/joshuapare/pioneerkit/settings"
)

const libraryTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<DJ_PLAYLISTS Version="1.0.0">
  <PRODUCT Name="rekordbox" Version="6.8.5" Company="AlphaTheta"/>
  <COLLECTION Entries="2">
    <TRACK TrackID="1" Name="Opener" Artist="Alpha" Album="Live" Genre="House"
      TotalTime="3" AverageBpm="120.00" Tonality="Am" Location="%s">
      <TEMPO Inizio="0.0" Bpm="120.00" Metro="4/4" Battito="1"/>
      <POSITION_MARK Name="drop" Type="0" Start="1.5" Num="0" Red="255" Green="0" Blue="0"/>
      <POSITION_MARK Name="" Type="0" Start="2.0" Num="-1"/>
    </TRACK>
    <TRACK TrackID="2" Name="Closer" Artist="Beta" Album="Live" TotalTime="2" Location="%s"/>
  </COLLECTION>
  <PLAYLISTS>
    <NODE Type="0" Name="ROOT" Count="1">
      <NODE Name="Night" Type="1" KeyType="0" Entries="2">
        <TRACK Key="2"/>
        <TRACK Key="1"/>
      </NODE>
    </NODE>
  </PLAYLISTS>
</DJ_PLAYLISTS>`

func fileURL(p string) string {
	return (&url.URL{Scheme: "file", Host: "localhost", Path: filepath.ToSlash(p)}).String()
}

// fakeFFmpeg writes a script that prints four s16le samples regardless of
// its arguments.
func fakeFFmpeg(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in for ffmpeg")
	}
	p := filepath.Join(t.TempDir(), "ffmpeg")
	script := "#!/bin/sh\nprintf '\\000\\100\\000\\300\\377\\177\\000\\000'\n"
	require.NoError(t, os.WriteFile(p, []byte(script), 0o755))
	return p
}

// exportFixture exports a two-track library and returns the USB root.
func exportFixture(t *testing.T) string {
	t.Helper()
	ff := fakeFFmpeg(t)
	useConfig(t, map[string]any{
		config.KeyFFmpeg:  ff,
		config.KeyWorkers: 2,
		config.KeyVerify:  true,
	})
	jsonOut = true

	src := t.TempDir()
	one := filepath.Join(src, "opener.mp3")
	two := filepath.Join(src, "closer.mp3")
	require.NoError(t, os.WriteFile(one, bytes.Repeat([]byte{0x55}, 300), 0o644))
	require.NoError(t, os.WriteFile(two, bytes.Repeat([]byte{0xAA}, 200), 0o644))
	xml := filepath.Join(src, "rekordbox.xml")
	require.NoError(t, os.WriteFile(xml, []byte(fmt.Sprintf(libraryTemplate, fileURL(one), fileURL(two))), 0o644))

	root := t.TempDir()
	cmd := newExportCmd()
	cmd.SetContext(context.Background())
	out, err := captureOutput(t, func() error { return runExport(cmd, []string{xml, root}) })
	require.NoError(t, err)

	var sum map[string]any
	decodeJSON(t, out, &sum)
	assert.Equal(t, float64(2), sum["tracks"])
	assert.Equal(t, float64(1), sum["playlists"])
	return root
}

func TestExportCommand(t *testing.T) {
	root := exportFixture(t)

	for _, p := range []string{
		"PIONEER/rekordbox/export.pdb",
		"PIONEER/MYSETTING.DAT",
		"PIONEER/DEVSETTING.DAT",
		"Contents/Alpha/Live/opener.mp3",
		"Contents/Beta/Live/closer.mp3",
	} {
		assert.FileExists(t, filepath.Join(root, filepath.FromSlash(p)))
	}
	dats, err := filepath.Glob(filepath.Join(root, "PIONEER", "USBANLZ", "*", "*", "ANLZ0000.DAT"))
	require.NoError(t, err)
	assert.Len(t, dats, 2)
	exts, err := filepath.Glob(filepath.Join(root, "PIONEER", "USBANLZ", "*", "*", "ANLZ0000.EXT"))
	require.NoError(t, err)
	assert.Len(t, exts, 2)
}

func TestPdbCommand(t *testing.T) {
	root := exportFixture(t)
	db := filepath.Join(root, "PIONEER", "rekordbox", "export.pdb")

	useConfig(t, nil)
	out, err := captureOutput(t, func() error { return runPdb([]string{db}) })
	require.NoError(t, err)
	assertContains(t, out, []string{"Page size: 4096", "tracks", "artists", "playlist_tree"})

	pdbTable = "tracks"
	jsonOut = true
	out, err = captureOutput(t, func() error { return runPdb([]string{db}) })
	require.NoError(t, err)
	var tracks []pdbTrack
	decodeJSON(t, out, &tracks)
	require.Len(t, tracks, 2)
	assert.Equal(t, "Opener", tracks[0].Title)
	assert.Equal(t, "Alpha", tracks[0].Artist)
	assert.Equal(t, 120.0, tracks[0].BPM)
	assert.Equal(t, "/Contents/Alpha/Live/opener.mp3", tracks[0].Path)

	pdbTable = ""
	pdbPlaylist = 1
	out, err = captureOutput(t, func() error { return runPdb([]string{db}) })
	require.NoError(t, err)
	tracks = nil
	decodeJSON(t, out, &tracks)
	require.Len(t, tracks, 2)
	assert.Equal(t, "Closer", tracks[0].Title)
	assert.Equal(t, "Opener", tracks[1].Title)

	pdbPlaylist = 0
	pdbTable = "nonsense"
	_, err = captureOutput(t, func() error { return runPdb([]string{db}) })
	require.Error(t, err)
}

func TestAnlzCommand(t *testing.T) {
	root := exportFixture(t)
	dats, err := filepath.Glob(filepath.Join(root, "PIONEER", "USBANLZ", "*", "*", "ANLZ0000.DAT"))
	require.NoError(t, err)
	require.NotEmpty(t, dats)

	var rep anlzReport
	var opener string
	for _, d := range dats {
		useConfig(t, nil)
		jsonOut, anlzBeats, anlzCues = true, true, true
		out, err := captureOutput(t, func() error { return runAnlz([]string{d}) })
		require.NoError(t, err)
		rep = anlzReport{}
		decodeJSON(t, out, &rep)
		if rep.Path == "/Contents/Alpha/Live/opener.mp3" {
			opener = d
			break
		}
	}
	require.NotEmpty(t, opener, "no analysis file for the opener")

	var codes []string
	for _, tag := range rep.Tags {
		codes = append(codes, tag.Type)
	}
	assert.Equal(t, []string{"PPTH", "PVBR", "PQTZ", "PWAV", "PWV2", "PCOB", "PCOB"}, codes)
	require.NotEmpty(t, rep.Beats)
	assert.Equal(t, uint16(1), rep.Beats[0].Beat)
	assert.Equal(t, 120.0, rep.Beats[0].BPM)
	require.Len(t, rep.Cues, 1)
	assert.Equal(t, anlzCue{List: "hotcue", HotCue: 1, Time: 1500}, rep.Cues[0])

	ext := filepath.Join(filepath.Dir(opener), "ANLZ0000.EXT")
	useConfig(t, nil)
	anlzCues = true
	out, err := captureOutput(t, func() error { return runAnlz([]string{ext}) })
	require.NoError(t, err)
	assertContains(t, out, []string{"PWV3", "PCO2", "PQT2", "PWV5", "PWV4", `"drop"`})
}

func TestAnlzRejectsOtherFiles(t *testing.T) {
	useConfig(t, nil)
	p := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	_, err := captureOutput(t, func() error { return runAnlz([]string{p}) })
	require.Error(t, err)
}

func TestSettingsCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "MYSETTING.DAT")

	useConfig(t, nil)
	settingsInit = "MYSETTING"
	settingsSet = []string{"quantize=off", "sync = on"}
	out, err := captureOutput(t, func() error { return runSettings([]string{path}) })
	require.NoError(t, err)
	assertContains(t, out, []string{"Kind: MYSETTING", "Checksum: valid", "quantize", "off"})

	f, err := settings.ParseFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Verify())
	q, err := f.Get("quantize")
	require.NoError(t, err)
	assert.Equal(t, "off", q)
	s, err := f.Get("sync")
	require.NoError(t, err)
	assert.Equal(t, "on", s)

	useConfig(t, nil)
	jsonOut = true
	out, err = captureOutput(t, func() error { return runSettings([]string{path}) })
	require.NoError(t, err)
	var rep struct {
		Kind   string            `json:"kind"`
		Values map[string]string `json:"values"`
	}
	decodeJSON(t, out, &rep)
	assert.Equal(t, "MYSETTING", rep.Kind)
	assert.Equal(t, "off", rep.Values["quantize"])
	assert.Equal(t, "english", rep.Values["language"])

	useConfig(t, nil)
	settingsSet = []string{"quantize"}
	_, err = captureOutput(t, func() error { return runSettings([]string{path}) })
	require.Error(t, err)

	useConfig(t, nil)
	settingsSet = []string{"quantize=sometimes"}
	_, err = captureOutput(t, func() error { return runSettings([]string{path}) })
	require.Error(t, err)
}

func TestSettingsOutputPath(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "copy", "DJMMYSETTING.DAT")
	require.NoError(t, os.MkdirAll(filepath.Dir(out), 0o755))

	useConfig(t, nil)
	settingsInit = "DJMMYSETTING"
	settingsOutput = out
	quiet = true
	_, err := captureOutput(t, func() error { return runSettings([]string{filepath.Join(dir, "DJMMYSETTING.DAT")}) })
	require.NoError(t, err)

	f, err := settings.ParseFile(out)
	require.NoError(t, err)
	assert.Equal(t, settings.KindDJMMySetting, f.Kind)
}

func TestExportOptions(t *testing.T) {
	useConfig(t, map[string]any{
		config.KeyWorkers:  3,
		config.KeyFFmpeg:   "/opt/bin/ffmpeg",
		config.KeySettings: false,
	})
	opts := exportOptions(cfg)
	assert.Equal(t, 3, opts.Workers)
	assert.False(t, opts.Settings)
	assert.NotNil(t, opts.Samples)
	assert.NotNil(t, opts.Artwork)
	assert.NotNil(t, opts.Tags)
}

func TestVersionCommand(t *testing.T) {
	out, err := captureOutput(t, func() error {
		versionCmd.Run(versionCmd, nil)
		return nil
	})
	require.NoError(t, err)
	assertContains(t, out, []string{"pioneerctl dev", "commit: none"})
}
