package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDiscards(t *testing.T) {
	assert.NotPanics(t, func() { Info("nothing to see") })
}

func TestInitText(t *testing.T) {
	var b bytes.Buffer
	c, err := Init(Options{Level: slog.LevelWarn, Writer: &b})
	require.NoError(t, err)
	defer c.Close()

	Info("hidden")
	Warn("shown", "tag", "PQTZ")
	assert.NotContains(t, b.String(), "hidden")
	assert.Contains(t, b.String(), "tag=PQTZ")
}

func TestInitJSON(t *testing.T) {
	var b bytes.Buffer
	c, err := Init(Options{Level: slog.LevelDebug, JSON: true, Writer: &b})
	require.NoError(t, err)
	defer c.Close()

	Debug("page allocated", "page", 3)
	var rec map[string]any
	require.NoError(t, json.Unmarshal(b.Bytes(), &rec))
	assert.Equal(t, "page allocated", rec["msg"])
	assert.Equal(t, float64(3), rec["page"])
}

func TestInitLogDir(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "pioneerctl-2000-01-01.log")
	keep := filepath.Join(dir, "other.log")
	require.NoError(t, os.WriteFile(old, nil, 0o644))
	require.NoError(t, os.WriteFile(keep, nil, 0o644))

	c, err := Init(Options{LogDir: dir})
	require.NoError(t, err)
	Error("boom")
	require.NoError(t, c.Close())

	_, err = os.Stat(old)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(keep)
	assert.NoError(t, err)

	today := filepath.Join(dir, "pioneerctl-"+time.Now().Format("2006-01-02")+".log")
	data, err := os.ReadFile(today)
	require.NoError(t, err)
	assert.Contains(t, string(data), "boom")
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug": slog.LevelDebug, "INFO": slog.LevelInfo, "warn": slog.LevelWarn, "error": slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseLevel("loud")
	require.Error(t, err)
}
