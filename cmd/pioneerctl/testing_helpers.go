package main

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/joshuapare/pioneerkit/internal/config"
)

// useConfig resets the global flags and resolves cfg from the defaults plus
// overrides.
func useConfig(t *testing.T, overrides map[string]any) {
	t.Helper()
	verbose, quiet, jsonOut = false, false, false
	anlzBeats, anlzCues = false, false
	pdbTable, pdbPlaylist = "", 0
	settingsSet, settingsOutput, settingsInit = nil, "", ""

	v := config.New()
	for k, val := range overrides {
		v.Set(k, val)
	}
	c, err := config.Load(v, "")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	cfg = c
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	// Drain concurrently so large listings cannot fill the pipe.
	done := make(chan []byte)
	go func() {
		var buf bytes.Buffer
		buf.ReadFrom(r)
		done <- buf.Bytes()
	}()

	fnErr := fn()

	w.Close()
	os.Stdout = origStdout
	out := <-done
	r.Close()

	return string(out), fnErr
}

// decodeJSON unmarshals output into v, failing the test on invalid JSON
func decodeJSON(t *testing.T, output string, v any) {
	t.Helper()
	if err := json.Unmarshal([]byte(output), v); err != nil {
		t.Fatalf("invalid JSON output: %v\nOutput: %s", err, output)
	}
}

// assertContains checks that output contains all expected strings
func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}
