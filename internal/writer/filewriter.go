package writer

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// FileWriter writes files below Root atomically via temp file + rename.
type FileWriter struct {
	Root string

	// FullSync requests F_FULLFSYNC on macOS. Ignored elsewhere.
	FullSync bool
}

func (w *FileWriter) target(name string) (string, error) {
	clean := path.Clean("/" + name)
	if clean == "/" || strings.Contains(name, "\\") {
		return "", fmt.Errorf("writer: invalid name %q", name)
	}
	return filepath.Join(w.Root, filepath.FromSlash(clean[1:])), nil
}

// WriteFile writes data to Root/name, creating parent directories.
func (w *FileWriter) WriteFile(name string, data []byte) error {
	dst, err := w.target(name)
	if err != nil {
		return err
	}
	return w.commit(dst, func(f *os.File) error {
		_, err := f.Write(data)
		return err
	})
}

// CopyFile streams src into Root/name.
func (w *FileWriter) CopyFile(name, src string) error {
	dst, err := w.target(name)
	if err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()
	return w.commit(dst, func(f *os.File) error {
		_, err := io.Copy(f, in)
		return err
	})
}

func (w *FileWriter) commit(dst string, fill func(*os.File) error) error {
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	// Temp file in the same directory so the rename stays on one filesystem.
	tmpFile, err := os.CreateTemp(dir, ".pioneerkit-tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		if tmpFile != nil {
			_ = tmpFile.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if writeErr := fill(tmpFile); writeErr != nil {
		return fmt.Errorf("write temp file: %w", writeErr)
	}

	if syncErr := fdatasync(tmpFile, w.FullSync); syncErr != nil {
		return fmt.Errorf("sync temp file: %w", syncErr)
	}

	if closeErr := tmpFile.Close(); closeErr != nil {
		return fmt.Errorf("close temp file: %w", closeErr)
	}
	tmpFile = nil

	if renameErr := os.Rename(tmpPath, dst); renameErr != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", renameErr)
	}
	return nil
}
