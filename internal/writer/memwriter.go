package writer

import (
	"fmt"
	"os"
	"path"
	"sort"
	"sync"
)

// MemWriter captures output files in memory. It is safe for concurrent use.
type MemWriter struct {
	mu    sync.Mutex
	files map[string][]byte
}

// WriteFile stores a copy of data under name.
func (w *MemWriter) WriteFile(name string, data []byte) error {
	w.store(name, append([]byte(nil), data...))
	return nil
}

// CopyFile reads src and stores its content under name.
func (w *MemWriter) CopyFile(name, src string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	w.store(name, data)
	return nil
}

func (w *MemWriter) store(name string, data []byte) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.files == nil {
		w.files = make(map[string][]byte)
	}
	w.files[path.Clean(name)] = data
}

// File returns the content stored under name.
func (w *MemWriter) File(name string) ([]byte, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	b, ok := w.files[path.Clean(name)]
	return b, ok
}

// Names lists the stored names in sorted order.
func (w *MemWriter) Names() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	names := make([]string, 0, len(w.files))
	for n := range w.files {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
