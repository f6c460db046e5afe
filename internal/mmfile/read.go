package mmfile

import (
	"fmt"
	"os"
)

// readAll is the copy-based Map used where mmap is unavailable. The release
// function is a no-op because the slice is owned by the caller.
func readAll(path string) ([]byte, func() error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("mmfile: read: %w", err)
	}
	if data == nil {
		data = []byte{}
	}
	return data, func() error { return nil }, nil
}
