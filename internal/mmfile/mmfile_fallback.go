//go:build !unix && !windows

package mmfile

// Map reads the whole file; this platform has no mmap.
func Map(path string) ([]byte, func() error, error) {
	return readAll(path)
}
