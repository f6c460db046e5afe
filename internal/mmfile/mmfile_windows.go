//go:build windows

package mmfile

// Map reads the whole file into memory. ANLZ and PDB files are small enough
// that a copy costs less than a file mapping handle on Windows.
func Map(path string) ([]byte, func() error, error) {
	return readAll(path)
}
