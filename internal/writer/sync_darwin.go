//go:build darwin

package writer

import (
	"os"

	"golang.org/x/sys/unix"
)

// fdatasync uses F_FULLFSYNC when fullfsync is set and fsync otherwise.
// macOS has no fdatasync.
func fdatasync(f *os.File, fullfsync bool) error {
	fd := f.Fd()
	if fullfsync {
		_, err := unix.FcntlInt(fd, unix.F_FULLFSYNC, 0)
		return err
	}
	return unix.Fsync(int(fd))
}
