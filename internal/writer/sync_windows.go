//go:build windows

package writer

import (
	"os"

	"golang.org/x/sys/windows"
)

func fdatasync(f *os.File, _ bool) error {
	return windows.FlushFileBuffers(windows.Handle(f.Fd()))
}
