package pdb

import (
	"fmt"

	"github.com/joshuapare/pioneerkit/internal/buf"
)

const (
	groupRows = 16
	groupLen  = 4 + 2*groupRows
)

// directory is a page's row directory held as parallel arrays indexed by
// row and by group, rather than as offsets walked back from the page end.
type directory struct {
	offsets  []uint16 // heap offset of each row
	presence []uint16 // one liveness mask per group of 16 rows
	flags    []uint16 // the u16 stored after each mask
}

// directorySize is the number of bytes n rows take at the end of a page.
func directorySize(n int) int {
	return 2*n + 4*((n+groupRows-1)/groupRows)
}

// groupPos is the page offset of group g's presence mask. Every group before
// g is full.
func groupPos(pageSize, g int) int {
	return pageSize - groupLen*g - 4
}

// offsetPos is the page offset of row j's heap offset.
func offsetPos(pageSize, j int) int {
	return groupPos(pageSize, j/groupRows) - 2*(j%groupRows+1)
}

// newDirectory returns a directory with every row live.
func newDirectory(offsets []uint16) directory {
	n := len(offsets)
	groups := (n + groupRows - 1) / groupRows
	d := directory{offsets: offsets, presence: make([]uint16, groups), flags: make([]uint16, groups)}
	for g := range d.presence {
		if rem := n - g*groupRows; rem >= groupRows {
			d.presence[g] = 0xFFFF
		} else {
			d.presence[g] = uint16(1)<<rem - 1
		}
	}
	return d
}

func readDirectory(page []byte, n int) (directory, error) {
	size := len(page)
	if PageHeaderSize+directorySize(n) > size {
		return directory{}, fmt.Errorf("directory of %d rows does not fit a %d-byte page: %w", n, size, ErrTruncated)
	}
	groups := (n + groupRows - 1) / groupRows
	d := directory{
		offsets:  make([]uint16, n),
		presence: make([]uint16, groups),
		flags:    make([]uint16, groups),
	}
	for g := range d.presence {
		p := groupPos(size, g)
		d.presence[g] = buf.U16LE(page[p:])
		d.flags[g] = buf.U16LE(page[p+2:])
	}
	for j := range d.offsets {
		d.offsets[j] = buf.U16LE(page[offsetPos(size, j):])
	}
	return d, nil
}

func (d directory) live(j int) bool {
	return d.presence[j/groupRows]>>(j%groupRows)&1 == 1
}

// put writes the directory into a page of pageSize bytes held in a.
func (d directory) put(a *buf.Arena, at, pageSize int) {
	for g := range d.presence {
		p := at + groupPos(pageSize, g)
		a.PutU16LE(p, d.presence[g])
		a.PutU16LE(p+2, d.flags[g])
	}
	for j, off := range d.offsets {
		a.PutU16LE(at+offsetPos(pageSize, j), off)
	}
}
