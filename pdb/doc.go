// Package pdb reads and writes export.pdb, the paged database a rekordbox
// export leaves on removable media for CDJ players.
//
// The file is a sequence of fixed-size pages, all little-endian. Page 0 holds
// the file header and one pointer per table:
//
//	0x00  4   zero
//	0x04  4   page size (4096)
//	0x08  4   table count
//	0x0C  4   next unused page
//	0x10  4   unknown (5)
//	0x14  4   sequence
//	0x18  4   zero
//	0x1C  16n table pointers: type, empty candidate, first page, last page
//
// Every other page starts with a 40-byte header followed by a row heap that
// grows forward and a row directory that grows backward from the page end:
//
//	+--------+---------------------+.........+------------------------+
//	| header | row heap  ->        |  free   |  <- directory groups   |
//	+--------+---------------------+.........+------------------------+
//
// A directory group covers up to 16 rows: a presence mask (u16), an unknown
// u16, then one u16 heap offset per row, each stored 2 bytes before the
// previous one. Rows whose presence bit is clear are skipped on read.
package pdb
