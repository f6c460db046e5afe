package pdb

import (
	"fmt"
	"sort"

	"github.com/joshuapare/pioneerkit/internal/buf"
)

// PageHeaderSize is the length of the header at the start of every page.
const PageHeaderSize = 40

// Page flags.
const (
	FlagData     uint8 = 0x24
	FlagHeader   uint8 = 0x64
	flagNonData  uint8 = 0x40
	rowAlignment       = 4
)

// rowCountSentinel in NumRowsLarge means the row count is NumRowsSmall.
const rowCountSentinel = 0x1FFF

// Page size limits: heap offsets are 16-bit.
const (
	minPageSize = 256
	maxPageSize = 0x10000
)

// PageHeader is the 40-byte page header.
//
//	0x00  4  zero
//	0x04  4  page index
//	0x08  4  table type
//	0x0C  4  next page
//	0x10  4  unknown
//	0x14  4  unknown
//	0x18  1  row count (low 8 bits)
//	0x19  2  unknown (32 × rows)
//	0x1B  1  flags
//	0x1C  2  free bytes
//	0x1E  2  used heap bytes
//	0x20  2  unknown
//	0x22  2  row count, or 8191
//	0x24  2  unknown
//	0x26  2  unknown
type PageHeader struct {
	PageIndex    uint32
	Type         TableType
	NextPage     uint32
	Unknown1     uint32
	Unknown2     uint32
	NumRowsSmall uint8
	Unknown3     uint8
	Unknown4     uint8
	Flags        uint8
	FreeSize     uint16
	UsedSize     uint16
	Unknown5     uint16
	NumRowsLarge uint16
	Unknown6     uint16
	Unknown7     uint16
}

// IsData reports whether the page carries rows. Header and filler pages
// (flags 0x44, 0x64) do not.
func (h PageHeader) IsData() bool { return h.Flags&flagNonData == 0 }

// RowCount returns the number of directory entries on the page.
func (h PageHeader) RowCount() int {
	if h.NumRowsLarge == rowCountSentinel {
		return int(h.NumRowsSmall)
	}
	return max(int(h.NumRowsLarge), int(h.NumRowsSmall))
}

// setRowCount fills the count fields for n rows.
func (h *PageHeader) setRowCount(n int) {
	// nrs keeps only the low byte past 255 rows; readers take max(num_rl, nrs)
	// and no page size holds enough rows to reach rowCountSentinel.
	h.NumRowsSmall = uint8(n)
	switch {
	case n == 0:
		h.NumRowsLarge = 0
	case n > 0xFF:
		h.NumRowsLarge = uint16(n)
	default:
		h.NumRowsLarge = uint16(n - 1)
	}
	shift := uint16(32 * n)
	h.Unknown3 = uint8(shift)
	h.Unknown4 = uint8(shift >> 8)
}

func decodePageHeader(b []byte) (PageHeader, error) {
	r := buf.NewReader(b)
	h := PageHeader{
		PageIndex:    r.U32LE(0x04),
		Type:         TableType(r.U32LE(0x08)),
		NextPage:     r.U32LE(0x0C),
		Unknown1:     r.U32LE(0x10),
		Unknown2:     r.U32LE(0x14),
		NumRowsSmall: r.U8(0x18),
		Unknown3:     r.U8(0x19),
		Unknown4:     r.U8(0x1A),
		Flags:        r.U8(0x1B),
		FreeSize:     r.U16LE(0x1C),
		UsedSize:     r.U16LE(0x1E),
		Unknown5:     r.U16LE(0x20),
		NumRowsLarge: r.U16LE(0x22),
		Unknown6:     r.U16LE(0x24),
		Unknown7:     r.U16LE(0x26),
	}
	if err := r.Err(); err != nil {
		return h, fmt.Errorf("page header: %w", ErrTruncated)
	}
	return h, nil
}

func (h PageHeader) put(a *buf.Arena, at int) {
	a.PutU32LE(at+0x00, 0)
	a.PutU32LE(at+0x04, h.PageIndex)
	a.PutU32LE(at+0x08, uint32(h.Type))
	a.PutU32LE(at+0x0C, h.NextPage)
	a.PutU32LE(at+0x10, h.Unknown1)
	a.PutU32LE(at+0x14, h.Unknown2)
	a.PutU8(at+0x18, h.NumRowsSmall)
	a.PutU8(at+0x19, h.Unknown3)
	a.PutU8(at+0x1A, h.Unknown4)
	a.PutU8(at+0x1B, h.Flags)
	a.PutU16LE(at+0x1C, h.FreeSize)
	a.PutU16LE(at+0x1E, h.UsedSize)
	a.PutU16LE(at+0x20, h.Unknown5)
	a.PutU16LE(at+0x22, h.NumRowsLarge)
	a.PutU16LE(at+0x24, h.Unknown6)
	a.PutU16LE(at+0x26, h.Unknown7)
}

// Page is a decoded page: its header and its live rows in directory order.
type Page struct {
	Header PageHeader
	Rows   []Row
}

// DecodePage decodes one page. Unused pages (index 0) and non-data pages
// decode to a header without rows.
func DecodePage(b []byte) (*Page, error) {
	h, err := decodePageHeader(b)
	if err != nil {
		return nil, err
	}
	p := &Page{Header: h}
	if h.PageIndex == 0 || !h.IsData() {
		return p, nil
	}

	n := h.RowCount()
	used := int(h.UsedSize)
	if PageHeaderSize+used > len(b) {
		return nil, fmt.Errorf("used size %d exceeds a %d-byte page: %w", used, len(b), ErrTruncated)
	}
	dir, err := readDirectory(b, n)
	if err != nil {
		return nil, err
	}
	heap := b[PageHeaderSize : PageHeaderSize+used]

	// A row runs up to the next row's offset, or to the end of the heap.
	starts := append([]uint16(nil), dir.offsets...)
	sort.Slice(starts, func(i, j int) bool { return starts[i] < starts[j] })

	p.Rows = make([]Row, 0, n)
	for j := 0; j < n; j++ {
		if !dir.live(j) {
			continue
		}
		off := int(dir.offsets[j])
		if off >= used {
			return nil, fmt.Errorf("row %d at heap offset %d beyond %d used bytes: %w", j, off, used, ErrTruncated)
		}
		end := used
		k := sort.Search(len(starts), func(k int) bool { return int(starts[k]) > off })
		if k < len(starts) && int(starts[k]) < used {
			end = int(starts[k])
		}
		row, err := DecodeRow(h.Type, heap[off:end])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", h.Type, j, err)
		}
		p.Rows = append(p.Rows, row)
	}
	return p, nil
}

// EncodePage lays rows out on one page of pageSize bytes in order, stopping at
// the first row that does not fit, and returns the page together with the
// rows left over. The caller places those on a new page linked through
// NextPage. h supplies the index, type, link and flags; the count, size and
// free-space fields are computed.
func EncodePage(h PageHeader, rows []Row, pageSize int) ([]byte, []Row, error) {
	if pageSize < minPageSize || pageSize > maxPageSize {
		return nil, nil, fmt.Errorf("pdb: page size %d outside [%d, %d]", pageSize, minPageSize, maxPageSize)
	}
	capacity := pageSize - PageHeaderSize
	a := buf.NewArena(pageSize)
	a.Grow(pageSize)

	heapLen := 0
	offsets := make([]uint16, 0, len(rows))
	for i, r := range rows {
		b, err := EncodeRow(r, i)
		if err != nil {
			return nil, nil, err
		}
		start := buf.Align(heapLen, rowAlignment)
		end := buf.Align(start+len(b), rowAlignment)
		if end+directorySize(i+1) > capacity {
			if i == 0 {
				return nil, nil, fmt.Errorf("pdb: %s row of %d bytes on a %d-byte page: %w", r.Table(), len(b), pageSize, ErrRowTooLarge)
			}
			break
		}
		a.PutBytes(PageHeaderSize+start, b)
		offsets = append(offsets, uint16(start))
		heapLen = end
	}

	n := len(offsets)
	newDirectory(offsets).put(a, 0, pageSize)
	h.setRowCount(n)
	h.UsedSize = uint16(heapLen)
	h.FreeSize = uint16(capacity - heapLen - directorySize(n))
	h.put(a, 0)
	if err := a.Err(); err != nil {
		return nil, nil, fmt.Errorf("pdb: page %d: %w", h.PageIndex, err)
	}
	return a.Bytes(), rows[n:], nil
}

// Filler values in the body of a table's header page.
const (
	headerPageNone   = 0x03FFFFFF
	headerPageMarker = 0x1FFF0000
	headerPageFill   = 0x1FFFFFF8
)

// putHeaderPage writes the non-data page that opens a table.
func putHeaderPage(a *buf.Arena, idx uint32, t TableType, pageSize int, hasData bool) {
	at := int(idx) * pageSize
	PageHeader{
		PageIndex:    idx,
		Type:         t,
		NextPage:     idx + 1,
		Unknown1:     1,
		Flags:        FlagHeader,
		Unknown5:     rowCountSentinel,
		NumRowsLarge: rowCountSentinel,
		Unknown6:     1004,
	}.put(a, at)

	body := at + PageHeaderSize
	next := uint32(headerPageNone)
	if hasData {
		next = idx + 1
	}
	a.PutU32LE(body, idx)
	a.PutU32LE(body+4, next)
	a.PutU32LE(body+8, headerPageNone)
	a.PutU32LE(body+16, headerPageMarker)
	for off := 20; off < pageSize-PageHeaderSize-20; off += 4 {
		a.PutU32LE(body+off, headerPageFill)
	}
}
