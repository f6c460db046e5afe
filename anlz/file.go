package anlz

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/joshuapare/pioneerkit/internal/buf"
	"github.com/joshuapare/pioneerkit/internal/mmfile"
)

// Header is the PMAI file header.
type Header struct {
	LenHeader uint32
	LenFile   uint32
	Unknown1  uint32
	Unknown2  uint32
	Unknown3  uint32
	Unknown4  uint32
	Extra     []byte // bytes between offset 28 and len_header, if any
}

// DefaultHeader returns the header rekordbox writes.
func DefaultHeader() Header {
	return Header{
		LenHeader: FileHeaderSize,
		LenFile:   FileHeaderSize,
		Unknown1:  defaultHeaderUnknown1,
		Unknown2:  defaultHeaderUnknown2,
		Unknown3:  defaultHeaderUnknown3,
	}
}

// File is a decoded analysis file. Tags keep their on-disk order.
type File struct {
	Header Header
	Tags   []*Tag

	// Source is the path the file was read from, used in error messages.
	Source string
}

// New returns an empty file with the default header.
func New() *File {
	return &File{Header: DefaultHeader()}
}

// Extensions accepted by ParseFile.
var Extensions = []string{".DAT", ".EXT", ".2EX"}

// CheckExtension returns a FormatError unless path ends in .DAT, .EXT or .2EX.
func CheckExtension(path string) error {
	ext := strings.ToUpper(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return nil
		}
	}
	return &FormatError{Path: path, Reason: fmt.Sprintf("unsupported file extension %q", filepath.Ext(path))}
}

// ParseFile maps path into memory and decodes it. Decoded payloads own
// copies of their bytes, so the mapping is released before returning.
func ParseFile(path string, opts *Options) (*File, error) {
	if err := CheckExtension(path); err != nil {
		return nil, err
	}
	data, release, err := mmfile.Map(path)
	if err != nil {
		return nil, fmt.Errorf("anlz: open %s: %w", path, err)
	}
	defer release()

	f, err := parse(data, path, opts)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Parse decodes an analysis file held in memory.
func Parse(data []byte, opts *Options) (*File, error) {
	return parse(data, "", opts)
}

func parse(data []byte, source string, opts *Options) (*File, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	log := opts.logger()

	if len(data) < FileHeaderSize {
		return nil, &FormatError{Path: source, Offset: 0, Reason: "truncated file header", Err: buf.ErrOutOfRange}
	}
	if magic := string(data[:4]); magic != FileMagic {
		return nil, &FormatError{Path: source, Reason: fmt.Sprintf("file type %q, want %q", magic, FileMagic)}
	}
	r := buf.NewReader(data)
	f := &File{Source: source, Header: Header{
		LenHeader: r.U32BE(4),
		LenFile:   r.U32BE(8),
		Unknown1:  r.U32BE(12),
		Unknown2:  r.U32BE(16),
		Unknown3:  r.U32BE(20),
		Unknown4:  r.U32BE(24),
	}}
	h := &f.Header
	if h.LenHeader < FileHeaderSize || int(h.LenHeader) > len(data) {
		return nil, &FormatError{Path: source, Offset: 4, Reason: fmt.Sprintf("len_header %d out of range", h.LenHeader)}
	}
	if h.LenHeader > FileHeaderSize {
		h.Extra = r.Bytes(FileHeaderSize, int(h.LenHeader)-FileHeaderSize)
	}
	end := int(h.LenFile)
	if end > len(data) {
		return nil, &FormatError{Path: source, Offset: 8,
			Reason: fmt.Sprintf("len_file %d exceeds %d bytes read", end, len(data)), Err: buf.ErrOutOfRange}
	}
	if end < len(data) {
		log.Warn("anlz: trailing bytes after len_file", "path", source, "len_file", end, "size", len(data))
	}

	for off := int(h.LenHeader); off < end; {
		if end-off < TagHeaderSize {
			return nil, &FormatError{Path: source, Offset: off, Reason: "truncated tag header", Err: buf.ErrOutOfRange}
		}
		code := string(data[off : off+4])
		lenTag := int(buf.U32BE(data[off+8:]))
		if lenTag < TagHeaderSize || lenTag > end-off {
			return nil, &FormatError{Path: source, Offset: off,
				Reason: fmt.Sprintf("tag %q declares len_tag %d with %d bytes left", code, lenTag, end-off)}
		}

		if KindOf(code) == KindOpaque {
			if opts.UnknownTags == AbortOnUnknown {
				log.Warn("anlz: unknown tag, stopping walk", "path", source, "tag", code, "offset", off)
				if opts.Strict {
					return nil, &UnsupportedTagError{Type: code, Offset: off}
				}
				break
			}
			log.Warn("anlz: unknown tag kept opaque", "path", source, "tag", code, "offset", off)
		}

		t, err := decodeTag(data[off:off+lenTag], off, log)
		if err != nil {
			if fe, ok := err.(*FormatError); ok {
				fe.Path = source
			}
			return nil, err
		}
		f.Tags = append(f.Tags, t)
		off += lenTag
	}
	return f, nil
}

// Add appends a tag built from p and returns it.
func (f *File) Add(p Payload) (*Tag, error) {
	t, err := NewTag(p)
	if err != nil {
		return nil, err
	}
	f.Tags = append(f.Tags, t)
	return t, nil
}

// Build recomputes every length field and returns the encoded file.
func (f *File) Build() ([]byte, error) {
	h := &f.Header
	h.LenHeader = uint32(FileHeaderSize + len(h.Extra))
	total := int(h.LenHeader)
	for _, t := range f.Tags {
		if err := t.UpdateLen(); err != nil {
			return nil, err
		}
		total += int(t.LenTag)
	}
	h.LenFile = uint32(total)

	a := buf.NewArena(total)
	a.Grow(FileHeaderSize)
	a.PutBytes(0, []byte(FileMagic))
	a.PutU32BE(4, h.LenHeader)
	a.PutU32BE(8, h.LenFile)
	a.PutU32BE(12, h.Unknown1)
	a.PutU32BE(16, h.Unknown2)
	a.PutU32BE(20, h.Unknown3)
	a.PutU32BE(24, h.Unknown4)
	a.Append(h.Extra)
	for _, t := range f.Tags {
		if err := t.encodeTo(a); err != nil {
			return nil, err
		}
	}
	if err := a.Err(); err != nil {
		return nil, fmt.Errorf("anlz: build: %w", err)
	}
	if a.Len() != total {
		return nil, &LengthMismatchError{Type: FileMagic, Expected: total, Actual: a.Len()}
	}
	return a.Bytes(), nil
}

// Tag returns the first tag of kind k.
func (f *File) Tag(k Kind) (*Tag, bool) {
	for _, t := range f.Tags {
		if t.Kind() == k {
			return t, true
		}
	}
	return nil, false
}

// TagsOf returns every tag of kind k in file order.
func (f *File) TagsOf(k Kind) []*Tag {
	var out []*Tag
	for _, t := range f.Tags {
		if t.Kind() == k {
			out = append(out, t)
		}
	}
	return out
}

// BeatGrid returns the PQTZ payload.
func (f *File) BeatGrid() (*BeatGrid, bool) {
	t, ok := f.Tag(KindBeatGrid)
	if !ok {
		return nil, false
	}
	return t.Payload.(*BeatGrid), true
}

// SongStructure returns the PSSI payload.
func (f *File) SongStructure() (*SongStructure, bool) {
	t, ok := f.Tag(KindSongStructure)
	if !ok {
		return nil, false
	}
	return t.Payload.(*SongStructure), true
}

// Path returns the audio path from the PPTH tag, or "".
func (f *File) Path() string {
	t, ok := f.Tag(KindPath)
	if !ok {
		return ""
	}
	return t.Payload.(*Path).Path
}

// CueLists returns every PCOB payload.
func (f *File) CueLists() []*CueList {
	var out []*CueList
	for _, t := range f.TagsOf(KindCueList) {
		out = append(out, t.Payload.(*CueList))
	}
	return out
}

// CuePoints returns the cues of every PCOB list of type t.
func (f *File) CuePoints(t CueListType) []CuePoint {
	var out []CuePoint
	for _, l := range f.CueLists() {
		if l.Type == t {
			out = append(out, l.Cues...)
		}
	}
	return out
}

// ExtCuePoints returns the cues of every PCO2 list of type t.
func (f *File) ExtCuePoints(t CueListType) []ExtCuePoint {
	var out []ExtCuePoint
	for _, tag := range f.TagsOf(KindExtCueList) {
		if l := tag.Payload.(*ExtCueList); l.Type == t {
			out = append(out, l.Cues...)
		}
	}
	return out
}
