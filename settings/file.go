package settings

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/joshuapare/pioneerkit/internal/buf"
)

const (
	// HeaderSize is the length of the frame before the body.
	HeaderSize = 104
	// TrailerSize is the checksum and the unknown u16 after the body.
	TrailerSize = 4

	lenStrings  = 0x60
	stringField = 32
	software    = "rekordbox"
)

// File is a decoded settings file.
type File struct {
	Kind     Kind
	Brand    string
	Software string
	Version  string
	Body     []byte

	// Checksum is the stored checksum; Build recomputes it.
	Checksum uint16
	Unknown  uint16

	// Source is the path the file was read from, used in error messages.
	Source string
}

// New returns a file of kind k holding the default value of every field.
func New(k Kind) *File {
	ki := k.info()
	f := &File{
		Kind:     k,
		Brand:    ki.brand,
		Software: software,
		Version:  ki.version,
		Body:     make([]byte, ki.bodyLen),
	}
	for off, b := range ki.fixed {
		copy(f.Body[off:], b)
	}
	for _, fd := range ki.fields {
		v, _ := fd.Encode(fd.Default)
		f.Body[fd.Offset] = v
	}
	return f
}

// ParseFile reads the settings file at path, taking its kind from the name.
func ParseFile(path string) (*File, error) {
	k, err := KindFromFileName(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}
	f, err := parse(data, k, path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Parse decodes a settings file of kind k held in memory. A stale checksum
// is not an error here; see Verify.
func Parse(data []byte, k Kind) (*File, error) {
	if !k.valid() {
		return nil, fmt.Errorf("settings: invalid kind %d", int(k))
	}
	return parse(data, k, "")
}

func parse(data []byte, k Kind, source string) (*File, error) {
	bodyLen := k.BodyLen()
	if want := HeaderSize + bodyLen + TrailerSize; len(data) < want {
		return nil, &FormatError{Path: source, Offset: len(data),
			Reason: fmt.Sprintf("%s file of %d bytes, want %d", k, len(data), want)}
	}
	r := buf.NewReader(data)
	if n := r.U32LE(0); n != lenStrings {
		return nil, &FormatError{Path: source, Offset: 0, Reason: fmt.Sprintf("len_strings 0x%x, want 0x%x", n, lenStrings)}
	}
	if n := int(r.U32LE(100)); n != bodyLen {
		return nil, &FormatError{Path: source, Offset: 100, Reason: fmt.Sprintf("len_data %d, want %d for %s", n, bodyLen, k)}
	}
	return &File{
		Kind:     k,
		Brand:    cstring(data[4 : 4+stringField]),
		Software: cstring(data[36 : 36+stringField]),
		Version:  cstring(data[68 : 68+stringField]),
		Body:     r.Bytes(HeaderSize, bodyLen),
		Checksum: r.U16LE(HeaderSize + bodyLen),
		Unknown:  r.U16LE(HeaderSize + bodyLen + 2),
		Source:   source,
	}, nil
}

func cstring(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

// Build recomputes the checksum and returns the encoded file.
func (f *File) Build() ([]byte, error) {
	data, err := f.encode()
	if err != nil {
		return nil, err
	}
	f.Checksum = Checksum(data[f.Kind.info().crcStart : len(data)-TrailerSize])
	binary.LittleEndian.PutUint16(data[len(data)-TrailerSize:], f.Checksum)
	return data, nil
}

// Verify reports whether the stored checksum matches the contents.
func (f *File) Verify() error {
	data, err := f.encode()
	if err != nil {
		return err
	}
	computed := Checksum(data[f.Kind.info().crcStart : len(data)-TrailerSize])
	if computed != f.Checksum {
		return &ChecksumError{Stored: f.Checksum, Computed: computed}
	}
	return nil
}

func (f *File) encode() ([]byte, error) {
	if !f.Kind.valid() {
		return nil, fmt.Errorf("settings: invalid kind %d", int(f.Kind))
	}
	bodyLen := f.Kind.BodyLen()
	if len(f.Body) != bodyLen {
		return nil, fmt.Errorf("settings: %s body of %d bytes, want %d", f.Kind, len(f.Body), bodyLen)
	}
	for _, s := range []string{f.Brand, f.Software, f.Version} {
		if len(s) >= stringField {
			return nil, fmt.Errorf("settings: header string %q longer than %d bytes", s, stringField-1)
		}
	}

	a := buf.NewArena(HeaderSize + bodyLen + TrailerSize)
	a.Grow(HeaderSize)
	a.PutU32LE(0, lenStrings)
	a.PutBytes(4, []byte(f.Brand))
	a.PutBytes(36, []byte(f.Software))
	a.PutBytes(68, []byte(f.Version))
	a.PutU32LE(100, uint32(bodyLen))
	a.Append(f.Body)
	off := a.Grow(TrailerSize)
	a.PutU16LE(off, f.Checksum)
	a.PutU16LE(off+2, f.Unknown)
	if err := a.Err(); err != nil {
		return nil, fmt.Errorf("settings: build %s: %w", f.Kind, err)
	}
	return a.Bytes(), nil
}

func (f *File) field(name string) (Field, error) {
	for _, fd := range f.Kind.Fields() {
		if fd.Name == name {
			return fd, nil
		}
	}
	return Field{}, fmt.Errorf("%s has no field %q: %w", f.Kind, name, ErrUnknownField)
}

// Get returns the value name of field name.
func (f *File) Get(name string) (string, error) {
	fd, err := f.field(name)
	if err != nil {
		return "", err
	}
	if fd.Offset >= len(f.Body) {
		return "", fmt.Errorf("settings: body too short for %s", name)
	}
	return fd.Decode(f.Body[fd.Offset])
}

// Set stores value in field name. The checksum is stale until Build.
func (f *File) Set(name, value string) error {
	fd, err := f.field(name)
	if err != nil {
		return err
	}
	b, err := fd.Encode(value)
	if err != nil {
		return err
	}
	if fd.Offset >= len(f.Body) {
		return fmt.Errorf("settings: body too short for %s", name)
	}
	f.Body[fd.Offset] = b
	return nil
}

// Values returns every field with its current value name, or the raw byte in
// hex when it is outside the enumeration.
func (f *File) Values() map[string]string {
	out := make(map[string]string, len(f.Kind.Fields()))
	for _, fd := range f.Kind.Fields() {
		if fd.Offset >= len(f.Body) {
			continue
		}
		v, err := fd.Decode(f.Body[fd.Offset])
		if err != nil {
			v = fmt.Sprintf("0x%02x", f.Body[fd.Offset])
		}
		out[fd.Name] = v
	}
	return out
}
