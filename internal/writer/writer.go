// Package writer exposes sinks for export output.
//
// Paths handed to a Sink are slash-separated and relative to the export
// root, for example "PIONEER/rekordbox/export.pdb".
package writer

// Sink receives finished output files.
type Sink interface {
	// WriteFile stores data under name, replacing any previous content.
	WriteFile(name string, data []byte) error
	// CopyFile stores the content of the local file src under name.
	CopyFile(name, src string) error
}
