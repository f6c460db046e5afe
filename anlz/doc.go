// Package anlz reads and writes Pioneer ANLZ analysis files (ANLZ0000.DAT,
// .EXT and .2EX).
//
// An analysis file is a 28-byte "PMAI" header followed by a sequence of
// self-describing tags. Every tag starts with a four-character type code and
// two big-endian lengths:
//
//	Offset  Size  Field
//	0x00    4     Type code ("PQTZ", "PCOB", ...)
//	0x04    4     len_header (bytes up to the first entry)
//	0x08    4     len_tag (whole tag, including these 12 bytes)
//	0x0C    n     Type-specific header fields, then entries
//
// Parse walks the tags using len_tag and decodes each into a typed Payload.
// Unknown codes are kept as Opaque payloads so they survive a rebuild.
// File.Build recomputes every length field before emitting bytes.
package anlz
