// Package settings reads and writes the player and mixer settings files a
// rekordbox export places under PIONEER/: MYSETTING.DAT, MYSETTING2.DAT,
// DJMMYSETTING.DAT and DEVSETTING.DAT.
//
// Every file has the same little-endian frame:
//
//	Offset  Size  Field
//	0x00    4     len_strings (0x60)
//	0x04    32    brand, NUL padded
//	0x24    32    software, NUL padded
//	0x44    32    version, NUL padded
//	0x64    4     len_data
//	0x68    n     body (40, 40, 52 or 32 bytes by kind)
//	0x68+n  2     CRC16/XMODEM checksum
//	0x6A+n  2     unknown (0)
//
// Body fields are one-byte enumerations addressed by name through Get and
// Set. Build recomputes the checksum.
package settings
