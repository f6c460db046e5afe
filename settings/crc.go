package settings

// CRC16/XMODEM: polynomial 0x1021, initial value 0, no reflection.
const crcPoly = 0x1021

var crcTable = makeCRCTable()

func makeCRCTable() *[256]uint16 {
	var t [256]uint16
	for i := range t {
		c := uint16(i) << 8
		for range 8 {
			if c&0x8000 != 0 {
				c = c<<1 ^ crcPoly
			} else {
				c <<= 1
			}
		}
		t[i] = c
	}
	return &t
}

// Checksum returns the CRC16/XMODEM of b.
func Checksum(b []byte) uint16 {
	var crc uint16
	for _, v := range b {
		crc = crc<<8 ^ crcTable[byte(crc>>8)^v]
	}
	return crc
}
