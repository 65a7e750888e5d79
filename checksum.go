package eeprom

import "hash/crc32"

// Checksum32 is the 32-bit check over entry payloads (CRC-32/IEEE). The
// value is part of the on-device format and must stay stable across
// releases.
func Checksum32(p []byte) uint32 {
	return crc32.ChecksumIEEE(p)
}

// crc8Poly is the CRC-8 generator polynomial (x^8 + x^2 + x + 1,
// unreflected, zero init). Also part of the on-device format.
const crc8Poly = 0x07

var crc8Table = makeCRC8Table()

func makeCRC8Table() (table [256]uint8) {
	for i := range table {
		crc := uint8(i)
		for bit := 0; bit < 8; bit++ {
			if crc&0x80 != 0 {
				crc = crc<<1 ^ crc8Poly
			} else {
				crc <<= 1
			}
		}
		table[i] = crc
	}
	return table
}

// Checksum8 is the 8-bit check used to tell a real entry header apart from
// erased or uninitialised bytes.
func Checksum8(p []byte) uint8 {
	var crc uint8
	for _, b := range p {
		crc = crc8Table[crc^b]
	}
	return crc
}
