package eeprom

import "encoding/binary"

// On-device entry layout (little-endian, contiguous, no padding):
//
//	key(2) | key_check(1) | write_count(4) | length(2) | payload(length) | payload_check(4)
//
// key_check is Checksum8 over the two key bytes and is what distinguishes a
// real header from erased space during a scan. length is the payload size
// and is only ever used to skip over foreign entries, never to reinterpret
// this entry's own payload.
const (
	keySize      = 2
	keyCheckSize = 1
	countSize    = 4
	lengthSize   = 2
	paySumSize   = 4

	// HeaderOverhead is the fixed framing cost of one entry: everything but
	// the payload itself.
	HeaderOverhead = keySize + keyCheckSize + countSize + lengthSize + paySumSize
)

// field offsets from the entry start
const (
	offKey      = 0
	offKeyCheck = offKey + keySize
	offCount    = offKeyCheck + keyCheckSize
	offLength   = offCount + countSize
	offPayload  = offLength + lengthSize
)

// Exhausted is returned by Update when the write limit was hit and no room
// remains anywhere in the device for a relocated entry.
const Exhausted = ^uint32(0)

type entryMeta struct {
	key        uint16
	keyCheck   uint8
	writeCount uint32
	length     uint16
	paySum     uint32
}

func keyCheck(key uint16) uint8 {
	var kb [keySize]byte
	binary.LittleEndian.PutUint16(kb[:], key)
	return Checksum8(kb[:])
}

// readHeader reads the entry header at addr. ok is false when the key check
// does not match, i.e. addr is the start of free or uninitialised space.
func readHeader(dev Device, addr int) (meta entryMeta, ok bool, err error) {
	head, err := dev.Get(addr, keySize+keyCheckSize)
	if err != nil {
		return entryMeta{}, false, err
	}
	meta.key = binary.LittleEndian.Uint16(head[:keySize])
	meta.keyCheck = head[keySize]
	if Checksum8(head[:keySize]) != meta.keyCheck {
		return entryMeta{}, false, nil
	}
	rest, err := dev.Get(addr+offCount, countSize+lengthSize)
	if err != nil {
		return entryMeta{}, false, err
	}
	meta.writeCount = binary.LittleEndian.Uint32(rest[:countSize])
	meta.length = binary.LittleEndian.Uint16(rest[countSize:])
	return meta, true, nil
}

// EntryInfo describes one entry found by Scan.
type EntryInfo struct {
	Address    int
	Key        uint16
	WriteCount uint32
	Length     uint16
	// Intact reports whether the stored payload check matches the payload
	// bytes.
	Intact bool
}

// Scan walks the entry directory from address 0 and returns every entry it
// can frame, active and orphaned alike. The walk stops at the first address
// whose key check fails (free space) or at end of device.
func Scan(dev Device) ([]EntryInfo, error) {
	var out []EntryInfo
	addr := 0
	for addr+keySize+keyCheckSize <= dev.Length() {
		meta, ok, err := readHeader(dev, addr)
		if err != nil {
			return out, err
		}
		if !ok {
			break
		}
		info := EntryInfo{
			Address:    addr,
			Key:        meta.key,
			WriteCount: meta.writeCount,
			Length:     meta.length,
		}
		end := addr + HeaderOverhead + int(meta.length)
		if end <= dev.Length() {
			body, err := dev.Get(addr+offPayload, int(meta.length)+paySumSize)
			if err != nil {
				return out, err
			}
			stored := binary.LittleEndian.Uint32(body[meta.length:])
			info.Intact = Checksum32(body[:meta.length]) == stored
		}
		out = append(out, info)
		addr = end
	}
	return out, nil
}
