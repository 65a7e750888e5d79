package eeprom

import "fmt"

// MemDevice is an in-memory byte-addressable device with direct writes, the
// shape of a classic EEPROM peripheral. A fresh device reads as erased
// (0xFF) everywhere.
type MemDevice struct {
	data []byte
}

// NewMemDevice allocates a device of the given capacity filled with the
// erased sentinel byte.
func NewMemDevice(capacity int) *MemDevice {
	data := make([]byte, capacity)
	for i := range data {
		data[i] = 0xFF
	}
	return &MemDevice{data: data}
}

func (d *MemDevice) Get(addr, n int) ([]byte, error) {
	if addr < 0 || n < 0 || addr+n > len(d.data) {
		return nil, fmt.Errorf("mem device: read [%d:%d) out of range (length %d)", addr, addr+n, len(d.data))
	}
	out := make([]byte, n)
	copy(out, d.data[addr:addr+n])
	return out, nil
}

func (d *MemDevice) Put(addr int, p []byte) error {
	if addr < 0 || addr+len(p) > len(d.data) {
		return fmt.Errorf("mem device: write [%d:%d) out of range (length %d)", addr, addr+len(p), len(d.data))
	}
	copy(d.data[addr:], p)
	return nil
}

func (d *MemDevice) Length() int { return len(d.data) }
