package eeprom

import "fmt"

// Record is a fixed-size value that a Manager keeps synchronised with the
// device. The size reported by RecordSize must never change while bound: it
// is written into the entry header and is what other managers use to skip
// over this entry when scanning.
//
// The marshalled form is what persists, so implementations must use a stable
// byte layout across process runs.
type Record interface {
	// RecordSize returns the static marshalled size in bytes.
	RecordSize() int
	// MarshalRecord writes the record into dst, which is RecordSize bytes.
	MarshalRecord(dst []byte) error
	// UnmarshalRecord replaces the record contents from src.
	UnmarshalRecord(src []byte) error
	// ResetRecord restores the record to its default values.
	ResetRecord()
}

// RawRecord is an opaque fixed-size blob Record. Its length is its record
// size and must not change once bound to a Manager.
type RawRecord []byte

func (r *RawRecord) RecordSize() int { return len(*r) }

func (r *RawRecord) MarshalRecord(dst []byte) error {
	if len(dst) != len(*r) {
		return fmt.Errorf("raw record: dst size %d, want %d", len(dst), len(*r))
	}
	copy(dst, *r)
	return nil
}

func (r *RawRecord) UnmarshalRecord(src []byte) error {
	if len(src) != len(*r) {
		return fmt.Errorf("raw record: src size %d, want %d", len(src), len(*r))
	}
	copy(*r, src)
	return nil
}

func (r *RawRecord) ResetRecord() {
	for i := range *r {
		(*r)[i] = 0
	}
}
