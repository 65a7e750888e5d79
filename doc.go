// Package eeprom manages durable storage of fixed-size client records inside
// a small byte-addressable non-volatile memory region with bounded write
// endurance per cell.
//
// Each record is framed as a checksummed entry and placed contiguously in the
// device address space. Entries are discovered by scanning from address 0;
// once an entry has absorbed MaxWrites writes it is relocated to fresh space
// so no single address wears out. Stale copies are never revisited or
// reclaimed; Wipe is the only way to recover the space they occupy.
//
// The library is organised into several files for clarity:
//
//	options.go    – configuration struct & defaults
//	record.go     – fixed-size record capability
//	device.go     – storage device interface & capabilities
//	memdevice.go  – in-memory device
//	filedevice.go – mmap-backed file device (flash emulation)
//	checksum.go   – CRC integrity primitives
//	entry.go      – on-device entry layout & directory scan
//	manager.go    – manager core: locate, read, write
//	update.go     – update / force / reset / wipe / print
//	stats.go      – lightweight stats accessors
//	errors.go     – sentinel errors
//
// Managers sharing one device must be serialised externally; see Manager.
package eeprom
