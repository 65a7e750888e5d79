package eeprom

import "sync/atomic"

// Stats is a snapshot of a manager's operation counters.
//
//	Writes      – entry frames or frame fragments written to the device
//	Skips       – Update calls short-circuited by an unchanged payload check
//	Relocations – entries moved to fresh space after hitting the write limit
//	Scans       – locate passes over the entry directory
type Stats struct {
	Writes      uint64
	Skips       uint64
	Relocations uint64
	Scans       uint64
}

// GetStats takes a snapshot of the counters.
func (m *Manager) GetStats() Stats {
	return Stats{
		Writes:      atomic.LoadUint64(&m.statWrites),
		Skips:       atomic.LoadUint64(&m.statSkips),
		Relocations: atomic.LoadUint64(&m.statRelocations),
		Scans:       atomic.LoadUint64(&m.statScans),
	}
}

// ResetStats zeroes all counters.
func (m *Manager) ResetStats() {
	atomic.StoreUint64(&m.statWrites, 0)
	atomic.StoreUint64(&m.statSkips, 0)
	atomic.StoreUint64(&m.statRelocations, 0)
	atomic.StoreUint64(&m.statScans, 0)
}
