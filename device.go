package eeprom

// Device is the byte-addressable storage a Manager persists entries to, and
// the only I/O surface the core touches.
//
// A Device is shared mutable state: any number of managers may scan and write
// overlapping address ranges. The core performs no locking; callers running
// managers from multiple goroutines must serialise every call on every
// manager sharing the device.
type Device interface {
	// Get reads n bytes starting at addr.
	Get(addr, n int) ([]byte, error)
	// Put writes p starting at addr.
	Put(addr int, p []byte) error
	// Length returns the total addressable size in bytes.
	Length() int
}

// Beginner is implemented by devices that require explicit initialisation
// before first access (flash-backed emulation). A Manager bound to such a
// device stays inert until Synchronise is called.
type Beginner interface {
	Begin(capacity int) error
}

// Committer is implemented by devices that buffer writes in volatile memory.
// The manager calls Commit after every entry write; directly-addressable
// devices simply do not implement the interface.
type Committer interface {
	Commit() error
}
