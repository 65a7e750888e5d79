package eeprom

// Options configures a Manager.
//
//   - MaxWrites: writes tolerated at one address before the entry is
//     relocated to fresh space (0 = default 100000)
//   - EraseByte: byte value representing an erased/uninitialised cell,
//     used by Wipe (conventionally 0xFF)
//
// See DefaultOptions() for the values used by NewManager.
type Options struct {
	MaxWrites uint32
	EraseByte byte
}

// DefaultOptions returns the configuration used by NewManager.
func DefaultOptions() Options {
	return Options{
		MaxWrites: 100000,
		EraseByte: 0xFF,
	}
}
