package eeprom

import "errors"

var (
	// ErrDeviceFull reports that the write limit was hit and no room remains
	// anywhere in the device for a relocated entry. Recoverable only by Wipe
	// or a larger device.
	ErrDeviceFull = errors.New("eeprom: device full, no space for relocation")

	// ErrNotSynchronised reports an operation on a manager whose device-side
	// state was never established. Call Synchronise first.
	ErrNotSynchronised = errors.New("eeprom: not synchronised, call Synchronise first")

	// ErrNotBegun reports access to a file device before Begin mapped it.
	ErrNotBegun = errors.New("eeprom: file device not initialised, call Begin first")
)
