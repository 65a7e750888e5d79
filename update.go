package eeprom

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync/atomic"
)

// Update synchronises the bound record to the device if it changed since the
// last sync.
//
// The return value is 0 when the payload check is unchanged and no write was
// performed, the new write count after an in-place write, 1 after a write
// that pushed the count to the limit and relocated the entry to fresh space,
// or Exhausted (alongside ErrDeviceFull) when the limit was hit and no room
// remains for a relocated entry. In the exhausted case the old address keeps
// its last durable state but has spent its write budget; only Wipe or a
// larger device recovers from that.
func (m *Manager) Update() (uint32, error) {
	if !m.synced {
		return 0, ErrNotSynchronised
	}
	size := m.rec.RecordSize()
	payload := m.buf[offPayload : offPayload+size]
	if err := m.rec.MarshalRecord(payload); err != nil {
		return 0, fmt.Errorf("marshal record: %w", err)
	}
	sum := Checksum32(payload)
	if sum == m.meta.paySum {
		atomic.AddUint64(&m.statSkips, 1)
		return 0, nil
	}

	// partial write: key, key check and length are unchanged, so only the
	// count, payload and payload check are rewritten
	m.meta.writeCount++
	m.meta.paySum = sum
	var cnt [countSize]byte
	binary.LittleEndian.PutUint32(cnt[:], m.meta.writeCount)
	if err := m.dev.Put(m.addr+offCount, cnt[:]); err != nil {
		return 0, err
	}
	binary.LittleEndian.PutUint32(m.buf[offPayload+size:], sum)
	if err := m.dev.Put(m.addr+offPayload, m.buf[offPayload:offPayload+size+paySumSize]); err != nil {
		return 0, err
	}
	atomic.AddUint64(&m.statWrites, 1)
	if err := m.commit(); err != nil {
		return 0, err
	}

	if m.meta.writeCount < m.opts.MaxWrites {
		return m.meta.writeCount, nil
	}

	// the write budget for this address is spent: relocate to fresh space,
	// continuing the scan past the current (now worn) entry
	if _, err := m.locate(); err != nil {
		return 0, err
	}
	if m.addr+HeaderOverhead+size > m.dev.Length() {
		// no room anywhere: the prior copy stays durable at the old address
		return Exhausted, ErrDeviceFull
	}
	m.meta.writeCount = 1
	if err := m.write(); err != nil {
		return 0, err
	}
	atomic.AddUint64(&m.statRelocations, 1)
	return m.meta.writeCount, nil
}

// Force writes the current record state at the active address
// unconditionally: no checksum short-circuit, no write count increment, no
// relocation check. Useful to push a known-good state or after Reset.
func (m *Manager) Force() error {
	if !m.synced {
		return ErrNotSynchronised
	}
	return m.write()
}

// Reset restores the bound record to its default values and writes that
// state at the active address. The rest of the device is untouched.
func (m *Manager) Reset() error {
	if !m.synced {
		return ErrNotSynchronised
	}
	m.rec.ResetRecord()
	return m.write()
}

// Wipe overwrites every device byte with the erased sentinel, commits, and
// re-runs the locate-and-initialise sequence, which finds no valid header
// anywhere and writes a fresh entry at address 0. Wipe is the only
// reclamation path: relocation never reuses orphaned space.
func (m *Manager) Wipe() error {
	const chunk = 256
	fill := make([]byte, chunk)
	for i := range fill {
		fill[i] = m.opts.EraseByte
	}
	length := m.dev.Length()
	for addr := 0; addr < length; addr += chunk {
		n := chunk
		if addr+n > length {
			n = length - addr
		}
		if err := m.dev.Put(addr, fill[:n]); err != nil {
			return err
		}
	}
	if err := m.commit(); err != nil {
		return err
	}
	if err := m.begin(); err != nil {
		return err
	}
	m.synced = true
	return nil
}

// Print writes a hex dump of the whole device to w. Diagnostics only, no
// state changes.
func (m *Manager) Print(w io.Writer) error {
	return Dump(m.dev, w)
}

// Dump writes every device byte to w as space-separated two-digit hex,
// terminated by a newline.
func Dump(dev Device, w io.Writer) error {
	const chunk = 256
	length := dev.Length()
	for addr := 0; addr < length; addr += chunk {
		n := chunk
		if addr+n > length {
			n = length - addr
		}
		buf, err := dev.Get(addr, n)
		if err != nil {
			return err
		}
		for _, b := range buf {
			if _, err := fmt.Fprintf(w, "%02X ", b); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}
