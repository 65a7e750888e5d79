package eeprom

import (
	"encoding/binary"
	"fmt"
	"sync/atomic"
)

// Manager binds one Record to one keyed entry on a shared Device and keeps
// the two synchronised. At construction the durable copy wins; after that
// the in-memory record is the source of truth and Update pushes changes out.
//
// A Manager is not safe for concurrent use, and neither is the device under
// it: when several managers or goroutines share one device, the caller must
// serialise every operation on all of them with a single mutex or a single
// owning goroutine. All operations are synchronous and bounded by the device
// capacity, so no cancellation semantics exist.
type Manager struct {
	dev  Device
	rec  Record
	key  uint16
	opts Options

	addr   int
	meta   entryMeta
	synced bool
	buf    []byte // scratch for one full entry frame

	statWrites      uint64
	statSkips       uint64
	statRelocations uint64
	statScans       uint64
}

// NewManager binds rec to key on dev with DefaultOptions.
//
// For devices that need explicit initialisation (Beginner) the manager stays
// inert until Synchronise is called; for all others the locate-and-initialise
// sequence runs immediately and the result is ready to use.
func NewManager(dev Device, rec Record, key uint16) (*Manager, error) {
	return NewManagerWithOptions(dev, rec, key, DefaultOptions())
}

// NewManagerWithOptions is NewManager with custom options.
func NewManagerWithOptions(dev Device, rec Record, key uint16, opts Options) (*Manager, error) {
	if dev == nil || rec == nil {
		return nil, fmt.Errorf("eeprom: device and record must be non-nil")
	}
	size := rec.RecordSize()
	if size <= 0 || size > 0xFFFF {
		return nil, fmt.Errorf("eeprom: record size %d outside 1..65535", size)
	}
	if opts.MaxWrites == 0 {
		opts.MaxWrites = DefaultOptions().MaxWrites
	}
	m := &Manager{
		dev:  dev,
		rec:  rec,
		key:  key,
		opts: opts,
		buf:  make([]byte, HeaderOverhead+size),
	}
	if _, ok := dev.(Beginner); ok {
		// device storage is not accessible yet
		return m, nil
	}
	if err := m.begin(); err != nil {
		return nil, err
	}
	m.synced = true
	return m, nil
}

// Synchronise initialises the device if it requires it (Beginner) and runs
// the same locate-and-initialise sequence the constructor runs for direct
// devices. It is safe to call on any device, in place of or in addition to
// the construction-time sequence.
func (m *Manager) Synchronise() error {
	if b, ok := m.dev.(Beginner); ok {
		if err := b.Begin(m.dev.Length()); err != nil {
			return fmt.Errorf("begin device: %w", err)
		}
	}
	if err := m.begin(); err != nil {
		return err
	}
	m.synced = true
	return nil
}

// begin seeds the shadow metadata, then either adopts the existing on-device
// entry for the key or writes a fresh one at the first free address.
func (m *Manager) begin() error {
	if err := m.initialise(); err != nil {
		return err
	}
	m.addr = 0
	found, err := m.locate()
	if err != nil {
		return err
	}
	if found {
		return m.read()
	}
	return m.write()
}

// initialise seeds the shadow entry metadata from the bound record.
func (m *Manager) initialise() error {
	m.meta = entryMeta{
		key:        m.key,
		keyCheck:   keyCheck(m.key),
		writeCount: 1,
		length:     uint16(m.rec.RecordSize()),
	}
	payload := m.buf[offPayload : offPayload+m.rec.RecordSize()]
	if err := m.rec.MarshalRecord(payload); err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	m.meta.paySum = Checksum32(payload)
	return nil
}

// locate scans forward from the current candidate address for the active
// entry of the bound key. It returns false when the scan reaches free space
// or the end of the device; the candidate address is then the write target.
//
// Every prior entry's header is walked exactly once per scan: with no index
// or free list, each entry's own length field is the only way past it.
func (m *Manager) locate() (bool, error) {
	atomic.AddUint64(&m.statScans, 1)
	for m.addr+keySize+keyCheckSize <= m.dev.Length() {
		meta, ok, err := readHeader(m.dev, m.addr)
		if err != nil {
			return false, err
		}
		if !ok {
			// key check mismatch: free or uninitialised space
			return false, nil
		}
		if meta.key == m.key && meta.writeCount < m.opts.MaxWrites {
			return true, nil
		}
		// foreign key, or same key with its write budget spent: skip it
		m.addr += HeaderOverhead + int(meta.length)
	}
	return false, nil
}

// read pulls write_count, payload and payload check at the active address
// into the shadow metadata and the bound record. Key, key check and length
// are already known and not re-read.
func (m *Manager) read() error {
	cnt, err := m.dev.Get(m.addr+offCount, countSize)
	if err != nil {
		return err
	}
	m.meta.writeCount = binary.LittleEndian.Uint32(cnt)
	size := int(m.meta.length)
	body, err := m.dev.Get(m.addr+offPayload, size+paySumSize)
	if err != nil {
		return err
	}
	if err := m.rec.UnmarshalRecord(body[:size]); err != nil {
		return fmt.Errorf("unmarshal record: %w", err)
	}
	m.meta.paySum = binary.LittleEndian.Uint32(body[size:])
	return nil
}

// write serialises the full entry frame at the active address. The payload
// check is always recomputed from the bytes being written, so the stored
// frame is self-consistent even on a forced write.
func (m *Manager) write() error {
	size := m.rec.RecordSize()
	payload := m.buf[offPayload : offPayload+size]
	if err := m.rec.MarshalRecord(payload); err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	m.meta.paySum = Checksum32(payload)
	binary.LittleEndian.PutUint16(m.buf[offKey:], m.meta.key)
	m.buf[offKeyCheck] = m.meta.keyCheck
	binary.LittleEndian.PutUint32(m.buf[offCount:], m.meta.writeCount)
	binary.LittleEndian.PutUint16(m.buf[offLength:], m.meta.length)
	binary.LittleEndian.PutUint32(m.buf[offPayload+size:], m.meta.paySum)
	if err := m.dev.Put(m.addr, m.buf); err != nil {
		return err
	}
	atomic.AddUint64(&m.statWrites, 1)
	return m.commit()
}

func (m *Manager) commit() error {
	if c, ok := m.dev.(Committer); ok {
		return c.Commit()
	}
	return nil
}

// Address returns the device address of the active entry.
func (m *Manager) Address() int { return m.addr }

// Key returns the bound entry key.
func (m *Manager) Key() uint16 { return m.key }

// WriteCount returns the shadow write count of the active entry.
func (m *Manager) WriteCount() uint32 { return m.meta.writeCount }
