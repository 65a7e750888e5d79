package eeprom

import "testing"

func TestHeaderOverhead(t *testing.T) {
	// fixed framing cost of the on-device format
	if HeaderOverhead != 13 {
		t.Fatalf("HeaderOverhead = %d, want 13", HeaderOverhead)
	}
	if offPayload != 9 {
		t.Fatalf("payload offset = %d, want 9", offPayload)
	}
}

func TestReadHeaderFreshDevice(t *testing.T) {
	dev := NewMemDevice(32)
	_, ok, err := readHeader(dev, 0)
	if err != nil {
		t.Fatalf("readHeader: %v", err)
	}
	if ok {
		t.Fatalf("erased space framed as a valid header")
	}
}

func TestScanListsActiveAndOrphanedEntries(t *testing.T) {
	dev := NewMemDevice(128)
	m, rec := newTestManager(t, dev, 0x0001, 2)

	// push the first copy to its write limit so it relocates
	rec.Boots = 1
	if n, err := m.Update(); err != nil || n != 1 {
		t.Fatalf("update: n=%d err=%v", n, err)
	}

	entries, err := Scan(dev)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("scan found %d entries, want 2", len(entries))
	}
	orphan, active := entries[0], entries[1]
	if orphan.Address != 0 || orphan.WriteCount != 2 || !orphan.Intact {
		t.Fatalf("unexpected orphan entry: %+v", orphan)
	}
	if active.Address != HeaderOverhead+4 || active.WriteCount != 1 || !active.Intact {
		t.Fatalf("unexpected active entry: %+v", active)
	}
}

func TestScanFlagsCorruptPayload(t *testing.T) {
	dev := NewMemDevice(64)
	newTestManager(t, dev, 0x0001, 100)

	// flip a payload byte without touching the stored check
	if err := dev.Put(offPayload, []byte{0xAA}); err != nil {
		t.Fatalf("corrupt write: %v", err)
	}
	entries, err := Scan(dev)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(entries) != 1 || entries[0].Intact {
		t.Fatalf("expected one corrupt entry, got %+v", entries)
	}
}
