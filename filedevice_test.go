package eeprom

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestFileDevicePersistence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "images", "eeprom.bin")

	dev, err := NewFileDevice(path, 256)
	if err != nil {
		t.Fatalf("new device: %v", err)
	}
	rec := &counters{}
	m, err := NewManager(dev, rec, 0x0001)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	// a flash-backed device defers initialisation to Synchronise
	if _, err := m.Update(); !errors.Is(err, ErrNotSynchronised) {
		t.Fatalf("update before synchronise: %v", err)
	}
	if err := m.Synchronise(); err != nil {
		t.Fatalf("synchronise: %v", err)
	}

	rec.Boots = 11
	rec.Faults = 22
	if n, err := m.Update(); err != nil || n != 2 {
		t.Fatalf("update: n=%d err=%v", n, err)
	}
	if err := dev.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// reopen: the durable copy wins over the zero in-memory record
	dev2, err := NewFileDevice(path, 256)
	if err != nil {
		t.Fatalf("reopen device: %v", err)
	}
	defer dev2.Close()
	rec2 := &counters{}
	m2, err := NewManager(dev2, rec2, 0x0001)
	if err != nil {
		t.Fatalf("reopen manager: %v", err)
	}
	if err := m2.Synchronise(); err != nil {
		t.Fatalf("reopen synchronise: %v", err)
	}
	if rec2.Boots != 11 || rec2.Faults != 22 || m2.WriteCount() != 2 {
		t.Fatalf("recovered rec=%+v count=%d", *rec2, m2.WriteCount())
	}
}

func TestFileDeviceSidecarCapacityWins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "eeprom.bin")

	dev, err := NewFileDevice(path, 128)
	if err != nil {
		t.Fatalf("new device: %v", err)
	}
	if err := dev.Begin(0); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := dev.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// reopening with the wrong capacity must not remap the image geometry
	dev2, err := NewFileDevice(path, 4096)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer dev2.Close()
	if err := dev2.Begin(0); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if dev2.Length() != 128 {
		t.Fatalf("capacity = %d, want 128 from sidecar config", dev2.Length())
	}
}

func TestFileDeviceFreshImageErased(t *testing.T) {
	dir := t.TempDir()
	dev, err := NewFileDevice(filepath.Join(dir, "eeprom.bin"), 64)
	if err != nil {
		t.Fatalf("new device: %v", err)
	}
	if err := dev.Begin(0); err != nil {
		t.Fatalf("begin: %v", err)
	}
	defer dev.Close()

	buf, err := dev.Get(0, dev.Length())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	for i, b := range buf {
		if b != 0xFF {
			t.Fatalf("fresh byte %d = 0x%02X, want 0xFF", i, b)
		}
	}
}

func TestFileDeviceRequiresBegin(t *testing.T) {
	dir := t.TempDir()
	dev, err := NewFileDevice(filepath.Join(dir, "eeprom.bin"), 64)
	if err != nil {
		t.Fatalf("new device: %v", err)
	}
	if _, err := dev.Get(0, 1); !errors.Is(err, ErrNotBegun) {
		t.Fatalf("get before begin: %v", err)
	}
	if err := dev.Put(0, []byte{0}); !errors.Is(err, ErrNotBegun) {
		t.Fatalf("put before begin: %v", err)
	}
	if err := dev.Commit(); !errors.Is(err, ErrNotBegun) {
		t.Fatalf("commit before begin: %v", err)
	}
}
