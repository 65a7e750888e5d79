package main

import (
	"path/filepath"
	"strings"
	"testing"

	eeprom "github.com/luhtfiimanal/go-eeprom"
)

func TestRunListsEntries(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "eeprom.bin")

	// seed an image with one entry
	dev, err := eeprom.NewFileDevice(path, 128)
	if err != nil {
		t.Fatalf("new device: %v", err)
	}
	blob := eeprom.RawRecord("boot")
	m, err := eeprom.NewManager(dev, &blob, 0x0001)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	if err := m.Synchronise(); err != nil {
		t.Fatalf("synchronise: %v", err)
	}
	if err := dev.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	var stdout, stderr strings.Builder
	code := run([]string{"--file", path, "--dump"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run exited %d, stderr: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "key=0x0001") {
		t.Fatalf("listing missing entry: %q", stdout.String())
	}
	if !strings.Contains(stdout.String(), "intact") {
		t.Fatalf("listing missing checksum state: %q", stdout.String())
	}
}

func TestRunRequiresFile(t *testing.T) {
	var stdout, stderr strings.Builder
	if code := run(nil, &stdout, &stderr); code != 2 {
		t.Fatalf("run without --file exited %d, want 2", code)
	}
}

func TestRunWipe(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "eeprom.bin")

	var stdout, stderr strings.Builder
	code := run([]string{"--file", path, "--capacity", "64", "--wipe"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run exited %d, stderr: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "wiped 64 bytes") {
		t.Fatalf("missing wipe report: %q", stdout.String())
	}
	if !strings.Contains(stdout.String(), "no entries") {
		t.Fatalf("wiped image should list no entries: %q", stdout.String())
	}
}
