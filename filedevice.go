package eeprom

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
	"golang.org/x/sys/unix"
)

// FileDevice emulates a flash-backed EEPROM on top of a regular file. The
// region is memory-mapped so Get/Put are plain memory copies; writes stay in
// the page cache until Commit issues an Msync, which models the volatile
// write buffer of flash parts.
//
// The device is inert until Begin maps the backing file; a Manager bound to
// a FileDevice therefore requires an explicit Synchronise call.
type FileDevice struct {
	path     string
	capacity int
	file     *os.File
	mmap     []byte
}

// sidecarConfig captures the options that affect the on-disk layout. It is
// persisted next to the data file and wins over the supplied capacity on
// reopen, so an image can never be remapped with the wrong geometry.
type sidecarConfig struct {
	Capacity int `json:"capacity"`
}

func configPath(base string) string { return base + ".config" }

// NewFileDevice prepares a device over the file at path. No file is touched
// until Begin.
func NewFileDevice(path string, capacity int) (*FileDevice, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("file device: capacity must be positive, got %d", capacity)
	}
	return &FileDevice{path: path, capacity: capacity}, nil
}

// Begin creates or opens the backing file, reconciles the sidecar config,
// fills a fresh image with the erased sentinel and maps it. A positive
// capacity overrides the one given to NewFileDevice; calling Begin on an
// already-mapped device is a no-op.
func (d *FileDevice) Begin(capacity int) error {
	if d.mmap != nil {
		return nil
	}
	if capacity > 0 {
		d.capacity = capacity
	}
	if err := os.MkdirAll(filepath.Dir(d.path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	if err := d.loadOrWriteConfig(); err != nil {
		return err
	}

	f, err := os.OpenFile(d.path, os.O_RDWR|os.O_CREATE, 0o666)
	if err != nil {
		return fmt.Errorf("open image: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("stat image: %w", err)
	}
	fresh := info.Size() == 0
	if err := f.Truncate(int64(d.capacity)); err != nil {
		f.Close()
		return fmt.Errorf("allocate image: %w", err)
	}

	mmap, err := unix.Mmap(int(f.Fd()), 0, d.capacity, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return fmt.Errorf("mmap image: %w", err)
	}
	if fresh {
		for i := range mmap {
			mmap[i] = 0xFF
		}
	}

	d.file = f
	d.mmap = mmap
	return nil
}

// loadOrWriteConfig loads the sidecar config if present and adopts its
// capacity. If the file does not exist, it is written atomically.
func (d *FileDevice) loadOrWriteConfig() error {
	path := configPath(d.path)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		buf, err := json.MarshalIndent(sidecarConfig{Capacity: d.capacity}, "", "  ")
		if err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		if err := atomic.WriteFile(path, bytes.NewReader(buf)); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	var have sidecarConfig
	if err := json.NewDecoder(f).Decode(&have); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	if have.Capacity <= 0 {
		return fmt.Errorf("config: invalid capacity %d", have.Capacity)
	}
	d.capacity = have.Capacity
	return nil
}

func (d *FileDevice) Get(addr, n int) ([]byte, error) {
	if d.mmap == nil {
		return nil, ErrNotBegun
	}
	if addr < 0 || n < 0 || addr+n > len(d.mmap) {
		return nil, fmt.Errorf("file device: read [%d:%d) out of range (length %d)", addr, addr+n, len(d.mmap))
	}
	out := make([]byte, n)
	copy(out, d.mmap[addr:addr+n])
	return out, nil
}

func (d *FileDevice) Put(addr int, p []byte) error {
	if d.mmap == nil {
		return ErrNotBegun
	}
	if addr < 0 || addr+len(p) > len(d.mmap) {
		return fmt.Errorf("file device: write [%d:%d) out of range (length %d)", addr, addr+len(p), len(d.mmap))
	}
	copy(d.mmap[addr:], p)
	return nil
}

// Length returns the configured capacity, known even before Begin.
func (d *FileDevice) Length() int { return d.capacity }

// Commit forces buffered writes to the backing file.
func (d *FileDevice) Commit() error {
	if d.mmap == nil {
		return ErrNotBegun
	}
	if err := unix.Msync(d.mmap, unix.MS_SYNC); err != nil {
		return fmt.Errorf("msync image: %w", err)
	}
	return nil
}

// Close unmaps and closes the backing file.
func (d *FileDevice) Close() error {
	var firstErr error
	if d.mmap != nil {
		if err := unix.Munmap(d.mmap); err != nil {
			firstErr = fmt.Errorf("munmap image: %w", err)
		}
		d.mmap = nil
	}
	if d.file != nil {
		if err := d.file.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close image: %w", err)
		}
		d.file = nil
	}
	return firstErr
}
