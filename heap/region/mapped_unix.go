//go:build linux || freebsd || darwin

package region

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/joshuapare/heapkit/heap/dirty"
)

// Mapped is a Region backed by a file mapped MAP_SHARED.
//
// The file is grown in GrowChunk steps, so most Extend calls only move the
// break. When the mapping has to grow it is unmapped, the file is extended with
// ftruncate and the whole file is mapped again.
type Mapped struct {
	f    *os.File
	data []byte // whole mapping; len(data) is the file size
	brk  uint32
	cfg  MappedConfig
	dt   *dirty.Tracker
}

// OpenMapped creates (or truncates) the file at path and returns an empty region
// backed by it.
func OpenMapped(path string, cfg *MappedConfig) (*Mapped, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, err
	}
	m := &Mapped{
		f:   f,
		cfg: cfg.withDefaults(),
	}
	m.dt = dirty.NewTracker(m)
	return m, nil
}

// Extend grows the break by n bytes, remapping the file when needed.
func (m *Mapped) Extend(n uint32) (uint32, error) {
	if m.f == nil {
		return 0, ErrClosed
	}
	if !checkExtend(m.brk, n, m.cfg.MaxSize) {
		return 0, fmt.Errorf("%w: brk=%d grow=%d max=%d", ErrExhausted, m.brk, n, m.cfg.MaxSize)
	}
	old := m.brk
	end := old + n
	if int(end) > len(m.data) {
		if err := m.remap(roundChunk(end, m.cfg.GrowChunk, m.cfg.MaxSize)); err != nil {
			return 0, err
		}
	}
	m.brk = end
	return old, nil
}

// remap resizes the backing file to size and maps it again.
func (m *Mapped) remap(size uint32) error {
	oldSize := len(m.data)
	if m.data != nil {
		if err := unix.Munmap(m.data); err != nil {
			return fmt.Errorf("region: failed to unmap before grow: %w", err)
		}
		m.data = nil
	}

	if err := m.f.Truncate(int64(size)); err != nil {
		m.restore(oldSize)
		return fmt.Errorf("region: failed to extend file: %w", err)
	}

	data, err := unix.Mmap(int(m.f.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		m.restore(oldSize)
		return fmt.Errorf("region: failed to remap after grow: %w", err)
	}
	m.data = data
	return nil
}

// restore maps the previous file size again after a failed grow.
func (m *Mapped) restore(size int) {
	if size == 0 {
		return
	}
	data, _ := unix.Mmap(int(m.f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	m.data = data
}

// Hi returns the offset of the last byte in use.
func (m *Mapped) Hi() uint32 { return hi(m.brk) }

// Len returns the current break.
func (m *Mapped) Len() uint32 { return m.brk }

// Bytes returns a view of the mapped bytes in use.
func (m *Mapped) Bytes() []byte {
	if m.data == nil {
		return nil
	}
	return m.data[:m.brk]
}

// FD returns the backing file descriptor.
func (m *Mapped) FD() int {
	if m.f == nil {
		return -1
	}
	return int(m.f.Fd())
}

// Tracker returns the dirty tracker to hand to the allocator.
func (m *Mapped) Tracker() *dirty.Tracker { return m.dt }

// Flush writes dirty pages to the file.
func (m *Mapped) Flush(ctx context.Context, mode dirty.FlushMode) error {
	if m.f == nil {
		return ErrClosed
	}
	return m.dt.Flush(ctx, mode)
}

// Close unmaps the region and truncates the file to the break, leaving exactly
// the heap image on disk. Calling Close twice is a no-op.
func (m *Mapped) Close() error {
	if m.f == nil {
		return nil
	}
	var errs []error
	if m.data != nil {
		if err := unix.Munmap(m.data); err != nil && !errors.Is(err, unix.EINVAL) {
			errs = append(errs, err)
		}
		m.data = nil
	}
	if err := m.f.Truncate(int64(m.brk)); err != nil {
		errs = append(errs, err)
	}
	if err := m.f.Close(); err != nil {
		errs = append(errs, err)
	}
	m.f = nil
	m.dt.Reset()
	return errors.Join(errs...)
}
