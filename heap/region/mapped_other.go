//go:build !linux && !freebsd && !darwin

package region

import (
	"context"

	"github.com/joshuapare/heapkit/heap/dirty"
)

// Mapped is unavailable on this platform.
type Mapped struct{}

// OpenMapped always fails with ErrUnsupported on this platform.
func OpenMapped(_ string, _ *MappedConfig) (*Mapped, error) {
	return nil, ErrUnsupported
}

func (m *Mapped) Extend(uint32) (uint32, error)                { return 0, ErrUnsupported }
func (m *Mapped) Hi() uint32                                   { return 0 }
func (m *Mapped) Len() uint32                                  { return 0 }
func (m *Mapped) Bytes() []byte                                { return nil }
func (m *Mapped) FD() int                                      { return -1 }
func (m *Mapped) Tracker() *dirty.Tracker                      { return nil }
func (m *Mapped) Flush(context.Context, dirty.FlushMode) error { return ErrUnsupported }
func (m *Mapped) Close() error                                 { return nil }
