//go:build !linux && !freebsd && !darwin

package mmfile

import (
	"fmt"
	"os"
)

// Map reads the whole file where mmap is not wired up.
func Map(path string) ([]byte, func() error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	if int64(len(data)) > maxImage {
		return nil, nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, len(data))
	}
	return data, func() error { return nil }, nil
}
