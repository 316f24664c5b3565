//go:build linux || freebsd

package dirty

import (
	"golang.org/x/sys/unix"
)

// flushRanges flushes individual dirty ranges to disk.
//
// On Linux and FreeBSD, msync() can handle page-aligned sub-slices.
func (t *Tracker) flushRanges(data []byte) error {
	for _, r := range t.coalesce() {
		start, end, ok := clamp(r, len(data))
		if !ok {
			continue
		}
		if err := unix.Msync(data[start:end], unix.MS_SYNC); err != nil {
			return err
		}
	}
	return nil
}

// fdatasync performs file descriptor sync. fullfsync is ignored here.
func fdatasync(fd int, _ bool) error {
	return unix.Fdatasync(fd)
}
