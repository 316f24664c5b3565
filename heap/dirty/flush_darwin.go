//go:build darwin

package dirty

import (
	"golang.org/x/sys/unix"
)

// flushRanges flushes dirty ranges to disk.
//
// On macOS, msync() requires the address to match the original mmap() address,
// so the whole mapping is synced. The kernel only writes pages that are dirty.
func (t *Tracker) flushRanges(data []byte) error {
	return unix.Msync(data, unix.MS_SYNC)
}

// fdatasync syncs fd, with F_FULLFSYNC when fullfsync is set.
func fdatasync(fd int, fullfsync bool) error {
	if fullfsync {
		_, err := unix.FcntlInt(uintptr(fd), unix.F_FULLFSYNC, 0)
		return err
	}
	return unix.Fsync(fd)
}
