package format

import "encoding/binary"

// Binary encoding utilities for the heap image.
//
// Every word the allocator stores in the region (tags, free-list links, the
// prologue) is a little-endian uint32, independent of the host byte order, so a
// heap image written by a mapped region reads back the same on any machine.

// PutU32 writes a uint32 value to the buffer at the specified offset in little-endian format.
func PutU32(b []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(b[off:off+4], v)
}

// ReadU32 reads a uint32 value from the buffer at the specified offset in little-endian format.
func ReadU32(b []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(b[off : off+4])
}
