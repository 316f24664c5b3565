package dirty

// DirtyTracker is the minimal interface for tracking dirty (modified) byte ranges.
//
// Components that only need to report writes (the allocator) depend on this
// interface; components that control persistence use *Tracker directly.
type DirtyTracker interface {
	// Add marks a byte range as dirty.
	// off is the offset from the start of the heap image, length is the number of bytes.
	Add(off, length int)
}

// Source is the memory a Tracker flushes.
type Source interface {
	// Bytes returns the mapped heap image.
	Bytes() []byte
	// FD returns the file descriptor backing the mapping.
	FD() int
}
