// Package trace reads, writes, and generates allocator traces.
//
// A trace is a text file with a four-line header followed by one operation per
// line:
//
//	<suggested heap size>
//	<number of ids>
//	<number of ops>
//	<weight>
//	a <id> <size>    allocate size bytes and bind the block to id
//	r <id> <size>    reallocate the block bound to id
//	f <id>           free the block bound to id
//
// Blank lines and lines starting with '#' are ignored. Files ending in ".br"
// are brotli-compressed.
package trace
