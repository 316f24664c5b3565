package format

// Align8 returns n aligned up to the next 8-byte boundary.
// Block sizes and payload addresses are always 8-byte aligned.
//
// Example:
//
//	Align8(1)  = 8
//	Align8(8)  = 8
//	Align8(9)  = 16
//	Align8(28) = 32
func Align8(n uint32) uint32 {
	return (n + AlignmentMask) & ^uint32(AlignmentMask)
}

// IsAligned8 reports whether n is a multiple of 8.
func IsAligned8(n uint32) bool {
	return n&AlignmentMask == 0
}
