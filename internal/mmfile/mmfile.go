// Package mmfile maps persisted heap images for inspection.
package mmfile

import "errors"

// maxImage is the largest image a 32-bit heap offset can address.
const maxImage = 1 << 32

// ErrTooLarge indicates a file bigger than any heap image.
var ErrTooLarge = errors.New("mmfile: file too large for a heap image")
