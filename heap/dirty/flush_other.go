//go:build !linux && !freebsd && !darwin

package dirty

// No mapped regions exist on these platforms, so there is nothing to flush.
func (t *Tracker) flushRanges(_ []byte) error { return nil }

func fdatasync(_ int, _ bool) error { return nil }
