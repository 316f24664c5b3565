package driver

import (
	"fmt"
	"time"

	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/heap/dirty"
	"github.com/joshuapare/heapkit/heap/region"
	"github.com/joshuapare/heapkit/internal/format"
	"github.com/joshuapare/heapkit/internal/logger"
	"github.com/joshuapare/heapkit/internal/trace"
)

// Config controls a replay. The zero value uses alloc.DefaultConfig and skips
// per-operation heap checks.
type Config struct {
	Alloc   *alloc.Config
	Verify  bool               // run the heap checker after every operation
	Tracker dirty.DirtyTracker // handed to the allocator, may be nil
}

// Result describes one replay.
type Result struct {
	Trace       string        `json:"trace"`
	Ops         int           `json:"ops"`
	PeakPayload int64         `json:"peak_payload"`
	HeapSize    uint32        `json:"heap_size"`
	Utilization float64       `json:"utilization"`
	Elapsed     time.Duration `json:"elapsed_ns"`
	OpsPerSec   float64       `json:"ops_per_sec"`
	Stats       alloc.Stats   `json:"stats"`
}

type liveBlock struct {
	ptr  alloc.Ptr
	size uint32
}

type replay struct {
	a    *alloc.Allocator
	live map[int]liveBlock

	payload, peak int64
	elapsed       time.Duration
}

// Run replays tr against a new allocator over r, which must be empty. The
// allocator is returned alongside the result so callers can inspect the final
// heap.
func Run(tr *trace.Trace, r region.Region, cfg *Config) (*Result, *alloc.Allocator, error) {
	var c Config
	if cfg != nil {
		c = *cfg
	}
	a, err := alloc.New(r, c.Tracker, c.Alloc)
	if err != nil {
		return nil, nil, fmt.Errorf("driver: %w", err)
	}

	rp := &replay{a: a, live: make(map[int]liveBlock, tr.NumIDs)}
	for i, op := range tr.Ops {
		if err := rp.step(op); err != nil {
			return nil, a, &OpError{Trace: tr.Name, Index: i, Op: op, Err: err}
		}
		if c.Verify {
			if err := a.Check(); err != nil {
				return nil, a, &OpError{Trace: tr.Name, Index: i, Op: op, Err: err}
			}
		}
	}

	res := &Result{
		Trace:       tr.Name,
		Ops:         len(tr.Ops),
		PeakPayload: rp.peak,
		HeapSize:    a.HeapSize(),
		Elapsed:     rp.elapsed,
		Stats:       a.Stats(),
	}
	if res.HeapSize > 0 {
		res.Utilization = float64(res.PeakPayload) / float64(res.HeapSize)
	}
	if res.Elapsed > 0 {
		res.OpsPerSec = float64(res.Ops) / res.Elapsed.Seconds()
	}
	logger.Debug("trace replayed",
		"trace", tr.Name,
		"ops", res.Ops,
		"heap", res.HeapSize,
		"util", res.Utilization,
		"elapsed", res.Elapsed)
	return res, a, nil
}

func (rp *replay) step(op trace.Op) error {
	switch op.Kind {
	case trace.OpAlloc:
		start := time.Now()
		p, err := rp.a.Malloc(op.Size)
		rp.elapsed += time.Since(start)
		if err != nil {
			return err
		}
		if err := rp.checkNew(op.ID, p, op.Size); err != nil {
			return err
		}
		rp.fill(op.ID, p, 0, op.Size)
		rp.live[op.ID] = liveBlock{ptr: p, size: op.Size}
		rp.account(int64(op.Size))

	case trace.OpRealloc:
		old, ok := rp.live[op.ID]
		if !ok {
			return ErrDeadID
		}
		if err := rp.checkPattern(op.ID, old); err != nil {
			return err
		}
		start := time.Now()
		p, err := rp.a.Realloc(old.ptr, op.Size)
		rp.elapsed += time.Since(start)
		if err != nil {
			return err
		}
		delete(rp.live, op.ID)
		if err := rp.checkNew(op.ID, p, op.Size); err != nil {
			return err
		}
		keep := min(old.size, op.Size)
		if err := rp.checkPattern(op.ID, liveBlock{ptr: p, size: keep}); err != nil {
			return err
		}
		rp.fill(op.ID, p, keep, op.Size)
		rp.live[op.ID] = liveBlock{ptr: p, size: op.Size}
		rp.account(int64(op.Size) - int64(old.size))

	case trace.OpFree:
		old, ok := rp.live[op.ID]
		if !ok {
			return ErrDeadID
		}
		if err := rp.checkPattern(op.ID, old); err != nil {
			return err
		}
		delete(rp.live, op.ID)
		start := time.Now()
		rp.a.Free(old.ptr)
		rp.elapsed += time.Since(start)
		rp.account(-int64(old.size))

	default:
		return fmt.Errorf("driver: unknown op %v", op.Kind)
	}
	return nil
}

func (rp *replay) account(delta int64) {
	rp.payload += delta
	rp.peak = max(rp.peak, rp.payload)
}

// checkNew validates a block just returned for id. Live blocks other than id
// must not overlap it.
func (rp *replay) checkNew(id int, p alloc.Ptr, size uint32) error {
	if p == alloc.Nil {
		if size == 0 {
			return nil
		}
		return ErrNilBlock
	}
	if uint32(p)%format.Alignment != 0 {
		return fmt.Errorf("%w: %d", ErrMisaligned, p)
	}
	usable := rp.a.UsableSize(p)
	if usable < size {
		return fmt.Errorf("%w: %d < %d", ErrShortCapacity, usable, size)
	}
	lo, hi := uint32(p), uint32(p)+size
	if lo < format.FirstBlockOffset+format.HeaderSize || hi > rp.a.HeapSize() {
		return fmt.Errorf("%w: [%d, %d) heap %d", ErrOutOfRange, lo, hi, rp.a.HeapSize())
	}
	for other, b := range rp.live {
		if other == id || b.ptr == alloc.Nil || b.size == 0 {
			continue
		}
		olo, ohi := uint32(b.ptr), uint32(b.ptr)+b.size
		if lo < ohi && olo < hi {
			return fmt.Errorf("%w: [%d, %d) and id %d [%d, %d)", ErrOverlap, lo, hi, other, olo, ohi)
		}
	}
	return nil
}

func (rp *replay) fill(id int, p alloc.Ptr, from, to uint32) {
	if p == alloc.Nil || from >= to {
		return
	}
	buf := rp.a.Payload(p)[from:to]
	for i := range buf {
		buf[i] = patternByte(id, from+uint32(i))
	}
}

func (rp *replay) checkPattern(id int, b liveBlock) error {
	if b.ptr == alloc.Nil || b.size == 0 {
		return nil
	}
	buf := rp.a.Payload(b.ptr)[:b.size]
	for i, got := range buf {
		if want := patternByte(id, uint32(i)); got != want {
			return fmt.Errorf("%w: id %d byte %d is %#x, want %#x", ErrCorrupted, id, i, got, want)
		}
	}
	return nil
}

func patternByte(id int, i uint32) byte {
	return byte(id*31) ^ byte(i)
}
