package trace

import "math/rand/v2"

// GenConfig shapes a generated trace.
type GenConfig struct {
	Ops     int    // total operations, including the frees that end the trace
	IDs     int    // maximum number of distinct ids (0 = Ops/2)
	MaxSize uint32 // largest request (0 = 4096)

	// ReallocRatio is the share of non-allocating operations that are
	// reallocations rather than frees.
	ReallocRatio float64
}

// DefaultGenConfig is used by mmctl gen.
var DefaultGenConfig = GenConfig{
	Ops:          10000,
	MaxSize:      4096,
	ReallocRatio: 0.3,
}

// Generate builds a random, well-formed trace: every id is allocated once
// before it is reallocated or freed, and every block is freed by the end.
func Generate(rng *rand.Rand, cfg GenConfig) *Trace {
	if cfg.IDs <= 0 {
		cfg.IDs = max(cfg.Ops/2, 1)
	}
	if cfg.MaxSize == 0 {
		cfg.MaxSize = 4096
	}

	var (
		ops    []Op
		live   []int
		sizes  = make(map[int]uint32)
		nextID int
		peak   uint64
		cur    uint64
	)

	for {
		budget := cfg.Ops - len(ops) - len(live)
		canAlloc := nextID < cfg.IDs && budget >= 2
		if budget <= 0 || (!canAlloc && len(live) == 0) {
			break
		}

		if canAlloc && (len(live) == 0 || rng.IntN(2) == 0) {
			size := randSize(rng, cfg.MaxSize)
			ops = append(ops, Op{Kind: OpAlloc, ID: nextID, Size: size})
			live = append(live, nextID)
			sizes[nextID] = size
			cur += uint64(size)
			nextID++
		} else {
			i := rng.IntN(len(live))
			id := live[i]
			if rng.Float64() < cfg.ReallocRatio {
				size := randSize(rng, cfg.MaxSize)
				ops = append(ops, Op{Kind: OpRealloc, ID: id, Size: size})
				cur = cur - uint64(sizes[id]) + uint64(size)
				sizes[id] = size
			} else {
				ops = append(ops, Op{Kind: OpFree, ID: id})
				cur -= uint64(sizes[id])
				live[i] = live[len(live)-1]
				live = live[:len(live)-1]
			}
		}
		peak = max(peak, cur)
	}

	rng.Shuffle(len(live), func(i, j int) { live[i], live[j] = live[j], live[i] })
	for _, id := range live {
		ops = append(ops, Op{Kind: OpFree, ID: id})
	}

	return &Trace{
		SuggestedHeap: int(peak),
		NumIDs:        max(nextID, 1),
		Weight:        1,
		Ops:           ops,
	}
}

// randSize favours small requests with an occasional large one.
func randSize(rng *rand.Rand, maxSize uint32) uint32 {
	if rng.IntN(10) < 7 {
		return 1 + rng.Uint32N(min(maxSize, 128))
	}
	return 1 + rng.Uint32N(maxSize)
}
