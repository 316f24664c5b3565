package alloc

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/joshuapare/heapkit/heap/region"
)

func BenchmarkMallocFree(b *testing.B) {
	for _, size := range []uint32{16, 128, 4096} {
		b.Run(sizeName(size), func(b *testing.B) {
			a, _ := newTestAllocator(b, 0, nil)
			b.ReportAllocs()
			b.ResetTimer()
			for range b.N {
				p, err := a.Malloc(size)
				if err != nil {
					b.Fatal(err)
				}
				a.Free(p)
			}
		})
	}
}

func BenchmarkRandomWorkload(b *testing.B) {
	rng := rand.New(rand.NewPCG(1, 2))
	r := region.NewSlice(256 << 20)
	a, err := New(r, nil, nil)
	if err != nil {
		b.Fatal(err)
	}
	live := make([]Ptr, 0, 1024)

	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		if len(live) < 1024 && (len(live) == 0 || rng.IntN(2) == 0) {
			p, err := a.Malloc(1 + rng.Uint32N(512))
			if err != nil {
				b.Fatal(err)
			}
			live = append(live, p)
			continue
		}
		i := rng.IntN(len(live))
		a.Free(live[i])
		live[i] = live[len(live)-1]
		live = live[:len(live)-1]
	}
}

func BenchmarkReallocGrow(b *testing.B) {
	a, _ := newTestAllocator(b, 256<<20, nil)
	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		p, err := a.Malloc(16)
		if err != nil {
			b.Fatal(err)
		}
		for size := uint32(32); size <= 64<<10; size *= 2 {
			if p, err = a.Realloc(p, size); err != nil {
				b.Fatal(err)
			}
		}
		a.Free(p)
	}
}

func sizeName(n uint32) string {
	if n >= 1<<10 {
		return fmt.Sprintf("%dKiB", n>>10)
	}
	return fmt.Sprintf("%dB", n)
}
