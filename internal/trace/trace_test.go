package trace

import (
	"bytes"
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `# short trace
20000
3
5
1
a 0 512
a 1 128

r 0 640
f 1
f 0
`

func TestParse_Sample(t *testing.T) {
	tr, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, 20000, tr.SuggestedHeap)
	assert.Equal(t, 3, tr.NumIDs)
	assert.Equal(t, 1, tr.Weight)
	assert.Equal(t, []Op{
		{Kind: OpAlloc, ID: 0, Size: 512},
		{Kind: OpAlloc, ID: 1, Size: 128},
		{Kind: OpRealloc, ID: 0, Size: 640},
		{Kind: OpFree, ID: 1},
		{Kind: OpFree, ID: 0},
	}, tr.Ops)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
	}{
		{"bad header", "100\nx\n1\n1\n", 2},
		{"truncated header", "100\n1\n", 2},
		{"unknown op", "0\n1\n1\n1\nz 0 4\n", 5},
		{"id out of range", "0\n1\n1\n1\na 1 4\n", 5},
		{"negative id", "0\n1\n1\n1\nf -1\n", 5},
		{"free with size", "0\n1\n1\n1\nf 0 4\n", 5},
		{"alloc without size", "0\n1\n1\n1\na 0\n", 5},
		{"bad size", "0\n1\n1\n1\na 0 lots\n", 5},
		{"op count mismatch", "0\n1\n2\n1\na 0 4\n", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			var perr *ParseError
			require.True(t, errors.As(err, &perr), "got %T: %v", err, err)
			assert.Equal(t, tt.line, perr.Line)
		})
	}
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse(strings.NewReader("\n# nothing\n"))
	require.ErrorIs(t, err, ErrEmpty)
}

func TestWrite_RoundTrip(t *testing.T) {
	tr, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, tr))
	assert.True(t, strings.HasPrefix(buf.String(), "20000\n3\n5\n1\na 0 512\n"))

	back, err := Parse(&buf)
	require.NoError(t, err)
	assert.Equal(t, tr, back)
}

func TestCreateOpen_Brotli(t *testing.T) {
	tr := Generate(rand.New(rand.NewPCG(3, 4)), GenConfig{Ops: 2000, MaxSize: 1024, ReallocRatio: 0.2})
	dir := t.TempDir()

	plainPath := filepath.Join(dir, "gen.rep")
	brPath := filepath.Join(dir, "gen.rep.br")
	require.NoError(t, Create(plainPath, tr))
	require.NoError(t, Create(brPath, tr))

	plainInfo, err := os.Stat(plainPath)
	require.NoError(t, err)
	brInfo, err := os.Stat(brPath)
	require.NoError(t, err)
	assert.Less(t, brInfo.Size(), plainInfo.Size())

	for _, path := range []string{plainPath, brPath} {
		got, err := Open(path)
		require.NoError(t, err, path)
		assert.Equal(t, "gen.rep", got.Name)
		assert.Equal(t, tr.Ops, got.Ops)
		assert.Equal(t, tr.NumIDs, got.NumIDs)
	}
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.rep"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestGenerate_WellFormed(t *testing.T) {
	for seed := uint64(1); seed <= 5; seed++ {
		cfg := GenConfig{Ops: 500 + int(seed)*100, IDs: 150, MaxSize: 2048, ReallocRatio: 0.3}
		tr := Generate(rand.New(rand.NewPCG(seed, 0)), cfg)

		assert.LessOrEqual(t, len(tr.Ops), cfg.Ops)
		assert.LessOrEqual(t, tr.NumIDs, cfg.IDs)

		live := make(map[int]bool)
		seen := make(map[int]bool)
		for i, op := range tr.Ops {
			require.Less(t, op.ID, tr.NumIDs)
			switch op.Kind {
			case OpAlloc:
				require.False(t, seen[op.ID], "op %d: id %d allocated twice", i, op.ID)
				require.NotZero(t, op.Size)
				require.LessOrEqual(t, op.Size, cfg.MaxSize)
				seen[op.ID], live[op.ID] = true, true
			case OpRealloc:
				require.True(t, live[op.ID], "op %d: realloc of dead id %d", i, op.ID)
			case OpFree:
				require.True(t, live[op.ID], "op %d: free of dead id %d", i, op.ID)
				delete(live, op.ID)
			}
		}
		assert.Empty(t, live, "every block is freed by the end")
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	cfg := DefaultGenConfig
	cfg.Ops = 1000
	a := Generate(rand.New(rand.NewPCG(9, 9)), cfg)
	b := Generate(rand.New(rand.NewPCG(9, 9)), cfg)
	assert.Equal(t, a, b)
}
