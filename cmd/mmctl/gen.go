package main

import (
	"math/rand/v2"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/internal/trace"
)

var (
	genOps     int
	genIDs     int
	genSeed    uint64
	genMaxSize uint32
	genRealloc float64
	genOut     string
)

func init() {
	cmd := newGenCmd()
	cmd.Flags().IntVar(&genOps, "ops", trace.DefaultGenConfig.Ops, "Number of operations")
	cmd.Flags().IntVar(&genIDs, "ids", 0, "Maximum number of block ids (default: ops/2)")
	cmd.Flags().Uint64Var(&genSeed, "seed", 1, "Random seed")
	cmd.Flags().Uint32Var(&genMaxSize, "max-size", trace.DefaultGenConfig.MaxSize, "Largest request in bytes")
	cmd.Flags().Float64Var(&genRealloc, "realloc", trace.DefaultGenConfig.ReallocRatio, "Share of reallocations among non-allocating ops")
	cmd.Flags().StringVarP(&genOut, "output", "o", "", "Output file (.br compresses); stdout when empty")
	rootCmd.AddCommand(cmd)
}

func newGenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate a random trace",
		Long: `The gen command writes a random, well-formed trace: every id is
allocated before it is used and every block is freed by the end.

Example:
  mmctl gen --ops 20000 --seed 7 -o random.rep
  mmctl gen --max-size 65536 -o big.rep.br`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGen()
		},
	}
	return cmd
}

func runGen() error {
	if genOps <= 0 {
		return errorf("--ops must be positive")
	}
	rng := rand.New(rand.NewPCG(genSeed, genSeed))
	tr := trace.Generate(rng, trace.GenConfig{
		Ops:          genOps,
		IDs:          genIDs,
		MaxSize:      genMaxSize,
		ReallocRatio: genRealloc,
	})

	if genOut == "" {
		return trace.Write(os.Stdout, tr)
	}
	if err := trace.Create(genOut, tr); err != nil {
		return err
	}
	printVerbose("Wrote %d ops over %d ids to %s\n", len(tr.Ops), tr.NumIDs, genOut)
	return nil
}
