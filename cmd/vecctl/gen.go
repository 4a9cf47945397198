package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/joshuapare/trivec/internal/logger"
	"github.com/joshuapare/trivec/internal/writer"
	"github.com/joshuapare/trivec/vector"
)

var (
	genCount int
	genMax   uint32
	genSeed  uint64
	genOut   string
)

func init() {
	cmd := newGenCmd()
	cmd.Flags().IntVar(&genCount, "count", 1000, "Number of random values to draw")
	cmd.Flags().Uint32Var(&genMax, "max", 1<<16, "Values are drawn from [0, max)")
	cmd.Flags().Uint64Var(&genSeed, "seed", 1, "Random seed")
	cmd.Flags().StringVarP(&genOut, "out", "o", "", "Output file (required)")
	_ = cmd.MarkFlagRequired("out")
	rootCmd.AddCommand(cmd)
}

func newGenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Write a sorted set of random values",
		Long: `The gen command draws --count pseudo-random uint32 values, keeps them in a
sorted vector without duplicates, and writes the vector in TVEC format.

Example:
  vecctl gen --count 5000 --max 10000 --out set.tvec
  vecctl gen --seed 42 -o set.tvec`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGen()
		},
	}
	return cmd
}

// sortedSet draws count values below max and returns them sorted and unique.
func sortedSet(count int, max uint32, seed uint64) (*vector.Vector[uint32], error) {
	if max == 0 {
		return nil, fmt.Errorf("--max must be positive")
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	v := vector.New[uint32]()
	for range count {
		if _, err := vector.InsertSortedUnique(v, rng.Uint32N(max)); err != nil {
			v.Close()
			return nil, err
		}
	}
	return v, nil
}

func runGen() error {
	if genCount < 0 {
		return fmt.Errorf("--count must not be negative, got %d", genCount)
	}

	v, err := sortedSet(genCount, genMax, genSeed)
	if err != nil {
		return err
	}
	defer v.Close()

	n, err := (&writer.FileWriter{Path: genOut}).Save(v)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", genOut, err)
	}
	logger.Info("vecctl: wrote sorted set",
		"file", genOut, "drawn", genCount, "unique", v.Len(), "bytes", n)

	if jsonOut {
		return printJSON(map[string]any{
			"file":   genOut,
			"drawn":  genCount,
			"unique": v.Len(),
			"bytes":  n,
		})
	}
	printInfo("Wrote %s unique values (%s drawn) to %s\n",
		formatNumber(int64(v.Len())), formatNumber(int64(genCount)), genOut)
	printVerbose("File size: %s\n", formatBytes(n))
	return nil
}
