package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/trivec/vector"
)

var (
	growthCount int
)

func init() {
	cmd := newGrowthCmd()
	cmd.Flags().IntVar(&growthCount, "count", 100, "Number of elements to push")
	rootCmd.AddCommand(cmd)
}

func newGrowthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "growth",
		Short: "Trace capacity growth while appending",
		Long: `The growth command pushes --count elements into an empty vector and prints
every reallocation: the length that triggered it and the old and new capacity.

Example:
  vecctl growth --count 1000
  vecctl growth --count 50 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGrowth()
		},
	}
	return cmd
}

// GrowthEvent is one reallocation observed by the growth command.
type GrowthEvent struct {
	Len    int `json:"len"`
	OldCap int `json:"old_cap"`
	NewCap int `json:"new_cap"`
	Bytes  int `json:"bytes"`
}

func traceGrowth(count int) ([]GrowthEvent, error) {
	v := vector.New[uint64]()
	defer v.Close()

	var events []GrowthEvent
	for i := range count {
		before := v.Cap()
		if err := v.PushBack(uint64(i)); err != nil {
			return events, fmt.Errorf("push %d: %w", i, err)
		}
		if v.Cap() != before {
			events = append(events, GrowthEvent{
				Len:    v.Len(),
				OldCap: before,
				NewCap: v.Cap(),
				Bytes:  v.Allocated(),
			})
		}
	}
	return events, nil
}

func runGrowth() error {
	if growthCount < 0 {
		return fmt.Errorf("--count must not be negative, got %d", growthCount)
	}

	events, err := traceGrowth(growthCount)
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(map[string]any{
			"count":  growthCount,
			"events": events,
		})
	}

	printInfo("%-10s %-10s %-10s %s\n", "LEN", "OLD CAP", "NEW CAP", "BYTES")
	for _, e := range events {
		printInfo("%-10d %-10d %-10d %s\n", e.Len, e.OldCap, e.NewCap, formatBytes(int64(e.Bytes)))
	}
	printInfo("\n%d reallocations for %s elements\n", len(events), formatNumber(int64(growthCount)))
	return nil
}
