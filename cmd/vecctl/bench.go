package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/joshuapare/trivec/alloc"
	"github.com/joshuapare/trivec/internal/logger"
	"github.com/joshuapare/trivec/vector"
)

var (
	benchCount     int
	benchAllocator string
)

func init() {
	cmd := newBenchCmd()
	cmd.Flags().IntVar(&benchCount, "count", 1_000_000, "Number of elements to push")
	cmd.Flags().StringVar(&benchAllocator, "allocator", "heap", "Allocator: heap, pool, bump, mmap")
	rootCmd.AddCommand(cmd)
}

func newBenchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure appends through an allocator",
		Long: `The bench command pushes --count uint64 values into a vector backed by the
chosen allocator, wrapped in a metrics allocator, and reports timing and memory
figures.

Example:
  vecctl bench --count 10000000
  vecctl bench --allocator mmap --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench()
		},
	}
	return cmd
}

// BenchResult is the report of one bench run.
type BenchResult struct {
	Allocator string             `json:"allocator"`
	Count     int                `json:"count"`
	Elapsed   time.Duration      `json:"elapsed_ns"`
	Len       int                `json:"len"`
	Cap       int                `json:"cap"`
	Reallocs  int                `json:"reallocs"`
	Allocated int                `json:"allocated_bytes"`
	PeakInuse int64              `json:"peak_inuse_bytes"`
	Metrics   map[string]float64 `json:"metrics"`
}

// newAllocator returns the named allocator and a function releasing it.
func newAllocator(name string) (alloc.Allocator, func(), error) {
	switch name {
	case "heap":
		return alloc.Default, func() {}, nil
	case "pool":
		return alloc.NewPool(alloc.DefaultConfig), func() {}, nil
	case "bump":
		b := alloc.NewBump(alloc.DefaultBumpOptions())
		return b, b.Close, nil
	case "mmap":
		return alloc.NewMmap(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown allocator %q (want heap, pool, bump or mmap)", name)
	}
}

func bench(name string, count int) (*BenchResult, error) {
	upstream, release, err := newAllocator(name)
	if err != nil {
		return nil, err
	}
	defer release()

	reg := prometheus.NewRegistry()
	m, err := alloc.NewMetrics(upstream, alloc.MetricsOptions{
		Namespace:   "vecctl",
		ConstLabels: prometheus.Labels{"allocator": name},
		Registerer:  reg,
	})
	if err != nil {
		return nil, err
	}

	v := vector.New[uint64](vector.Options{Allocator: m})
	defer v.Close()

	start := time.Now()
	for i := range count {
		if err := v.PushBack(uint64(i)); err != nil {
			return nil, fmt.Errorf("push %d: %w", i, err)
		}
	}
	elapsed := time.Since(start)

	metrics, err := gatherValues(reg)
	if err != nil {
		return nil, err
	}

	return &BenchResult{
		Allocator: name,
		Count:     count,
		Elapsed:   elapsed,
		Len:       v.Len(),
		Cap:       v.Cap(),
		Reallocs:  v.Reallocs(),
		Allocated: v.Allocated(),
		PeakInuse: m.PeakInuseBytes(),
		Metrics:   metrics,
	}, nil
}

// gatherValues flattens the registry into metric name -> value.
func gatherValues(reg *prometheus.Registry) (map[string]float64, error) {
	families, err := reg.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}
	out := make(map[string]float64, len(families))
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				out[mf.GetName()] += m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				out[mf.GetName()] += m.GetGauge().GetValue()
			}
		}
	}
	return out, nil
}

func runBench() error {
	if benchCount < 0 {
		return fmt.Errorf("--count must not be negative, got %d", benchCount)
	}
	printVerbose("Pushing %d elements through %s allocator\n", benchCount, benchAllocator)

	res, err := bench(benchAllocator, benchCount)
	if err != nil {
		return err
	}
	logger.Info("vecctl: bench finished",
		"allocator", res.Allocator, "count", res.Count, "elapsed", res.Elapsed,
		"reallocs", res.Reallocs, "peak_inuse", res.PeakInuse)

	if jsonOut {
		return printJSON(res)
	}

	printInfo("Allocator:    %s\n", res.Allocator)
	printInfo("Elements:     %s\n", formatNumber(int64(res.Count)))
	printInfo("Elapsed:      %s\n", res.Elapsed)
	if res.Count > 0 {
		printInfo("Per element:  %s\n", res.Elapsed/time.Duration(res.Count))
	}
	printInfo("Len/Cap:      %d/%d\n", res.Len, res.Cap)
	printInfo("Reallocs:     %d\n", res.Reallocs)
	printInfo("Allocated:    %s\n", formatBytes(int64(res.Allocated)))
	printInfo("Peak in use:  %s\n", formatBytes(res.PeakInuse))

	names := make([]string, 0, len(res.Metrics))
	for name := range res.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	printInfo("\nMetrics:\n")
	for _, name := range names {
		printInfo("  %-40s %.0f\n", name, res.Metrics[name])
	}
	return nil
}
