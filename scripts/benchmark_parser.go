package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult represents a parsed benchmark result.
type BenchmarkResult struct {
	Name        string
	Operation   string
	Variant     string // allocator or input shape, "" when the benchmark has no sub-benchmarks
	Iterations  int
	NsPerOp     float64
	BytesPerOp  int64
	AllocsPerOp int64
}

// ComparisonResult relates one variant of an operation to the baseline variant.
type ComparisonResult struct {
	Operation   string
	Variant     string
	NsPerOp     float64
	BaselineNs  float64
	Speedup     float64 // baseline / variant, 0 when no baseline exists
	BytesPerOp  int64
	AllocsPerOp int64
	IsBaseline  bool
}

var (
	inputFile = flag.String(
		"input",
		"",
		"Input file with benchmark output (stdin if not specified)",
	)
	outputFile = flag.String("output", "", "Output markdown file (stdout if not specified)")
	baseline   = flag.String("baseline", "heap", "Variant the others are compared against")
	quiet      = flag.Bool("quiet", false, "Suppress progress output")
)

func main() {
	flag.Parse()

	var in io.Reader = os.Stdin
	if *inputFile != "" {
		f, err := os.Open(*inputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening input file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	results := parseBenchmarks(bufio.NewScanner(in))
	if !*quiet {
		fmt.Fprintf(os.Stderr, "Parsed %d benchmark results\n", len(results))
	}

	comparisons := generateComparisons(results, *baseline)
	report := generateMarkdownReport(comparisons, *baseline)

	if *outputFile == "" {
		fmt.Fprint(os.Stdout, report)
		return
	}
	if err := os.WriteFile(*outputFile, []byte(report), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
		os.Exit(1)
	}
	if !*quiet {
		fmt.Fprintf(os.Stderr, "Report written to %s\n", *outputFile)
	}
}

// BenchmarkPushBack/pool-8    1000    12450 ns/op    4096 B/op    8 allocs/op
var benchmarkRegex = regexp.MustCompile(
	`^(Benchmark\S+)\s+(\d+)\s+([\d.]+)\s+ns/op(?:\s+[\d.]+\s+MB/s)?(?:\s+(\d+)\s+B/op)?(?:\s+(\d+)\s+allocs/op)?`,
)

func parseBenchmarks(scanner *bufio.Scanner) []BenchmarkResult {
	var results []BenchmarkResult

	for scanner.Scan() {
		line := scanner.Text()

		// Accept `go test -json` output too
		var testEvent map[string]any
		if err := json.Unmarshal([]byte(line), &testEvent); err == nil {
			if output, ok := testEvent["Output"].(string); ok {
				line = output
			}
		}

		matches := benchmarkRegex.FindStringSubmatch(strings.TrimSpace(line))
		if matches == nil {
			continue
		}

		r := BenchmarkResult{Name: matches[1]}
		r.Iterations, _ = strconv.Atoi(matches[2])
		r.NsPerOp, _ = strconv.ParseFloat(matches[3], 64)
		if matches[4] != "" {
			r.BytesPerOp, _ = strconv.ParseInt(matches[4], 10, 64)
		}
		if matches[5] != "" {
			r.AllocsPerOp, _ = strconv.ParseInt(matches[5], 10, 64)
		}
		r.Operation, r.Variant = splitName(r.Name)
		results = append(results, r)
	}

	return results
}

// splitName turns BenchmarkPushBack/pool-8 into ("PushBack", "pool").
func splitName(name string) (string, string) {
	name = strings.TrimPrefix(name, "Benchmark")
	if dash := strings.LastIndex(name, "-"); dash > 0 {
		if _, err := strconv.Atoi(name[dash+1:]); err == nil {
			name = name[:dash]
		}
	}
	op, variant, _ := strings.Cut(name, "/")
	return op, variant
}

func generateComparisons(results []BenchmarkResult, base string) []ComparisonResult {
	grouped := make(map[string]map[string]BenchmarkResult)
	for _, r := range results {
		if grouped[r.Operation] == nil {
			grouped[r.Operation] = make(map[string]BenchmarkResult)
		}
		grouped[r.Operation][r.Variant] = r
	}

	var comparisons []ComparisonResult
	for op, variants := range grouped {
		ref, hasRef := variants[base]
		for variant, r := range variants {
			c := ComparisonResult{
				Operation:   op,
				Variant:     variant,
				NsPerOp:     r.NsPerOp,
				BytesPerOp:  r.BytesPerOp,
				AllocsPerOp: r.AllocsPerOp,
				IsBaseline:  variant == base,
			}
			if hasRef && r.NsPerOp > 0 {
				c.BaselineNs = ref.NsPerOp
				c.Speedup = ref.NsPerOp / r.NsPerOp
			}
			comparisons = append(comparisons, c)
		}
	}

	sort.Slice(comparisons, func(i, j int) bool {
		if comparisons[i].Operation != comparisons[j].Operation {
			return comparisons[i].Operation < comparisons[j].Operation
		}
		return comparisons[i].Variant < comparisons[j].Variant
	})
	return comparisons
}

func generateMarkdownReport(comparisons []ComparisonResult, base string) string {
	var sb strings.Builder

	sb.WriteString("# Benchmark Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", time.Now().Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("Baseline variant: `%s`\n\n", base))

	faster, slower := 0, 0
	for _, c := range comparisons {
		switch {
		case c.IsBaseline || c.Speedup == 0:
		case c.Speedup > 1.0:
			faster++
		case c.Speedup < 1.0:
			slower++
		}
	}
	sb.WriteString("## Summary\n\n")
	sb.WriteString(fmt.Sprintf("- **Total benchmarks**: %d\n", len(comparisons)))
	sb.WriteString(fmt.Sprintf("- Faster than %s: %d\n", base, faster))
	sb.WriteString(fmt.Sprintf("- Slower than %s: %d\n\n", base, slower))

	sb.WriteString("## Detailed Results\n\n")
	sb.WriteString("| Operation | Variant | ns/op | vs baseline | Memory (B/op) | Allocs |\n")
	sb.WriteString("|-----------|---------|-------|-------------|---------------|--------|\n")
	for _, c := range comparisons {
		rel := "*N/A*"
		switch {
		case c.IsBaseline:
			rel = "*baseline*"
		case c.Speedup > 1.0:
			rel = fmt.Sprintf("**%.2fx** ✓", c.Speedup)
		case c.Speedup > 0:
			rel = fmt.Sprintf("%.2fx ✗", c.Speedup)
		}
		variant := c.Variant
		if variant == "" {
			variant = "-"
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s |\n",
			c.Operation,
			variant,
			formatNumber(c.NsPerOp),
			rel,
			formatBytes(c.BytesPerOp),
			formatNumber(float64(c.AllocsPerOp)),
		))
	}

	sb.WriteString("\n## Notes\n\n")
	sb.WriteString("- **vs baseline > 1.0**: faster than the baseline ✓\n")
	sb.WriteString("- **Memory**: Go heap bytes only; mmap and pooled memory are not counted\n")
	return sb.String()
}

func formatNumber(n float64) string {
	if n >= 1000000 {
		return fmt.Sprintf("%.2fM", n/1000000)
	} else if n >= 1000 {
		return fmt.Sprintf("%.1fK", n/1000)
	}
	return fmt.Sprintf("%.0f", n)
}

func formatBytes(b int64) string {
	if b >= 1024*1024 {
		return fmt.Sprintf("%.2fMB", float64(b)/(1024*1024))
	} else if b >= 1024 {
		return fmt.Sprintf("%.1fKB", float64(b)/1024)
	}
	return fmt.Sprintf("%dB", b)
}
