package alloc

import "math"

// SizeClassConfig defines the size class strategy of a PoolAllocator.
// Different configurations trade pool count against internal fragmentation.
type SizeClassConfig struct {
	// Name for this configuration (for benchmarking)
	Name string

	// Small allocation settings (linear increments)
	SmallMin       int // Smallest class (typically 16)
	SmallMax       int // Last linear class (typically 256-512)
	SmallIncrement int // Step between small classes (8, 16, or 32)

	// Medium allocation settings (geometric growth)
	MediumMax    int     // Largest pooled class; bigger requests bypass the pools
	GrowthFactor float64 // Ratio between consecutive medium classes (1.5, 2.0, etc.)
}

// Predefined configurations.
var (
	// ConfigFineGrained: many small classes, little slack per buffer.
	ConfigFineGrained = SizeClassConfig{
		Name:           "FineGrained",
		SmallMin:       8,
		SmallMax:       256,
		SmallIncrement: 8,
		MediumMax:      1 << 20,
		GrowthFactor:   1.25,
	}

	// ConfigBalanced: good balance between pool count and granularity.
	ConfigBalanced = SizeClassConfig{
		Name:           "Balanced",
		SmallMin:       16,
		SmallMax:       512,
		SmallIncrement: 16,
		MediumMax:      1 << 20,
		GrowthFactor:   1.5,
	}

	// ConfigCoarse: few classes, power-of-two medium sizes.
	ConfigCoarse = SizeClassConfig{
		Name:           "Coarse",
		SmallMin:       32,
		SmallMax:       512,
		SmallIncrement: 32,
		MediumMax:      1 << 20,
		GrowthFactor:   2.0,
	}

	// DefaultConfig is used by NewPool when the zero config is passed.
	DefaultConfig = ConfigBalanced
)

// sizeClassTable holds the computed class sizes, ascending, each a multiple of 8.
type sizeClassTable struct {
	config     SizeClassConfig
	sizes      []int
	numClasses int
}

// newSizeClassTable computes class sizes from config.
func newSizeClassTable(config SizeClassConfig) *sizeClassTable {
	table := &sizeClassTable{
		config: config,
		sizes:  make([]int, 0, 64),
	}

	// Phase 1: small classes (linear increments)
	inc := max(align8(config.SmallIncrement), 8)
	size := max(align8(config.SmallMin), 8)
	for ; size <= config.SmallMax; size += inc {
		table.sizes = append(table.sizes, size)
	}

	// Phase 2: medium classes (geometric growth)
	if len(table.sizes) > 0 {
		size = table.sizes[len(table.sizes)-1]
	}
	factor := max(config.GrowthFactor, 1.0)
	for size < config.MediumMax {
		next := align8(int(math.Ceil(float64(size) * factor)))
		if next <= size {
			next = size + 8 // ensure progress
		}
		table.sizes = append(table.sizes, next)
		size = next
	}

	table.numClasses = len(table.sizes)
	return table
}

// classFor returns the smallest class that fits size, or numClasses when size
// is larger than every class.
func (t *sizeClassTable) classFor(size int) int {
	lo, hi := 0, t.numClasses-1
	for lo <= hi {
		mid := (lo + hi) / 2
		if size <= t.sizes[mid] {
			if mid == 0 || size > t.sizes[mid-1] {
				return mid
			}
			hi = mid - 1
		} else {
			lo = mid + 1
		}
	}
	return t.numClasses
}

// exactClass returns the class whose size is exactly n, or -1.
func (t *sizeClassTable) exactClass(n int) int {
	c := t.classFor(n)
	if c < t.numClasses && t.sizes[c] == n {
		return c
	}
	return -1
}

// String returns the configuration name.
func (t *sizeClassTable) String() string {
	return t.config.Name
}
