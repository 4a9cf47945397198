package alloc

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/joshuapare/trivec/internal/logger"
)

// PoolAllocator recycles buffers through one sync.Pool per size class.
//
// A request is rounded up to the smallest class that fits it; the returned
// slice has the requested length and the class size as capacity. Free puts a
// buffer back in the pool matching its capacity and drops anything else.
type PoolAllocator struct {
	table *sizeClassTable
	pools []sync.Pool

	allocs   atomic.Int64
	reuses   atomic.Int64
	oversize atomic.Int64
	frees    atomic.Int64
}

// PoolStats is a snapshot of PoolAllocator counters.
type PoolStats struct {
	Allocs   int64 // pooled-class allocations
	Reuses   int64 // allocations served from a pool
	Oversize int64 // allocations larger than the largest class
	Frees    int64 // buffers returned to a pool
}

// NewPool creates a PoolAllocator. A zero config selects DefaultConfig.
func NewPool(config SizeClassConfig) *PoolAllocator {
	if config == (SizeClassConfig{}) {
		config = DefaultConfig
	}
	table := newSizeClassTable(config)
	return &PoolAllocator{
		table: table,
		pools: make([]sync.Pool, table.numClasses),
	}
}

// Alloc returns a zeroed buffer of len size.
func (p *PoolAllocator) Alloc(size int) ([]byte, error) {
	if size < 0 {
		return nil, ErrNegativeSize
	}
	if size == 0 {
		return nil, nil
	}

	class := p.table.classFor(size)
	if class == p.table.numClasses {
		p.oversize.Add(1)
		logger.Debug("alloc: pool bypass", "size", size, "config", p.table.String())
		return heapBytes(size), nil
	}

	p.allocs.Add(1)
	classSize := p.table.sizes[class]
	if ptr, ok := p.pools[class].Get().(unsafe.Pointer); ok && ptr != nil {
		p.reuses.Add(1)
		b := unsafe.Slice((*byte)(ptr), classSize)
		clear(b)
		return b[:size], nil
	}
	return heapBytes(classSize)[:size], nil
}

// Free returns b to the pool of its size class.
func (p *PoolAllocator) Free(b []byte) {
	if cap(b) == 0 {
		return
	}
	class := p.table.exactClass(cap(b))
	if class < 0 {
		return
	}
	p.frees.Add(1)
	p.pools[class].Put(unsafe.Pointer(unsafe.SliceData(b)))
}

// ClassSize reports the capacity a request of size bytes receives, or size
// itself when it bypasses the pools.
func (p *PoolAllocator) ClassSize(size int) int {
	class := p.table.classFor(size)
	if class == p.table.numClasses {
		return size
	}
	return p.table.sizes[class]
}

// NumClasses returns the number of pooled size classes.
func (p *PoolAllocator) NumClasses() int {
	return p.table.numClasses
}

// Stats returns a snapshot of the pool counters.
func (p *PoolAllocator) Stats() PoolStats {
	return PoolStats{
		Allocs:   p.allocs.Load(),
		Reuses:   p.reuses.Load(),
		Oversize: p.oversize.Load(),
		Frees:    p.frees.Load(),
	}
}
