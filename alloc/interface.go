package alloc

import "unsafe"

// Allocator supplies raw memory to containers.
//
// Implementations:
//   - Heap: Go heap, the default
//   - PoolAllocator: size-class pooled buffers
//   - BumpAllocator: chunked arena, Free is a no-op
//   - MmapAllocator: anonymous mappings
//   - MetricsAllocator: Prometheus instrumentation around another Allocator
type Allocator interface {
	// Alloc returns a buffer with len >= size, aligned to 8 bytes.
	// A zero size may return nil.
	Alloc(size int) ([]byte, error)

	// Free releases a buffer returned by Alloc. Callers pass the exact slice
	// they received. Nil and empty slices are ignored.
	Free(b []byte)
}

// Heap allocates from the Go heap. The zero value is ready to use.
type Heap struct{}

// Default is the allocator used when none is configured.
var Default Allocator = Heap{}

// Alloc returns zeroed heap memory.
func (Heap) Alloc(size int) ([]byte, error) {
	if size < 0 {
		return nil, ErrNegativeSize
	}
	if size == 0 {
		return nil, nil
	}
	return heapBytes(size), nil
}

// Free is a no-op; the garbage collector owns heap buffers.
func (Heap) Free([]byte) {}

// heapBytes returns size bytes backed by a []uint64, so the buffer is 8-byte
// aligned and never scanned by the garbage collector. The capacity is size
// rounded up to 8.
func heapBytes(size int) []byte {
	words := make([]uint64, (size+7)/8)
	b := unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(words))), len(words)*8)
	return b[:size]
}

// align8 rounds n up to a multiple of 8.
func align8(n int) int {
	return (n + 7) &^ 7
}

var (
	_ Allocator = Heap{}
	_ Allocator = (*PoolAllocator)(nil)
	_ Allocator = (*BumpAllocator)(nil)
	_ Allocator = (*MmapAllocator)(nil)
	_ Allocator = (*MetricsAllocator)(nil)
)
