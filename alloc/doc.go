// Package alloc provides the memory allocators that back trivec containers.
//
// # Overview
//
// A container never calls make or new for its element storage. It asks an
// Allocator for raw bytes and hands the same slice back when it is done:
//
//   - Alloc(size): return at least size bytes, 8-byte aligned
//   - Free(b): release a slice previously returned by Alloc (nil is a no-op)
//
// The allocator decides where memory comes from and what failure means. The
// containers propagate Alloc errors and never retry.
//
// # Implementations
//
// Heap: Go heap memory. Free is a no-op and the garbage collector reclaims
// buffers. This is Default.
//
// PoolAllocator: size-class pooling on top of sync.Pool
//
//   - linear small classes, geometric medium classes (SizeClassConfig)
//   - requests above the largest class bypass the pools
//   - reused buffers are zeroed before they are handed out
//
// BumpAllocator: arena allocation
//
//   - O(1) bump-pointer allocation out of fixed-size chunks
//   - Free is a no-op, Reset drops every chunk at once
//   - suited to short-lived containers built in a single pass
//
// MmapAllocator: anonymous memory mappings outside the Go heap, one mapping
// per allocation, unmapped on Free.
//
// MetricsAllocator: a decorator publishing Prometheus counters and gauges for
// any upstream allocator, plus peak in-use bytes.
//
// # Usage Example
//
//	pool := alloc.NewPool(alloc.DefaultConfig)
//	m, err := alloc.NewMetrics(pool, alloc.MetricsOptions{
//	    Namespace:  "engine",
//	    Registerer: prometheus.DefaultRegisterer,
//	})
//	if err != nil {
//	    return err
//	}
//	v := vector.New[uint32](vector.Options{Allocator: m})
//	defer v.Close()
//
// # Element Types
//
// Memory from PoolAllocator, BumpAllocator and MmapAllocator is either outside
// the Go heap or typed as pointer-free, so the garbage collector never scans it.
// Only pointer-free element types may be stored in it; the vector package
// enforces this.
//
// # Thread Safety
//
// Heap, PoolAllocator, MmapAllocator and MetricsAllocator are safe for
// concurrent use. BumpAllocator is not; callers must synchronize access.
package alloc
