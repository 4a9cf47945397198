package alloc

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/joshuapare/trivec/internal/logger"
	"github.com/joshuapare/trivec/internal/mmfile"
)

// MmapAllocator gives every allocation its own anonymous memory mapping,
// rounded up to whole pages. Memory lives outside the Go heap and is returned
// to the operating system on Free.
type MmapAllocator struct {
	live      atomic.Int64
	liveBytes atomic.Int64
}

// NewMmap creates an MmapAllocator.
func NewMmap() *MmapAllocator {
	return &MmapAllocator{}
}

// Alloc maps at least size bytes of zeroed memory.
func (m *MmapAllocator) Alloc(size int) ([]byte, error) {
	if size < 0 {
		return nil, ErrNegativeSize
	}
	if size == 0 {
		return nil, nil
	}
	b, err := mmfile.Anon(size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOutOfMemory, err)
	}
	m.live.Add(1)
	m.liveBytes.Add(int64(cap(b)))
	return b, nil
}

// Free unmaps b. Failures are logged; a slice that was not produced by this
// allocator is ignored.
func (m *MmapAllocator) Free(b []byte) {
	if cap(b) == 0 {
		return
	}
	size := cap(b)
	if err := mmfile.Release(b); err != nil {
		if errors.Is(err, mmfile.ErrNotMapped) {
			logger.Warn("alloc: free of unmapped buffer", "cap", size)
			return
		}
		logger.Error("alloc: munmap failed", "cap", size, "err", err)
		return
	}
	m.live.Add(-1)
	m.liveBytes.Add(-int64(size))
}

// Live returns the number of mappings currently held.
func (m *MmapAllocator) Live() int64 {
	return m.live.Load()
}

// LiveBytes returns the mapped bytes currently held, page rounded.
func (m *MmapAllocator) LiveBytes() int64 {
	return m.liveBytes.Load()
}
