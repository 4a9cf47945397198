package alloc

import "github.com/joshuapare/trivec/internal/logger"

// BumpOptions configures a BumpAllocator.
type BumpOptions struct {
	// ChunkSize is the size of each arena chunk in bytes. Requests larger than
	// a chunk get a dedicated chunk of their own.
	// Default: 64KB
	ChunkSize int
}

// DefaultBumpOptions returns the recommended arena settings.
func DefaultBumpOptions() BumpOptions {
	return BumpOptions{ChunkSize: 64 << 10}
}

// BumpAllocator is an append-only arena. Allocation advances a bump pointer
// inside the current chunk; Free does nothing. All memory is dropped at once
// by Reset.
//
// Key characteristics:
//   - O(1) initialization: no chunk exists until the first allocation
//   - O(1) allocation: pure bump pointer, 8-byte aligned
//   - Free() is a no-op; a container that grows leaves its old buffers behind
//
// It suits containers that are filled in one pass and discarded together.
// BumpAllocator is not safe for concurrent use.
type BumpAllocator struct {
	chunkSize int

	// chunks holds every chunk handed out since the last Reset.
	chunks [][]byte

	// cur is the chunk currently being carved; nil until first allocation.
	cur []byte

	// endBlocks is the bump pointer: the offset in cur of the next allocation.
	endBlocks int

	allocated int
}

// NewBump creates a BumpAllocator.
func NewBump(opts BumpOptions) *BumpAllocator {
	if opts.ChunkSize <= 0 {
		opts = DefaultBumpOptions()
	}
	return &BumpAllocator{chunkSize: align8(opts.ChunkSize)}
}

// Alloc carves size bytes from the current chunk. The returned slice has
// capacity rounded up to 8 so neighbouring allocations cannot be reached by
// appending to it.
func (ba *BumpAllocator) Alloc(size int) ([]byte, error) {
	if size < 0 {
		return nil, ErrNegativeSize
	}
	if size == 0 {
		return nil, nil
	}
	need := align8(size)

	if need > ba.chunkSize {
		chunk := heapBytes(need)
		ba.chunks = append(ba.chunks, chunk)
		ba.allocated += need
		logger.Debug("alloc: bump dedicated chunk", "size", need)
		return chunk[:size:need], nil
	}

	if ba.cur == nil || ba.endBlocks+need > len(ba.cur) {
		ba.grow()
	}

	off := ba.endBlocks
	ba.endBlocks += need
	ba.allocated += need
	return ba.cur[off : off+size : off+need], nil
}

// grow starts a fresh chunk. The tail of the previous chunk is abandoned.
func (ba *BumpAllocator) grow() {
	ba.cur = heapBytes(ba.chunkSize)
	ba.chunks = append(ba.chunks, ba.cur)
	ba.endBlocks = 0
	logger.Debug("alloc: bump new chunk", "chunks", len(ba.chunks), "chunk_size", ba.chunkSize)
}

// Free is a no-op. Memory is reclaimed by Reset.
func (ba *BumpAllocator) Free([]byte) {}

// Reset drops every chunk. Buffers handed out earlier stay valid for their
// holders but are no longer accounted for.
func (ba *BumpAllocator) Reset() {
	ba.chunks = nil
	ba.cur = nil
	ba.endBlocks = 0
	ba.allocated = 0
}

// Close releases the arena.
func (ba *BumpAllocator) Close() {
	ba.Reset()
}

// Chunks returns the number of chunks allocated since the last Reset.
func (ba *BumpAllocator) Chunks() int {
	return len(ba.chunks)
}

// Allocated returns the bytes handed out since the last Reset, including
// alignment padding.
func (ba *BumpAllocator) Allocated() int {
	return ba.allocated
}
