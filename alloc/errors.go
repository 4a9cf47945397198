package alloc

import "errors"

var (
	// ErrNegativeSize indicates a request for a negative number of bytes.
	ErrNegativeSize = errors.New("alloc: negative size")

	// ErrOutOfMemory indicates that the memory source could not satisfy a request.
	ErrOutOfMemory = errors.New("alloc: out of memory")

	// ErrShortBuffer indicates an allocator returned fewer bytes than requested.
	ErrShortBuffer = errors.New("alloc: allocator returned a short buffer")
)
