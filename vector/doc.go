// Package vector provides Vector[T], a growable array of trivially-copyable
// elements whose storage comes from a pluggable alloc.Allocator.
//
// # Overview
//
// Vector keeps its elements in one contiguous buffer owned by an untyped
// storage engine. Growth follows a single policy: when n items no longer fit,
// the capacity becomes (n*3+1)/2. Clear keeps the buffer; only Reserve,
// ShrinkToFit and Close give memory back.
//
//	v := vector.New[uint32]()
//	defer v.Close()
//
//	for i := range 10 {
//	    if err := v.PushBack(uint32(i)); err != nil {
//	        return err
//	    }
//	}
//	for i, x := range v.All() {
//	    fmt.Println(i, x)
//	}
//
// # Element Types
//
// T must be trivially copyable: a bool, number, or an array or struct made
// only of those. Pointers, strings, slices, maps, channels, functions and
// interfaces are rejected because the buffer may live outside the Go heap.
// Constructing a Vector of such a type panics with ErrNotTriviallyCopyable.
//
// # Ownership
//
// A Vector exclusively owns its buffer. Clone and CopyFrom produce independent
// storage; Move and MoveFrom transfer the buffer and leave the source empty
// but usable. Close returns the buffer to the allocator and must be called for
// allocators that do not rely on the garbage collector (mmap, pools).
//
// # Preconditions
//
// At, Ref, Set, Front, Back, PopBack, Insert, Erase and EraseRange trust their
// arguments. Ordinary builds do not check them beyond Go's own bounds checks
// against the buffer capacity, so memory safety holds but a bad index within
// capacity reads stale data. Building with -tags trivecdebug makes every
// violated precondition panic with an error wrapping ErrPrecondition.
//
// # Invalidation
//
// Slices from Data, pointers from Ref and EmplaceBack, and iterators are
// invalidated by any operation that may reallocate: PushBack, Append,
// EmplaceBack, Insert, Resize, Reserve, ShrinkToFit, Swap, MoveFrom, Close.
// Erase and Clear keep the buffer but shorten the valid range.
//
// # Thread Safety
//
// Vector is not safe for concurrent mutation. Callers must serialize access.
package vector
