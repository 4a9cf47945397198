// Package rawvec is the untyped storage engine behind vector.Vector.
//
// A Raw owns one byte buffer obtained from an alloc.Allocator and tracks an
// item count and a capacity, both in items. The item size is never stored: the
// typed layer passes it to every call that touches memory.
package rawvec

import (
	"errors"
	"fmt"

	"github.com/joshuapare/trivec/alloc"
	"github.com/joshuapare/trivec/internal/buf"
	"github.com/joshuapare/trivec/internal/logger"
)

var (
	// ErrCapacityOverflow indicates a capacity whose growth formula or byte size
	// does not fit in an int.
	ErrCapacityOverflow = errors.New("rawvec: capacity overflow")

	// ErrNegativeCount indicates a negative item count or item size.
	ErrNegativeCount = errors.New("rawvec: negative count")
)

// Raw is the storage engine state. The zero value is an empty engine using
// alloc.Default.
//
// Invariants: count <= capacity, and buf is nil whenever capacity*itemSize is 0.
type Raw struct {
	buf      []byte
	count    int
	capacity int
	alloc    alloc.Allocator
	reallocs int
}

// New returns an empty engine. Nothing is allocated.
func New(a alloc.Allocator) Raw {
	return Raw{alloc: a}
}

// NewSized returns an engine holding exactly count items with capacity count.
// The items are whatever the allocator returned (zeroed for every allocator in
// package alloc).
func NewSized(itemSize, count int, a alloc.Allocator) (Raw, error) {
	r := New(a)
	if count < 0 {
		return Raw{}, ErrNegativeCount
	}
	if err := r.SetCapacity(count, itemSize); err != nil {
		return Raw{}, err
	}
	r.count = count
	return r, nil
}

// Allocator returns the allocator, resolving nil to alloc.Default.
func (r *Raw) Allocator() alloc.Allocator {
	if r.alloc == nil {
		return alloc.Default
	}
	return r.alloc
}

// Len returns the item count.
func (r *Raw) Len() int { return r.count }

// Cap returns the capacity in items.
func (r *Raw) Cap() int { return r.capacity }

// Reallocs returns how many times the buffer has been replaced.
func (r *Raw) Reallocs() int { return r.reallocs }

// SetLen sets the item count. The caller guarantees 0 <= n <= Cap().
func (r *Raw) SetLen(n int) { r.count = n }

// Bytes returns the whole buffer, capacity*itemSize bytes long. It is nil
// for an engine that holds no memory.
func (r *Raw) Bytes(itemSize int) []byte {
	if r.buf == nil {
		return nil
	}
	return r.buf[:r.capacity*itemSize]
}

// NextCapacity returns the capacity chosen when target items do not fit:
// (target*3 + 1) / 2, about 1.5x rounded up.
func NextCapacity(target int) (int, error) {
	if target < 0 {
		return 0, ErrNegativeCount
	}
	t3, ok := buf.MulOverflowSafe(target, 3)
	if !ok {
		return 0, fmt.Errorf("%w: grow to %d items", ErrCapacityOverflow, target)
	}
	t3, ok = buf.AddOverflowSafe(t3, 1)
	if !ok {
		return 0, fmt.Errorf("%w: grow to %d items", ErrCapacityOverflow, target)
	}
	return t3 / 2, nil
}

// EnsureCapacityForSize makes room for target items, growing the buffer when
// Cap() < target, then sets the count to target. It returns the byte offset
// of the previous logical end, where newly added items go.
func (r *Raw) EnsureCapacityForSize(target, itemSize int) (int, error) {
	if r.capacity < target {
		if err := r.grow(target, itemSize); err != nil {
			return 0, err
		}
	}
	offset := r.count * itemSize
	r.count = target
	return offset, nil
}

func (r *Raw) grow(target, itemSize int) error {
	n, err := NextCapacity(target)
	if err != nil {
		return err
	}
	return r.SetCapacity(n, itemSize)
}

// SetCapacity replaces the buffer with one of exactly n items, copying the
// first min(Len(), n) items. It is a no-op when n == Cap(). A count above n is
// truncated to n; n == 0 frees the buffer.
func (r *Raw) SetCapacity(n, itemSize int) error {
	if n == r.capacity {
		return nil
	}
	if n < 0 || itemSize < 0 {
		return ErrNegativeCount
	}
	size, err := buf.ByteSize(n, itemSize)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCapacityOverflow, err)
	}

	var next []byte
	if size > 0 {
		next, err = r.Allocator().Alloc(size)
		if err != nil {
			return fmt.Errorf("rawvec: allocate %d bytes: %w", size, err)
		}
		if len(next) < size {
			r.Allocator().Free(next)
			return fmt.Errorf("rawvec: allocate %d bytes: %w", size, alloc.ErrShortBuffer)
		}
	}

	keep := min(r.count, n)
	if keep > 0 && itemSize > 0 {
		copy(next, r.buf[:keep*itemSize])
	}

	logger.Debug("rawvec: set capacity",
		"from", r.capacity, "to", n, "item_size", itemSize, "count", r.count)

	r.Allocator().Free(r.buf)
	r.buf = next
	r.capacity = n
	r.count = keep
	r.reallocs++
	return nil
}

// Swap exchanges the complete state of r and other.
func (r *Raw) Swap(other *Raw) {
	*r, *other = *other, *r
}

// Clone returns an independent copy holding the same items, with capacity
// equal to Len(), allocated from the same allocator.
func (r *Raw) Clone(itemSize int) (Raw, error) {
	c := New(r.alloc)
	if err := c.SetCapacity(r.count, itemSize); err != nil {
		return Raw{}, err
	}
	copy(c.buf, r.buf[:r.count*itemSize])
	c.count = r.count
	c.reallocs = 0
	return c, nil
}

// CopyFrom replaces the items of r with a copy of src's items. The buffer of
// r is reused when it is large enough. r keeps its own allocator.
func (r *Raw) CopyFrom(src *Raw, itemSize int) error {
	if r == src {
		return nil
	}
	if r.capacity < src.count {
		// Nothing of r survives the copy, so SetCapacity need not move it.
		// The count is restored when the allocation fails.
		n := r.count
		r.count = 0
		if err := r.SetCapacity(src.count, itemSize); err != nil {
			r.count = n
			return err
		}
	}
	copy(r.buf, src.buf[:src.count*itemSize])
	r.count = src.count
	return nil
}

// Take moves the buffer out of r into the returned engine. r is left empty,
// holding no memory, but keeps its allocator so it can be reused.
func (r *Raw) Take() Raw {
	moved := Raw{
		buf:      r.buf,
		count:    r.count,
		capacity: r.capacity,
		alloc:    r.alloc,
	}
	r.buf = nil
	r.count = 0
	r.capacity = 0
	return moved
}

// MoveFrom releases the memory of r and takes over src's buffer. src is left
// empty as after Take.
func (r *Raw) MoveFrom(src *Raw) {
	if r == src {
		return
	}
	r.Release()
	*r = src.Take()
}

// Release frees the buffer through the allocator and leaves r empty. It is
// safe to call on an empty engine.
func (r *Raw) Release() {
	if r.buf != nil {
		r.Allocator().Free(r.buf)
	}
	r.buf = nil
	r.count = 0
	r.capacity = 0
}
