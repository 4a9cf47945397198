package vector

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/joshuapare/trivec/alloc"
	"github.com/joshuapare/trivec/internal/contract"
	"github.com/joshuapare/trivec/internal/rawvec"
)

// Options configures a Vector.
type Options struct {
	// Allocator supplies element storage.
	// Default: alloc.Default (Go heap).
	Allocator alloc.Allocator
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{Allocator: alloc.Default}
}

func allocatorOf(opts []Options) alloc.Allocator {
	if len(opts) > 0 && opts[0].Allocator != nil {
		return opts[0].Allocator
	}
	return alloc.Default
}

// Vector is a growable array of trivially-copyable T. The zero value is an
// empty vector backed by alloc.Default.
type Vector[T any] struct {
	raw rawvec.Raw

	// items views the whole capacity. Rebuilt by sync after every call that
	// may replace the buffer.
	items []T
}

// New returns an empty vector. Nothing is allocated until the first growth.
func New[T any](opts ...Options) *Vector[T] {
	mustBeTrivial[T]()
	return &Vector[T]{raw: rawvec.New(allocatorOf(opts))}
}

// NewWithSize returns a vector holding count zero values, with capacity count.
func NewWithSize[T any](count int, opts ...Options) (*Vector[T], error) {
	var zero T
	return NewFilled(count, zero, opts...)
}

// NewFilled returns a vector holding count copies of proto, with capacity count.
func NewFilled[T any](count int, proto T, opts ...Options) (*Vector[T], error) {
	mustBeTrivial[T]()
	raw, err := rawvec.NewSized(sizeof[T](), count, allocatorOf(opts))
	if err != nil {
		return nil, err
	}
	v := &Vector[T]{raw: raw}
	v.sync()
	for i := range count {
		v.items[i] = proto
	}
	return v, nil
}

func (v *Vector[T]) sync() {
	n := v.raw.Cap()
	size := sizeof[T]()
	if size == 0 {
		v.items = make([]T, n)
		return
	}
	b := v.raw.Bytes(size)
	if b == nil {
		v.items = nil
		return
	}
	v.items = unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b))), n)
}

// ensure makes room for target items and sets Len to target.
func (v *Vector[T]) ensure(target int) error {
	grows := target > v.raw.Cap()
	if grows && v.raw.Cap() == 0 {
		mustBeTrivial[T]()
	}
	if _, err := v.raw.EnsureCapacityForSize(target, sizeof[T]()); err != nil {
		return err
	}
	if grows {
		v.sync()
	}
	return nil
}

// Len returns the number of elements.
func (v *Vector[T]) Len() int { return v.raw.Len() }

// Cap returns the number of elements the buffer holds without reallocating.
func (v *Vector[T]) Cap() int { return v.raw.Cap() }

// Empty reports whether Len is 0.
func (v *Vector[T]) Empty() bool { return v.raw.Len() == 0 }

// Allocator returns the allocator backing the vector.
func (v *Vector[T]) Allocator() alloc.Allocator { return v.raw.Allocator() }

// Allocated returns the buffer size in bytes.
func (v *Vector[T]) Allocated() int { return v.raw.Cap() * sizeof[T]() }

// Reallocs returns how many times the buffer has been replaced.
func (v *Vector[T]) Reallocs() int { return v.raw.Reallocs() }

// Data returns the live elements. The slice aliases the vector's storage.
func (v *Vector[T]) Data() []T { return v.items[:v.raw.Len()] }

// At returns element i.
func (v *Vector[T]) At(i int) T {
	contract.Index("At", i, v.raw.Len())
	return v.items[i]
}

// Ref returns a pointer to element i.
func (v *Vector[T]) Ref(i int) *T {
	contract.Index("Ref", i, v.raw.Len())
	return &v.items[i]
}

// Set overwrites element i.
func (v *Vector[T]) Set(i int, x T) {
	contract.Index("Set", i, v.raw.Len())
	v.items[i] = x
}

// Front returns the first element.
func (v *Vector[T]) Front() T {
	contract.NotEmpty("Front", v.raw.Len())
	return v.items[0]
}

// Back returns the last element.
func (v *Vector[T]) Back() T {
	contract.NotEmpty("Back", v.raw.Len())
	return v.items[v.raw.Len()-1]
}

// PushBack appends x.
func (v *Vector[T]) PushBack(x T) error {
	n := v.raw.Len()
	if err := v.ensure(n + 1); err != nil {
		return err
	}
	v.items[n] = x
	return nil
}

// Append appends vals in order. vals may alias the vector's own storage.
func (v *Vector[T]) Append(vals ...T) error {
	if len(vals) == 0 {
		return nil
	}
	n := v.raw.Len()
	if n+len(vals) > v.raw.Cap() && v.overlaps(vals) {
		vals = append([]T(nil), vals...)
	}
	if err := v.ensure(n + len(vals)); err != nil {
		return err
	}
	copy(v.items[n:], vals)
	return nil
}

func (v *Vector[T]) overlaps(vals []T) bool {
	if len(v.items) == 0 || sizeof[T]() == 0 {
		return false
	}
	lo := uintptr(unsafe.Pointer(unsafe.SliceData(v.items)))
	hi := lo + uintptr(len(v.items)*sizeof[T]())
	p := uintptr(unsafe.Pointer(unsafe.SliceData(vals)))
	return p >= lo && p < hi
}

// EmplaceBack appends a zero value and returns a pointer to it. The pointer
// is valid until the next reallocating call.
func (v *Vector[T]) EmplaceBack() (*T, error) {
	n := v.raw.Len()
	if err := v.ensure(n + 1); err != nil {
		return nil, err
	}
	var zero T
	v.items[n] = zero
	return &v.items[n], nil
}

// PopBack removes the last element. Capacity is kept.
//
// The vector must not be empty. Debug builds panic with ErrPrecondition;
// release builds leave an empty vector as it is.
func (v *Vector[T]) PopBack() {
	n := v.raw.Len()
	contract.NotEmpty("PopBack", n)
	if n == 0 {
		return
	}
	v.raw.SetLen(n - 1)
}

// Insert places x at pos, shifting later elements right, and returns pos.
// pos may equal Len.
func (v *Vector[T]) Insert(pos int, x T) (int, error) {
	n := v.raw.Len()
	contract.Position("Insert", pos, n)
	if err := v.ensure(n + 1); err != nil {
		return pos, err
	}
	copy(v.items[pos+1:n+1], v.items[pos:n])
	v.items[pos] = x
	return pos, nil
}

// Erase removes element pos and returns the index of the element that
// followed it.
func (v *Vector[T]) Erase(pos int) int {
	n := v.raw.Len()
	contract.Index("Erase", pos, n)
	copy(v.items[pos:n-1], v.items[pos+1:n])
	v.raw.SetLen(n - 1)
	return pos
}

// EraseRange removes elements [first, last) and returns first.
func (v *Vector[T]) EraseRange(first, last int) int {
	n := v.raw.Len()
	contract.Range("EraseRange", first, last, n)
	copy(v.items[first:n], v.items[last:n])
	v.raw.SetLen(n - (last - first))
	return first
}

// Clear removes every element. Capacity is kept.
func (v *Vector[T]) Clear() { v.raw.SetLen(0) }

// Resize sets Len to count, zero-filling new elements.
func (v *Vector[T]) Resize(count int) error {
	var zero T
	return v.ResizeFilled(count, zero)
}

// ResizeFilled sets Len to count. Elements past the old length become x.
// Growing past Cap uses the regular growth policy.
func (v *Vector[T]) ResizeFilled(count int, x T) error {
	if count < 0 {
		return ErrNegativeCount
	}
	n := v.raw.Len()
	if err := v.ensure(count); err != nil {
		return err
	}
	for i := n; i < count; i++ {
		v.items[i] = x
	}
	return nil
}

// Reserve sets the capacity to exactly n. It is not a minimum: a smaller n
// shrinks the buffer, and n below Len drops the trailing elements.
func (v *Vector[T]) Reserve(n int) error {
	if n > 0 && v.raw.Cap() == 0 {
		mustBeTrivial[T]()
	}
	err := v.raw.SetCapacity(n, sizeof[T]())
	v.sync()
	return err
}

// ShrinkToFit sets the capacity to Len.
func (v *Vector[T]) ShrinkToFit() error {
	err := v.raw.SetCapacity(v.raw.Len(), sizeof[T]())
	v.sync()
	return err
}

// Swap exchanges the contents and allocators of v and other.
func (v *Vector[T]) Swap(other *Vector[T]) {
	v.raw.Swap(&other.raw)
	v.items, other.items = other.items, v.items
}

// Clone returns an independent copy with capacity Len, using the same
// allocator.
func (v *Vector[T]) Clone() (*Vector[T], error) {
	raw, err := v.raw.Clone(sizeof[T]())
	if err != nil {
		return nil, err
	}
	c := &Vector[T]{raw: raw}
	c.sync()
	return c, nil
}

// CopyFrom replaces the contents of v with a copy of src. v keeps its
// allocator and reuses its buffer when it is large enough.
func (v *Vector[T]) CopyFrom(src *Vector[T]) error {
	err := v.raw.CopyFrom(&src.raw, sizeof[T]())
	v.sync()
	return err
}

// Move transfers the buffer of v to a new vector. v is left empty and keeps
// its allocator.
func (v *Vector[T]) Move() *Vector[T] {
	m := &Vector[T]{raw: v.raw.Take(), items: v.items}
	v.items = nil
	return m
}

// MoveFrom releases the buffer of v and takes over src's buffer and
// allocator. src is left empty as after Move.
func (v *Vector[T]) MoveFrom(src *Vector[T]) {
	if v == src {
		return
	}
	v.raw.MoveFrom(&src.raw)
	v.items = src.items
	src.items = nil
}

// Close returns the buffer to the allocator. The vector stays usable and
// empty.
func (v *Vector[T]) Close() {
	v.raw.Release()
	v.items = nil
}

const stringLimit = 32

// String describes the vector and its first elements.
func (v *Vector[T]) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Vector[%T]:Len=%d;Cap=%d;Allocated=%d[Bytes]", *new(T), v.Len(), v.Cap(), v.Allocated())
	data := v.Data()
	if len(data) == 0 {
		return sb.String()
	}
	sb.WriteString(" [")
	for i, x := range data {
		if i == stringLimit {
			fmt.Fprintf(&sb, " ...%d more", len(data)-i)
			break
		}
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprint(&sb, x)
	}
	sb.WriteByte(']')
	return sb.String()
}
