package vector

import (
	"cmp"
	"slices"
	"sort"
)

// Sequence is the random-access container the sorted-insertion helpers work
// on. *Vector[T] and SliceSeq[T] implement it.
type Sequence[T any] interface {
	Len() int
	At(i int) T
	Insert(pos int, v T) (int, error)
	PushBack(v T) error
}

var (
	_ Sequence[int] = (*Vector[int])(nil)
	_ Sequence[int] = SliceSeq[int]{}
)

// lowerBound returns the first position whose element is not less than item.
func lowerBound[T any](s Sequence[T], item T, less func(a, b T) bool) int {
	return sort.Search(s.Len(), func(i int) bool {
		return !less(s.At(i), item)
	})
}

// InsertSorted inserts item into s, which must be sorted ascending, before
// any elements equal to it. It returns the insertion index.
func InsertSorted[T cmp.Ordered](s Sequence[T], item T) (int, error) {
	return InsertSortedFunc(s, item, cmp.Less[T])
}

// InsertSortedFunc is InsertSorted with a caller-supplied strict ordering.
func InsertSortedFunc[T any](s Sequence[T], item T, less func(a, b T) bool) (int, error) {
	return s.Insert(lowerBound(s, item, less), item)
}

// InsertSortedUnique inserts item into s, which must be sorted ascending,
// unless an equal element is already present. It reports whether item was
// inserted.
func InsertSortedUnique[T cmp.Ordered](s Sequence[T], item T) (bool, error) {
	return InsertSortedUniqueFunc(s, item, cmp.Less[T])
}

// InsertSortedUniqueFunc is InsertSortedUnique with a caller-supplied strict
// ordering. Two elements are equal when neither is less than the other.
//
// Items larger than the current last element are appended without a search.
func InsertSortedUniqueFunc[T any](s Sequence[T], item T, less func(a, b T) bool) (bool, error) {
	n := s.Len()
	if n == 0 || less(s.At(n-1), item) {
		if err := s.PushBack(item); err != nil {
			return false, err
		}
		return true, nil
	}
	pos := lowerBound(s, item, less)
	if pos < n && !less(item, s.At(pos)) {
		return false, nil
	}
	if _, err := s.Insert(pos, item); err != nil {
		return false, err
	}
	return true, nil
}

// SliceSeq adapts a Go slice to Sequence. Insertions go through the pointer,
// so the caller's slice variable sees them.
type SliceSeq[T any] struct {
	p *[]T
}

// OfSlice returns a Sequence over *p.
func OfSlice[T any](p *[]T) SliceSeq[T] {
	return SliceSeq[T]{p: p}
}

func (s SliceSeq[T]) Len() int { return len(*s.p) }

func (s SliceSeq[T]) At(i int) T { return (*s.p)[i] }

func (s SliceSeq[T]) Insert(pos int, v T) (int, error) {
	*s.p = slices.Insert(*s.p, pos, v)
	return pos, nil
}

func (s SliceSeq[T]) PushBack(v T) error {
	*s.p = append(*s.p, v)
	return nil
}
