package vector

import "iter"

// All yields index/value pairs from front to back.
func (v *Vector[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < v.raw.Len(); i++ {
			if !yield(i, v.items[i]) {
				return
			}
		}
	}
}

// Values yields the elements from front to back.
func (v *Vector[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; i < v.raw.Len(); i++ {
			if !yield(v.items[i]) {
				return
			}
		}
	}
}

// Backward yields index/value pairs from back to front.
func (v *Vector[T]) Backward() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := v.raw.Len() - 1; i >= 0; i-- {
			if !yield(i, v.items[i]) {
				return
			}
		}
	}
}
