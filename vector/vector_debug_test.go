//go:build trivecdebug

package vector

import "testing"

func TestPreconditions_Panic(t *testing.T) {
	tests := []struct {
		name string
		fn   func(v *Vector[int])
	}{
		{"At past end", func(v *Vector[int]) { v.At(3) }},
		{"At negative", func(v *Vector[int]) { v.At(-1) }},
		{"Ref past end", func(v *Vector[int]) { v.Ref(3) }},
		{"Set past end", func(v *Vector[int]) { v.Set(3, 0) }},
		{"Insert past end", func(v *Vector[int]) { _, _ = v.Insert(4, 0) }},
		{"Erase at end", func(v *Vector[int]) { v.Erase(3) }},
		{"EraseRange reversed", func(v *Vector[int]) { v.EraseRange(2, 1) }},
		{"EraseRange past end", func(v *Vector[int]) { v.EraseRange(1, 4) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := vectorOf[int](t, Options{}, 1, 2, 3)
			defer v.Close()
			requirePanicIs(t, ErrPrecondition, func() { tt.fn(v) })
		})
	}

	t.Run("empty", func(t *testing.T) {
		v := New[int]()
		requirePanicIs(t, ErrPrecondition, func() { v.Front() })
		requirePanicIs(t, ErrPrecondition, func() { v.Back() })
		requirePanicIs(t, ErrPrecondition, func() { v.PopBack() })
	})
}
