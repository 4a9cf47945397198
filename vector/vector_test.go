package vector

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/trivec/alloc"
)

type point struct {
	X, Y int32
	Tag  [4]byte
}

func TestNew_Empty(t *testing.T) {
	v := New[uint32]()
	defer v.Close()

	assert.Equal(t, 0, v.Len())
	assert.Equal(t, 0, v.Cap())
	assert.True(t, v.Empty())
	assert.Empty(t, v.Data())
	assert.Equal(t, 0, v.Allocated())
	assert.Equal(t, alloc.Default, v.Allocator())
}

func TestZeroValue(t *testing.T) {
	var v Vector[int64]
	require.NoError(t, v.PushBack(-1))
	require.NoError(t, v.PushBack(2))

	assert.Equal(t, []int64{-1, 2}, v.Data())
	assert.Equal(t, alloc.Default, v.Allocator())
	v.Close()
	assert.Equal(t, 0, v.Cap())
}

func TestNewWithSize(t *testing.T) {
	v, err := NewWithSize[point](4)
	require.NoError(t, err)
	defer v.Close()

	assert.Equal(t, 4, v.Len())
	assert.Equal(t, 4, v.Cap())
	for p := range v.Values() {
		assert.Equal(t, point{}, p)
	}
}

func TestNewFilled(t *testing.T) {
	a := newTrackingAllocator()
	v, err := NewFilled(3, uint16(7), Options{Allocator: a})
	require.NoError(t, err)

	assert.Equal(t, []uint16{7, 7, 7}, v.Data())
	assert.Equal(t, 3, v.Cap())
	assert.Equal(t, 6, v.Allocated())
	assert.Same(t, a, v.Allocator())

	v.Close()
	a.requireNoLeaks(t)
}

func TestNewFilled_Zero(t *testing.T) {
	a := newTrackingAllocator()
	v, err := NewFilled(0, 1.5, Options{Allocator: a})
	require.NoError(t, err)

	assert.True(t, v.Empty())
	assert.Equal(t, 0, v.Cap())
	assert.Equal(t, 0, a.allocs)
}

func TestNewFilled_Negative(t *testing.T) {
	_, err := NewFilled(-1, 0)
	require.ErrorIs(t, err, ErrNegativeCount)
}

func TestNew_RejectsPointerTypes(t *testing.T) {
	t.Run("pointer", func(t *testing.T) {
		requirePanicIs(t, ErrNotTriviallyCopyable, func() { New[*int]() })
	})
	t.Run("string", func(t *testing.T) {
		requirePanicIs(t, ErrNotTriviallyCopyable, func() { New[string]() })
	})
	t.Run("slice", func(t *testing.T) {
		requirePanicIs(t, ErrNotTriviallyCopyable, func() { _, _ = NewWithSize[[]byte](1) })
	})
	t.Run("interface", func(t *testing.T) {
		requirePanicIs(t, ErrNotTriviallyCopyable, func() { New[any]() })
	})
	t.Run("nested struct", func(t *testing.T) {
		type inner struct{ m map[int]int }
		type outer struct {
			n  int
			in [2]inner
		}
		requirePanicIs(t, ErrNotTriviallyCopyable, func() { New[outer]() })
	})
	t.Run("zero value push", func(t *testing.T) {
		var v Vector[chan int]
		requirePanicIs(t, ErrNotTriviallyCopyable, func() { _ = v.PushBack(nil) })
	})
}

func TestIsTriviallyCopyable(t *testing.T) {
	assert.True(t, isTriviallyCopyable(typeOf[int8]()))
	assert.True(t, isTriviallyCopyable(typeOf[complex128]()))
	assert.True(t, isTriviallyCopyable(typeOf[point]()))
	assert.True(t, isTriviallyCopyable(typeOf[[0]*int]()))
	assert.True(t, isTriviallyCopyable(typeOf[struct{}]()))
	assert.False(t, isTriviallyCopyable(typeOf[[1]*int]()))
	assert.False(t, isTriviallyCopyable(typeOf[func()]()))
	assert.False(t, isTriviallyCopyable(typeOf[struct{ s string }]()))
}

func TestPushBack_GrowthSequence(t *testing.T) {
	v := New[uint64]()
	defer v.Close()

	var caps []int
	prev := 0
	for i := range 100 {
		require.NoError(t, v.PushBack(uint64(i)))
		if v.Cap() != prev {
			n := v.Len()
			assert.Equal(t, (n*3+1)/2, v.Cap(), "capacity after growing to %d items", n)
			caps = append(caps, v.Cap())
			prev = v.Cap()
		}
	}

	assert.Equal(t, []int{2, 5, 9, 15, 24, 38, 59, 90, 137}, caps)
	assert.Equal(t, len(caps), v.Reallocs())
	for i, x := range v.All() {
		assert.Equal(t, uint64(i), x)
	}
}

func TestAppend(t *testing.T) {
	v := vectorOf[int32](t, Options{}, 1, 2)
	defer v.Close()

	require.NoError(t, v.Append())
	require.NoError(t, v.Append(3, 4, 5))
	assert.Equal(t, []int32{1, 2, 3, 4, 5}, v.Data())
}

func TestAppend_SelfAlias(t *testing.T) {
	a := newTrackingAllocator()
	v := vectorOf[int32](t, Options{Allocator: a}, 1, 2)
	require.Equal(t, 3, v.Cap())

	// fits: no reallocation
	require.NoError(t, v.Append(v.Data()[:1]...))
	assert.Equal(t, []int32{1, 2, 1}, v.Data())

	// grows: the source is the buffer being replaced
	require.NoError(t, v.Append(v.Data()...))
	assert.Equal(t, []int32{1, 2, 1, 1, 2, 1}, v.Data())

	v.Close()
	a.requireNoLeaks(t)
}

func TestEmplaceBack(t *testing.T) {
	v := vectorOf(t, Options{}, point{X: 1})
	defer v.Close()

	p, err := v.EmplaceBack()
	require.NoError(t, err)
	assert.Equal(t, point{}, *p)
	p.X, p.Y = 5, 6

	assert.Equal(t, 2, v.Len())
	assert.Equal(t, point{X: 5, Y: 6}, v.Back())
}

func TestEmplaceBack_ClearsStaleSlot(t *testing.T) {
	v := vectorOf[uint8](t, Options{}, 1, 2, 3)
	defer v.Close()

	v.PopBack()
	p, err := v.EmplaceBack()
	require.NoError(t, err)
	assert.Equal(t, uint8(0), *p)
}

func TestAccessors(t *testing.T) {
	v := vectorOf[int](t, Options{}, 10, 20, 30)
	defer v.Close()

	assert.Equal(t, 10, v.Front())
	assert.Equal(t, 30, v.Back())
	assert.Equal(t, 20, v.At(1))

	v.Set(1, 21)
	*v.Ref(2) = 31
	assert.Equal(t, []int{10, 21, 31}, v.Data())

	v.Data()[0] = 11
	assert.Equal(t, 11, v.Front())
}

func TestPopBack_KeepsCapacity(t *testing.T) {
	v := vectorOf[int](t, Options{}, 1, 2, 3)
	defer v.Close()
	c := v.Cap()

	v.PopBack()
	v.PopBack()
	assert.Equal(t, []int{1}, v.Data())
	assert.Equal(t, c, v.Cap())
}

func TestInsert(t *testing.T) {
	tests := []struct {
		name string
		pos  int
		want []int
	}{
		{"front", 0, []int{9, 1, 2, 3}},
		{"middle", 2, []int{1, 2, 9, 3}},
		{"end", 3, []int{1, 2, 3, 9}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := vectorOf[int](t, Options{}, 1, 2, 3)
			defer v.Close()

			idx, err := v.Insert(tt.pos, 9)
			require.NoError(t, err)
			assert.Equal(t, tt.pos, idx)
			assert.Equal(t, tt.want, v.Data())
			assert.Equal(t, 9, v.At(idx))
		})
	}
}

func TestInsert_Reallocates(t *testing.T) {
	v, err := NewFilled(4, int16(1))
	require.NoError(t, err)
	defer v.Close()
	require.Equal(t, v.Len(), v.Cap())

	idx, err := v.Insert(1, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Equal(t, int16(5), v.At(idx))
	assert.Equal(t, []int16{1, 5, 1, 1, 1}, v.Data())
	assert.Equal(t, 8, v.Cap())
}

func TestInsert_IntoEmpty(t *testing.T) {
	v := New[float64]()
	defer v.Close()

	idx, err := v.Insert(0, 2.5)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
	assert.Equal(t, []float64{2.5}, v.Data())
}

func TestErase(t *testing.T) {
	v := vectorOf[int](t, Options{}, 1, 2, 3, 4, 5)
	defer v.Close()
	c := v.Cap()

	assert.Equal(t, 0, v.Erase(0))
	assert.Equal(t, []int{2, 3, 4, 5}, v.Data())
	assert.Equal(t, 3, v.Erase(3))
	assert.Equal(t, []int{2, 3, 4}, v.Data())
	assert.Equal(t, 1, v.Erase(1))
	assert.Equal(t, []int{2, 4}, v.Data())
	assert.Equal(t, c, v.Cap())
}

func TestEraseRange(t *testing.T) {
	v := vectorOf[int](t, Options{}, 1, 2, 3, 4, 5)
	defer v.Close()
	c := v.Cap()

	next := v.EraseRange(1, 3)
	assert.Equal(t, 1, next)
	assert.Equal(t, []int{1, 4, 5}, v.Data())
	assert.Equal(t, 4, v.At(next))
	assert.Equal(t, c, v.Cap())

	assert.Equal(t, 2, v.EraseRange(2, 2))
	assert.Equal(t, []int{1, 4, 5}, v.Data())

	assert.Equal(t, 0, v.EraseRange(0, 3))
	assert.True(t, v.Empty())
	assert.Equal(t, c, v.Cap())
}

func TestClear_KeepsCapacity(t *testing.T) {
	a := newTrackingAllocator()
	v := vectorOf[uint32](t, Options{Allocator: a}, 1, 2, 3)
	c := v.Cap()

	v.Clear()
	assert.True(t, v.Empty())
	assert.Equal(t, c, v.Cap())
	assert.Equal(t, 1, a.allocs)

	require.NoError(t, v.PushBack(4))
	assert.Equal(t, []uint32{4}, v.Data())
	assert.Equal(t, 1, a.allocs)

	v.Close()
	a.requireNoLeaks(t)
}

func TestResize(t *testing.T) {
	v := New[int]()
	defer v.Close()

	require.NoError(t, v.ResizeFilled(3, 7))
	assert.Equal(t, []int{7, 7, 7}, v.Data())

	require.NoError(t, v.Resize(1))
	assert.Equal(t, []int{7}, v.Data())

	require.NoError(t, v.ResizeFilled(3, 9))
	assert.Equal(t, []int{7, 9, 9}, v.Data())

	require.NoError(t, v.Resize(5))
	assert.Equal(t, []int{7, 9, 9, 0, 0}, v.Data())

	require.NoError(t, v.Resize(0))
	assert.True(t, v.Empty())

	require.ErrorIs(t, v.Resize(-1), ErrNegativeCount)
}

func TestReserve(t *testing.T) {
	a := newTrackingAllocator()
	v := vectorOf[int](t, Options{Allocator: a}, 1, 2, 3, 4, 5)

	require.NoError(t, v.Reserve(20))
	assert.Equal(t, 20, v.Cap())
	assert.Equal(t, []int{1, 2, 3, 4, 5}, v.Data())

	// exact, not a minimum
	require.NoError(t, v.Reserve(2))
	assert.Equal(t, 2, v.Cap())
	assert.Equal(t, []int{1, 2}, v.Data())

	require.NoError(t, v.Reserve(0))
	assert.Equal(t, 0, v.Cap())
	assert.True(t, v.Empty())

	v.Close()
	a.requireNoLeaks(t)
}

func TestShrinkToFit(t *testing.T) {
	v := New[uint16]()
	defer v.Close()

	for i := range 10 {
		require.NoError(t, v.PushBack(uint16(i)))
	}
	require.Greater(t, v.Cap(), v.Len())

	require.NoError(t, v.ShrinkToFit())
	assert.Equal(t, 10, v.Cap())
	assert.Equal(t, 20, v.Allocated())
	assert.Equal(t, []uint16{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, v.Data())

	v.Clear()
	require.NoError(t, v.ShrinkToFit())
	assert.Equal(t, 0, v.Cap())
	assert.Equal(t, 0, v.Allocated())
}

func TestSwap(t *testing.T) {
	a1, a2 := newTrackingAllocator(), newTrackingAllocator()
	v1 := vectorOf[int](t, Options{Allocator: a1}, 1, 2)
	v2 := vectorOf[int](t, Options{Allocator: a2}, 3)

	v1.Swap(v2)
	assert.Equal(t, []int{3}, v1.Data())
	assert.Equal(t, []int{1, 2}, v2.Data())
	assert.Same(t, a2, v1.Allocator())
	assert.Same(t, a1, v2.Allocator())

	v1.Close()
	v2.Close()
	a1.requireNoLeaks(t)
	a2.requireNoLeaks(t)
}

func TestClone(t *testing.T) {
	a := newTrackingAllocator()
	v := vectorOf[int](t, Options{Allocator: a}, 1, 2, 3)

	c, err := v.Clone()
	require.NoError(t, err)
	assert.Equal(t, v.Data(), c.Data())
	assert.Equal(t, c.Len(), c.Cap())
	assert.Same(t, a, c.Allocator())

	c.Set(0, 100)
	assert.Equal(t, 1, v.At(0))

	v.Close()
	c.Close()
	a.requireNoLeaks(t)
}

func TestClone_Empty(t *testing.T) {
	v := New[int]()
	require.NoError(t, v.Reserve(8))

	c, err := v.Clone()
	require.NoError(t, err)
	assert.True(t, c.Empty())
	assert.Equal(t, 0, c.Cap())
}

func TestCopyFrom(t *testing.T) {
	a1, a2 := newTrackingAllocator(), newTrackingAllocator()
	src := vectorOf[int](t, Options{Allocator: a1}, 1, 2, 3)
	dst := New[int](Options{Allocator: a2})
	require.NoError(t, dst.Reserve(10))
	reallocs := dst.Reallocs()

	require.NoError(t, dst.CopyFrom(src))
	assert.Equal(t, []int{1, 2, 3}, dst.Data())
	assert.Equal(t, reallocs, dst.Reallocs(), "buffer large enough, reused")
	assert.Same(t, a2, dst.Allocator())

	dst.Set(0, 9)
	assert.Equal(t, 1, src.At(0))

	big, err := NewFilled(50, 4)
	require.NoError(t, err)
	require.NoError(t, dst.CopyFrom(big))
	assert.Equal(t, 50, dst.Len())
	assert.Greater(t, dst.Reallocs(), reallocs)

	require.NoError(t, dst.CopyFrom(dst))
	assert.Equal(t, 50, dst.Len())

	src.Close()
	dst.Close()
	a1.requireNoLeaks(t)
	a2.requireNoLeaks(t)
}

func TestCopyFrom_AllocFailureKeepsContents(t *testing.T) {
	a := newTrackingAllocator()
	dst := vectorOf[int](t, Options{Allocator: a}, 1, 2)
	src, err := NewFilled(10, 4)
	require.NoError(t, err)
	defer src.Close()

	a.fail = true
	err = dst.CopyFrom(src)
	require.ErrorIs(t, err, errInjected)
	assert.Equal(t, []int{1, 2}, dst.Data())
	assert.Equal(t, 1, dst.At(0))

	a.fail = false
	require.NoError(t, dst.CopyFrom(src))
	assert.Equal(t, 10, dst.Len())

	dst.Close()
	a.requireNoLeaks(t)
}

func TestMove(t *testing.T) {
	a := newTrackingAllocator()
	src := vectorOf[int](t, Options{Allocator: a}, 1, 2, 3)

	m := src.Move()
	assert.Equal(t, []int{1, 2, 3}, m.Data())
	assert.Same(t, a, m.Allocator())

	assert.True(t, src.Empty())
	assert.Equal(t, 0, src.Cap())
	assert.Same(t, a, src.Allocator())

	// moved-from vectors stay usable
	require.NoError(t, src.PushBack(4))
	assert.Equal(t, []int{4}, src.Data())

	m.Close()
	src.Close()
	a.requireNoLeaks(t)
}

func TestMoveFrom(t *testing.T) {
	a1, a2 := newTrackingAllocator(), newTrackingAllocator()
	src := vectorOf[int](t, Options{Allocator: a1}, 1, 2)
	dst := vectorOf[int](t, Options{Allocator: a2}, 7, 8, 9)

	dst.MoveFrom(src)
	assert.Equal(t, []int{1, 2}, dst.Data())
	assert.Same(t, a1, dst.Allocator())
	a2.requireNoLeaks(t)

	assert.True(t, src.Empty())
	assert.Equal(t, 0, src.Cap())

	dst.MoveFrom(dst)
	assert.Equal(t, []int{1, 2}, dst.Data())

	dst.Close()
	src.Close()
	a1.requireNoLeaks(t)
}

func TestAllocatorFailure(t *testing.T) {
	a := newTrackingAllocator()
	v := vectorOf[int](t, Options{Allocator: a}, 1, 2)
	require.Equal(t, 3, v.Cap())
	a.fail = true

	require.NoError(t, v.PushBack(3))
	require.ErrorIs(t, v.PushBack(4), errInjected)
	assert.Equal(t, []int{1, 2, 3}, v.Data())

	_, err := v.Insert(0, 0)
	require.ErrorIs(t, err, errInjected)
	assert.Equal(t, []int{1, 2, 3}, v.Data())

	_, err = v.EmplaceBack()
	require.ErrorIs(t, err, errInjected)
	require.ErrorIs(t, v.Append(4, 5), errInjected)
	require.ErrorIs(t, v.Resize(10), errInjected)
	require.ErrorIs(t, v.Reserve(10), errInjected)
	assert.Equal(t, []int{1, 2, 3}, v.Data())

	_, err = v.Clone()
	require.ErrorIs(t, err, errInjected)

	a.fail = false
	v.Close()
	a.requireNoLeaks(t)
}

func TestZeroSizeElements(t *testing.T) {
	a := newTrackingAllocator()
	v := New[struct{}](Options{Allocator: a})

	for range 10 {
		require.NoError(t, v.PushBack(struct{}{}))
	}
	assert.Equal(t, 10, v.Len())
	assert.Equal(t, 0, v.Allocated())
	assert.Equal(t, 0, a.allocs)

	v.Erase(0)
	assert.Equal(t, 9, v.Len())
	v.Close()
}

func TestAllocators(t *testing.T) {
	mmap := alloc.NewMmap()
	metrics, err := alloc.NewMetrics(alloc.NewPool(alloc.SizeClassConfig{}), alloc.MetricsOptions{
		Registerer: prometheus.NewRegistry(),
	})
	require.NoError(t, err)

	allocators := []struct {
		name string
		a    alloc.Allocator
	}{
		{"heap", alloc.Default},
		{"pool", alloc.NewPool(alloc.ConfigFineGrained)},
		{"bump", alloc.NewBump(alloc.BumpOptions{ChunkSize: 256})},
		{"mmap", mmap},
		{"metrics", metrics},
	}

	for _, tt := range allocators {
		t.Run(tt.name, func(t *testing.T) {
			v := New[uint32](Options{Allocator: tt.a})
			for i := range 500 {
				_, err := InsertSortedUnique(v, uint32((i*7919)%1000))
				require.NoError(t, err)
			}
			v.EraseRange(100, 200)
			require.NoError(t, v.ShrinkToFit())

			assert.Equal(t, 400, v.Len())
			for i := 1; i < v.Len(); i++ {
				require.Less(t, v.At(i-1), v.At(i))
			}
			v.Close()
		})
	}

	assert.Zero(t, mmap.Live())
	assert.Zero(t, metrics.InuseBytes())
	assert.Positive(t, metrics.PeakInuseBytes())
}

func TestString(t *testing.T) {
	v := vectorOf[uint8](t, Options{}, 1, 2, 3)
	defer v.Close()

	assert.Equal(t, "Vector[uint8]:Len=3;Cap=5;Allocated=5[Bytes] [1 2 3]", v.String())

	e := New[int32]()
	assert.Equal(t, "Vector[int32]:Len=0;Cap=0;Allocated=0[Bytes]", e.String())

	big, err := NewWithSize[uint8](40)
	require.NoError(t, err)
	assert.Contains(t, big.String(), " ...8 more]")
}
