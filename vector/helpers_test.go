package vector

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/trivec/alloc"
)

// trackingAllocator counts live buffers so tests can detect leaks and double frees.
type trackingAllocator struct {
	mu     sync.Mutex
	live   map[*byte]int
	allocs int
	frees  int
	fail   bool

	// largest is the biggest size ever requested, failed requests included.
	largest int
}

var errInjected = errors.New("injected allocation failure")

func newTrackingAllocator() *trackingAllocator {
	return &trackingAllocator{live: make(map[*byte]int)}
}

func (a *trackingAllocator) Alloc(size int) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.largest = max(a.largest, size)
	if a.fail {
		return nil, errInjected
	}
	if size == 0 {
		return nil, nil
	}
	b, err := alloc.Default.Alloc(size)
	if err != nil {
		return nil, err
	}
	a.live[&b[0]] = size
	a.allocs++
	return b, nil
}

func (a *trackingAllocator) Free(b []byte) {
	if len(b) == 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.live[&b[0]]; !ok {
		panic("free of unknown buffer")
	}
	delete(a.live, &b[0])
	a.frees++
}

func (a *trackingAllocator) requireNoLeaks(t *testing.T) {
	t.Helper()
	a.mu.Lock()
	defer a.mu.Unlock()
	require.Empty(t, a.live, "leaked buffers")
	require.Equal(t, a.allocs, a.frees)
}

func requirePanicIs(t *testing.T, target error, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
		require.ErrorIs(t, err, target)
	}()
	fn()
}

func vectorOf[T any](t *testing.T, opts Options, vals ...T) *Vector[T] {
	t.Helper()
	v := New[T](opts)
	require.NoError(t, v.Append(vals...))
	return v
}

func typeOf[T any]() reflect.Type { return reflect.TypeFor[T]() }
