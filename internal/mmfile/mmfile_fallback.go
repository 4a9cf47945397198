//go:build !unix && !windows

package mmfile

import (
	"os"
	"unsafe"
)

// Map reads the entire file when mmap is not available.
func Map(path string) ([]byte, func() error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, func() error { return nil }, err
	}
	return data, func() error { return nil }, nil
}

// PageSize reports the rounding unit for Anon.
func PageSize() int { return os.Getpagesize() }

// Anon falls back to zeroed, 8-byte aligned heap memory.
func Anon(size int) ([]byte, error) {
	if size <= 0 {
		return nil, nil
	}
	length := roundToPage(size, PageSize())
	words := make([]uint64, length/8)
	b := unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(words))), length)
	return b[:size], nil
}

// Release is a no-op; the garbage collector reclaims fallback memory.
func Release(b []byte) error { return nil }
