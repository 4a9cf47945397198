//go:build windows

package mmfile

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Map maps the file at path into memory and returns its contents.
func Map(path string) ([]byte, func() error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, func() error { return nil }, err
	}
	return data, func() error { return nil }, nil
}

// PageSize reports the allocation granularity used for anonymous mappings.
func PageSize() int { return os.Getpagesize() }

// Anon reserves and commits at least size bytes of zeroed read-write memory.
func Anon(size int) ([]byte, error) {
	if size <= 0 {
		return nil, nil
	}
	length := roundToPage(size, PageSize())
	addr, err := windows.VirtualAlloc(0, uintptr(length),
		windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_READWRITE)
	if err != nil {
		return nil, fmt.Errorf("mmfile: VirtualAlloc %d bytes: %w", length, err)
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(addr)), length)
	return b[:size], nil
}

// Release frees memory returned by Anon.
func Release(b []byte) error {
	if cap(b) == 0 {
		return nil
	}
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(b)))
	if err := windows.VirtualFree(addr, 0, windows.MEM_RELEASE); err != nil {
		return fmt.Errorf("mmfile: VirtualFree: %w", err)
	}
	return nil
}
