// Package mmfile provides platform-specific memory mapping: read-only file
// mappings for loading serialized vectors, and anonymous read-write mappings
// that back alloc.MmapAllocator.
//
// Anonymous mappings are page-rounded. The slice returned by Anon has the
// requested length and the full mapping as its capacity; pass the same slice
// (or any reslice with the same capacity) to Release.
package mmfile

import "errors"

// ErrNotMapped is returned by Release for a slice that Anon did not produce.
var ErrNotMapped = errors.New("mmfile: not an anonymous mapping")

func roundToPage(size, page int) int {
	return (size + page - 1) / page * page
}
