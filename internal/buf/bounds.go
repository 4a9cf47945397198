// Package buf holds overflow-checked size arithmetic and little-endian helpers
// shared by the storage engine and the vector codec.
package buf

import (
	"fmt"
	"math"
)

// AddOverflowSafe adds a and b, returning ok = false when the result would overflow int.
func AddOverflowSafe(a, b int) (int, bool) {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return 0, false
	case b < 0 && a < math.MinInt-b:
		return 0, false
	default:
		return a + b, true
	}
}

// MulOverflowSafe multiplies two non-negative ints, returning ok = false when the
// product would overflow int or either operand is negative.
func MulOverflowSafe(a, b int) (int, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > math.MaxInt/b {
		return 0, false
	}
	return a * b, true
}

// ByteSize returns count*itemSize, the byte length of count items.
func ByteSize(count, itemSize int) (int, error) {
	if count < 0 {
		return 0, fmt.Errorf("negative count: %d", count)
	}
	if itemSize < 0 {
		return 0, fmt.Errorf("negative item size: %d", itemSize)
	}
	n, ok := MulOverflowSafe(count, itemSize)
	if !ok {
		return 0, fmt.Errorf("overflow: count=%d * itemSize=%d", count, itemSize)
	}
	return n, nil
}

// CheckListBounds validates that count items of itemSize bytes fit in a buffer of
// bufLen bytes starting at offset, and returns the end offset.
//
//	end, err := buf.CheckListBounds(len(data), headerLen, count, itemSize)
//	if err != nil {
//	    return fmt.Errorf("decode: %w", err)
//	}
func CheckListBounds(bufLen, offset, count, itemSize int) (int, error) {
	if offset < 0 {
		return 0, fmt.Errorf("negative offset: %d", offset)
	}
	total, err := ByteSize(count, itemSize)
	if err != nil {
		return 0, err
	}
	end, ok := AddOverflowSafe(offset, total)
	if !ok {
		return 0, fmt.Errorf("overflow: offset=%d + size=%d", offset, total)
	}
	if end > bufLen {
		return 0, fmt.Errorf("bounds: end=%d > len=%d", end, bufLen)
	}
	return end, nil
}

// Slice returns the sub-slice [off:off+n] if it fits within len(b).
func Slice(b []byte, off, n int) ([]byte, bool) {
	if off < 0 || n < 0 || off > len(b) {
		return nil, false
	}
	end, ok := AddOverflowSafe(off, n)
	if !ok || end > len(b) {
		return nil, false
	}
	return b[off:end], true
}
