package vector

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"unsafe"

	"github.com/joshuapare/trivec/internal/buf"
)

// Encoded layout:
//
//	0  4  magic "TVEC"
//	4  4  item size, u32 LE
//	8  4  item count, u32 LE
//	12 .. count*itemSize bytes of elements in host byte order
const HeaderSize = 12

var magic = []byte("TVEC")

// readChunkBytes bounds how much ReadFrom allocates ahead of the bytes it has
// actually received. The header count is not trusted beyond that.
const readChunkBytes = 1 << 20

// Header is the decoded prefix of an encoded vector.
type Header struct {
	ItemSize int
	Count    int
}

// PayloadSize returns the number of element bytes following the header.
func (h Header) PayloadSize() (int, error) {
	n, err := buf.ByteSize(h.Count, h.ItemSize)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrCapacityOverflow, err)
	}
	return n, nil
}

// ReadHeader decodes the header at the start of data.
func ReadHeader(data []byte) (Header, error) {
	hdr, ok := buf.Slice(data, 0, HeaderSize)
	if !ok {
		return Header{}, fmt.Errorf("%w: header needs %d bytes, have %d", ErrTruncated, HeaderSize, len(data))
	}
	if !bytes.Equal(hdr[:4], magic) {
		return Header{}, fmt.Errorf("%w: %q", ErrBadMagic, hdr[:4])
	}
	return Header{
		ItemSize: int(buf.U32LE(hdr[4:])),
		Count:    int(buf.U32LE(hdr[8:])),
	}, nil
}

func (v *Vector[T]) header() ([HeaderSize]byte, error) {
	var hdr [HeaderSize]byte
	if uint64(v.Len()) > math.MaxUint32 {
		return hdr, fmt.Errorf("%w: %d elements do not fit the header", ErrCapacityOverflow, v.Len())
	}
	copy(hdr[:], magic)
	buf.PutU32LE(hdr[4:], uint32(sizeof[T]()))
	buf.PutU32LE(hdr[8:], uint32(v.Len()))
	return hdr, nil
}

func (v *Vector[T]) checkHeader(h Header) error {
	if h.ItemSize != sizeof[T]() {
		return fmt.Errorf("%w: encoded %d, %T is %d", ErrItemSizeMismatch, h.ItemSize, *new(T), sizeof[T]())
	}
	return nil
}

// payload returns the bytes of the live elements.
func (v *Vector[T]) payload() []byte {
	return v.span(0, v.Len())
}

// span returns the bytes of elements [first, last).
func (v *Vector[T]) span(first, last int) []byte {
	size := sizeof[T]()
	n := (last - first) * size
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&v.items[first])), n)
}

// prepare discards the elements and sets Len to count, reallocating to
// exactly count when the buffer is too small.
func (v *Vector[T]) prepare(count int) error {
	v.raw.SetLen(0)
	if count > v.raw.Cap() {
		if err := v.Reserve(count); err != nil {
			return err
		}
	}
	v.raw.SetLen(count)
	return nil
}

// MarshalBinary encodes the vector.
func (v *Vector[T]) MarshalBinary() ([]byte, error) {
	hdr, err := v.header()
	if err != nil {
		return nil, err
	}
	p := v.payload()
	out := make([]byte, HeaderSize+len(p))
	copy(out, hdr[:])
	copy(out[HeaderSize:], p)
	return out, nil
}

// UnmarshalBinary replaces the contents of v with the vector encoded in data.
func (v *Vector[T]) UnmarshalBinary(data []byte) error {
	h, err := ReadHeader(data)
	if err != nil {
		return err
	}
	if err := v.checkHeader(h); err != nil {
		return err
	}
	end, err := buf.CheckListBounds(len(data), HeaderSize, h.Count, h.ItemSize)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTruncated, err)
	}
	src, ok := buf.Slice(data, HeaderSize, end-HeaderSize)
	if !ok {
		return fmt.Errorf("%w: payload [%d:%d] of %d bytes", ErrTruncated, HeaderSize, end, len(data))
	}
	if err := v.prepare(h.Count); err != nil {
		return err
	}
	copy(v.payload(), src)
	return nil
}

// WriteTo writes the encoded vector to w.
func (v *Vector[T]) WriteTo(w io.Writer) (int64, error) {
	hdr, err := v.header()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(hdr[:])
	if err != nil {
		return int64(n), err
	}
	m, err := w.Write(v.payload())
	return int64(n + m), err
}

// ReadFrom replaces the contents of v with one encoded vector read from r.
// On error v is left empty.
//
// The payload is read in chunks of at most readChunkBytes, growing v as data
// arrives, so a corrupt count fails with ErrTruncated at end of stream
// instead of reserving the whole declared size up front.
func (v *Vector[T]) ReadFrom(r io.Reader) (int64, error) {
	var hdr [HeaderSize]byte
	n, err := io.ReadFull(r, hdr[:])
	if err != nil {
		return int64(n), truncated(err)
	}
	h, err := ReadHeader(hdr[:])
	if err != nil {
		return int64(n), err
	}
	if err := v.checkHeader(h); err != nil {
		return int64(n), err
	}
	if _, err := h.PayloadSize(); err != nil {
		return int64(n), err
	}
	size := sizeof[T]()
	if size == 0 || h.Count*size <= readChunkBytes {
		if err := v.prepare(h.Count); err != nil {
			return int64(n), err
		}
		m, err := io.ReadFull(r, v.payload())
		if err != nil {
			v.Clear()
			return int64(n + m), truncated(err)
		}
		return int64(n + m), nil
	}

	total := int64(n)
	step := max(readChunkBytes/size, 1)
	v.raw.SetLen(0)
	for got := 0; got < h.Count; {
		k := min(step, h.Count-got)
		if err := v.ensure(got + k); err != nil {
			v.Clear()
			return total, err
		}
		v.raw.SetLen(got + k)
		m, err := io.ReadFull(r, v.span(got, got+k))
		total += int64(m)
		if err != nil {
			v.Clear()
			return total, truncated(err)
		}
		got += k
	}
	return total, nil
}

func truncated(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %w", ErrTruncated, err)
	}
	return err
}

// Decode returns a new vector holding the elements encoded in data.
func Decode[T any](data []byte, opts ...Options) (*Vector[T], error) {
	v := New[T](opts...)
	if err := v.UnmarshalBinary(data); err != nil {
		v.Close()
		return nil, err
	}
	return v, nil
}
