package writer

import (
	"bytes"
	"io"
)

// MemWriter captures the bytes in memory.
type MemWriter struct {
	Buf []byte
}

// Save replaces Buf with the output of src. Buf keeps its previous contents
// when src fails.
func (w *MemWriter) Save(src io.WriterTo) (int64, error) {
	var bb bytes.Buffer
	n, err := src.WriteTo(&bb)
	if err != nil {
		return n, err
	}
	w.Buf = append(w.Buf[:0], bb.Bytes()...)
	return n, nil
}
