// Package writer exposes sinks for encoded vectors.
package writer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Sink stores the bytes produced by src.
type Sink interface {
	Save(src io.WriterTo) (int64, error)
}

var (
	_ Sink = (*FileWriter)(nil)
	_ Sink = (*MemWriter)(nil)
)

// FileWriter writes to a filesystem path atomically.
type FileWriter struct {
	Path string
}

// Save streams src into a temp file next to Path, syncs it, and renames it
// over Path. Path is untouched on failure.
func (w *FileWriter) Save(src io.WriterTo) (int64, error) {
	// Create temp file in same directory to ensure atomic rename
	dir := filepath.Dir(w.Path)
	tmpFile, err := os.CreateTemp(dir, ".trivec-tmp-*")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	// Clean up temp file on error
	defer func() {
		if tmpFile != nil {
			_ = tmpFile.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	bw := bufio.NewWriter(tmpFile)
	n, err := src.WriteTo(bw)
	if err != nil {
		return n, fmt.Errorf("write temp file: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return n, fmt.Errorf("write temp file: %w", err)
	}

	if syncErr := tmpFile.Sync(); syncErr != nil {
		return n, fmt.Errorf("sync temp file: %w", syncErr)
	}

	// Close before rename
	if closeErr := tmpFile.Close(); closeErr != nil {
		return n, fmt.Errorf("close temp file: %w", closeErr)
	}
	tmpFile = nil // Don't clean up in defer

	if renameErr := os.Rename(tmpPath, w.Path); renameErr != nil {
		_ = os.Remove(tmpPath)
		return n, fmt.Errorf("rename temp file: %w", renameErr)
	}

	return n, nil
}
