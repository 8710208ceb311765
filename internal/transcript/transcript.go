// Package transcript tees bytes received from the target to a file.
package transcript

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Writer appends to a transcript file. The zero value and a Writer opened
// with an empty path discard everything.
type Writer struct {
	mu   sync.Mutex
	path string
	file *os.File
}

// Open creates or truncates the file at path. An empty path returns a
// discarding Writer.
func Open(path string) (*Writer, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return &Writer{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create transcript dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	return &Writer{path: path, file: f}, nil
}

// Enabled reports whether writes reach a file.
func (w *Writer) Enabled() bool {
	if w == nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file != nil
}

func (w *Writer) Path() string {
	if w == nil {
		return ""
	}
	return w.path
}

func (w *Writer) Write(p []byte) (int, error) {
	if w == nil {
		return len(p), nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return len(p), nil
	}
	n, err := w.file.Write(p)
	if err != nil {
		return n, fmt.Errorf("write transcript: %w", err)
	}
	return n, nil
}

// Close syncs and closes the file. Further writes are discarded.
func (w *Writer) Close() error {
	if w == nil {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return nil
	}
	f := w.file
	w.file = nil
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("sync transcript: %w", err)
	}
	return f.Close()
}
