package runner

import (
	"bytes"
	"io"
)

// lineWriter forwards every byte to dst (if any) and reports each complete
// line to onLine as soon as it arrives. exec copies each stream from its own
// goroutine, so a lineWriter is never written concurrently.
type lineWriter struct {
	dst     io.Writer
	onLine  func(string)
	pending []byte
	written bool
}

func newLineWriter(dst io.Writer, onLine func(string)) *lineWriter {
	return &lineWriter{dst: dst, onLine: onLine}
}

func (w *lineWriter) Write(p []byte) (int, error) {
	if len(p) > 0 {
		w.written = true
	}
	if w.dst != nil {
		if _, err := w.dst.Write(p); err != nil {
			return 0, err
		}
	}
	w.pending = append(w.pending, p...)
	for {
		idx := bytes.IndexByte(w.pending, '\n')
		if idx < 0 {
			break
		}
		w.emit(w.pending[:idx])
		w.pending = w.pending[idx+1:]
	}
	return len(p), nil
}

// Flush reports a trailing line that had no newline.
func (w *lineWriter) Flush() {
	if len(w.pending) > 0 {
		w.emit(w.pending)
		w.pending = nil
	}
}

func (w *lineWriter) Written() bool {
	return w.written
}

func (w *lineWriter) emit(line []byte) {
	line = bytes.TrimSuffix(line, []byte{'\r'})
	if w.onLine != nil {
		w.onLine(string(line))
	}
}
