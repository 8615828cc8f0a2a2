package chunk

import "sync"

// Writer is a sequential write view over a Buffer. It either shares a
// caller-supplied buffer or owns a private one.
type Writer struct {
	sync.Mutex
	b      *Buffer
	off    int64
	closed bool
}

// NewWriter returns a write cursor over this buffer positioned at offset zero.
func (b *Buffer) NewWriter() (*Writer, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil, ErrClosed
	}
	return &Writer{b: b}, nil
}

// NewBufferWriter returns a write cursor owning a fresh private buffer with
// the given chunk size.
func NewBufferWriter(chunkSize int) (*Writer, error) {
	b, err := NewSize(chunkSize)
	if err != nil {
		return nil, err
	}
	return &Writer{b: b}, nil
}

// Buffer returns the underlying buffer, e.g. to read back what an owning
// writer has produced. It stays valid after the writer is closed.
func (w *Writer) Buffer() *Buffer { return w.b }

// WriteByte writes one byte at the current position and advances past it.
func (w *Writer) WriteByte(v byte) error {
	w.Lock()
	defer w.Unlock()
	if w.closed {
		return ErrClosed
	}
	if err := w.b.PutByte(v, w.off); err != nil {
		return err
	}
	w.off++
	return nil
}

// Write appends p at the current position. Buffer writes are all-or-nothing,
// so the position always matches what has actually been stored.
func (w *Writer) Write(p []byte) (int, error) {
	w.Lock()
	defer w.Unlock()
	if w.closed {
		return 0, ErrClosed
	}
	if err := w.b.Write(p, w.off, 0, len(p)); err != nil {
		return 0, err
	}
	w.off += int64(len(p))
	return len(p), nil
}

// Close disables the writer. The underlying buffer stays open.
func (w *Writer) Close() error {
	w.Lock()
	defer w.Unlock()
	if w.closed {
		return ErrClosed
	}
	w.closed = true
	return nil
}
