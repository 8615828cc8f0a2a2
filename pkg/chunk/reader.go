package chunk

import "sync"

// Reader is a sequential read view over a Buffer. Each reader keeps its own
// position, so several readers may consume one buffer independently.
type Reader struct {
	sync.Mutex
	b      *Buffer
	off    int64
	closed bool
}

// NewReader returns a read cursor positioned at offset zero.
func (b *Buffer) NewReader() (*Reader, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil, ErrClosed
	}
	return &Reader{b: b}, nil
}

// ReadByte returns the byte at the current position and advances past it.
// The position is left untouched on io.EOF.
func (r *Reader) ReadByte() (byte, error) {
	r.Lock()
	defer r.Unlock()
	if r.closed {
		return 0, ErrClosed
	}
	v, err := r.b.GetByte(r.off)
	if err != nil {
		return 0, err
	}
	r.off++
	return v, nil
}

// Read fills p from the current position and advances by the count actually
// read. It returns io.EOF once the used size is reached.
func (r *Reader) Read(p []byte) (int, error) {
	r.Lock()
	defer r.Unlock()
	if r.closed {
		return 0, ErrClosed
	}
	n, err := r.b.Read(p, r.off, 0, len(p))
	if err != nil {
		return 0, err
	}
	r.off += int64(n)
	return n, nil
}

// Reset moves the position back to zero, making the reader restartable.
func (r *Reader) Reset() error {
	r.Lock()
	defer r.Unlock()
	if r.closed {
		return ErrClosed
	}
	r.off = 0
	return nil
}

// Close disables the reader. The underlying buffer stays open.
func (r *Reader) Close() error {
	r.Lock()
	defer r.Unlock()
	if r.closed {
		return ErrClosed
	}
	r.closed = true
	return nil
}
