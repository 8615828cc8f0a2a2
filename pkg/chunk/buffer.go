package chunk

import (
	"fmt"
	"io"
	"runtime"
	"sync"

	"ChunkBuf/pkg/utils"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// DefaultChunkSize is the chunk size used by New.
const DefaultChunkSize = 256

// ErrClosed is returned by every operation on a closed buffer or cursor,
// including a second Close.
var ErrClosed = errors.New("already closed")

// Buffer is a growable in-memory byte store backed by fixed-size chunks.
// It grows by appending zero-filled chunks and never shrinks except through
// Clear. All methods are safe for concurrent use: mutations take the
// exclusive lock, reads and size queries take the shared one.
type Buffer struct {
	mu        sync.RWMutex
	id        string
	chunkSize int
	chunks    [][]byte
	usedSize  int64
	offHeap   bool
	closed    bool
}

// New creates a buffer with the default chunk size.
func New() *Buffer {
	return newBuffer(DefaultChunkSize, false)
}

// NewSize creates a buffer with the given chunk size.
func NewSize(chunkSize int) (*Buffer, error) {
	if chunkSize <= 0 {
		return nil, errors.Errorf("chunk size should be > 0, got %d", chunkSize)
	}
	return newBuffer(chunkSize, false), nil
}

// NewOffHeap creates a buffer whose chunks live outside the Go heap and are
// returned to the OS on Clear or Close. A leaked buffer is freed by its
// finalizer with an error logged.
func NewOffHeap(chunkSize int) (*Buffer, error) {
	if chunkSize <= 0 {
		return nil, errors.Errorf("chunk size should be > 0, got %d", chunkSize)
	}
	b := newBuffer(chunkSize, true)
	runtime.SetFinalizer(b, func(b *Buffer) {
		b.mu.Lock()
		if !b.closed {
			logger.Errorf("buffer %s is leaked, freeing %d chunks", b.id, len(b.chunks))
			b.release()
			b.closed = true
		}
		b.mu.Unlock()
	})
	return b, nil
}

func newBuffer(chunkSize int, offHeap bool) *Buffer {
	b := &Buffer{id: uuid.New().String(), chunkSize: chunkSize, offHeap: offHeap}
	b.chunks = append(b.chunks, b.newChunk())
	return b
}

func (b *Buffer) newChunk() []byte {
	if b.offHeap {
		return utils.Alloc(b.chunkSize)
	}
	return make([]byte, b.chunkSize)
}

// release drops all chunk storage; must be called with the exclusive lock.
func (b *Buffer) release() {
	if b.offHeap {
		for _, c := range b.chunks {
			utils.Free(c)
		}
	}
	b.chunks = nil
	b.usedSize = 0
}

// grow appends the chunks needed to cover lastOff; exclusive lock held.
func (b *Buffer) grow(lastOff int64) {
	need := int(lastOff/int64(b.chunkSize)) + 1
	for len(b.chunks) < need {
		b.chunks = append(b.chunks, b.newChunk())
	}
}

func (b *Buffer) ID() string { return b.id }

// ChunkSize is immutable for the lifetime of the buffer.
func (b *Buffer) ChunkSize() int { return b.chunkSize }

func (b *Buffer) String() string {
	return fmt.Sprintf("chunkbuf %s (chunk size %d)", b.id, b.chunkSize)
}

// Write copies n bytes of data starting at srcOff into the buffer at off,
// growing it with zero-filled chunks as needed. It either fully succeeds or
// leaves the buffer untouched.
func (b *Buffer) Write(data []byte, off int64, srcOff, n int) error {
	if off < 0 || srcOff < 0 || n < 0 || srcOff+n > len(data) {
		return errors.Errorf("write source [%d:%d] out of bounds (data %d, offset %d)",
			srcOff, srcOff+n, len(data), off)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	if n == 0 {
		return nil
	}
	b.grow(off + int64(n) - 1)
	ci := int(off / int64(b.chunkSize))
	ai := int(off % int64(b.chunkSize))
	for n > 0 {
		c := copy(b.chunks[ci][ai:], data[srcOff:srcOff+n])
		srcOff += c
		n -= c
		off += int64(c)
		ci++
		ai = 0
	}
	if off > b.usedSize {
		b.usedSize = off
	}
	return nil
}

// PutByte writes a single byte at off, with the same growth policy as Write.
func (b *Buffer) PutByte(v byte, off int64) error {
	if off < 0 {
		return errors.Errorf("negative offset %d", off)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	b.grow(off)
	b.chunks[off/int64(b.chunkSize)][off%int64(b.chunkSize)] = v
	if off+1 > b.usedSize {
		b.usedSize = off + 1
	}
	return nil
}

// Read copies up to n bytes from the buffer at off into dest starting at
// destOff and returns the count actually copied, which is clamped to the
// used size. Reading at or past the used size returns io.EOF.
func (b *Buffer) Read(dest []byte, off int64, destOff, n int) (int, error) {
	if off < 0 || destOff < 0 || n < 0 || destOff+n > len(dest) {
		return 0, errors.Errorf("read dest [%d:%d] out of bounds (dest %d, offset %d)",
			destOff, destOff+n, len(dest), off)
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return 0, ErrClosed
	}
	if off >= b.usedSize {
		return 0, io.EOF
	}
	if remaining := b.usedSize - off; remaining < int64(n) {
		n = int(remaining)
	}
	ci := int(off / int64(b.chunkSize))
	ai := int(off % int64(b.chunkSize))
	var got int
	for got < n {
		if ci >= len(b.chunks) {
			// unreachable while len(chunks)*chunkSize >= usedSize holds
			logger.Errorf("buffer %s: ran out of chunks at %d/%d", b.id, ci, len(b.chunks))
			break
		}
		c := copy(dest[destOff+got:destOff+n], b.chunks[ci][ai:])
		got += c
		ci++
		ai = 0
	}
	return got, nil
}

// GetByte returns the byte at off, or io.EOF at or past the used size.
func (b *Buffer) GetByte(off int64) (byte, error) {
	if off < 0 {
		return 0, errors.Errorf("negative offset %d", off)
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return 0, ErrClosed
	}
	if off >= b.usedSize {
		return 0, io.EOF
	}
	return b.chunks[off/int64(b.chunkSize)][off%int64(b.chunkSize)], nil
}

// Size returns the used size: the highest written offset plus one.
func (b *Buffer) Size() (int64, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return 0, ErrClosed
	}
	return b.usedSize, nil
}

// AllocatedSize returns the reserved capacity, always a multiple of the
// chunk size and never below the used size.
func (b *Buffer) AllocatedSize() (int64, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return 0, ErrClosed
	}
	return int64(len(b.chunks)) * int64(b.chunkSize), nil
}

// Clear resets the buffer to a single zero-filled chunk and used size zero.
// The chunk size is unchanged.
func (b *Buffer) Clear() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	b.release()
	b.chunks = append(b.chunks, b.newChunk())
	return nil
}

// Close releases all chunk storage and permanently disables the buffer.
// Close is one-way: closing twice returns ErrClosed.
func (b *Buffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	logger.Debugf("closing %s, used %d bytes in %d chunks", b, b.usedSize, len(b.chunks))
	b.release()
	b.closed = true
	if b.offHeap {
		runtime.SetFinalizer(b, nil)
	}
	return nil
}

// ReadAt implements io.ReaderAt over the used prefix of the buffer.
func (b *Buffer) ReadAt(p []byte, off int64) (int, error) {
	n, err := b.Read(p, off, 0, len(p))
	if err == nil && n < len(p) {
		err = io.EOF
	}
	return n, err
}

// WriteAt implements io.WriterAt.
func (b *Buffer) WriteAt(p []byte, off int64) (int, error) {
	if err := b.Write(p, off, 0, len(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}
