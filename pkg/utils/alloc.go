package utils

import (
	"sync/atomic"

	"golang.org/x/sys/unix"
)

var logger = GetLogger("chunkbuf")

var allocated int64

// Alloc returns a zero-filled off-heap byte slice of the given size.
// It panics if the kernel refuses to map more memory.
func Alloc(size int) []byte {
	b, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		panic(err)
	}
	atomic.AddInt64(&allocated, int64(size))
	return b
}

// Free returns a slice obtained from Alloc back to the OS.
func Free(b []byte) {
	atomic.AddInt64(&allocated, -int64(cap(b)))
	if err := unix.Munmap(b[:cap(b)]); err != nil {
		logger.Errorf("munmap %d bytes: %s", cap(b), err)
	}
}

// AllocatedMemory returns the size of off-heap memory currently in use.
func AllocatedMemory() int64 {
	return atomic.LoadInt64(&allocated)
}
