package chunk

import (
	"io"

	"ChunkBuf/pkg/utils"
)

var logger = utils.GetLogger("chunkbuf")

// ReadCloser is the sequential read surface handed out to consumers of a
// buffer. Reads past the used size return io.EOF.
type ReadCloser interface {
	io.Reader
	io.ByteReader
	// Reset moves the position back to offset zero.
	Reset() error
	io.Closer
}

// WriteCloser is the sequential write surface. Closing it never closes the
// underlying buffer.
type WriteCloser interface {
	io.Writer
	io.ByteWriter
	io.Closer
}
