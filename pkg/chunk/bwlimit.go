package chunk

import "github.com/juju/ratelimit"

type limitedReader struct {
	ReadCloser
	bucket *ratelimit.Bucket
}

func (l *limitedReader) Read(p []byte) (int, error) {
	n, err := l.ReadCloser.Read(p)
	if n > 0 {
		l.bucket.Wait(int64(n))
	}
	return n, err
}

func (l *limitedReader) ReadByte() (byte, error) {
	v, err := l.ReadCloser.ReadByte()
	if err == nil {
		l.bucket.Wait(1)
	}
	return v, err
}

// NewLimitedReader throttles r to roughly bps bytes per second. It is a pure
// wrapper and adds no ordering guarantee of its own.
func NewLimitedReader(r ReadCloser, bps int64) ReadCloser {
	if bps <= 0 {
		return r
	}
	// there are overheads coming from position bookkeeping
	return &limitedReader{r, ratelimit.NewBucketWithRate(float64(bps)*0.85, bps)}
}

type limitedWriter struct {
	WriteCloser
	bucket *ratelimit.Bucket
}

func (l *limitedWriter) Write(p []byte) (int, error) {
	l.bucket.Wait(int64(len(p)))
	return l.WriteCloser.Write(p)
}

func (l *limitedWriter) WriteByte(v byte) error {
	l.bucket.Wait(1)
	return l.WriteCloser.WriteByte(v)
}

// NewLimitedWriter throttles w to roughly bps bytes per second.
func NewLimitedWriter(w WriteCloser, bps int64) WriteCloser {
	if bps <= 0 {
		return w
	}
	return &limitedWriter{w, ratelimit.NewBucketWithRate(float64(bps)*0.85, bps)}
}
