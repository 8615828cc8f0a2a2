package chunk

import (
	"bytes"
	"io"
	"testing"

	"ChunkBuf/pkg/utils"
)

func TestStreamRoundTrip(t *testing.T) {
	b, err := NewSize(5)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer b.Close()

	hello := []byte("Hello, World!") // 13 bytes across 3 chunks
	w, err := b.NewWriter()
	if err != nil {
		t.Fatalf("writer: %v", err)
	}
	n, err := w.Write(hello)
	if err != nil || n != len(hello) {
		t.Fatalf("write: %d, %v", n, err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	r, err := b.NewReader()
	if err != nil {
		t.Fatalf("reader: %v", err)
	}
	defer r.Close()
	var got []byte
	dest := make([]byte, 4)
	for {
		n, err := r.Read(dest)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		got = append(got, dest[:n]...)
	}
	if !bytes.Equal(got, hello) {
		t.Fatalf("read back %q, expect %q", got, hello)
	}
	if _, err := r.Read(dest); err != io.EOF {
		t.Fatalf("read after exhaustion: %v, expect EOF", err)
	}
}

func TestReadByteOrder(t *testing.T) {
	b := New()
	defer b.Close()
	if err := b.Write([]byte("abc"), 0, 0, 3); err != nil {
		t.Fatalf("write: %v", err)
	}
	r, err := b.NewReader()
	if err != nil {
		t.Fatalf("reader: %v", err)
	}
	defer r.Close()
	// the very first byte must not be skipped
	for i, want := range []byte("abc") {
		v, err := r.ReadByte()
		if err != nil {
			t.Fatalf("read byte %d: %v", i, err)
		}
		if v != want {
			t.Fatalf("byte %d is %q, expect %q", i, v, want)
		}
	}
	if _, err := r.ReadByte(); err != io.EOF {
		t.Fatalf("read byte at end: %v, expect EOF", err)
	}
	// EOF does not move the position; a later write makes the byte visible
	if err := b.PutByte('d', 3); err != nil {
		t.Fatalf("put byte: %v", err)
	}
	if v, err := r.ReadByte(); err != nil || v != 'd' {
		t.Fatalf("read byte after append: %q, %v", v, err)
	}
}

func TestIndependentReaders(t *testing.T) {
	b := New()
	defer b.Close()
	if err := b.Write([]byte("abcdef"), 0, 0, 6); err != nil {
		t.Fatalf("write: %v", err)
	}
	r1, _ := b.NewReader()
	r2, _ := b.NewReader()
	defer r1.Close()
	defer r2.Close()

	dest := make([]byte, 4)
	if n, _ := r1.Read(dest); n != 4 {
		t.Fatalf("r1 read %d bytes", n)
	}
	if v, _ := r2.ReadByte(); v != 'a' {
		t.Fatalf("r2 sees %q, expect 'a'", v)
	}
	if err := r1.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if v, _ := r1.ReadByte(); v != 'a' {
		t.Fatalf("r1 after reset sees %q, expect 'a'", v)
	}
	if v, _ := r2.ReadByte(); v != 'b' {
		t.Fatalf("r2 position moved by r1's reset, sees %q", v)
	}
}

func TestCursorClose(t *testing.T) {
	b := New()
	defer b.Close()
	if err := b.PutByte('a', 0); err != nil {
		t.Fatalf("put byte: %v", err)
	}

	r, _ := b.NewReader()
	if err := r.Close(); err != nil {
		t.Fatalf("close reader: %v", err)
	}
	if err := r.Close(); err != ErrClosed {
		t.Fatalf("second close: %v", err)
	}
	if _, err := r.ReadByte(); err != ErrClosed {
		t.Fatalf("read byte on closed reader: %v", err)
	}
	if _, err := r.Read(make([]byte, 1)); err != ErrClosed {
		t.Fatalf("read on closed reader: %v", err)
	}
	if err := r.Reset(); err != ErrClosed {
		t.Fatalf("reset on closed reader: %v", err)
	}

	w, _ := b.NewWriter()
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	if err := w.Close(); err != ErrClosed {
		t.Fatalf("second close: %v", err)
	}
	if err := w.WriteByte('b'); err != ErrClosed {
		t.Fatalf("write byte on closed writer: %v", err)
	}
	if _, err := w.Write([]byte("b")); err != ErrClosed {
		t.Fatalf("write on closed writer: %v", err)
	}

	// closing cursors never touches the buffer
	if v, err := b.GetByte(0); err != nil || v != 'a' {
		t.Fatalf("buffer unusable after cursor close: %q, %v", v, err)
	}
}

func TestOwnedWriter(t *testing.T) {
	w, err := NewBufferWriter(8)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := NewBufferWriter(0); err == nil {
		t.Fatal("expected error for chunk size 0")
	}
	for _, v := range []byte("xyz") {
		if err := w.WriteByte(v); err != nil {
			t.Fatalf("write byte: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	b := w.Buffer()
	if b == nil {
		t.Fatal("owned buffer lost after close")
	}
	defer b.Close()
	got := make([]byte, 3)
	if _, err := b.Read(got, 0, 0, 3); err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, []byte("xyz")) {
		t.Fatalf("read back %q", got)
	}
}

func TestLimitedCursors(t *testing.T) {
	b := New()
	defer b.Close()

	w, _ := b.NewWriter()
	out := NewLimitedWriter(w, 1<<30) // fast enough to not slow the test
	if _, err := out.Write([]byte("hello")); err != nil {
		t.Fatalf("limited write: %v", err)
	}
	if err := out.WriteByte('!'); err != nil {
		t.Fatalf("limited write byte: %v", err)
	}
	_ = out.Close()

	r, _ := b.NewReader()
	in := NewLimitedReader(r, 1<<30)
	got := make([]byte, 6)
	if n, err := in.Read(got); err != nil || n != 6 {
		t.Fatalf("limited read: %d, %v", n, err)
	}
	if !bytes.Equal(got, []byte("hello!")) {
		t.Fatalf("read back %q", got)
	}
	if err := in.Reset(); err != nil {
		t.Fatalf("reset through limiter: %v", err)
	}
	if v, err := in.ReadByte(); err != nil || v != 'h' {
		t.Fatalf("limited read byte: %q, %v", v, err)
	}
	_ = in.Close()

	// zero limit means no throttling at all
	r2, _ := b.NewReader()
	defer r2.Close()
	if NewLimitedReader(r2, 0) != ReadCloser(r2) {
		t.Fatal("zero bandwidth should return the reader unchanged")
	}
}

func TestOffHeapLifecycle(t *testing.T) {
	before := utils.AllocatedMemory()
	b, err := NewOffHeap(4096)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := b.Write(make([]byte, 10000), 0, 0, 10000); err != nil {
		t.Fatalf("write: %v", err)
	}
	if utils.AllocatedMemory() <= before {
		t.Fatal("off-heap accounting did not grow")
	}
	got := make([]byte, 10000)
	if n, err := b.Read(got, 0, 0, 10000); err != nil || n != 10000 {
		t.Fatalf("read: %d, %v", n, err)
	}
	if err := b.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if got := utils.AllocatedMemory(); got != before+4096 {
		t.Fatalf("off-heap usage %d after clear, expect %d", got, before+4096)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if got := utils.AllocatedMemory(); got != before {
		t.Fatalf("off-heap usage %d after close, expect %d", got, before)
	}
}
