// Package codec serializes object graphs through the sequential stream
// surface of a chunk buffer. The buffer has no knowledge of the format.
package codec

import (
	"io"

	"ChunkBuf/pkg/chunk"

	"github.com/vmihailenco/msgpack/v5"
)

type Encoder struct {
	enc *msgpack.Encoder
}

// NewEncoder writes encoded values to w, typically a write cursor.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{msgpack.NewEncoder(w)}
}

func (e *Encoder) Encode(v interface{}) error {
	return e.enc.Encode(v)
}

type Decoder struct {
	dec *msgpack.Decoder
}

// NewDecoder reads encoded values from r, typically a read cursor.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{msgpack.NewDecoder(r)}
}

func (d *Decoder) Decode(v interface{}) error {
	return d.dec.Decode(v)
}

// EncodeToBuffer appends the encoded form of v to b through a write cursor.
func EncodeToBuffer(b *chunk.Buffer, v interface{}) error {
	w, err := b.NewWriter()
	if err != nil {
		return err
	}
	defer w.Close()
	return NewEncoder(w).Encode(v)
}

// DecodeFromBuffer reconstructs v from the beginning of b.
func DecodeFromBuffer(b *chunk.Buffer, v interface{}) error {
	r, err := b.NewReader()
	if err != nil {
		return err
	}
	defer r.Close()
	return NewDecoder(r).Decode(v)
}
