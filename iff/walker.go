// Package iff implements a minimal IFF-style chunk walker: a 4-byte tag
// plus a big-endian 32-bit length, the payload windowed off as a
// streams.SubStream, and an even-alignment pad byte between chunks. It
// exists at contract level only - spec.md section 1 places interpreting
// any particular chunk dialect out of scope for this module - and mainly
// demonstrates SubStream composing over an arbitrary backing.
package iff

import (
	streamerrors "github.com/DrMcCoy/libgamecommon/errors"
	"github.com/DrMcCoy/libgamecommon/intcodec"
	"github.com/DrMcCoy/libgamecommon/streams"
)

// Chunk is one walked record: a 4-character tag, its payload length, and a
// bounded view onto the payload itself.
type Chunk struct {
	ID     string
	Size   int64
	Stream *streams.SubStream
}

// Walker reads successive chunks from a backing stream, starting at offset
// 0 regardless of the backing's current position.
type Walker struct {
	backing streams.Stream
	pos     int64
	end     int64
}

// NewWalker starts a walk over the whole of backing.
func NewWalker(backing streams.Stream) (*Walker, error) {
	size, err := backing.Size()
	if err != nil {
		return nil, err
	}
	return &Walker{backing: backing, pos: 0, end: size}, nil
}

// Next reads the next chunk header and returns a view onto its payload.
// It returns ok == false, with no error, once the walk reaches the end of
// the backing stream.
func (w *Walker) Next() (chunk Chunk, ok bool, err error) {
	if w.pos+8 > w.end {
		return Chunk{}, false, nil
	}

	if _, err := w.backing.SeekRead(w.pos, streams.SeekStart); err != nil {
		return Chunk{}, false, err
	}
	idBytes, err := readExact(w.backing, 4)
	if err != nil {
		return Chunk{}, false, err
	}
	size, err := intcodec.ReadUint32(w.backing, intcodec.BigEndian)
	if err != nil {
		return Chunk{}, false, err
	}

	payloadOffset := w.pos + 8
	payloadSize := int64(size)
	if payloadOffset+payloadSize > w.end {
		return Chunk{}, false, streamerrors.ErrCorruptInput.WithMessage("chunk payload runs past end of stream")
	}

	sub := streams.NewSubStream(w.backing, payloadOffset, payloadSize)

	advance := payloadSize
	if payloadSize%2 != 0 {
		advance++
	}
	w.pos = payloadOffset + advance

	return Chunk{ID: string(idBytes), Size: payloadSize, Stream: sub}, true, nil
}

func readExact(s streams.Stream, n int) ([]byte, error) {
	buf := make([]byte, n)
	if err := streams.ReadFull(s, buf); err != nil {
		return nil, err
	}
	return buf, nil
}
