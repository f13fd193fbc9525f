package iff

import (
	streamerrors "github.com/DrMcCoy/libgamecommon/errors"
	"github.com/DrMcCoy/libgamecommon/intcodec"
	"github.com/DrMcCoy/libgamecommon/streams"
)

// WriteChunk appends one chunk (4-byte id, big-endian length, payload, and
// a pad byte if the payload is odd-length) to backing at its current write
// position.
func WriteChunk(backing streams.Stream, id string, payload []byte) error {
	if len(id) != 4 {
		return streamerrors.ErrInvalidArgument.WithMessage("chunk id must be exactly 4 bytes")
	}
	if err := streams.WriteFull(backing, []byte(id)); err != nil {
		return err
	}
	if err := intcodec.WriteUint32(backing, intcodec.BigEndian, uint32(len(payload))); err != nil {
		return err
	}
	if err := streams.WriteFull(backing, payload); err != nil {
		return err
	}
	if len(payload)%2 != 0 {
		return streams.WriteFull(backing, []byte{0})
	}
	return nil
}
