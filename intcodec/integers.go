// Package intcodec implements the fixed-width integer and string helpers
// spec.md section 6 requires of any consumer reading on-disk structures
// through a streams.Stream: 8/16/32/64-bit signed and unsigned values in
// either byte order, length-prefixed byte strings, and padded/terminated
// fixed-length strings.
package intcodec

import (
	"encoding/binary"

	streamerrors "github.com/DrMcCoy/libgamecommon/errors"
	"github.com/DrMcCoy/libgamecommon/streams"
)

// ByteOrder selects how multi-byte integers are laid out on the wire.
type ByteOrder int

const (
	LittleEndian ByteOrder = iota
	BigEndian
)

func (o ByteOrder) impl() binary.ByteOrder {
	if o == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func readN(s streams.Stream, n int) ([]byte, error) {
	buf := make([]byte, n)
	if err := streams.ReadFull(s, buf); err != nil {
		return nil, streamerrors.ErrReadFailed.Wrap(err)
	}
	return buf, nil
}

func writeN(s streams.Stream, buf []byte) error {
	if err := streams.WriteFull(s, buf); err != nil {
		return streamerrors.ErrWriteFailed.Wrap(err)
	}
	return nil
}

// ReadUint8 and WriteUint8 ignore byte order - they exist for symmetry with
// the wider widths.
func ReadUint8(s streams.Stream) (uint8, error) {
	buf, err := readN(s, 1)
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}

func WriteUint8(s streams.Stream, v uint8) error {
	return writeN(s, []byte{v})
}

func ReadInt8(s streams.Stream) (int8, error) {
	v, err := ReadUint8(s)
	return int8(v), err
}

func WriteInt8(s streams.Stream, v int8) error {
	return WriteUint8(s, uint8(v))
}

func ReadUint16(s streams.Stream, order ByteOrder) (uint16, error) {
	buf, err := readN(s, 2)
	if err != nil {
		return 0, err
	}
	return order.impl().Uint16(buf), nil
}

func WriteUint16(s streams.Stream, order ByteOrder, v uint16) error {
	buf := make([]byte, 2)
	order.impl().PutUint16(buf, v)
	return writeN(s, buf)
}

func ReadInt16(s streams.Stream, order ByteOrder) (int16, error) {
	v, err := ReadUint16(s, order)
	return int16(v), err
}

func WriteInt16(s streams.Stream, order ByteOrder, v int16) error {
	return WriteUint16(s, order, uint16(v))
}

func ReadUint32(s streams.Stream, order ByteOrder) (uint32, error) {
	buf, err := readN(s, 4)
	if err != nil {
		return 0, err
	}
	return order.impl().Uint32(buf), nil
}

func WriteUint32(s streams.Stream, order ByteOrder, v uint32) error {
	buf := make([]byte, 4)
	order.impl().PutUint32(buf, v)
	return writeN(s, buf)
}

func ReadInt32(s streams.Stream, order ByteOrder) (int32, error) {
	v, err := ReadUint32(s, order)
	return int32(v), err
}

func WriteInt32(s streams.Stream, order ByteOrder, v int32) error {
	return WriteUint32(s, order, uint32(v))
}

func ReadUint64(s streams.Stream, order ByteOrder) (uint64, error) {
	buf, err := readN(s, 8)
	if err != nil {
		return 0, err
	}
	return order.impl().Uint64(buf), nil
}

func WriteUint64(s streams.Stream, order ByteOrder, v uint64) error {
	buf := make([]byte, 8)
	order.impl().PutUint64(buf, v)
	return writeN(s, buf)
}

func ReadInt64(s streams.Stream, order ByteOrder) (int64, error) {
	v, err := ReadUint64(s, order)
	return int64(v), err
}

func WriteInt64(s streams.Stream, order ByteOrder, v int64) error {
	return WriteUint64(s, order, uint64(v))
}
