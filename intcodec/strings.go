package intcodec

import (
	"bytes"

	streamerrors "github.com/DrMcCoy/libgamecommon/errors"
	"github.com/DrMcCoy/libgamecommon/streams"
)

// ReadLengthPrefixed reads a byte string preceded by a prefixWidth-byte
// (1, 2, 4, or 8) unsigned length in order.
func ReadLengthPrefixed(s streams.Stream, order ByteOrder, prefixWidth int) ([]byte, error) {
	length, err := readPrefix(s, order, prefixWidth)
	if err != nil {
		return nil, err
	}
	return readN(s, int(length))
}

// WriteLengthPrefixed writes len(data) as a prefixWidth-byte unsigned
// length followed by data itself.
func WriteLengthPrefixed(s streams.Stream, order ByteOrder, prefixWidth int, data []byte) error {
	if err := writePrefix(s, order, prefixWidth, uint64(len(data))); err != nil {
		return err
	}
	return writeN(s, data)
}

func readPrefix(s streams.Stream, order ByteOrder, width int) (uint64, error) {
	switch width {
	case 1:
		v, err := ReadUint8(s)
		return uint64(v), err
	case 2:
		v, err := ReadUint16(s, order)
		return uint64(v), err
	case 4:
		v, err := ReadUint32(s, order)
		return uint64(v), err
	case 8:
		return ReadUint64(s, order)
	default:
		return 0, streamerrors.ErrInvalidArgument.WithMessage("length prefix width must be 1, 2, 4, or 8")
	}
}

func writePrefix(s streams.Stream, order ByteOrder, width int, v uint64) error {
	switch width {
	case 1:
		return WriteUint8(s, uint8(v))
	case 2:
		return WriteUint16(s, order, uint16(v))
	case 4:
		return WriteUint32(s, order, uint32(v))
	case 8:
		return WriteUint64(s, order, v)
	default:
		return streamerrors.ErrInvalidArgument.WithMessage("length prefix width must be 1, 2, 4, or 8")
	}
}

// ReadPaddedString reads exactly maxLength bytes and trims trailing pad
// bytes (and, for a pad byte of 0, anything after the first NUL - the
// "null-terminated or padded" case the same decoder handles).
func ReadPaddedString(s streams.Stream, maxLength int, pad byte) (string, error) {
	buf, err := readN(s, maxLength)
	if err != nil {
		return "", err
	}
	if pad == 0 {
		if idx := bytes.IndexByte(buf, 0); idx >= 0 {
			return string(buf[:idx]), nil
		}
		return string(buf), nil
	}
	return string(bytes.TrimRight(buf, string(pad))), nil
}

// WritePaddedString writes value into exactly maxLength bytes, padding
// with pad or returning ErrInvalidArgument if value is too long.
func WritePaddedString(s streams.Stream, maxLength int, pad byte, value string) error {
	if len(value) > maxLength {
		return streamerrors.ErrInvalidArgument.WithMessage("string exceeds field width")
	}
	buf := make([]byte, maxLength)
	for i := range buf {
		buf[i] = pad
	}
	copy(buf, value)
	return writeN(s, buf)
}
