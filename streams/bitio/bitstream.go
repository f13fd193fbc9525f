// Package bitio implements a sub-byte read/write/seek adapter over a
// byte-oriented streams.Stream, with runtime endianness switching and
// partial-byte read-modify-write flush semantics (spec.md section 4.1).
package bitio

import (
	streamerrors "github.com/DrMcCoy/libgamecommon/errors"
	"github.com/DrMcCoy/libgamecommon/streams"
	"github.com/boljen/go-bitmap"
)

// Endian selects which end of a byte bits are consumed from first.
type Endian int

const (
	// BigEndian consumes/produces the most significant bit of a byte first.
	BigEndian Endian = iota
	// LittleEndian consumes/produces the least significant bit of a byte
	// first. Multi-byte values are assembled by taking successive chunks
	// from successive bytes, each contributing its low bits first.
	LittleEndian
)

// dirtyFlagIndex is the single position used in the dirty bitmap. A BitStream
// only ever has one partial byte in flight at a time, so this mirrors the
// teacher's per-block loaded/dirty bitmaps (drivers/common/blockcache) at
// the smallest possible granularity: one bit of state.
const dirtyFlagIndex = 0

// BitStream reads and writes individual bits from a byte-oriented backing
// stream. Unlike streams.Stream, it has a single shared cursor - reads and
// writes interleave against the same bit position, which is what lets a
// write leave behind a partial byte that a later read must see merged.
type BitStream struct {
	backing streams.Stream
	endian  Endian

	bitPos    int64 // absolute position, in bits, of the next bit to use
	bitBuf    byte  // current byte at bitPos/8, as currently known/modified
	loaded    bool  // whether bitBuf actually reflects bitPos/8
	dirtyMask bitmap.Bitmap
}

// New creates a BitStream over backing, starting at bit position 0 in the
// given endianness.
func New(backing streams.Stream, endian Endian) *BitStream {
	return &BitStream{
		backing:   backing,
		endian:    endian,
		dirtyMask: bitmap.New(1),
	}
}

func (bs *BitStream) dirty() bool {
	return bs.dirtyMask.Get(dirtyFlagIndex)
}

func (bs *BitStream) setDirty(value bool) {
	bs.dirtyMask.Set(dirtyFlagIndex, value)
}

func (bs *BitStream) byteIndex() int64 {
	return bs.bitPos / 8
}

func (bs *BitStream) bitOffset() uint {
	return uint(bs.bitPos % 8)
}

// loadCurrentByte ensures bitBuf holds the byte at the current byteIndex,
// reading it from backing if it isn't already loaded. If the backing has no
// such byte yet (writing past its current end), the byte is seeded as zero
// so write's read-modify-write has something to merge into; ok reports
// whether a byte is now available to operate on (always true when seeding
// for a write).
func (bs *BitStream) loadCurrentByte(seedZeroOnEOF bool) (ok bool, err error) {
	if bs.loaded {
		return true, nil
	}

	if _, err := bs.backing.SeekRead(bs.byteIndex(), streams.SeekStart); err != nil {
		return false, err
	}
	buf := [1]byte{}
	n, err := bs.backing.TryRead(buf[:])
	if err != nil {
		return false, err
	}
	if n == 0 {
		if !seedZeroOnEOF {
			return false, nil
		}
		bs.bitBuf = 0
		bs.loaded = true
		return true, nil
	}
	bs.bitBuf = buf[0]
	bs.loaded = true
	return true, nil
}

// commitCurrentByte writes bitBuf to backing at byteIndex without moving the
// BitStream's own logical position, and clears the dirty flag.
func (bs *BitStream) commitCurrentByte() error {
	if _, err := bs.backing.SeekWrite(bs.byteIndex(), streams.SeekStart); err != nil {
		return err
	}
	if err := streams.WriteFull(bs.backing, []byte{bs.bitBuf}); err != nil {
		return err
	}
	bs.setDirty(false)
	return nil
}

func mask(bits uint) uint32 {
	if bits >= 32 {
		return 0xFFFFFFFF
	}
	return (uint32(1) << bits) - 1
}

// Read reads up to n bits (1 <= n <= 32) into the returned value. A full
// read packs the bits into the value's low n bits regardless of
// endianness. If fewer bits are available before the backing runs out, the
// partial count is returned with no error; in big-endian mode the bits
// that were read are left-justified to the position they would occupy in
// a full n-bit value, since big-endian packs the earliest-read bits as the
// most significant ones. Little-endian needs no such adjustment, since it
// already fills low-to-high as each chunk arrives.
func (bs *BitStream) Read(n uint) (value uint32, bitsRead uint, err error) {
	if n < 1 || n > 32 {
		return 0, 0, streamerrors.ErrInvalidArgument.WithMessage("bit width must be in [1, 32]")
	}

	for bitsRead < n {
		ok, err := bs.loadCurrentByte(false)
		if err != nil {
			return value, bitsRead, err
		}
		if !ok {
			// Big-endian packs MSB-first into an n-bit field: bits seen so
			// far are the field's high-order bits, so a short read must be
			// left-justified to where they'd sit in a full n-bit value.
			// Little-endian already accumulates low-to-high as each chunk
			// arrives, so a short read needs no further adjustment.
			if bs.endian == BigEndian {
				value <<= n - bitsRead
			}
			return value, bitsRead, nil
		}

		offset := bs.bitOffset()
		avail := 8 - offset
		take := n - bitsRead
		if take > avail {
			take = avail
		}

		var chunk uint32
		if bs.endian == BigEndian {
			shift := avail - take
			chunk = (uint32(bs.bitBuf) >> shift) & mask(take)
			value = (value << take) | chunk
		} else {
			chunk = (uint32(bs.bitBuf) >> offset) & mask(take)
			value |= chunk << bitsRead
		}

		completesByte := offset+take == 8

		bitsRead += take
		bs.bitPos += int64(take)

		if completesByte {
			if bs.dirty() {
				bs.bitPos -= 8
				if err := bs.commitCurrentByte(); err != nil {
					return value, bitsRead, err
				}
				bs.bitPos += 8
			}
			bs.loaded = false
		}
	}
	return value, bitsRead, nil
}

// Write writes the low n bits (1 <= n <= 32) of value. Writing past the
// current end of the backing stream extends it, provided the backing is
// writable.
func (bs *BitStream) Write(n uint, value uint32) error {
	if n < 1 || n > 32 {
		return streamerrors.ErrInvalidArgument.WithMessage("bit width must be in [1, 32]")
	}

	var bitsWritten uint
	for bitsWritten < n {
		if _, err := bs.loadCurrentByte(true); err != nil {
			return err
		}

		offset := bs.bitOffset()
		avail := 8 - offset
		take := n - bitsWritten
		if take > avail {
			take = avail
		}

		var chunk uint32
		if bs.endian == BigEndian {
			shift := n - bitsWritten - take
			chunk = (value >> shift) & mask(take)
			shift = avail - take
			bs.bitBuf = (bs.bitBuf &^ byte(mask(take)<<shift)) | byte(chunk<<shift)
		} else {
			chunk = (value >> bitsWritten) & mask(take)
			bs.bitBuf = (bs.bitBuf &^ byte(mask(take)<<offset)) | byte(chunk<<offset)
		}

		completesByte := offset+take == 8

		bs.setDirty(true)
		bitsWritten += take
		bs.bitPos += int64(take)

		if completesByte {
			bs.bitPos -= 8
			if err := bs.commitCurrentByte(); err != nil {
				return err
			}
			bs.bitPos += 8
			bs.loaded = false
		}
	}
	return nil
}

// Flush writes any pending partial byte back to the backing stream via
// read-modify-write, leaving the backing's own cursor just past that byte.
// It is a no-op if there is nothing buffered to write back.
func (bs *BitStream) Flush() error {
	if !bs.dirty() {
		return nil
	}
	return bs.commitCurrentByte()
}

// ChangeEndian switches the bit ordering used by subsequent reads and
// writes, flushing any pending write-side partial byte first.
func (bs *BitStream) ChangeEndian(endian Endian) error {
	if err := bs.Flush(); err != nil {
		return err
	}
	bs.endian = endian
	return nil
}

// Endian returns the bit stream's current endianness.
func (bs *BitStream) Endian() Endian {
	return bs.endian
}

// Tell returns the current position, in bits, from the start of the stream.
func (bs *BitStream) Tell() int64 {
	return bs.bitPos
}

// Seek repositions the bit cursor. delta is in bits. Any pending partial
// byte is flushed first. Landing mid-byte pre-fetches that byte so
// subsequent partial reads/writes see its current content.
func (bs *BitStream) Seek(delta int64, from streams.Whence) (int64, error) {
	if err := bs.Flush(); err != nil {
		return bs.bitPos, err
	}

	var baseBits int64
	switch from {
	case streams.SeekStart:
		baseBits = 0
	case streams.SeekCurrent:
		baseBits = bs.bitPos
	case streams.SeekEnd:
		sizeBytes, err := bs.backing.Size()
		if err != nil {
			return bs.bitPos, err
		}
		baseBits = sizeBytes * 8
	}

	newPos := baseBits + delta
	if newPos < 0 {
		return bs.bitPos, streamerrors.ErrSeekFailed.WithMessage("seek before start of bit stream")
	}

	bs.bitPos = newPos
	bs.loaded = false
	bs.setDirty(false)

	if bs.bitOffset() != 0 {
		ok, err := bs.loadCurrentByte(false)
		if err != nil {
			return bs.bitPos, err
		}
		if !ok {
			return bs.bitPos, streamerrors.ErrSeekFailed.WithMessage("seek lands past end of stream mid-byte")
		}
	}

	return bs.bitPos, nil
}
