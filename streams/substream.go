package streams

import (
	streamerrors "github.com/DrMcCoy/libgamecommon/errors"
)

// SubStream is a fixed-offset, bounded window onto another Stream: it
// exposes [0, length) as a translation of [offset, offset+length) in the
// parent. Per spec.md section 4.2, growing a sub-stream is a two-step
// protocol: whatever grows the parent calls SetSize once the parent
// actually has room, since SubStream itself never resizes its parent.
type SubStream struct {
	parent   Stream
	offset   int64
	length   int64
	readPos  int64
	writePos int64
}

// NewSubStream creates a view onto parent covering [offset, offset+length).
func NewSubStream(parent Stream, offset, length int64) *SubStream {
	return &SubStream{parent: parent, offset: offset, length: length}
}

// Offset returns the sub-stream's fixed starting offset in the parent.
func (s *SubStream) Offset() int64 {
	return s.offset
}

// Size returns the sub-stream's current logical length.
func (s *SubStream) Size() (int64, error) {
	return s.length, nil
}

// SetSize updates the sub-stream's bookkeeping only. The caller must already
// have arranged for the parent to actually hold offset+newLength bytes -
// this is the "standard idiom" of spec.md section 4.3: a truncate callback
// grows the parent (typically via the parent's own insert operation) and
// then calls SetSize to tell the sub-stream about its new bounds.
func (s *SubStream) SetSize(newLength int64) {
	s.length = newLength
	if s.readPos > newLength {
		s.readPos = newLength
	}
	if s.writePos > newLength {
		s.writePos = newLength
	}
}

func clipLen(pos, length int64, want int) int {
	remaining := length - pos
	if remaining <= 0 {
		return 0
	}
	if int64(want) > remaining {
		return int(remaining)
	}
	return want
}

func (s *SubStream) TryRead(buf []byte) (int, error) {
	n := clipLen(s.readPos, s.length, len(buf))
	if n == 0 {
		return 0, nil
	}
	if _, err := s.parent.SeekRead(s.offset+s.readPos, SeekStart); err != nil {
		return 0, err
	}
	got, err := s.parent.TryRead(buf[:n])
	s.readPos += int64(got)
	return got, err
}

func (s *SubStream) TryWrite(buf []byte) (int, error) {
	n := clipLen(s.writePos, s.length, len(buf))
	if n == 0 {
		if len(buf) == 0 {
			return 0, nil
		}
		return 0, streamerrors.ErrWriteFailed.WithMessage("write past end of sub-stream")
	}
	if _, err := s.parent.SeekWrite(s.offset+s.writePos, SeekStart); err != nil {
		return 0, err
	}
	written, err := s.parent.TryWrite(buf[:n])
	s.writePos += int64(written)
	return written, err
}

func (s *SubStream) seekCommon(pos, delta int64, from Whence) (int64, error) {
	var base int64
	switch from {
	case SeekStart:
		base = 0
	case SeekCurrent:
		base = pos
	case SeekEnd:
		base = s.length
	}
	newPos := base + delta
	if newPos < 0 {
		return pos, streamerrors.ErrSeekFailed.WithMessage("seek before start of sub-stream")
	}
	return newPos, nil
}

func (s *SubStream) SeekRead(delta int64, from Whence) (int64, error) {
	newPos, err := s.seekCommon(s.readPos, delta, from)
	if err != nil {
		return s.readPos, err
	}
	s.readPos = newPos
	return s.readPos, nil
}

func (s *SubStream) SeekWrite(delta int64, from Whence) (int64, error) {
	newPos, err := s.seekCommon(s.writePos, delta, from)
	if err != nil {
		return s.writePos, err
	}
	s.writePos = newPos
	return s.writePos, nil
}

func (s *SubStream) TellRead() (int64, error) {
	return s.readPos, nil
}

func (s *SubStream) TellWrite() (int64, error) {
	return s.writePos, nil
}

// Truncate changes the sub-stream's logical length. Shrinking always
// succeeds. Growing only succeeds if the parent already has room for
// offset+newSize bytes - per spec.md section 4.2, a sub-stream does not
// grow its own parent; use a TruncateFunc that grows the parent first and
// then calls SetSize.
func (s *SubStream) Truncate(newSize int64) error {
	if newSize < 0 {
		return streamerrors.ErrInvalidArgument.WithMessage("negative size")
	}
	if newSize > s.length {
		parentSize, err := s.parent.Size()
		if err != nil {
			return err
		}
		if s.offset+newSize > parentSize {
			return streamerrors.ErrOutOfRange.WithMessage(
				"parent must be grown before the sub-stream can grow into it",
			)
		}
	}
	s.SetSize(newSize)
	return nil
}

func (s *SubStream) Flush() error {
	return s.parent.Flush()
}
