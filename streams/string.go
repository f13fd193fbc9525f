package streams

import (
	streamerrors "github.com/DrMcCoy/libgamecommon/errors"
	"github.com/noxer/bytewriter"
)

// StringStream is a fixed-capacity, slice-backed Stream: the "string
// backing" of spec.md section 2. Unlike MemoryStream it never grows -
// writes past its capacity fail, the way writing past the end of
// outputSlice does for the teacher's format.go, which builds a
// bytewriter.Writer over a single preallocated slice.
type StringStream struct {
	buf []byte
	pos int64
}

// NewStringStream wraps buf as a fixed-capacity Stream. Writes mutate buf in
// place; the stream's length never exceeds len(buf).
func NewStringStream(buf []byte) *StringStream {
	return &StringStream{buf: buf}
}

func (s *StringStream) TryRead(out []byte) (int, error) {
	if s.pos >= int64(len(s.buf)) {
		return 0, nil
	}
	n := copy(out, s.buf[s.pos:])
	s.pos += int64(n)
	return n, nil
}

func (s *StringStream) TryWrite(in []byte) (int, error) {
	if s.pos >= int64(len(s.buf)) {
		return 0, streamerrors.ErrWriteFailed.WithMessage("write past end of fixed-capacity string stream")
	}
	writer := bytewriter.New(s.buf[s.pos:])
	n, err := writer.Write(in)
	s.pos += int64(n)
	if err != nil {
		return n, streamerrors.ErrWriteFailed.Wrap(err)
	}
	return n, nil
}

func (s *StringStream) seekCommon(delta int64, from Whence) (int64, error) {
	var base int64
	switch from {
	case SeekStart:
		base = 0
	case SeekCurrent:
		base = s.pos
	case SeekEnd:
		base = int64(len(s.buf))
	}
	newPos := base + delta
	if newPos < 0 {
		return s.pos, streamerrors.ErrSeekFailed.WithMessage("seek before start of stream")
	}
	s.pos = newPos
	return s.pos, nil
}

func (s *StringStream) SeekRead(delta int64, from Whence) (int64, error) {
	return s.seekCommon(delta, from)
}

func (s *StringStream) SeekWrite(delta int64, from Whence) (int64, error) {
	return s.seekCommon(delta, from)
}

func (s *StringStream) TellRead() (int64, error) {
	return s.pos, nil
}

func (s *StringStream) TellWrite() (int64, error) {
	return s.pos, nil
}

func (s *StringStream) Size() (int64, error) {
	return int64(len(s.buf)), nil
}

// Truncate is only meaningful for shrinking a StringStream - it cannot grow
// past its current length (not even back to a length it had before an
// earlier shrink), since it owns no storage of its own.
func (s *StringStream) Truncate(newSize int64) error {
	if newSize < 0 || newSize > int64(len(s.buf)) {
		return streamerrors.ErrOutOfRange.WithMessage("fixed-capacity string stream cannot grow")
	}
	s.buf = s.buf[:newSize]
	if s.pos > newSize {
		s.pos = newSize
	}
	return nil
}

func (s *StringStream) Flush() error {
	return nil
}
