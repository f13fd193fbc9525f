package streams

import (
	"io"

	streamerrors "github.com/DrMcCoy/libgamecommon/errors"
	"github.com/xaionaro-go/bytesextra"
)

// MemoryStream is a byte-vector-backed Stream, the "memory backing" of
// spec.md section 2. It is read and write cursor on the same position, the
// way an in-memory buffer naturally is (spec.md section 9, "dual cursors").
//
// Unlike the fixed-capacity view bytesextra.NewReadWriteSeeker hands back,
// MemoryStream grows on demand: writes or Truncate calls past the current
// end reallocate the backing slice, the way the teacher's BlockCache.Resize
// grows its own backing array.
type MemoryStream struct {
	data []byte
	pos  int64
	seek io.ReadWriteSeeker
}

// NewMemoryStream creates a MemoryStream seeded with a copy of initial.
func NewMemoryStream(initial []byte) *MemoryStream {
	data := make([]byte, len(initial))
	copy(data, initial)
	return &MemoryStream{
		data: data,
		seek: bytesextra.NewReadWriteSeeker(data),
	}
}

func (m *MemoryStream) rebuild() {
	m.seek = bytesextra.NewReadWriteSeeker(m.data)
}

func (m *MemoryStream) syncPosition() error {
	_, err := m.seek.Seek(m.pos, io.SeekStart)
	if err != nil {
		return streamerrors.ErrSeekFailed.Wrap(err)
	}
	return nil
}

func (m *MemoryStream) TryRead(buf []byte) (int, error) {
	if err := m.syncPosition(); err != nil {
		return 0, err
	}
	n, err := m.seek.Read(buf)
	m.pos += int64(n)
	if err != nil && err != io.EOF {
		return n, streamerrors.ErrReadFailed.Wrap(err)
	}
	return n, nil
}

func (m *MemoryStream) TryWrite(buf []byte) (int, error) {
	needed := m.pos + int64(len(buf))
	if needed > int64(len(m.data)) {
		m.growTo(needed)
	}
	if err := m.syncPosition(); err != nil {
		return 0, err
	}
	n, err := m.seek.Write(buf)
	m.pos += int64(n)
	if err != nil {
		return n, streamerrors.ErrWriteFailed.Wrap(err)
	}
	return n, nil
}

func (m *MemoryStream) growTo(newSize int64) {
	if newSize <= int64(len(m.data)) {
		return
	}
	grown := make([]byte, newSize)
	copy(grown, m.data)
	m.data = grown
	m.rebuild()
}

func (m *MemoryStream) seekCommon(delta int64, from Whence) (int64, error) {
	var base int64
	switch from {
	case SeekStart:
		base = 0
	case SeekCurrent:
		base = m.pos
	case SeekEnd:
		base = int64(len(m.data))
	}
	newPos := base + delta
	if newPos < 0 {
		return m.pos, streamerrors.ErrSeekFailed.WithMessage("seek before start of stream")
	}
	m.pos = newPos
	return m.pos, nil
}

func (m *MemoryStream) SeekRead(delta int64, from Whence) (int64, error) {
	return m.seekCommon(delta, from)
}

func (m *MemoryStream) SeekWrite(delta int64, from Whence) (int64, error) {
	return m.seekCommon(delta, from)
}

func (m *MemoryStream) TellRead() (int64, error) {
	return m.pos, nil
}

func (m *MemoryStream) TellWrite() (int64, error) {
	return m.pos, nil
}

func (m *MemoryStream) Size() (int64, error) {
	return int64(len(m.data)), nil
}

func (m *MemoryStream) Truncate(newSize int64) error {
	if newSize < 0 {
		return streamerrors.ErrInvalidArgument.WithMessage("negative size")
	}
	if newSize == int64(len(m.data)) {
		return nil
	}
	if newSize > int64(len(m.data)) {
		m.growTo(newSize)
		return nil
	}
	m.data = m.data[:newSize]
	m.rebuild()
	if m.pos > newSize {
		m.pos = newSize
	}
	return nil
}

func (m *MemoryStream) Flush() error {
	return nil
}

// Bytes returns the stream's current contents. The returned slice aliases
// the stream's internal storage and must not be retained across further
// writes.
func (m *MemoryStream) Bytes() []byte {
	return m.data
}

// Reset replaces the stream's entire contents with a copy of data, without
// moving the cursor. It exists for callers that splice bytes into a raw
// backing directly - the "standard idiom" of spec.md section 4.3, where a
// sub-stream's truncate callback grows its parent before calling SetSize.
func (m *MemoryStream) Reset(data []byte) {
	m.data = make([]byte, len(data))
	copy(m.data, data)
	m.rebuild()
}
