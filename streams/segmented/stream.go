package segmented

import (
	streamerrors "github.com/DrMcCoy/libgamecommon/errors"
	"github.com/DrMcCoy/libgamecommon/streams"
)

// Stream is an edit overlay on top of an arbitrary backing stream. It keeps
// a single cursor shared between reads and writes, matching spec.md section
// 3's "single cursor offPos indexes into this logical sequence" - unlike
// SubStream, there is no separate read/write position.
type Stream struct {
	backing  streams.Stream
	segments []segment
	pos      int64
}

// New wraps backing in a fresh edit overlay. The overlay's initial content
// is exactly backing's current bytes.
func New(backing streams.Stream) (*Stream, error) {
	size, err := backing.Size()
	if err != nil {
		return nil, err
	}
	return &Stream{
		backing:  backing,
		segments: []segment{{kind: segBacking, offset: 0, length: size}},
	}, nil
}

func (s *Stream) logicalLength() int64 {
	var total int64
	for _, seg := range s.segments {
		total += seg.len()
	}
	return total
}

// splitAt ensures a segment boundary exists at logical offset pos, and
// returns the index of the first segment starting at or after pos.
func (s *Stream) splitAt(pos int64) int {
	if pos <= 0 {
		return 0
	}
	var acc int64
	for i, seg := range s.segments {
		segLen := seg.len()
		if acc+segLen == pos {
			return i + 1
		}
		if acc+segLen > pos {
			local := pos - acc
			first, second := seg.split(local)
			rest := append([]segment{first, second}, s.segments[i+1:]...)
			s.segments = append(s.segments[:i], rest...)
			return i + 1
		}
		acc += segLen
	}
	return len(s.segments)
}

// locate finds the segment index and the local offset within it that
// corresponds to logical position pos.
func (s *Stream) locate(pos int64) (int, int64) {
	var acc int64
	for i, seg := range s.segments {
		segLen := seg.len()
		if pos < acc+segLen {
			return i, pos - acc
		}
		acc += segLen
	}
	return len(s.segments), 0
}

func (s *Stream) removeAt(pos, n int64) {
	if n <= 0 {
		return
	}
	total := s.logicalLength()
	if pos >= total {
		return
	}
	if pos+n > total {
		n = total - pos
	}
	startIdx := s.splitAt(pos)
	endIdx := s.splitAt(pos + n)
	s.segments = append(s.segments[:startIdx], s.segments[endIdx:]...)
}

func (s *Stream) insertAt(pos int64, data []byte) {
	idx := s.splitAt(pos)
	newSeg := segment{kind: segInline, data: data}
	rest := append([]segment{newSeg}, s.segments[idx:]...)
	s.segments = append(s.segments[:idx], rest...)
}

// Insert stages n zero bytes at the current cursor. Logical length grows by
// n; the cursor itself does not move.
func (s *Stream) Insert(n int64) error {
	if n < 0 {
		return streamerrors.ErrInvalidArgument.WithMessage("negative insert length")
	}
	if n == 0 {
		return nil
	}
	s.insertAt(s.pos, make([]byte, n))
	return nil
}

// Remove deletes up to n bytes starting at the current cursor. Removing
// past the end of the stream is clamped rather than an error.
func (s *Stream) Remove(n int64) error {
	if n < 0 {
		return streamerrors.ErrInvalidArgument.WithMessage("negative remove length")
	}
	s.removeAt(s.pos, n)
	return nil
}

// TryRead reads forward from the cursor across segments, crossing from
// staged inline data to unread backing ranges as needed.
func (s *Stream) TryRead(buf []byte) (int, error) {
	idx, localOff := s.locate(s.pos)
	read := 0
	remaining := buf

	for len(remaining) > 0 && idx < len(s.segments) {
		seg := s.segments[idx]
		avail := seg.len() - localOff
		if avail <= 0 {
			idx++
			localOff = 0
			continue
		}
		n := int64(len(remaining))
		if n > avail {
			n = avail
		}

		if seg.kind == segInline {
			copy(remaining[:n], seg.data[localOff:localOff+n])
		} else {
			if _, err := s.backing.SeekRead(seg.offset+localOff, streams.SeekStart); err != nil {
				s.pos += int64(read)
				return read, err
			}
			got, err := s.backing.TryRead(remaining[:n])
			read += got
			s.pos += int64(got)
			remaining = remaining[got:]
			localOff += int64(got)
			if err != nil || int64(got) < n {
				return read, err
			}
			if localOff >= seg.len() {
				idx++
				localOff = 0
			}
			continue
		}

		remaining = remaining[n:]
		read += int(n)
		s.pos += n
		localOff += n
		if localOff >= seg.len() {
			idx++
			localOff = 0
		}
	}
	return read, nil
}

// TryWrite overwrites n = len(buf) bytes at the cursor, splicing staged
// data in place of whatever was there. Writing past the current logical
// end extends the stream's length.
func (s *Stream) TryWrite(buf []byte) (int, error) {
	n := int64(len(buf))
	if n == 0 {
		return 0, nil
	}

	total := s.logicalLength()
	removeLen := n
	if s.pos+removeLen > total {
		removeLen = total - s.pos
	}
	if removeLen < 0 {
		removeLen = 0
	}

	s.removeAt(s.pos, removeLen)
	s.insertAt(s.pos, append([]byte(nil), buf...))
	s.pos += n
	return len(buf), nil
}

func (s *Stream) seek(delta int64, from streams.Whence) (int64, error) {
	var base int64
	switch from {
	case streams.SeekStart:
		base = 0
	case streams.SeekCurrent:
		base = s.pos
	case streams.SeekEnd:
		base = s.logicalLength()
	}
	newPos := base + delta
	if newPos < 0 {
		return s.pos, streamerrors.ErrSeekFailed.WithMessage("seek before start of segmented stream")
	}
	s.pos = newPos
	return s.pos, nil
}

func (s *Stream) SeekRead(delta int64, from streams.Whence) (int64, error)  { return s.seek(delta, from) }
func (s *Stream) SeekWrite(delta int64, from streams.Whence) (int64, error) { return s.seek(delta, from) }
func (s *Stream) TellRead() (int64, error)                                 { return s.pos, nil }
func (s *Stream) TellWrite() (int64, error)                                { return s.pos, nil }

func (s *Stream) Size() (int64, error) {
	return s.logicalLength(), nil
}

// Truncate grows or shrinks the logical stream by inserting zero bytes or
// removing trailing bytes at the current end, leaving the cursor unmoved.
func (s *Stream) Truncate(newSize int64) error {
	if newSize < 0 {
		return streamerrors.ErrInvalidArgument.WithMessage("negative size")
	}
	total := s.logicalLength()
	savedPos := s.pos
	defer func() { s.pos = savedPos }()

	if newSize < total {
		s.pos = newSize
		s.removeAt(s.pos, total-newSize)
		return nil
	}
	if newSize > total {
		s.pos = total
		s.insertAt(s.pos, make([]byte, newSize-total))
	}
	return nil
}

// materialize reads the stream's entire logical content into one buffer,
// pulling staged bytes directly and unread backing ranges from backing.
func (s *Stream) materialize() ([]byte, error) {
	total := s.logicalLength()
	buf := make([]byte, total)
	var pos int64
	for _, seg := range s.segments {
		n := seg.len()
		if n == 0 {
			continue
		}
		if seg.kind == segInline {
			copy(buf[pos:pos+n], seg.data)
		} else {
			if _, err := s.backing.SeekRead(seg.offset, streams.SeekStart); err != nil {
				return nil, err
			}
			if err := streams.ReadFull(s.backing, buf[pos:pos+n]); err != nil {
				return nil, err
			}
		}
		pos += n
	}
	return buf, nil
}

// Commit reconciles every pending insert/remove/write into the backing
// stream in one pass. The full logical content is read into memory first;
// then truncateCB, if non-nil, is invoked once with the final logical
// length before anything is written - this is the hook a fixed-capacity
// backing (e.g. a SubStream) uses to grow itself first; see
// streams.TruncateFunc. With a nil truncateCB the backing's own Truncate is
// called with that length instead. After Commit, the overlay holds no
// staged edits: its single segment is the full backing range.
//
// Per spec.md section 4.3 the callback fires "at the end of commit" with
// the final length, but it must still run before any bytes move, since a
// fixed-capacity backing has to have room before the write lands. The
// backing sees exactly one truncate notification, carrying the true final
// size; because the content was already read, a shrinking resize cannot
// cut off backing bytes that are still to be moved.
func (s *Stream) Commit(truncateCB streams.TruncateFunc) error {
	total := s.logicalLength()
	buf, err := s.materialize()
	if err != nil {
		return err
	}

	if truncateCB != nil {
		if err := truncateCB(total); err != nil {
			return err
		}
	} else if err := s.backing.Truncate(total); err != nil {
		return err
	}

	if _, err := s.backing.SeekWrite(0, streams.SeekStart); err != nil {
		return err
	}
	if err := streams.WriteFull(s.backing, buf); err != nil {
		return err
	}
	if err := s.backing.Flush(); err != nil {
		return err
	}

	s.segments = []segment{{kind: segBacking, offset: 0, length: total}}
	return nil
}

// Flush commits with no truncate callback (the backing resizes itself
// through its own Truncate), for callers that only need Stream to satisfy
// the generic streams.Stream interface.
func (s *Stream) Flush() error {
	return s.Commit(nil)
}
