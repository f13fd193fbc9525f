package filtered

import (
	streamerrors "github.com/DrMcCoy/libgamecommon/errors"
	"github.com/DrMcCoy/libgamecommon/streams"
)

// Stream adapts a byte-oriented backing through a read Filter and a write
// Filter, presenting callers with the decoded view (spec.md section 4.4).
// Filters are not required to preserve length, so the only portable
// implementation materialises the whole decoded content in memory; this
// is not a performance concern for individual game asset files.
type Stream struct {
	backing     streams.Stream
	readFilter  Filter
	writeFilter Filter
	truncateCB  streams.TruncateFunc

	cache  []byte
	loaded bool
	dirty  bool
	pos    int64
}

// Open constructs a filtered view of backing. truncateCB may be nil when
// backing can resize itself directly (including when backing is itself a
// *Stream - see "Chaining" below).
func Open(backing streams.Stream, readFilter, writeFilter Filter, truncateCB streams.TruncateFunc) *Stream {
	return &Stream{
		backing:     backing,
		readFilter:  readFilter,
		writeFilter: writeFilter,
		truncateCB:  truncateCB,
	}
}

func (s *Stream) ensureLoaded() error {
	if s.loaded {
		return nil
	}
	size, err := s.backing.Size()
	if err != nil {
		return err
	}
	raw := make([]byte, size)
	if _, err := s.backing.SeekRead(0, streams.SeekStart); err != nil {
		return err
	}
	if err := streams.ReadFull(s.backing, raw); err != nil {
		return err
	}
	decoded, err := drain(s.readFilter, raw)
	if err != nil {
		return streamerrors.ErrReadFailed.Wrap(err)
	}
	s.cache = decoded
	s.loaded = true
	return nil
}

func (s *Stream) growTo(n int64) {
	if n <= int64(len(s.cache)) {
		return
	}
	grown := make([]byte, n)
	copy(grown, s.cache)
	s.cache = grown
}

func (s *Stream) TryRead(buf []byte) (int, error) {
	if err := s.ensureLoaded(); err != nil {
		return 0, err
	}
	if s.pos >= int64(len(s.cache)) {
		return 0, nil
	}
	n := copy(buf, s.cache[s.pos:])
	s.pos += int64(n)
	return n, nil
}

func (s *Stream) TryWrite(buf []byte) (int, error) {
	if err := s.ensureLoaded(); err != nil {
		return 0, err
	}
	needed := s.pos + int64(len(buf))
	s.growTo(needed)
	n := copy(s.cache[s.pos:], buf)
	s.pos += int64(n)
	s.dirty = true
	return n, nil
}

func (s *Stream) seekCommon(delta int64, from streams.Whence) (int64, error) {
	var base int64
	switch from {
	case streams.SeekStart:
		base = 0
	case streams.SeekCurrent:
		base = s.pos
	case streams.SeekEnd:
		if err := s.ensureLoaded(); err != nil {
			return s.pos, err
		}
		base = int64(len(s.cache))
	}
	newPos := base + delta
	if newPos < 0 {
		return s.pos, streamerrors.ErrSeekFailed.WithMessage("seek before start of filtered stream")
	}
	s.pos = newPos
	return s.pos, nil
}

func (s *Stream) SeekRead(delta int64, from streams.Whence) (int64, error) {
	return s.seekCommon(delta, from)
}

func (s *Stream) SeekWrite(delta int64, from streams.Whence) (int64, error) {
	return s.seekCommon(delta, from)
}

func (s *Stream) TellRead() (int64, error)  { return s.pos, nil }
func (s *Stream) TellWrite() (int64, error) { return s.pos, nil }

// Size returns the decoded length - the view the caller manipulates.
func (s *Stream) Size() (int64, error) {
	if err := s.ensureLoaded(); err != nil {
		return 0, err
	}
	return int64(len(s.cache)), nil
}

func (s *Stream) Truncate(newSize int64) error {
	if newSize < 0 {
		return streamerrors.ErrInvalidArgument.WithMessage("negative size")
	}
	if err := s.ensureLoaded(); err != nil {
		return err
	}
	if newSize <= int64(len(s.cache)) {
		s.cache = s.cache[:newSize]
	} else {
		s.growTo(newSize)
	}
	if s.pos > newSize {
		s.pos = newSize
	}
	s.dirty = true
	return nil
}

// Flush re-encodes the cache through the write filter and writes the
// result to backing only if the cache has pending writes. Chaining a
// filtered stream on top of another one works without special casing:
// backing.Truncate resizes the inner cache, backing.Flush recurses into
// the inner stream's own re-encode.
func (s *Stream) Flush() error {
	if !s.dirty {
		return nil
	}

	encoded, err := drain(s.writeFilter, s.cache)
	if err != nil {
		return streamerrors.ErrWriteFailed.Wrap(err)
	}

	if s.truncateCB != nil {
		if err := s.truncateCB(int64(len(encoded))); err != nil {
			return err
		}
	} else if err := s.backing.Truncate(int64(len(encoded))); err != nil {
		return err
	}

	if _, err := s.backing.SeekWrite(0, streams.SeekStart); err != nil {
		return err
	}
	if err := streams.WriteFull(s.backing, encoded); err != nil {
		return err
	}
	if err := s.backing.Flush(); err != nil {
		return err
	}

	s.dirty = false
	return nil
}
