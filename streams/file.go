package streams

import (
	"io"
	"os"

	streamerrors "github.com/DrMcCoy/libgamecommon/errors"
)

// FileStream wraps an *os.File as a Stream. It is the "file backing" of
// spec.md section 2: a thin contract-level wrapper, since os.File already
// does the real work. Read and write share the file's single OS-level
// cursor, matching os.File's own semantics.
type FileStream struct {
	file *os.File
}

// OpenFileStream opens path with the given flags and permission bits,
// exactly as os.OpenFile would.
func OpenFileStream(path string, flag int, perm os.FileMode) (*FileStream, error) {
	f, err := os.OpenFile(path, flag, perm)
	if err != nil {
		return nil, streamerrors.ErrOpenFailed.Wrap(err)
	}
	return &FileStream{file: f}, nil
}

// NewFileStream wraps an already-open file.
func NewFileStream(f *os.File) *FileStream {
	return &FileStream{file: f}
}

func (f *FileStream) TryRead(buf []byte) (int, error) {
	n, err := f.file.Read(buf)
	if err != nil && err != io.EOF {
		return n, streamerrors.ErrReadFailed.Wrap(err)
	}
	return n, nil
}

func (f *FileStream) TryWrite(buf []byte) (int, error) {
	n, err := f.file.Write(buf)
	if err != nil {
		return n, streamerrors.ErrWriteFailed.Wrap(err)
	}
	return n, nil
}

func whenceToOS(from Whence) int {
	switch from {
	case SeekCurrent:
		return io.SeekCurrent
	case SeekEnd:
		return io.SeekEnd
	default:
		return io.SeekStart
	}
}

func (f *FileStream) SeekRead(delta int64, from Whence) (int64, error) {
	pos, err := f.file.Seek(delta, whenceToOS(from))
	if err != nil {
		return pos, streamerrors.ErrSeekFailed.Wrap(err)
	}
	return pos, nil
}

func (f *FileStream) SeekWrite(delta int64, from Whence) (int64, error) {
	return f.SeekRead(delta, from)
}

func (f *FileStream) TellRead() (int64, error) {
	return f.file.Seek(0, io.SeekCurrent)
}

func (f *FileStream) TellWrite() (int64, error) {
	return f.TellRead()
}

func (f *FileStream) Size() (int64, error) {
	info, err := f.file.Stat()
	if err != nil {
		return 0, streamerrors.ErrReadFailed.Wrap(err)
	}
	return info.Size(), nil
}

func (f *FileStream) Truncate(newSize int64) error {
	if err := f.file.Truncate(newSize); err != nil {
		return streamerrors.ErrWriteFailed.Wrap(err)
	}
	return nil
}

func (f *FileStream) Flush() error {
	if err := f.file.Sync(); err != nil {
		return streamerrors.ErrWriteFailed.Wrap(err)
	}
	return nil
}

// Close releases the underlying file handle.
func (f *FileStream) Close() error {
	return f.file.Close()
}
