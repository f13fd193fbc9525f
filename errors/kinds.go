package errors

import "fmt"

// Kind is the concrete type of every sentinel error this package defines. It
// behaves like a plain string constant; comparing two Kind values is an
// ordinary string comparison, and errors.Is matches it by that same equality.
type Kind string

// Sentinels matching the error kinds named in spec.md section 6.
const (
	// ErrOpenFailed means the backing stream could not be opened at all.
	ErrOpenFailed = Kind("failed to open stream")
	// ErrReadFailed means a read operation failed for a reason other than
	// reaching the end of the stream.
	ErrReadFailed = Kind("stream read failed")
	// ErrWriteFailed means a write operation failed.
	ErrWriteFailed = Kind("stream write failed")
	// ErrSeekFailed means a seek operation failed, e.g. seeking before the
	// start of a read-only view, or seeking past a hard upper bound.
	ErrSeekFailed = Kind("stream seek failed")
	// ErrIncompleteWrite means an adapter that must fully consume its input
	// received a short write from its backing and cannot retry.
	ErrIncompleteWrite = Kind("incomplete write")
	// ErrIncompleteRead means an adapter that must fully populate its output
	// received a short read from its backing and cannot retry.
	ErrIncompleteRead = Kind("incomplete read")
	// ErrInvalidArgument means a caller passed a value outside the domain an
	// operation accepts (e.g. a negative length, or a bit width outside
	// [1, 32]).
	ErrInvalidArgument = Kind("invalid argument")
	// ErrReadOnly means a mutating operation was attempted on a stream that
	// was opened without write permission.
	ErrReadOnly = Kind("stream is read-only")
	// ErrOutOfRange means an offset or length fell outside the bounds a
	// bounded adapter (e.g. a sub-stream) is willing to honor.
	ErrOutOfRange = Kind("offset out of range")
	// ErrCorruptInput means a filter rejected its input as malformed while
	// decoding.
	ErrCorruptInput = Kind("corrupt filter input")
)

func (k Kind) Error() string {
	return string(k)
}

func (k Kind) WithMessage(message string) StreamError {
	return customStreamError{message: k.Error() + ": " + message, parent: k}
}

func (k Kind) Wrap(err error) StreamError {
	return customStreamError{
		message: k.Error() + ": " + err.Error(),
		parent:  fmt.Errorf("%w: %w", k, err),
	}
}
