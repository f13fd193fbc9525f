package streams

import (
	"fmt"

	streamerrors "github.com/DrMcCoy/libgamecommon/errors"
)

func errIncompleteRead(got, want int) error {
	return streamerrors.ErrIncompleteRead.WithMessage(
		fmt.Sprintf("read %d of %d requested bytes before stream ran dry", got, want),
	)
}

func errIncompleteWrite(got, want int) error {
	return streamerrors.ErrIncompleteWrite.WithMessage(
		fmt.Sprintf("wrote %d of %d requested bytes before stream stopped accepting them", got, want),
	)
}
