// Package filtered implements a streaming codec adapter (spec.md section
// 4.4/4.5): a Stream backed by another Stream, with a read-side and a
// write-side Filter translating between the backing's encoded bytes and
// the decoded view callers manipulate.
package filtered

import (
	streamerrors "github.com/DrMcCoy/libgamecommon/errors"
)

// Filter is a stateful, one-direction transducer. Transform consumes bytes
// from in and produces bytes into out, reporting how much of each it used.
// A call with len(in) == 0 is the end-of-input sentinel: it asks the filter
// to flush anything buffered internally. Once a call returns done == true,
// the filter must not be used again.
type Filter interface {
	Transform(in []byte, out []byte) (consumed, produced int, done bool, err error)
}

// IdentityFilter copies input to output one-to-one, matching spec.md
// section 4.5's reference filter.
type IdentityFilter struct{}

// Transform implements Filter.
func (IdentityFilter) Transform(in []byte, out []byte) (int, int, bool, error) {
	if len(in) == 0 {
		return 0, 0, true, nil
	}
	n := len(in)
	if len(out) < n {
		n = len(out)
	}
	copy(out[:n], in[:n])
	return n, n, false, nil
}

const drainBufSize = 4096

// drain runs a filter over all of input to completion, including its
// end-of-input flush call, and returns everything it produced.
func drain(filter Filter, input []byte) ([]byte, error) {
	var out []byte
	buf := make([]byte, drainBufSize)
	pos := 0

	for pos < len(input) {
		consumed, produced, done, err := filter.Transform(input[pos:], buf)
		if err != nil {
			return nil, err
		}
		out = append(out, buf[:produced]...)
		pos += consumed
		if done {
			return out, nil
		}
		if consumed == 0 && produced == 0 {
			return nil, streamerrors.ErrCorruptInput.WithMessage("filter made no progress")
		}
	}

	for {
		_, produced, done, err := filter.Transform(nil, buf)
		if err != nil {
			return nil, err
		}
		out = append(out, buf[:produced]...)
		if done || produced == 0 {
			break
		}
	}
	return out, nil
}
