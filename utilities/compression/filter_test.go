package compression_test

import (
	"testing"

	"github.com/DrMcCoy/libgamecommon/streams"
	"github.com/DrMcCoy/libgamecommon/streams/filtered"
	"github.com/DrMcCoy/libgamecommon/utilities/compression"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRLE8Filter__RoundTripThroughFilteredStream(t *testing.T) {
	backing := streams.NewMemoryStream(nil)
	s := filtered.Open(backing, &compression.RLE8ReadFilter{}, &compression.RLE8WriteFilter{}, nil)

	original := []byte("aaaaaaaaaabbbbbbbbbbbccccccccccccd")
	n, err := s.TryWrite(original)
	require.NoError(t, err)
	assert.Equal(t, len(original), n)
	require.NoError(t, s.Flush())

	assert.Less(t, len(backing.Bytes()), len(original))

	roundTrip := filtered.Open(backing, &compression.RLE8ReadFilter{}, &compression.RLE8WriteFilter{}, nil)
	buf := make([]byte, len(original))
	got, err := roundTrip.TryRead(buf)
	require.NoError(t, err)
	assert.Equal(t, original, buf[:got])
}

func TestRLE8Filter__EmptyInputRoundTrips(t *testing.T) {
	backing := streams.NewMemoryStream(nil)
	s := filtered.Open(backing, &compression.RLE8ReadFilter{}, &compression.RLE8WriteFilter{}, nil)
	require.NoError(t, s.Flush())

	size, err := s.Size()
	require.NoError(t, err)
	assert.EqualValues(t, 0, size)
}

func TestRLE90Filter__RoundTripThroughFilteredStream(t *testing.T) {
	backing := streams.NewMemoryStream(nil)
	s := filtered.Open(backing, &compression.RLE90ReadFilter{}, &compression.RLE90WriteFilter{}, nil)

	original := []byte("aaaaaaaaaabbbbbbbbbbbccccccccccccd\x90\x90")
	n, err := s.TryWrite(original)
	require.NoError(t, err)
	assert.Equal(t, len(original), n)
	require.NoError(t, s.Flush())

	assert.Less(t, len(backing.Bytes()), len(original))

	roundTrip := filtered.Open(backing, &compression.RLE90ReadFilter{}, &compression.RLE90WriteFilter{}, nil)
	buf := make([]byte, len(original))
	got, err := roundTrip.TryRead(buf)
	require.NoError(t, err)
	assert.Equal(t, original, buf[:got])
}

func TestRLE90Filter__EmptyInputRoundTrips(t *testing.T) {
	backing := streams.NewMemoryStream(nil)
	s := filtered.Open(backing, &compression.RLE90ReadFilter{}, &compression.RLE90WriteFilter{}, nil)
	require.NoError(t, s.Flush())

	size, err := s.Size()
	require.NoError(t, err)
	assert.EqualValues(t, 0, size)
}
