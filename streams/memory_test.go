package streams_test

import (
	"testing"

	"github.com/DrMcCoy/libgamecommon/streams"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStream__ReadWriteRoundTrip(t *testing.T) {
	stream := streams.NewMemoryStream([]byte("ABCDEFGHIJ"))

	buf := make([]byte, 4)
	n, err := stream.TryRead(buf)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "ABCD", string(buf))

	_, err = stream.SeekWrite(2, streams.SeekStart)
	require.NoError(t, err)
	n, err = stream.TryWrite([]byte("xyz"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "ABxyzFGHIJ", string(stream.Bytes()))
}

func TestMemoryStream__GrowsOnWritePastEnd(t *testing.T) {
	stream := streams.NewMemoryStream([]byte("ABC"))

	_, err := stream.SeekWrite(0, streams.SeekEnd)
	require.NoError(t, err)
	_, err = stream.TryWrite([]byte("DEF"))
	require.NoError(t, err)

	size, err := stream.Size()
	require.NoError(t, err)
	assert.EqualValues(t, 6, size)
	assert.Equal(t, "ABCDEF", string(stream.Bytes()))
}

func TestMemoryStream__TruncateShrinks(t *testing.T) {
	stream := streams.NewMemoryStream([]byte("ABCDEF"))

	require.NoError(t, stream.Truncate(3))
	size, err := stream.Size()
	require.NoError(t, err)
	assert.EqualValues(t, 3, size)
	assert.Equal(t, "ABC", string(stream.Bytes()))
}

func TestMemoryStream__ShortReadAtEOFIsNotAnError(t *testing.T) {
	stream := streams.NewMemoryStream([]byte("AB"))

	buf := make([]byte, 10)
	n, err := stream.TryRead(buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = stream.TryRead(buf)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestMemoryStream__SeekBeforeStartFails(t *testing.T) {
	stream := streams.NewMemoryStream([]byte("ABC"))
	_, err := stream.SeekRead(-1, streams.SeekStart)
	assert.Error(t, err)
}
