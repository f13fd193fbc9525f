package intcodec_test

import (
	"testing"

	"github.com/DrMcCoy/libgamecommon/intcodec"
	"github.com/DrMcCoy/libgamecommon/streams"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegers__RoundTrip(t *testing.T) {
	s := streams.NewMemoryStream(nil)

	require.NoError(t, intcodec.WriteUint16(s, intcodec.LittleEndian, 0x1234))
	require.NoError(t, intcodec.WriteUint32(s, intcodec.BigEndian, 0xDEADBEEF))
	require.NoError(t, intcodec.WriteInt64(s, intcodec.LittleEndian, -12345))

	_, err := s.SeekRead(0, streams.SeekStart)
	require.NoError(t, err)

	v16, err := intcodec.ReadUint16(s, intcodec.LittleEndian)
	require.NoError(t, err)
	assert.EqualValues(t, 0x1234, v16)

	v32, err := intcodec.ReadUint32(s, intcodec.BigEndian)
	require.NoError(t, err)
	assert.EqualValues(t, 0xDEADBEEF, v32)

	v64, err := intcodec.ReadInt64(s, intcodec.LittleEndian)
	require.NoError(t, err)
	assert.EqualValues(t, -12345, v64)
}

func TestIntegers__ByteOrderProducesDistinctBytes(t *testing.T) {
	le := streams.NewMemoryStream(nil)
	be := streams.NewMemoryStream(nil)
	require.NoError(t, intcodec.WriteUint32(le, intcodec.LittleEndian, 0x01020304))
	require.NoError(t, intcodec.WriteUint32(be, intcodec.BigEndian, 0x01020304))

	assert.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, le.Bytes())
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, be.Bytes())
}

func TestLengthPrefixed__RoundTrip(t *testing.T) {
	s := streams.NewMemoryStream(nil)
	require.NoError(t, intcodec.WriteLengthPrefixed(s, intcodec.LittleEndian, 2, []byte("hello")))

	_, err := s.SeekRead(0, streams.SeekStart)
	require.NoError(t, err)
	got, err := intcodec.ReadLengthPrefixed(s, intcodec.LittleEndian, 2)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))
}

func TestPaddedString__NullTerminated(t *testing.T) {
	s := streams.NewMemoryStream(nil)
	require.NoError(t, intcodec.WritePaddedString(s, 8, 0, "abc"))

	_, err := s.SeekRead(0, streams.SeekStart)
	require.NoError(t, err)
	got, err := intcodec.ReadPaddedString(s, 8, 0)
	require.NoError(t, err)
	assert.Equal(t, "abc", got)
}

func TestPaddedString__SpacePadded(t *testing.T) {
	s := streams.NewMemoryStream(nil)
	require.NoError(t, intcodec.WritePaddedString(s, 8, ' ', "abc"))

	_, err := s.SeekRead(0, streams.SeekStart)
	require.NoError(t, err)
	got, err := intcodec.ReadPaddedString(s, 8, ' ')
	require.NoError(t, err)
	assert.Equal(t, "abc", got)
	assert.Equal(t, "abc     ", string(s.Bytes()))
}

func TestPaddedString__TooLongIsError(t *testing.T) {
	s := streams.NewMemoryStream(nil)
	err := intcodec.WritePaddedString(s, 4, 0, "too long")
	assert.Error(t, err)
}
