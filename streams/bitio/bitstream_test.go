package bitio_test

import (
	"testing"

	"github.com/DrMcCoy/libgamecommon/streams"
	"github.com/DrMcCoy/libgamecommon/streams/bitio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, bs *bitio.BitStream, width uint, count int) []uint32 {
	t.Helper()
	values := make([]uint32, 0, count)
	for i := 0; i < count; i++ {
		v, n, err := bs.Read(width)
		require.NoError(t, err)
		require.EqualValues(t, width, n, "short read at index %d", i)
		values = append(values, v)
	}
	return values
}

func TestBitStream__EndiannessTable(t *testing.T) {
	fixture := []byte{0x12, 0x34, 0x56, 0x78, 0x9A}

	cases := []struct {
		name   string
		endian bitio.Endian
		width  uint
		want   []uint32
	}{
		{"9-bit LE", bitio.LittleEndian, 9, []uint32{0x012, 0x11A, 0x015, 0x14F, 0x009}},
		{"9-bit BE", bitio.BigEndian, 9, []uint32{0x024, 0x0D1, 0x0B3, 0x189, 0x140}},
		{"12-bit LE", bitio.LittleEndian, 12, []uint32{0x412, 0x563, 0xA78, 0x009}},
		{"12-bit BE", bitio.BigEndian, 12, []uint32{0x123, 0x456, 0x789, 0xA00}},
		{"17-bit LE", bitio.LittleEndian, 17, []uint32{0x03412, 0x13C2B, 0x026}},
		{"17-bit BE", bitio.BigEndian, 17, []uint32{0x02468, 0x159E2, 0x0D000}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			backing := streams.NewMemoryStream(fixture)
			bs := bitio.New(backing, tc.endian)

			got := make([]uint32, 0, len(tc.want))
			for i := range tc.want {
				v, _, err := bs.Read(tc.width)
				require.NoError(t, err, "read %d", i)
				got = append(got, v)
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestBitStream__TrailingShortReadKeepsValue(t *testing.T) {
	fixture := []byte{0x12, 0x34, 0x56, 0x78, 0x9A}

	t.Run("little endian", func(t *testing.T) {
		backing := streams.NewMemoryStream(fixture)
		bs := bitio.New(backing, bitio.LittleEndian)
		_ = readAll(t, bs, 9, 4)

		v, n, err := bs.Read(9)
		require.NoError(t, err)
		assert.EqualValues(t, 4, n)
		assert.EqualValues(t, 0x009, v)
	})

	t.Run("big endian left-justifies the partial bits", func(t *testing.T) {
		backing := streams.NewMemoryStream(fixture)
		bs := bitio.New(backing, bitio.BigEndian)
		_ = readAll(t, bs, 9, 4)

		v, n, err := bs.Read(9)
		require.NoError(t, err)
		assert.EqualValues(t, 4, n)
		assert.EqualValues(t, 0x140, v)
	})
}

func TestBitStream__RoundTrip(t *testing.T) {
	for width := uint(1); width <= 32; width++ {
		for _, endian := range []bitio.Endian{bitio.LittleEndian, bitio.BigEndian} {
			backing := streams.NewMemoryStream(make([]byte, 64))
			writer := bitio.New(backing, endian)

			values := []uint32{0, 1, 0xFFFFFFFF & ((1 << width) - 1), 0x5A5A5A5A & ((1 << width) - 1)}
			for _, v := range values {
				require.NoError(t, writer.Write(width, v))
			}
			require.NoError(t, writer.Flush())

			reader := bitio.New(backing, endian)
			for i, want := range values {
				got, n, err := reader.Read(width)
				require.NoError(t, err)
				require.EqualValues(t, width, n)
				assert.Equal(t, want, got, "width=%d endian=%v index=%d", width, endian, i)
			}
		}
	}
}

func TestBitStream__PartialByteMerge(t *testing.T) {
	t.Run("clears high nibble", func(t *testing.T) {
		backing := streams.NewMemoryStream([]byte{0xFF})
		bs := bitio.New(backing, bitio.BigEndian)
		require.NoError(t, bs.Write(4, 0))
		require.NoError(t, bs.Flush())
		assert.Equal(t, []byte{0x0F}, backing.Bytes())
	})

	t.Run("merges then re-merges low nibble", func(t *testing.T) {
		backing := streams.NewMemoryStream([]byte{0x02})
		bs := bitio.New(backing, bitio.BigEndian)

		require.NoError(t, bs.Write(4, 0xD))
		require.NoError(t, bs.Flush())
		assert.Equal(t, []byte{0xD2}, backing.Bytes())

		require.NoError(t, bs.Write(4, 0xD))
		require.NoError(t, bs.Flush())
		assert.Equal(t, []byte{0xDD}, backing.Bytes())
	})
}

func TestBitStream__SeekThenRead(t *testing.T) {
	fixture := []byte{0x12, 0x34, 0x56, 0x78, 0x9A}
	backing := streams.NewMemoryStream(fixture)
	bs := bitio.New(backing, bitio.LittleEndian)

	_, _, err := bs.Read(11)
	require.NoError(t, err)

	_, err = bs.Seek(5, streams.SeekCurrent)
	require.NoError(t, err)

	got := readAll(t, bs, 8, 3)
	assert.Equal(t, []uint32{0x56, 0x78, 0x9A}, got)
}

func TestBitStream__ShortReadAtEOFIsNotError(t *testing.T) {
	backing := streams.NewMemoryStream([]byte{0xFF})
	bs := bitio.New(backing, bitio.BigEndian)

	v, n, err := bs.Read(16)
	require.NoError(t, err)
	assert.EqualValues(t, 8, n)
	// Big-endian left-justifies a short read to where those bits would sit
	// in a full 16-bit field, so the one available byte lands as the high
	// byte, not the low byte.
	assert.EqualValues(t, 0xFF00, v)
}
