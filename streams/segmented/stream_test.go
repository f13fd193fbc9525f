package segmented_test

import (
	"testing"

	"github.com/DrMcCoy/libgamecommon/streams"
	"github.com/DrMcCoy/libgamecommon/streams/segmented"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOverlay(t *testing.T, content string) (*segmented.Stream, *streams.MemoryStream) {
	t.Helper()
	backing := streams.NewMemoryStream([]byte(content))
	overlay, err := segmented.New(backing)
	require.NoError(t, err)
	return overlay, backing
}

func seekp(t *testing.T, s *segmented.Stream, delta int64, from streams.Whence) int64 {
	t.Helper()
	pos, err := s.SeekWrite(delta, from)
	require.NoError(t, err)
	return pos
}

func write(t *testing.T, s *segmented.Stream, text string) {
	t.Helper()
	n, err := s.TryWrite([]byte(text))
	require.NoError(t, err)
	assert.Equal(t, len(text), n)
}

func commit(t *testing.T, s *segmented.Stream) {
	t.Helper()
	require.NoError(t, s.Commit(nil))
}

func TestStream__OverwriteInPlace(t *testing.T) {
	overlay, backing := newOverlay(t, "ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	seekp(t, overlay, 5, streams.SeekStart)
	write(t, overlay, "123456")
	commit(t, overlay)

	assert.Equal(t, "ABCDE123456LMNOPQRSTUVWXYZ", string(backing.Bytes()))
	pos, err := overlay.TellWrite()
	require.NoError(t, err)
	assert.EqualValues(t, 11, pos)
}

func TestStream__InsertThenFillGap(t *testing.T) {
	overlay, backing := newOverlay(t, "ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	seekp(t, overlay, 4, streams.SeekStart)
	require.NoError(t, overlay.Insert(5))
	write(t, overlay, "12345")
	commit(t, overlay)

	assert.Equal(t, "ABCD12345EFGHIJKLMNOPQRSTUVWXYZ", string(backing.Bytes()))
}

func TestStream__NestedInsertAndOverwrite(t *testing.T) {
	overlay, backing := newOverlay(t, "ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	seekp(t, overlay, 5, streams.SeekStart)
	require.NoError(t, overlay.Insert(10))
	write(t, overlay, "0123456789")
	seekp(t, overlay, -5, streams.SeekCurrent)
	require.NoError(t, overlay.Insert(4))
	write(t, overlay, "!@#$")
	commit(t, overlay)

	assert.Equal(t, "ABCDE01234!@#$56789FGHIJKLMNOPQRSTUVWXYZ", string(backing.Bytes()))
}

func TestStream__AppendAtEndThenPartialOverwrite(t *testing.T) {
	overlay, backing := newOverlay(t, "ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	seekp(t, overlay, 0, streams.SeekEnd)
	require.NoError(t, overlay.Insert(8))
	write(t, overlay, "12345678")
	seekp(t, overlay, -8, streams.SeekCurrent)
	write(t, overlay, "!@#$")
	commit(t, overlay)

	assert.Equal(t, "ABCDEFGHIJKLMNOPQRSTUVWXYZ!@#$5678", string(backing.Bytes()))
}

func TestStream__InsertWriteThenRemoveAcrossIt(t *testing.T) {
	overlay, backing := newOverlay(t, "ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	seekp(t, overlay, 4, streams.SeekStart)
	require.NoError(t, overlay.Insert(5))
	write(t, overlay, "12345")
	seekp(t, overlay, 2, streams.SeekStart)
	require.NoError(t, overlay.Remove(9))
	commit(t, overlay)

	assert.Equal(t, "ABGHIJKLMNOPQRSTUVWXYZ", string(backing.Bytes()))
}

func TestStream__InsertLeavesZeroFilledGap(t *testing.T) {
	overlay, backing := newOverlay(t, "ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	seekp(t, overlay, 20, streams.SeekStart)
	require.NoError(t, overlay.Insert(15))
	write(t, overlay, "1234567890")
	commit(t, overlay)

	expected := "ABCDEFGHIJKLMNOPQRST1234567890\x00\x00\x00\x00\x00UVWXYZ"
	assert.Equal(t, expected, string(backing.Bytes()))
}

func TestStream__ReadCrossesStagedAndBackingSegments(t *testing.T) {
	overlay, _ := newOverlay(t, "ABCDEFGHIJ")
	seekp(t, overlay, 3, streams.SeekStart)
	write(t, overlay, "XY")

	_, err := overlay.SeekRead(0, streams.SeekStart)
	require.NoError(t, err)

	buf := make([]byte, 10)
	n, err := overlay.TryRead(buf)
	require.NoError(t, err)
	assert.Equal(t, 10, n)
	assert.Equal(t, "ABCXYFGHIJ", string(buf))
}

func TestStream__CommitTwiceIsIdempotent(t *testing.T) {
	overlay, backing := newOverlay(t, "ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	seekp(t, overlay, 5, streams.SeekStart)
	write(t, overlay, "123456")
	commit(t, overlay)
	first := string(backing.Bytes())

	var sawLength int64 = -1
	require.NoError(t, overlay.Commit(func(newLength int64) error {
		sawLength = newLength
		return nil
	}))

	assert.Equal(t, first, string(backing.Bytes()))
	size, err := overlay.Size()
	require.NoError(t, err)
	assert.Equal(t, size, sawLength)
}

func TestStream__OnSubstreamGrowsParentThroughCallback(t *testing.T) {
	b := streams.NewMemoryStream([]byte("ABCDEFGHIJKLMNOPQRSTUVWXYZ"))
	sub := streams.NewSubStream(b, 15, 10)

	overlay, err := segmented.New(sub)
	require.NoError(t, err)

	seekp(t, overlay, 8, streams.SeekStart)
	require.NoError(t, overlay.Insert(5))

	growSubViaB := func(newSubLength int64) error {
		oldSize, err := sub.Size()
		if err != nil {
			return err
		}
		delta := newSubLength - oldSize
		if delta <= 0 {
			return nil
		}

		tailStart := sub.Offset() + oldSize
		tail := append([]byte(nil), b.Bytes()[tailStart:]...)
		grown := append(append([]byte(nil), b.Bytes()[:tailStart]...), make([]byte, delta)...)
		grown = append(grown, tail...)
		b.Reset(grown)

		sub.SetSize(newSubLength)
		return nil
	}

	require.NoError(t, overlay.Commit(growSubViaB))

	assert.Equal(t, "ABCDEFGHIJKLMNOPQRSTUVW\x00\x00\x00\x00\x00XYZ", string(b.Bytes()))
	size, err := sub.Size()
	require.NoError(t, err)
	assert.EqualValues(t, 15, size)
}
