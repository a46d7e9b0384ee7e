package format

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteReaderLimitUnlimit(t *testing.T) {
	r := NewByteReader([]byte{1, 2, 3, 4, 5, 6, 7, 8})

	r.Limit(3)
	require.False(t, r.AtEnd())
	require.EqualValues(t, 3, r.RemainingBytes())

	buf := make([]byte, 3)
	n, err := r.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.True(t, r.AtEnd())

	// Reading past the limit is an early EOF, not an error about the
	// underlying buffer (5 bytes remain there).
	_, err = r.Read(buf)
	require.ErrorIs(t, err, io.EOF)

	r.Unlimit()
	require.False(t, r.AtEnd())
	require.EqualValues(t, 5, r.RemainingBytes())
}

func TestByteReaderNestedLimits(t *testing.T) {
	r := NewByteReader(make([]byte, 20))
	r.Limit(10)
	r.Limit(4)
	require.EqualValues(t, 4, r.RemainingBytes())
	r.Unlimit()
	require.EqualValues(t, 10, r.RemainingBytes())
	r.Unlimit()
	require.EqualValues(t, 20, r.RemainingBytes())
}

func TestByteReaderSeekIgnoresLimit(t *testing.T) {
	r := NewByteReader(make([]byte, 20))
	r.Limit(2)
	pos, err := r.Seek(15, io.SeekStart)
	require.NoError(t, err)
	require.EqualValues(t, 15, pos)
	require.EqualValues(t, 15, r.Position())
}

func TestByteReaderPeekMatches(t *testing.T) {
	r := NewByteReader([]byte{0xDE, 0xAD, 0xBE, 0xEF})
	require.True(t, r.PeekMatches([]byte{0xDE, 0xAD}))
	require.False(t, r.PeekMatches([]byte{0xBE, 0xEF}))
	require.EqualValues(t, 0, r.Position(), "PeekMatches must not advance the reader")
}
