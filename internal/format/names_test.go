package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNameTableParseAndAdd(t *testing.T) {
	t.Run("base name with no underscore round-trips at variant 0", func(t *testing.T) {
		nt := NewNameTable()
		ref := nt.ParseAndAdd("PlayerController")
		require.Equal(t, uint32(0), ref.Variant)
		require.Equal(t, "PlayerController", nt.String(ref))

		parsed, err := nt.Parse(nt.String(ref))
		require.NoError(t, err)
		require.Equal(t, ref, parsed)
	})

	t.Run("surface form X_3 parses to variant 3 when X exists", func(t *testing.T) {
		nt := NewNameTable()
		nt.Add("Damage")
		ref, err := nt.Parse("Damage_3")
		require.NoError(t, err)
		require.Equal(t, uint32(3), ref.Variant)
		require.Equal(t, "Damage_3", nt.String(ref))

		base, err := nt.Parse("Damage")
		require.NoError(t, err)
		require.Equal(t, uint32(0), base.Variant)
		require.Equal(t, ref.Index, base.Index)
	})

	t.Run("duplicate Add is a no-op", func(t *testing.T) {
		nt := NewNameTable()
		require.True(t, nt.Add("Health"))
		require.False(t, nt.Add("Health"))
		require.Equal(t, 1, nt.Len())
	})

	t.Run("Parse fails for an absent base name", func(t *testing.T) {
		nt := NewNameTable()
		_, err := nt.Parse("DoesNotExist")
		require.Error(t, err)
	})

	t.Run("ParseAndAdd inserts the base if absent", func(t *testing.T) {
		nt := NewNameTable()
		ref := nt.ParseAndAdd("Shield_12")
		require.Equal(t, uint32(12), ref.Variant)
		require.Equal(t, 1, nt.Len())
		require.Equal(t, "Shield", nt.Names()[0].Text)
	})
}

func TestNameTableByteSizeMatchesWrite(t *testing.T) {
	nt := NewNameTable()
	nt.Add("Foo")
	nt.Add("LongerNameHere")

	var buf fakeWriter
	require.NoError(t, nt.Write(&buf))
	require.Equal(t, nt.ByteSize(), len(buf.bytes))
}

type fakeWriter struct {
	bytes []byte
}

func (w *fakeWriter) Write(p []byte) (int, error) {
	w.bytes = append(w.bytes, p...)
	return len(p), nil
}
