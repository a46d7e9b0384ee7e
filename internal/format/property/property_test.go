package property

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/craigmc08/drg-editor/internal/format"
)

func newTestContext() *Context {
	names := format.NewNameTable()
	return &Context{
		Summary:  &format.FileSummary{},
		Names:    names,
		Imports:  format.NewImports(),
		Exports:  format.NewExports(),
		Patterns: &StructPatterns{Patterns: map[string]StructPattern{}},
	}
}

func mustProperty(t *testing.T, ctx *Context, name string, typ PropType, tag Tag, value Value) Property {
	t.Helper()
	p, err := NewProperty(ctx, name, typ, tag, value)
	require.NoError(t, err)
	return p
}

// Scenario 1: an empty property bag terminated only by the None sentinel.
func TestPropertiesEmptyBagEndsWithNone(t *testing.T) {
	ctx := newTestContext()
	p := Properties{EndsWithNone: true}

	var buf bytes.Buffer
	require.NoError(t, p.Serialize(&buf, ctx))
	require.Equal(t, 8, buf.Len())
	require.Equal(t, p.ByteSize(), buf.Len())
}

func TestPropertiesNoNoneIsZeroBytes(t *testing.T) {
	p := Properties{}
	require.Equal(t, 0, p.ByteSize())
}

// Scenario 2: a dense array of IntProperty values round-trips through
// Serialize/DeserializeProperty.
func TestPropertyDenseIntArrayRoundTrip(t *testing.T) {
	ctx := newTestContext()
	arrayValue := Value{
		Kind: ValueKindArray,
		ArrayValues: []Value{
			{Kind: ValueKindInt, Int: 1},
			{Kind: ValueKindInt, Int: 2},
			{Kind: ValueKindInt, Int: 3},
		},
	}
	tag := Tag{Kind: TagKindArray, ArrayInnerType: IntProperty}
	prop := mustProperty(t, ctx, "Ids", ArrayProperty, tag, arrayValue)

	require.EqualValues(t, 16, prop.Meta.Size) // 4 (count) + 3*4 (elements)

	var buf bytes.Buffer
	require.NoError(t, prop.Serialize(&buf, ctx))
	require.Equal(t, prop.ByteSize(), buf.Len())

	r := format.NewByteReader(buf.Bytes())
	got, ok, err := DeserializeProperty(r, ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, prop, got)
}

// Scenario 3: a BoolProperty carries its value entirely in the 1-byte tag
// and an empty value with declared size 0.
func TestPropertyBoolTagCarriesValue(t *testing.T) {
	ctx := newTestContext()
	tag := Tag{Kind: TagKindBool, BoolValue: true}
	prop := mustProperty(t, ctx, "IsActive", BoolProperty, tag, Value{Kind: ValueKindBool})

	require.EqualValues(t, 0, prop.Meta.Size)

	var buf bytes.Buffer
	require.NoError(t, prop.Serialize(&buf, ctx))
	// 24 (meta) + 1 (tag) + 1 (separator) + 0 (value)
	require.Equal(t, 26, buf.Len())

	r := format.NewByteReader(buf.Bytes())
	got, ok, err := DeserializeProperty(r, ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, got.Tag.BoolValue)
}

// "Meta-derived size" testable property: Meta.Size counts the value bytes
// only, so a serialized property is the 24-byte meta, the tag, the 1-byte
// separator, and exactly Meta.Size value bytes.
func TestPropertySerializedLengthMatchesMetaSize(t *testing.T) {
	ctx := newTestContext()
	prop := mustProperty(t, ctx, "Health", IntProperty, SimpleTag(IntProperty), Value{Kind: ValueKindInt, Int: 42})

	var buf bytes.Buffer
	require.NoError(t, prop.Serialize(&buf, ctx))
	require.Equal(t, int(prop.Meta.Size), buf.Len()-MetaByteSize-LoaderInt.TagSize(prop.Tag)-1)
}

func TestDeserializePropertyDetectsNoneTerminator(t *testing.T) {
	ctx := newTestContext()
	var buf bytes.Buffer
	require.NoError(t, WriteNoneTerminator(&buf, ctx))

	r := format.NewByteReader(buf.Bytes())
	_, ok, err := DeserializeProperty(r, ctx)
	require.NoError(t, err)
	require.False(t, ok)
}
