package property

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/craigmc08/drg-editor/internal/format"
)

func vectorPattern() StructPattern {
	return StructPattern{
		Kind: PatternBinaryProperties,
		BinaryProperties: []binaryPropertyPattern{
			{Name: "x", Pattern: StructPattern{Kind: PatternFloating, NumericSize: 4}},
			{Name: "y", Pattern: StructPattern{Kind: PatternFloating, NumericSize: 4}},
			{Name: "z", Pattern: StructPattern{Kind: PatternFloating, NumericSize: 4}},
		},
	}
}

func vectorStructValue(x, y, z float64) StructValue {
	return StructValue{
		Kind: StructValueKindBinaryProperties,
		BinaryProperties: []BinaryPropertyValue{
			{Name: "x", Value: StructValue{Kind: StructValueKindFloat, NumericSize: 4, FloatValue: x}},
			{Name: "y", Value: StructValue{Kind: StructValueKindFloat, NumericSize: 4, FloatValue: y}},
			{Name: "z", Value: StructValue{Kind: StructValueKindFloat, NumericSize: 4, FloatValue: z}},
		},
	}
}

// Scenario 4: an array of 2 struct elements, schema announced once via a
// nested Meta/Tag pair, preserving every meta/tag byte exactly across both
// elements.
func TestPropertyArrayOfStructsRoundTrip(t *testing.T) {
	ctx := newTestContext()
	ctx.Patterns.Patterns["Vector"] = vectorPattern()

	innerMeta := Meta{Name: ctx.Names.ParseAndAdd("Positions"), Type: StructProperty, Size: 12}
	innerTag := NewStructTag(ctx, "Vector")

	arrayValue := Value{
		Kind: ValueKindArray,
		ArrayValues: []Value{
			{Kind: ValueKindStruct, Struct: vectorStructValue(1, 2, 3)},
			{Kind: ValueKindStruct, Struct: vectorStructValue(4, 5, 6)},
		},
		ArrayInnerMeta: &innerMeta,
		ArrayInnerTag:  &innerTag,
	}
	tag := Tag{Kind: TagKindArray, ArrayInnerType: StructProperty}
	prop := mustProperty(t, ctx, "Positions", ArrayProperty, tag, arrayValue)

	var buf bytes.Buffer
	require.NoError(t, prop.Serialize(&buf, ctx))
	require.Equal(t, prop.ByteSize(), buf.Len())

	r := format.NewByteReader(buf.Bytes())
	got, ok, err := DeserializeProperty(r, ctx)
	require.NoError(t, err)
	require.True(t, ok)

	require.Equal(t, *arrayValue.ArrayInnerMeta, *got.Value.ArrayInnerMeta)
	require.Equal(t, *arrayValue.ArrayInnerTag, *got.Value.ArrayInnerTag)
	require.Equal(t, arrayValue.ArrayValues, got.Value.ArrayValues)
}

func TestArrayRawDataFallbackForNonStructComplexInner(t *testing.T) {
	ctx := newTestContext()
	raw := Value{Kind: ValueKindRawData, RawData: []byte{1, 2, 3, 4, 5}}
	tag := Tag{Kind: TagKindArray, ArrayInnerType: MapProperty}

	size := LoaderArray.ValueSize(raw, tag)
	require.Equal(t, 5, size)

	var buf bytes.Buffer
	require.NoError(t, LoaderArray.SerializeValue(&buf, raw, tag, ctx))
	require.Equal(t, raw.RawData, buf.Bytes())
}
