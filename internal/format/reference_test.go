package format

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func buildTablesForReferenceTest() (*Imports, *Exports) {
	names := NewNameTable()
	imports := NewImports()
	exports := NewExports()

	for _, n := range []string{"ImportA", "ImportB", "ExportA", "ExportB"} {
		names.Add(n)
	}
	get := func(text string) NameRef {
		ref, err := names.Parse(text)
		if err != nil {
			panic(err)
		}
		return ref
	}

	imports.Add(Import{Name: get("ImportA")})
	imports.Add(Import{Name: get("ImportB")})
	exports.exports = append(exports.exports,
		Export{ObjectName: get("ExportA")},
		Export{ObjectName: get("ExportB")},
	)

	return imports, exports
}

func TestReferenceEncodeDecodeRoundTrip(t *testing.T) {
	imports, exports := buildTablesForReferenceTest()

	cases := []Reference{
		UObjectReference(),
		ImportReference(imports.All()[0].Name),
		ImportReference(imports.All()[1].Name),
		ExportReference(exports.All()[0].ObjectName),
		ExportReference(exports.All()[1].ObjectName),
	}

	for _, ref := range cases {
		idx, err := ref.SerializedIndexOf(imports, exports)
		require.NoError(t, err)
		decoded, err := DecodeReference(idx, imports, exports)
		require.NoError(t, err)
		require.Equal(t, ref, decoded)
	}
}

func TestReferenceSerializedIndexConvention(t *testing.T) {
	imports, exports := buildTablesForReferenceTest()

	idx, err := UObjectReference().SerializedIndexOf(imports, exports)
	require.NoError(t, err)
	require.EqualValues(t, 0, idx)

	idx, err = ImportReference(imports.All()[0].Name).SerializedIndexOf(imports, exports)
	require.NoError(t, err)
	require.EqualValues(t, -1, idx)

	idx, err = ExportReference(exports.All()[0].ObjectName).SerializedIndexOf(imports, exports)
	require.NoError(t, err)
	require.EqualValues(t, 1, idx)
}

func TestReferenceWriteRead(t *testing.T) {
	imports, exports := buildTablesForReferenceTest()
	ref := ExportReference(exports.All()[1].ObjectName)

	var buf bytes.Buffer
	require.NoError(t, ref.Write(&buf, imports, exports))

	r := NewByteReader(buf.Bytes())
	got, err := ReadReference(r, imports, exports)
	require.NoError(t, err)
	require.Equal(t, ref, got)
}
