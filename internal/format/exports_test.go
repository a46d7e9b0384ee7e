package format

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExportsByteSizeIs104PerExport(t *testing.T) {
	exports := &Exports{exports: []Export{{}, {}}}
	require.Equal(t, 208, exports.ByteSize())
}

func TestExportsWriteSizeMatchesByteSize(t *testing.T) {
	names := NewNameTable()
	imports := NewImports()
	exports := NewExports()
	exports.exports = append(exports.exports, Export{
		ObjectName:   names.ParseAndAdd("ExportA"),
		SerialSize:   10,
		SerialOffset: 1000,
	})

	var buf bytes.Buffer
	require.NoError(t, exports.Write(&buf, imports, exports))
	require.Equal(t, exports.ByteSize(), buf.Len())
	require.Equal(t, ExportsByteSize, buf.Len())
}

func TestExportsReadFillsExportFileOffsetAsRunningSum(t *testing.T) {
	names := NewNameTable()
	imports := NewImports()
	exports := NewExports()
	exports.exports = append(exports.exports,
		Export{ObjectName: names.ParseAndAdd("A"), SerialSize: 10},
		Export{ObjectName: names.ParseAndAdd("B"), SerialSize: 20},
		Export{ObjectName: names.ParseAndAdd("C"), SerialSize: 30},
	)

	var buf bytes.Buffer
	require.NoError(t, exports.Write(&buf, imports, exports))

	summary := &FileSummary{ExportOffset: 0, ExportCount: 3}
	r := NewByteReader(buf.Bytes())
	got, _, err := ReadExports(r, summary)
	require.NoError(t, err)

	require.EqualValues(t, 0, got.All()[0].ExportFileOffset)
	require.EqualValues(t, 10, got.All()[1].ExportFileOffset)
	require.EqualValues(t, 30, got.All()[2].ExportFileOffset)
}

func TestExportsWasFilteredRoundTrips(t *testing.T) {
	names := NewNameTable()
	imports := NewImports()
	exports := NewExports()
	exports.exports = append(exports.exports,
		Export{ObjectName: names.ParseAndAdd("Filtered"), WasFiltered: true},
		Export{ObjectName: names.ParseAndAdd("Kept"), WasFiltered: false},
	)

	var buf bytes.Buffer
	require.NoError(t, exports.Write(&buf, imports, exports))
	require.Equal(t, exports.ByteSize(), buf.Len())

	summary := &FileSummary{ExportOffset: 0, ExportCount: 2}
	r := NewByteReader(buf.Bytes())
	got, _, err := ReadExports(r, summary)
	require.NoError(t, err)

	require.True(t, got.All()[0].WasFiltered)
	require.False(t, got.All()[1].WasFiltered)
}

func TestExportsResolveRefsRoundTripsClassAndOuter(t *testing.T) {
	names := NewNameTable()
	imports := NewImports()
	exports := NewExports()

	classImportName := names.ParseAndAdd("StaticMeshClass")
	imports.Add(Import{Name: classImportName})

	aName := names.ParseAndAdd("A")
	exports.exports = append(exports.exports, Export{ObjectName: aName})
	bName := names.ParseAndAdd("B")
	exports.exports = append(exports.exports, Export{
		ObjectName: bName,
		ClassIndex: ImportReference(classImportName),
		Outer:      ExportReference(aName),
	})

	var buf bytes.Buffer
	require.NoError(t, exports.Write(&buf, imports, exports))

	summary := &FileSummary{ExportOffset: 0, ExportCount: 2}
	r := NewByteReader(buf.Bytes())
	got, raws, err := ReadExports(r, summary)
	require.NoError(t, err)
	require.NoError(t, got.ResolveRefs(raws, imports, got))

	require.Equal(t, UObjectReference(), got.All()[0].ClassIndex)
	require.Equal(t, ImportReference(classImportName), got.All()[1].ClassIndex)
	require.Equal(t, ExportReference(aName), got.All()[1].Outer)
}
