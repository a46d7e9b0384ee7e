package format

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPreloadDependenciesByteSizeIs4PerEntry(t *testing.T) {
	p := NewPreloadDependencies()
	p.Add(UObjectReference())
	p.Add(UObjectReference())
	p.Add(UObjectReference())
	require.Equal(t, 12, p.ByteSize())
}

func TestPreloadDependenciesWriteReadRoundTrip(t *testing.T) {
	names := NewNameTable()
	imports := NewImports()
	exports := NewExports()

	importName := names.ParseAndAdd("SomeImport")
	imports.Add(Import{Name: importName})
	exportName := names.ParseAndAdd("SomeExport")
	exports.exports = append(exports.exports, Export{ObjectName: exportName})

	p := NewPreloadDependencies()
	p.Add(UObjectReference())
	p.Add(ImportReference(importName))
	p.Add(ExportReference(exportName))

	var buf bytes.Buffer
	require.NoError(t, p.Write(&buf, imports, exports))
	require.Equal(t, p.ByteSize(), buf.Len())

	summary := &FileSummary{PreloadDependencyOffset: 0, PreloadDependencyCount: 3}
	r := NewByteReader(buf.Bytes())
	got, err := ReadPreloadDependencies(r, summary, imports, exports)
	require.NoError(t, err)
	require.Equal(t, p.All(), got.All())
}
