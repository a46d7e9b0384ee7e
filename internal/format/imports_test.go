package format

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestImportsAddIsAddIfAbsent(t *testing.T) {
	names := NewNameTable()
	imports := NewImports()

	classPackage := names.ParseAndAdd("/Script/Engine")
	className := names.ParseAndAdd("Class")
	objName := names.ParseAndAdd("StaticMesh")

	idx1 := imports.Add(Import{ClassPackage: classPackage, ClassName: className, Name: objName})
	idx2 := imports.Add(Import{ClassPackage: classPackage, ClassName: className, Name: objName})

	require.Equal(t, idx1, idx2)
	require.Equal(t, 1, imports.Len())
}

func TestImportsByteSizeMatchesWrite(t *testing.T) {
	names := NewNameTable()
	imports := NewImports()
	exports := NewExports()

	imports.Add(Import{
		ClassPackage: names.ParseAndAdd("/Script/Engine"),
		ClassName:    names.ParseAndAdd("Class"),
		Outer:        UObjectReference(),
		Name:         names.ParseAndAdd("A"),
	})
	imports.Add(Import{
		ClassPackage: names.ParseAndAdd("/Script/Engine"),
		ClassName:    names.ParseAndAdd("Class"),
		Outer:        ImportReference(names.ParseAndAdd("A")),
		Name:         names.ParseAndAdd("B"),
	})

	var buf bytes.Buffer
	require.NoError(t, imports.Write(&buf, imports, exports))
	require.Equal(t, imports.ByteSize(), buf.Len())
	require.Equal(t, 56, buf.Len())
}

func TestImportsReadRoundTripsOuterReference(t *testing.T) {
	names := NewNameTable()
	imports := NewImports()
	exports := NewExports()

	aName := names.ParseAndAdd("A")
	imports.Add(Import{
		ClassPackage: names.ParseAndAdd("/Script/Engine"),
		ClassName:    names.ParseAndAdd("Class"),
		Outer:        UObjectReference(),
		Name:         aName,
	})
	imports.Add(Import{
		ClassPackage: names.ParseAndAdd("/Script/Engine"),
		ClassName:    names.ParseAndAdd("Class"),
		Outer:        ImportReference(aName),
		Name:         names.ParseAndAdd("B"),
	})

	var buf bytes.Buffer
	require.NoError(t, imports.Write(&buf, imports, exports))

	summary := &FileSummary{ImportOffset: 0, ImportCount: 2}
	r := NewByteReader(buf.Bytes())
	got, rawOuters, err := ReadImports(r, summary)
	require.NoError(t, err)
	require.NoError(t, got.ResolveOuters(rawOuters, imports, exports))

	require.Equal(t, UObjectReference(), got.All()[0].Outer)
	require.Equal(t, ImportReference(aName), got.All()[1].Outer)
}
