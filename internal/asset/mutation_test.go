package asset

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/craigmc08/drg-editor/internal/format"
)

// Scenario 5: adding an import is add-if-absent at both the name and import
// level, and idempotent across repeated calls with the same identity.
func TestAddImportIsIdempotent(t *testing.T) {
	a := minimalTestAsset(t)
	before := a.Imports.Len()

	idx1 := a.AddImport("/Script/Engine", "Class", "NewThing", format.UObjectReference())
	require.Equal(t, before+1, a.Imports.Len())

	idx2 := a.AddImport("/Script/Engine", "Class", "NewThing", format.UObjectReference())
	require.Equal(t, before+1, a.Imports.Len(), "a second AddImport with the same identity must not append a duplicate")
	require.Equal(t, idx1, idx2)

	require.Less(t, idx1, int32(0), "AddImport must return a negative import-table reference index")
}

func TestAddImportReturnsDecodableReference(t *testing.T) {
	a := minimalTestAsset(t)
	idx := a.AddImport("/Script/Engine", "Class", "Thingy", format.UObjectReference())

	ref, err := format.DecodeReference(idx, a.Imports, a.Exports)
	require.NoError(t, err)
	require.Equal(t, "Thingy", a.Names.String(ref.Name))
}

func TestImportReferenceForAddsThenResolves(t *testing.T) {
	a := minimalTestAsset(t)
	before := a.Imports.Len()

	ref := a.ImportReferenceFor("/Script/Engine", "Class", "Widget", format.UObjectReference())
	require.Equal(t, before+1, a.Imports.Len())
	require.Equal(t, format.ReferenceImport, ref.Kind)
	require.Equal(t, "Widget", a.Names.String(ref.Name))

	// Calling again must not grow the table further.
	ref2 := a.ImportReferenceFor("/Script/Engine", "Class", "Widget", format.UObjectReference())
	require.Equal(t, before+1, a.Imports.Len())
	require.Equal(t, ref, ref2)
}
