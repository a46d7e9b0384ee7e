package asset

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/craigmc08/drg-editor/internal/format"
)

func TestSerializeProducesNonEmptyHeaderAndBody(t *testing.T) {
	a := minimalTestAsset(t)
	header, body, err := a.serialize()
	require.NoError(t, err)
	require.NotEmpty(t, header)
	require.NotEmpty(t, body)
	require.Equal(t, a.Summary.Tag[:], body[len(body)-4:])
}

func TestRoundTripSelfTestPassesWhenBytesMatch(t *testing.T) {
	a := minimalTestAsset(t)
	header, body, err := a.serialize()
	require.NoError(t, err)

	a.originalHeader = header
	a.originalBody = body

	require.NoError(t, a.RoundTripSelfTest())
}

func TestRoundTripSelfTestDetectsHeaderMismatch(t *testing.T) {
	a := minimalTestAsset(t)
	header, body, err := a.serialize()
	require.NoError(t, err)

	tampered := append([]byte(nil), header...)
	tampered[0] ^= 0xFF

	a.originalHeader = tampered
	a.originalBody = body

	err = a.RoundTripSelfTest()
	require.Error(t, err)
}

// Regression: was_filtered lives in its own bool32 slot (exports.go), not
// folded into serial_offset, so RecalculateOffsets overwriting
// ExportFileOffset/SerialSize/SerialOffset must leave it untouched across a
// full read-recalculate-write cycle.
func TestWasFilteredSurvivesRecalculateAndSerialize(t *testing.T) {
	a := minimalTestAsset(t)
	exports := a.Exports.All()
	exports[0].WasFiltered = true

	header, _, err := a.serialize()
	require.NoError(t, err)

	r := format.NewByteReader(header)
	summary, err := format.ReadFileSummary(r)
	require.NoError(t, err)
	_, err = format.ReadNameTable(r, summary)
	require.NoError(t, err)
	rawImports, rawImportOuters, err := format.ReadImports(r, summary)
	require.NoError(t, err)
	rawExports, rawExportRefs, err := format.ReadExports(r, summary)
	require.NoError(t, err)
	require.NoError(t, rawImports.ResolveOuters(rawImportOuters, rawImports, rawExports))
	require.NoError(t, rawExports.ResolveRefs(rawExportRefs, rawImports, rawExports))

	require.True(t, rawExports.All()[0].WasFiltered)
	require.False(t, rawExports.All()[1].WasFiltered)
}

func TestRoundTripSelfTestDetectsLengthMismatch(t *testing.T) {
	a := minimalTestAsset(t)
	_, body, err := a.serialize()
	require.NoError(t, err)

	a.originalHeader = []byte{1, 2, 3}
	a.originalBody = body

	err = a.RoundTripSelfTest()
	require.Error(t, err)
}
