package format

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpaqueRegionRoundTripsVerbatim(t *testing.T) {
	raw := []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x00, 0x01}
	r := NewByteReader(raw)
	region, err := ReadOpaqueRegion(r, len(raw))
	require.NoError(t, err)
	require.Equal(t, raw, region.Bytes())
	require.Equal(t, len(raw), region.ByteSize())

	var buf bytes.Buffer
	require.NoError(t, region.Write(&buf))
	require.Equal(t, raw, buf.Bytes())
}

func TestReadDependsRegionPrefersFirstNonzeroBoundary(t *testing.T) {
	raw := make([]byte, 20)
	for i := range raw {
		raw[i] = byte(i)
	}

	t.Run("SoftPackageReferencesOffset wins when set", func(t *testing.T) {
		summary := &FileSummary{
			DependsOffset:                0,
			SoftPackageReferencesOffset:  10,
			SearchableNamesOffset:        15,
			AssetRegistryDataOffset:      18,
		}
		r := NewByteReader(raw)
		region, err := ReadDependsRegion(r, summary)
		require.NoError(t, err)
		require.Equal(t, 10, region.ByteSize())
	})

	t.Run("falls back to SearchableNamesOffset, then AssetRegistryDataOffset", func(t *testing.T) {
		summary := &FileSummary{
			DependsOffset:           0,
			SearchableNamesOffset:   12,
			AssetRegistryDataOffset: 18,
		}
		r := NewByteReader(raw)
		region, err := ReadDependsRegion(r, summary)
		require.NoError(t, err)
		require.Equal(t, 12, region.ByteSize())

		summary2 := &FileSummary{DependsOffset: 0, AssetRegistryDataOffset: 16}
		r2 := NewByteReader(raw)
		region2, err := ReadDependsRegion(r2, summary2)
		require.NoError(t, err)
		require.Equal(t, 16, region2.ByteSize())
	})
}

func TestReadAssetRegistryRegionSpansToPreloadDependencies(t *testing.T) {
	raw := make([]byte, 30)
	summary := &FileSummary{AssetRegistryDataOffset: 0, PreloadDependencyOffset: 22, BulkDataStartOffset: 30}
	r := NewByteReader(raw)
	region, err := ReadAssetRegistryRegion(r, summary)
	require.NoError(t, err)
	require.Equal(t, 22, region.ByteSize())
}
