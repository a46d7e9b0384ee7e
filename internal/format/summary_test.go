package format

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func minimalSummary() *FileSummary {
	return &FileSummary{
		Tag:         [4]byte{0xC1, 0x83, 0x2A, 0x9E},
		FolderName:  "None",
		Generations: []Generation{{ExportCount: 0, NameCount: 0}},
	}
}

func TestFileSummaryWriteReadRoundTrip(t *testing.T) {
	s := minimalSummary()
	s.FileVersionUE4 = 517
	s.PackageFlags = 0x80000000
	s.Guid = [16]byte{1, 2, 3}

	var buf bytes.Buffer
	require.NoError(t, s.Write(&buf))
	require.Equal(t, s.ByteSize(), buf.Len())

	r := NewByteReader(buf.Bytes())
	got, err := ReadFileSummary(r)
	require.NoError(t, err)
	require.Equal(t, s.Tag, got.Tag)
	require.Equal(t, s.FileVersionUE4, got.FileVersionUE4)
	require.Equal(t, s.PackageFlags, got.PackageFlags)
	require.Equal(t, s.Guid, got.Guid)
	require.Equal(t, s.Generations, got.Generations)
	require.EqualValues(t, 0, got.ChunkIDs)
}

func TestFileSummaryByteSizeGrowsWithFolderNameAndGenerations(t *testing.T) {
	s := minimalSummary()
	base := s.ByteSize()

	s.FolderName = "LongerFolderName"
	require.Greater(t, s.ByteSize(), base)

	s2 := minimalSummary()
	s2.Generations = append(s2.Generations, Generation{ExportCount: 1, NameCount: 1})
	require.Equal(t, s2.ByteSize(), minimalSummary().ByteSize()+8)
}

func TestFileSummaryChunkIDRoundTrip(t *testing.T) {
	s := minimalSummary()
	s.ChunkIDs = 42

	var buf bytes.Buffer
	require.NoError(t, s.Write(&buf))

	r := NewByteReader(buf.Bytes())
	got, err := ReadFileSummary(r)
	require.NoError(t, err)
	require.EqualValues(t, 42, got.ChunkIDs)
}
