package format

import (
	"github.com/pkg/errors"
)

// summaryTag is the fixed magic the header file begins with.
var summaryTag = [4]byte{0xC1, 0x83, 0x2A, 0x9E}

// Generation is one entry of the FileSummary's generation history: a
// (export_count, name_count) snapshot recorded every time the asset was
// re-saved by the engine.
type Generation struct {
	ExportCount uint32
	NameCount   uint32
}

func readGeneration(r *ByteReader) (Generation, error) {
	exportCount, err := readU32(r)
	if err != nil {
		return Generation{}, errors.Wrap(err, "Generation.export_count")
	}
	nameCount, err := readU32(r)
	if err != nil {
		return Generation{}, errors.Wrap(err, "Generation.name_count")
	}
	return Generation{ExportCount: exportCount, NameCount: nameCount}, nil
}

func (g Generation) write(w ioWriter) error {
	if err := writeU32(w, g.ExportCount); err != nil {
		return err
	}
	return writeU32(w, g.NameCount)
}

// FileSummary is the fixed-width prefix of the header file: magic tag,
// engine version stamps, and every offset/count pair the rest of the reader
// positions itself against. RecalculateOffsets rewrites the total header
// size, the name/import/export/depends/asset-registry/preload-dependency
// offsets, the bulk data start offset, the name/import/export/preload
// counts and every generation's counts before each write; every other field
// here round-trips verbatim.
type FileSummary struct {
	Tag                   [4]byte
	FileVersionUE4        int32
	FileVersionLicenseUE4 int32
	CustomVersion         [12]byte
	TotalHeaderSize       uint32
	FolderName            string
	PackageFlags          uint32

	NameCount  uint32
	NameOffset uint32

	GatherableTextDataCount  uint32
	GatherableTextDataOffset uint32

	ExportCount  uint32
	ExportOffset uint32
	ImportCount  uint32
	ImportOffset uint32

	DependsOffset uint32

	SoftPackageReferencesCount  uint32
	SoftPackageReferencesOffset uint32
	SearchableNamesOffset       uint32
	ThumbnailTableOffset        uint32

	Guid        [16]byte
	Generations []Generation

	SavedByEngineVersion        [16]byte
	CompatibleWithEngineVersion [16]byte

	CompressionFlags uint32
	PackageSource    int64

	AssetRegistryDataOffset uint32
	BulkDataStartOffset     uint32
	WorldTileInfoDataOffset uint32
	ChunkIDs                uint64

	PreloadDependencyCount  uint32
	PreloadDependencyOffset uint32
}

// ReadFileSummary reads the fixed-width header prefix starting at position 0.
func ReadFileSummary(r *ByteReader) (*FileSummary, error) {
	s := &FileSummary{}

	tag, err := readBytes(r, 4)
	if err != nil {
		return nil, errors.Wrap(err, "FileSummary.tag")
	}
	copy(s.Tag[:], tag)

	if s.FileVersionUE4, err = readI32(r); err != nil {
		return nil, errors.Wrap(err, "FileSummary.file_version_ue4")
	}
	if s.FileVersionLicenseUE4, err = readI32(r); err != nil {
		return nil, errors.Wrap(err, "FileSummary.file_version_license_ue4")
	}
	customVersion, err := readBytes(r, 12)
	if err != nil {
		return nil, errors.Wrap(err, "FileSummary.custom_version")
	}
	copy(s.CustomVersion[:], customVersion)

	if s.TotalHeaderSize, err = readU32(r); err != nil {
		return nil, errors.Wrap(err, "FileSummary.total_header_size")
	}
	if s.FolderName, err = ReadLengthPrefixedString(r); err != nil {
		return nil, errors.Wrap(err, "FileSummary.folder_name")
	}
	if s.PackageFlags, err = readU32(r); err != nil {
		return nil, errors.Wrap(err, "FileSummary.package_flags")
	}

	if s.NameCount, err = readU32(r); err != nil {
		return nil, errors.Wrap(err, "FileSummary.name_count")
	}
	if s.NameOffset, err = readU32(r); err != nil {
		return nil, errors.Wrap(err, "FileSummary.name_offset")
	}

	if s.GatherableTextDataCount, err = readU32(r); err != nil {
		return nil, errors.Wrap(err, "FileSummary.gatherable_text_data_count")
	}
	if s.GatherableTextDataOffset, err = readU32(r); err != nil {
		return nil, errors.Wrap(err, "FileSummary.gatherable_text_data_offset")
	}

	if s.ExportCount, err = readU32(r); err != nil {
		return nil, errors.Wrap(err, "FileSummary.export_count")
	}
	if s.ExportOffset, err = readU32(r); err != nil {
		return nil, errors.Wrap(err, "FileSummary.export_offset")
	}
	if s.ImportCount, err = readU32(r); err != nil {
		return nil, errors.Wrap(err, "FileSummary.import_count")
	}
	if s.ImportOffset, err = readU32(r); err != nil {
		return nil, errors.Wrap(err, "FileSummary.import_offset")
	}

	if s.DependsOffset, err = readU32(r); err != nil {
		return nil, errors.Wrap(err, "FileSummary.depends_offset")
	}

	if s.SoftPackageReferencesCount, err = readU32(r); err != nil {
		return nil, errors.Wrap(err, "FileSummary.soft_package_references_count")
	}
	if s.SoftPackageReferencesOffset, err = readU32(r); err != nil {
		return nil, errors.Wrap(err, "FileSummary.soft_package_references_offset")
	}
	if s.SearchableNamesOffset, err = readU32(r); err != nil {
		return nil, errors.Wrap(err, "FileSummary.searchable_names_offset")
	}
	if s.ThumbnailTableOffset, err = readU32(r); err != nil {
		return nil, errors.Wrap(err, "FileSummary.thumbnail_table_offset")
	}

	guid, err := readBytes(r, 16)
	if err != nil {
		return nil, errors.Wrap(err, "FileSummary.guid")
	}
	copy(s.Guid[:], guid)

	generationCount, err := readU32(r)
	if err != nil {
		return nil, errors.Wrap(err, "FileSummary.generation_count")
	}
	s.Generations = make([]Generation, 0, generationCount)
	for i := uint32(0); i < generationCount; i++ {
		g, err := readGeneration(r)
		if err != nil {
			return nil, errors.Wrapf(err, "FileSummary.generations[%d]", i)
		}
		s.Generations = append(s.Generations, g)
	}

	savedBy, err := readBytes(r, 16)
	if err != nil {
		return nil, errors.Wrap(err, "FileSummary.saved_by_engine_version")
	}
	copy(s.SavedByEngineVersion[:], savedBy)

	compatibleWith, err := readBytes(r, 16)
	if err != nil {
		return nil, errors.Wrap(err, "FileSummary.compatible_with_engine_version")
	}
	copy(s.CompatibleWithEngineVersion[:], compatibleWith)

	if s.CompressionFlags, err = readU32(r); err != nil {
		return nil, errors.Wrap(err, "FileSummary.compression_flags")
	}

	compressedChunkCount, err := readU32(r)
	if err != nil {
		return nil, errors.Wrap(err, "FileSummary.compressed_chunk_count")
	}
	if compressedChunkCount != 0 {
		return nil, errors.Errorf("FileSummary.compressed_chunk_count: compressed chunks are not supported, got %d", compressedChunkCount)
	}

	if s.PackageSource, err = func() (int64, error) {
		v, err := readU64(r)
		return int64(v), err
	}(); err != nil {
		return nil, errors.Wrap(err, "FileSummary.package_source")
	}

	additionalPackagesCount, err := readU32(r)
	if err != nil {
		return nil, errors.Wrap(err, "FileSummary.additional_packages_to_cook_count")
	}
	if additionalPackagesCount != 0 {
		return nil, errors.Errorf("FileSummary.additional_packages_to_cook_count: expected 0, got %d", additionalPackagesCount)
	}

	if s.AssetRegistryDataOffset, err = readU32(r); err != nil {
		return nil, errors.Wrap(err, "FileSummary.asset_registry_data_offset")
	}
	if s.BulkDataStartOffset, err = readU32(r); err != nil {
		return nil, errors.Wrap(err, "FileSummary.bulk_data_start_offset")
	}
	if s.WorldTileInfoDataOffset, err = readU32(r); err != nil {
		return nil, errors.Wrap(err, "FileSummary.world_tile_info_data_offset")
	}

	chunkIDCount, err := readU32(r)
	if err != nil {
		return nil, errors.Wrap(err, "FileSummary.chunk_id_count")
	}
	switch chunkIDCount {
	case 0:
		s.ChunkIDs = 0
	case 1:
		v, err := readU32(r)
		if err != nil {
			return nil, errors.Wrap(err, "FileSummary.chunk_ids[0]")
		}
		s.ChunkIDs = uint64(v)
	default:
		return nil, errors.Errorf("FileSummary.chunk_id_count: expected 0 or 1, got %d", chunkIDCount)
	}

	if s.PreloadDependencyCount, err = readU32(r); err != nil {
		return nil, errors.Wrap(err, "FileSummary.preload_dependency_count")
	}
	if s.PreloadDependencyOffset, err = readU32(r); err != nil {
		return nil, errors.Wrap(err, "FileSummary.preload_dependency_offset")
	}

	return s, nil
}

// Write serializes the FileSummary. Callers must call RecalculateOffsets on
// the owning Asset before Write so the offset/count fields reflect the
// tables being written alongside it.
func (s *FileSummary) Write(w ioWriter) error {
	if _, err := w.Write(s.Tag[:]); err != nil {
		return err
	}
	if err := writeI32(w, s.FileVersionUE4); err != nil {
		return err
	}
	if err := writeI32(w, s.FileVersionLicenseUE4); err != nil {
		return err
	}
	if _, err := w.Write(s.CustomVersion[:]); err != nil {
		return err
	}
	if err := writeU32(w, s.TotalHeaderSize); err != nil {
		return err
	}
	if err := WriteLengthPrefixedString(w, s.FolderName); err != nil {
		return err
	}
	if err := writeU32(w, s.PackageFlags); err != nil {
		return err
	}
	if err := writeU32(w, s.NameCount); err != nil {
		return err
	}
	if err := writeU32(w, s.NameOffset); err != nil {
		return err
	}
	if err := writeU32(w, s.GatherableTextDataCount); err != nil {
		return err
	}
	if err := writeU32(w, s.GatherableTextDataOffset); err != nil {
		return err
	}
	if err := writeU32(w, s.ExportCount); err != nil {
		return err
	}
	if err := writeU32(w, s.ExportOffset); err != nil {
		return err
	}
	if err := writeU32(w, s.ImportCount); err != nil {
		return err
	}
	if err := writeU32(w, s.ImportOffset); err != nil {
		return err
	}
	if err := writeU32(w, s.DependsOffset); err != nil {
		return err
	}
	if err := writeU32(w, s.SoftPackageReferencesCount); err != nil {
		return err
	}
	if err := writeU32(w, s.SoftPackageReferencesOffset); err != nil {
		return err
	}
	if err := writeU32(w, s.SearchableNamesOffset); err != nil {
		return err
	}
	if err := writeU32(w, s.ThumbnailTableOffset); err != nil {
		return err
	}
	if _, err := w.Write(s.Guid[:]); err != nil {
		return err
	}
	if err := writeU32(w, uint32(len(s.Generations))); err != nil {
		return err
	}
	for i, g := range s.Generations {
		if err := g.write(w); err != nil {
			return errors.Wrapf(err, "generations[%d]", i)
		}
	}
	if _, err := w.Write(s.SavedByEngineVersion[:]); err != nil {
		return err
	}
	if _, err := w.Write(s.CompatibleWithEngineVersion[:]); err != nil {
		return err
	}
	if err := writeU32(w, s.CompressionFlags); err != nil {
		return err
	}
	if err := writeU32(w, 0); err != nil { // compressed_chunk_count, always 0
		return err
	}
	if err := writeU64(w, uint64(s.PackageSource)); err != nil {
		return err
	}
	if err := writeU32(w, 0); err != nil { // additional_packages_to_cook_count, always 0
		return err
	}
	if err := writeU32(w, s.AssetRegistryDataOffset); err != nil {
		return err
	}
	if err := writeU32(w, s.BulkDataStartOffset); err != nil {
		return err
	}
	if err := writeU32(w, s.WorldTileInfoDataOffset); err != nil {
		return err
	}
	if s.ChunkIDs == 0 {
		if err := writeU32(w, 0); err != nil {
			return err
		}
	} else {
		if err := writeU32(w, 1); err != nil {
			return err
		}
		if err := writeU32(w, uint32(s.ChunkIDs)); err != nil {
			return err
		}
	}
	if err := writeU32(w, s.PreloadDependencyCount); err != nil {
		return err
	}
	return writeU32(w, s.PreloadDependencyOffset)
}

// ByteSize is the number of bytes Write will emit: 184 fixed bytes (tag
// through preload_dependency_offset, including the folder name's 4-byte
// length prefix, the generation count and the chunk-id count), plus
// len(folder_name)+1 for a non-empty folder name, 8 bytes per generation,
// and 4 bytes for the chunk id when ChunkIDs is nonzero.
func (s *FileSummary) ByteSize() int {
	size := 184 + 8*len(s.Generations)
	if s.FolderName != "" {
		size += len(s.FolderName) + 1
	}
	if s.ChunkIDs != 0 {
		size += 4
	}
	return size
}
