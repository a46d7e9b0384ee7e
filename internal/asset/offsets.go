package asset

// RecalculateOffsets walks the model and recomputes every offset/count in
// the summary and each export's body-file placement, in section order
// (spec.md §4.5). Offsets are a derived projection of the model; this is the
// single recomputation pass run before every write rather than maintaining
// incremental invariants under mutation.
func (a *Asset) RecalculateOffsets() {
	nameOffset := uint32(a.Summary.ByteSize())
	a.Summary.NameOffset = nameOffset

	importOffset := nameOffset + uint32(a.Names.ByteSize())
	a.Summary.ImportOffset = importOffset

	exportOffset := importOffset + uint32(a.Imports.ByteSize())
	a.Summary.ExportOffset = exportOffset

	dependsOffset := exportOffset + uint32(a.Exports.ByteSize())
	a.Summary.DependsOffset = dependsOffset

	assetRegistryOffset := dependsOffset + uint32(a.Depends.ByteSize())
	a.Summary.AssetRegistryDataOffset = assetRegistryOffset

	preloadOffset := assetRegistryOffset + uint32(a.AssetRegistry.ByteSize())
	a.Summary.PreloadDependencyOffset = preloadOffset

	totalHeaderSize := preloadOffset + uint32(a.Preload.ByteSize())
	a.Summary.TotalHeaderSize = totalHeaderSize

	exports := a.Exports.All()
	var running int64
	for i := range exports {
		size := int64(a.Properties[i].ByteSize())
		exports[i].ExportFileOffset = running
		exports[i].SerialSize = size
		exports[i].SerialOffset = int64(totalHeaderSize) + running
		running += size
	}
	a.Summary.BulkDataStartOffset = totalHeaderSize + uint32(running)

	a.Summary.NameCount = uint32(a.Names.Len())
	a.Summary.ImportCount = uint32(a.Imports.Len())
	a.Summary.ExportCount = uint32(a.Exports.Len())
	a.Summary.PreloadDependencyCount = uint32(a.Preload.Len())

	for i := range a.Summary.Generations {
		a.Summary.Generations[i].NameCount = a.Summary.NameCount
		a.Summary.Generations[i].ExportCount = a.Summary.ExportCount
	}
}
