package format

import (
	"github.com/pkg/errors"
)

// OpaqueRegion is a pass-through byte range the codec never interprets: the
// depends table and the asset registry data. Both are captured verbatim on
// read and re-emitted verbatim on write, so unknown structure inside them
// never breaks round-tripping.
type OpaqueRegion struct {
	bytes []byte
}

// ReadOpaqueRegion reads exactly n bytes at the current position into an
// opaque, unparsed blob.
func ReadOpaqueRegion(r *ByteReader, n int) (OpaqueRegion, error) {
	b, err := readBytes(r, n)
	if err != nil {
		return OpaqueRegion{}, errors.Wrapf(err, "opaque region of %d bytes", n)
	}
	return OpaqueRegion{bytes: b}, nil
}

// Write re-emits the captured bytes verbatim.
func (o OpaqueRegion) Write(w ioWriter) error {
	_, err := w.Write(o.bytes)
	return err
}

// ByteSize is the captured region's length.
func (o OpaqueRegion) ByteSize() int {
	return len(o.bytes)
}

// Bytes exposes the raw captured content, read-only use only — mutating the
// returned slice mutates this region.
func (o OpaqueRegion) Bytes() []byte {
	return o.bytes
}

// ReadDependsRegion captures the depends table: one opaque blob running from
// summary.DependsOffset to summary.SoftPackageReferencesOffset (the next
// known offset after it), since the original leaves this table's internal
// per-export dependency-index-list structure out of scope for mutation.
func ReadDependsRegion(r *ByteReader, summary *FileSummary) (OpaqueRegion, error) {
	if err := CheckPosition("Depends", int64(summary.DependsOffset), r.Position()); err != nil {
		return OpaqueRegion{}, err
	}
	end := summary.SoftPackageReferencesOffset
	if end == 0 {
		end = summary.SearchableNamesOffset
	}
	if end == 0 {
		end = summary.AssetRegistryDataOffset
	}
	n := int(end) - int(summary.DependsOffset)
	if n < 0 {
		return OpaqueRegion{}, errors.Errorf("Depends region has negative length (%d)", n)
	}
	return ReadOpaqueRegion(r, n)
}

// ReadAssetRegistryRegion captures the asset registry data blob, running
// from summary.AssetRegistryDataOffset to summary.PreloadDependencyOffset,
// where the preload dependency list begins.
func ReadAssetRegistryRegion(r *ByteReader, summary *FileSummary) (OpaqueRegion, error) {
	if err := CheckPosition("AssetRegistryData", int64(summary.AssetRegistryDataOffset), r.Position()); err != nil {
		return OpaqueRegion{}, err
	}
	n := int(summary.PreloadDependencyOffset) - int(summary.AssetRegistryDataOffset)
	if n < 0 {
		return OpaqueRegion{}, errors.Errorf("AssetRegistryData region has negative length (%d)", n)
	}
	return ReadOpaqueRegion(r, n)
}
