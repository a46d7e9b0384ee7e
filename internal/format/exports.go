package format

import (
	"github.com/pkg/errors"
)

// Export is one entry of the export table: an object this asset owns. The
// four class/super/template/outer references round-trip through the same
// signed-index encoding as Reference; ExportFileOffset is never stored on
// disk — it is a running sum recomputed from SerialSize during read and
// recalculation.
type Export struct {
	ClassIndex    Reference
	SuperIndex    Reference
	TemplateIndex Reference
	Outer         Reference
	ObjectName    NameRef
	ObjectFlags   uint32

	SerialSize   int64
	SerialOffset int64

	ForcedExport                 bool
	NotForClient                 bool
	NotForServer                 bool
	WasFiltered                  bool
	PackageGuid                  [16]byte
	PackageFlags                 uint32
	NotAlwaysLoadedForEditorGame bool
	IsAsset                      bool

	FirstExportDependency                        int32
	SerializationBeforeSerializationDependencies int32
	CreateBeforeSerializationDependencies         int32
	SerializationBeforeCreateDependencies         int32
	CreateBeforeCreateDependencies                int32

	// ExportFileOffset is the body-file-relative offset this export's
	// property stream starts at. It is never read from or written to disk
	// directly as a stored field distinct from SerialOffset/SerialSize —
	// it is the running sum of preceding exports' SerialSize, recomputed by
	// RecalculateOffsets.
	ExportFileOffset int64
}

type rawExportRefs struct {
	class, super, template, outer int32
}

// Exports is the asset's export table, in on-disk order. Index is
// positional identity: ExportReference encodes index+1.
type Exports struct {
	exports []Export
}

// NewExports returns an empty table.
func NewExports() *Exports {
	return &Exports{}
}

// NewExportsFrom wraps a prebuilt slice as an Exports table, in the given
// order. Used when constructing an asset's export table directly rather
// than through ReadExports.
func NewExportsFrom(exports []Export) *Exports {
	return &Exports{exports: exports}
}

// Len is the number of exports.
func (t *Exports) Len() int {
	return len(t.exports)
}

// All exposes the underlying slice for iteration and serialization.
func (t *Exports) All() []Export {
	return t.exports
}

// Lookup returns the export at index, bounds-checked.
func (t *Exports) Lookup(index uint32) (*Export, error) {
	if int(index) >= len(t.exports) {
		return nil, errors.Errorf("export index %d is not in export table (length %d)", index, len(t.exports))
	}
	return &t.exports[index], nil
}

// SerializedIndexOf finds the index of an export by object name, if present.
func (t *Exports) SerializedIndexOf(name NameRef) (uint32, bool) {
	for i, exp := range t.exports {
		if exp.ObjectName == name {
			return uint32(i), true
		}
	}
	return 0, false
}

// ExportsByteSize is the fixed on-disk size of one export record.
const ExportsByteSize = 104

// ReadExports reads count export records starting at the current position,
// which must equal the summary's export_offset. ExportFileOffset is filled
// in as a running sum of SerialSize in body-file order, matching the
// original's export_file_offset bookkeeping.
func ReadExports(r *ByteReader, summary *FileSummary) (*Exports, []rawExportRefs, error) {
	if err := CheckPosition("Exports", int64(summary.ExportOffset), r.Position()); err != nil {
		return nil, nil, err
	}
	exports := make([]Export, 0, summary.ExportCount)
	raws := make([]rawExportRefs, 0, summary.ExportCount)
	var runningOffset int64
	for i := uint32(0); i < summary.ExportCount; i++ {
		e, raw, err := readExport(r)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "export[%d]", i)
		}
		e.ExportFileOffset = runningOffset
		runningOffset += e.SerialSize
		exports = append(exports, e)
		raws = append(raws, raw)
	}
	return &Exports{exports: exports}, raws, nil
}

func readExport(r *ByteReader) (Export, rawExportRefs, error) {
	var e Export
	var raw rawExportRefs
	var err error

	if raw.class, err = readI32(r); err != nil {
		return e, raw, errors.Wrap(err, "class_index")
	}
	if raw.super, err = readI32(r); err != nil {
		return e, raw, errors.Wrap(err, "super_index")
	}
	if raw.template, err = readI32(r); err != nil {
		return e, raw, errors.Wrap(err, "template_index")
	}
	if raw.outer, err = readI32(r); err != nil {
		return e, raw, errors.Wrap(err, "outer_index")
	}
	if e.ObjectName, err = ReadNameRef(r); err != nil {
		return e, raw, errors.Wrap(err, "object_name")
	}
	if e.ObjectFlags, err = readU32(r); err != nil {
		return e, raw, errors.Wrap(err, "object_flags")
	}
	var sz uint64
	var off uint32
	if sz, err = readU64(r); err != nil {
		return e, raw, errors.Wrap(err, "serial_size")
	}
	e.SerialSize = int64(sz)
	if off, err = readU32(r); err != nil {
		return e, raw, errors.Wrap(err, "serial_offset")
	}
	e.SerialOffset = int64(off)
	if e.ForcedExport, err = readBool32(r); err != nil {
		return e, raw, errors.Wrap(err, "forced_export")
	}
	if e.NotForClient, err = readBool32(r); err != nil {
		return e, raw, errors.Wrap(err, "not_for_client")
	}
	if e.NotForServer, err = readBool32(r); err != nil {
		return e, raw, errors.Wrap(err, "not_for_server")
	}
	if e.WasFiltered, err = readBool32(r); err != nil {
		return e, raw, errors.Wrap(err, "was_filtered")
	}
	guid, err := readBytes(r, 16)
	if err != nil {
		return e, raw, errors.Wrap(err, "package_guid")
	}
	copy(e.PackageGuid[:], guid)
	if e.PackageFlags, err = readU32(r); err != nil {
		return e, raw, errors.Wrap(err, "package_flags")
	}
	if e.NotAlwaysLoadedForEditorGame, err = readBool32(r); err != nil {
		return e, raw, errors.Wrap(err, "not_always_loaded_for_editor_game")
	}
	if e.IsAsset, err = readBool32(r); err != nil {
		return e, raw, errors.Wrap(err, "is_asset")
	}
	if e.FirstExportDependency, err = readI32(r); err != nil {
		return e, raw, errors.Wrap(err, "first_export_dependency")
	}
	if e.SerializationBeforeSerializationDependencies, err = readI32(r); err != nil {
		return e, raw, errors.Wrap(err, "serialization_before_serialization_dependencies")
	}
	if e.CreateBeforeSerializationDependencies, err = readI32(r); err != nil {
		return e, raw, errors.Wrap(err, "create_before_serialization_dependencies")
	}
	if e.SerializationBeforeCreateDependencies, err = readI32(r); err != nil {
		return e, raw, errors.Wrap(err, "serialization_before_create_dependencies")
	}
	if e.CreateBeforeCreateDependencies, err = readI32(r); err != nil {
		return e, raw, errors.Wrap(err, "create_before_create_dependencies")
	}
	return e, raw, nil
}

// ResolveRefs decodes each export's raw class/super/template/outer indices
// against the fully loaded import/export tables.
func (t *Exports) ResolveRefs(raws []rawExportRefs, imports *Imports, exports *Exports) error {
	for i, raw := range raws {
		class, err := DecodeReference(raw.class, imports, exports)
		if err != nil {
			return errors.Wrapf(err, "export[%d].class_index", i)
		}
		super, err := DecodeReference(raw.super, imports, exports)
		if err != nil {
			return errors.Wrapf(err, "export[%d].super_index", i)
		}
		template, err := DecodeReference(raw.template, imports, exports)
		if err != nil {
			return errors.Wrapf(err, "export[%d].template_index", i)
		}
		outer, err := DecodeReference(raw.outer, imports, exports)
		if err != nil {
			return errors.Wrapf(err, "export[%d].outer_index", i)
		}
		t.exports[i].ClassIndex = class
		t.exports[i].SuperIndex = super
		t.exports[i].TemplateIndex = template
		t.exports[i].Outer = outer
	}
	return nil
}

// Write serializes every export in table order.
func (t *Exports) Write(w ioWriter, imports *Imports, exports *Exports) error {
	for i := range t.exports {
		e := &t.exports[i]
		if err := e.ClassIndex.Write(w, imports, exports); err != nil {
			return errors.Wrapf(err, "export[%d].class_index", i)
		}
		if err := e.SuperIndex.Write(w, imports, exports); err != nil {
			return errors.Wrapf(err, "export[%d].super_index", i)
		}
		if err := e.TemplateIndex.Write(w, imports, exports); err != nil {
			return errors.Wrapf(err, "export[%d].template_index", i)
		}
		if err := e.Outer.Write(w, imports, exports); err != nil {
			return errors.Wrapf(err, "export[%d].outer_index", i)
		}
		if err := WriteNameRef(w, e.ObjectName); err != nil {
			return errors.Wrapf(err, "export[%d].object_name", i)
		}
		if err := writeU32(w, e.ObjectFlags); err != nil {
			return errors.Wrapf(err, "export[%d].object_flags", i)
		}
		if err := writeU64(w, uint64(e.SerialSize)); err != nil {
			return errors.Wrapf(err, "export[%d].serial_size", i)
		}
		if err := writeU32(w, uint32(e.SerialOffset)); err != nil {
			return errors.Wrapf(err, "export[%d].serial_offset", i)
		}
		if err := writeBool32(w, e.ForcedExport); err != nil {
			return err
		}
		if err := writeBool32(w, e.NotForClient); err != nil {
			return err
		}
		if err := writeBool32(w, e.NotForServer); err != nil {
			return err
		}
		if err := writeBool32(w, e.WasFiltered); err != nil {
			return err
		}
		if _, err := w.Write(e.PackageGuid[:]); err != nil {
			return err
		}
		if err := writeU32(w, e.PackageFlags); err != nil {
			return err
		}
		if err := writeBool32(w, e.NotAlwaysLoadedForEditorGame); err != nil {
			return err
		}
		if err := writeBool32(w, e.IsAsset); err != nil {
			return err
		}
		if err := writeI32(w, e.FirstExportDependency); err != nil {
			return err
		}
		if err := writeI32(w, e.SerializationBeforeSerializationDependencies); err != nil {
			return err
		}
		if err := writeI32(w, e.CreateBeforeSerializationDependencies); err != nil {
			return err
		}
		if err := writeI32(w, e.SerializationBeforeCreateDependencies); err != nil {
			return err
		}
		if err := writeI32(w, e.CreateBeforeCreateDependencies); err != nil {
			return err
		}
	}
	return nil
}

// ByteSize is the number of bytes Write will emit: ExportsByteSize per
// export, fixed width with no variable-length fields.
func (t *Exports) ByteSize() int {
	return ExportsByteSize * len(t.exports)
}
