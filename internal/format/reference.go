package format

import (
	"github.com/pkg/errors"
)

// Reference is a tri-state identifier: UObject (0), an Import slot
// (negative, -(index+1)), or an Export slot (positive, index+1). Lookup is
// positional against the current asset's tables.
type Reference struct {
	Kind ReferenceKind
	Name NameRef
}

// ReferenceKind discriminates the three Reference variants.
type ReferenceKind uint8

const (
	ReferenceUObject ReferenceKind = iota
	ReferenceImport
	ReferenceExport
)

// UObjectReference is the zero/null reference.
func UObjectReference() Reference { return Reference{Kind: ReferenceUObject} }

// ImportReference builds a reference into the import table.
func ImportReference(name NameRef) Reference { return Reference{Kind: ReferenceImport, Name: name} }

// ExportReference builds a reference into the export table.
func ExportReference(name NameRef) Reference { return Reference{Kind: ReferenceExport, Name: name} }

// SerializedIndexOf returns the raw i32 bit pattern Write would emit for r,
// without actually writing it — used by preload dependencies and other
// integer-only encodings of the same tri-state space.
func (r Reference) SerializedIndexOf(imports *Imports, exports *Exports) (int32, error) {
	switch r.Kind {
	case ReferenceUObject:
		return 0, nil
	case ReferenceImport:
		idx, ok := imports.IndexOf(r.Name)
		if !ok {
			return 0, errors.Errorf("reference import name %v is not imported", r.Name)
		}
		return -(idx + 1), nil
	case ReferenceExport:
		idx, ok := exports.SerializedIndexOf(r.Name)
		if !ok {
			return 0, errors.Errorf("reference export name %v is not exported", r.Name)
		}
		return int32(idx) + 1, nil
	default:
		return 0, errors.Errorf("invalid reference kind %d", r.Kind)
	}
}

// DecodeReference inverts the serialized index against the current tables.
func DecodeReference(idx int32, imports *Imports, exports *Exports) (Reference, error) {
	switch {
	case idx == 0:
		return UObjectReference(), nil
	case idx < 0:
		imp, err := imports.Lookup(uint32(-idx - 1))
		if err != nil {
			return Reference{}, errors.Wrap(err, "decoding Import reference")
		}
		return ImportReference(imp.Name), nil
	default:
		exp, err := exports.Lookup(uint32(idx - 1))
		if err != nil {
			return Reference{}, errors.Wrap(err, "decoding Export reference")
		}
		return ExportReference(exp.ObjectName), nil
	}
}

// ReadReference reads one signed 32-bit slot and decodes it.
func ReadReference(r *ByteReader, imports *Imports, exports *Exports) (Reference, error) {
	idx, err := readI32(r)
	if err != nil {
		return Reference{}, errors.Wrap(err, "Reference")
	}
	return DecodeReference(idx, imports, exports)
}

// Write serializes a Reference as its signed i32 slot.
func (r Reference) Write(w ioWriter, imports *Imports, exports *Exports) error {
	idx, err := r.SerializedIndexOf(imports, exports)
	if err != nil {
		return err
	}
	return writeI32(w, idx)
}

// String renders a Reference for diagnostics, given a name table to resolve
// NameRefs against.
func (r Reference) String(names *NameTable) string {
	switch r.Kind {
	case ReferenceUObject:
		return "UObject"
	case ReferenceImport:
		return "Import " + names.String(r.Name)
	case ReferenceExport:
		return "Export " + names.String(r.Name)
	default:
		return "<invalid reference>"
	}
}
