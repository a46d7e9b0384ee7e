package format

import (
	"github.com/pkg/errors"
)

// Import is one entry of the import table: an external object this asset
// references but does not own, identified by its class package, class name,
// outer reference, and object name.
type Import struct {
	ClassPackage NameRef
	ClassName    NameRef
	Outer        Reference
	Name         NameRef
}

// Imports is the asset's import table, in on-disk order. Index is positional
// identity: ImportReference encodes -(index+1).
type Imports struct {
	imports []Import
}

// NewImports returns an empty table.
func NewImports() *Imports {
	return &Imports{}
}

// Len is the number of imports.
func (t *Imports) Len() int {
	return len(t.imports)
}

// All exposes the underlying slice for iteration and serialization.
func (t *Imports) All() []Import {
	return t.imports
}

// Lookup returns the import at index, bounds-checked.
func (t *Imports) Lookup(index uint32) (*Import, error) {
	if int(index) >= len(t.imports) {
		return nil, errors.Errorf("import index %d is not in import table (length %d)", index, len(t.imports))
	}
	return &t.imports[index], nil
}

// IndexOf finds the index of an import by object name, if present.
func (t *Imports) IndexOf(name NameRef) (int32, bool) {
	for i, imp := range t.imports {
		if imp.Name == name {
			return int32(i), true
		}
	}
	return 0, false
}

// Add appends an import if no entry with the same Name already exists,
// returning the entry's final index either way.
func (t *Imports) Add(imp Import) int32 {
	if idx, ok := t.IndexOf(imp.Name); ok {
		return idx
	}
	idx := int32(len(t.imports))
	t.imports = append(t.imports, imp)
	return idx
}

// ReadImports reads count imports starting at the current position, which
// must equal the summary's import_offset.
func ReadImports(r *ByteReader, summary *FileSummary) (*Imports, []int32, error) {
	if err := CheckPosition("Imports", int64(summary.ImportOffset), r.Position()); err != nil {
		return nil, nil, err
	}
	imports := make([]Import, 0, summary.ImportCount)
	rawOuters := make([]int32, 0, summary.ImportCount)
	for i := uint32(0); i < summary.ImportCount; i++ {
		classPackage, err := ReadNameRef(r)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "import[%d].class_package", i)
		}
		className, err := ReadNameRef(r)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "import[%d].class_name", i)
		}
		outerIdx, err := readI32(r)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "import[%d].outer", i)
		}
		name, err := ReadNameRef(r)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "import[%d].object_name", i)
		}
		imports = append(imports, Import{ClassPackage: classPackage, ClassName: className, Name: name})
		rawOuters = append(rawOuters, outerIdx)
	}
	return &Imports{imports: imports}, rawOuters, nil
}

// ResolveOuters decodes each import's raw outer index against the fully
// loaded import/export tables; called once both tables exist.
func (t *Imports) ResolveOuters(rawOuters []int32, imports *Imports, exports *Exports) error {
	for i, raw := range rawOuters {
		ref, err := DecodeReference(raw, imports, exports)
		if err != nil {
			return errors.Wrapf(err, "import[%d].outer", i)
		}
		t.imports[i].Outer = ref
	}
	return nil
}

// Write serializes every import in table order. Outer references are
// resolved against the passed-in tables (which must be the same tables
// Outer was decoded against on read, or the fully-built tables for a
// freshly constructed asset).
func (t *Imports) Write(w ioWriter, imports *Imports, exports *Exports) error {
	for i, imp := range t.imports {
		if err := WriteNameRef(w, imp.ClassPackage); err != nil {
			return errors.Wrapf(err, "import[%d].class_package", i)
		}
		if err := WriteNameRef(w, imp.ClassName); err != nil {
			return errors.Wrapf(err, "import[%d].class_name", i)
		}
		if err := imp.Outer.Write(w, imports, exports); err != nil {
			return errors.Wrapf(err, "import[%d].outer", i)
		}
		if err := WriteNameRef(w, imp.Name); err != nil {
			return errors.Wrapf(err, "import[%d].object_name", i)
		}
	}
	return nil
}

// ByteSize is the number of bytes Write will emit per import: two 8-byte
// NameRefs (class_package, class_name), one 4-byte outer index, and one
// 8-byte NameRef (object_name) — 8+8+4+8=28.
func (t *Imports) ByteSize() int {
	return 28 * len(t.imports)
}
