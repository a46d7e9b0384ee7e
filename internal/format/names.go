package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/tenfyzhong/cityhash"
)

// Name is an interned string with two hash slots. Index is positional
// identity within a single asset's NameTable.
type Name struct {
	Index                 uint32
	Text                   string
	NonCasePreservingHash uint16
	CasePreservingHash    uint16
}

// hashName computes both hash slots the way the teacher's own hashString
// helper does for the ucas container's name directory: CityHash64 over the
// lower-cased text for the non-case-preserving slot, and over the text
// as-is for the case-preserving slot, each truncated to the 16-bit field.
func hashName(text string) (nonCasePreserving, casePreserving uint16) {
	nonCasePreserving = uint16(cityhash.CityHash64([]byte(strings.ToLower(text))))
	casePreserving = uint16(cityhash.CityHash64([]byte(text)))
	return
}

// NameRef is a (name_index, variant) pair. Its surface form is "name" when
// variant is 0, else "name_variantN".
type NameRef struct {
	Index   uint32
	Variant uint32
}

// NameTable is the interned-string pool at the head of the header file.
// Duplicate insertion is a no-op; lookup by index is bounds-checked.
type NameTable struct {
	names []Name
}

// NewNameTable returns an empty table, used when building an asset from
// scratch.
func NewNameTable() *NameTable {
	return &NameTable{}
}

// Len is the number of interned names.
func (t *NameTable) Len() int {
	return len(t.names)
}

// Names exposes the underlying slice for serialization and iteration.
func (t *NameTable) Names() []Name {
	return t.names
}

// Get looks up a name by raw index.
func (t *NameTable) Get(index uint32) (*Name, error) {
	if int(index) >= len(t.names) {
		return nil, errors.Errorf("name index %d is not in name table (length %d)", index, len(t.names))
	}
	return &t.names[index], nil
}

// IndexOf returns the index of an exact base-name match, if present.
func (t *NameTable) IndexOf(text string) (uint32, bool) {
	for _, n := range t.names {
		if n.Text == text {
			return n.Index, true
		}
	}
	return 0, false
}

// Add interns text if absent, returning false if it was already present.
func (t *NameTable) Add(text string) bool {
	if _, ok := t.IndexOf(text); ok {
		return false
	}
	nonCase, caseP := hashName(text)
	t.names = append(t.names, Name{
		Index:                 uint32(len(t.names)),
		Text:                   text,
		NonCasePreservingHash: nonCase,
		CasePreservingHash:    caseP,
	})
	return true
}

// Parse splits a surface string on its last underscore; if the suffix parses
// as a non-negative integer and the prefix is an existing base name, it
// returns (prefix_index, suffix). Otherwise it returns (text_index, 0). It
// fails if the resolved base name is not present in the table.
func (t *NameTable) Parse(text string) (NameRef, error) {
	base, variant := splitVariant(text)
	if idx, ok := t.IndexOf(base); ok {
		return NameRef{Index: idx, Variant: variant}, nil
	}
	if idx, ok := t.IndexOf(text); ok {
		return NameRef{Index: idx, Variant: 0}, nil
	}
	return NameRef{}, errors.Errorf("name %q is not in name table", text)
}

// ParseAndAdd is Parse, but inserts the base name if it's absent.
func (t *NameTable) ParseAndAdd(text string) NameRef {
	base, variant := splitVariant(text)
	if idx, ok := t.IndexOf(base); ok {
		return NameRef{Index: idx, Variant: variant}
	}
	if idx, ok := t.IndexOf(text); ok {
		return NameRef{Index: idx, Variant: 0}
	}
	t.Add(base)
	idx, _ := t.IndexOf(base)
	return NameRef{Index: idx, Variant: variant}
}

// splitVariant implements the "split on the last underscore, suffix must be
// a non-negative integer" rule shared by Parse and ParseAndAdd.
func splitVariant(text string) (base string, variant uint32) {
	i := strings.LastIndex(text, "_")
	if i < 0 || i == len(text)-1 {
		return text, 0
	}
	suffix := text[i+1:]
	n, err := strconv.ParseUint(suffix, 10, 32)
	if err != nil {
		return text, 0
	}
	return text[:i], uint32(n)
}

// String renders a NameRef's surface form against this table.
func (t *NameTable) String(ref NameRef) string {
	n, err := t.Get(ref.Index)
	if err != nil {
		return fmt.Sprintf("<invalid name %d>", ref.Index)
	}
	if ref.Variant == 0 {
		return n.Text
	}
	return fmt.Sprintf("%s_%d", n.Text, ref.Variant)
}

// ReadNameRef reads the on-disk (index: u32, variant: u32) pair. The variant
// is opaque and never altered.
func ReadNameRef(r *ByteReader) (NameRef, error) {
	idx, err := readU32(r)
	if err != nil {
		return NameRef{}, errors.Wrap(err, "NameRef.index")
	}
	variant, err := readU32(r)
	if err != nil {
		return NameRef{}, errors.Wrap(err, "NameRef.variant")
	}
	return NameRef{Index: idx, Variant: variant}, nil
}

// WriteNameRef serializes a NameRef in its on-disk form.
func WriteNameRef(w ioWriter, ref NameRef) error {
	if err := writeU32(w, ref.Index); err != nil {
		return err
	}
	return writeU32(w, ref.Variant)
}

// ioWriter is the minimal writer interface used throughout format and
// property so callers aren't forced to depend on *bytes.Buffer directly.
type ioWriter interface {
	Write(p []byte) (int, error)
}

func readName(r *ByteReader) (Name, error) {
	text, err := ReadLengthPrefixedString(r)
	if err != nil {
		return Name{}, errors.Wrap(err, "Name.text")
	}
	nonCase, err := readU16(r)
	if err != nil {
		return Name{}, errors.Wrap(err, "Name.non_case_preserving_hash")
	}
	caseP, err := readU16(r)
	if err != nil {
		return Name{}, errors.Wrap(err, "Name.case_preserving_hash")
	}
	return Name{Text: text, NonCasePreservingHash: nonCase, CasePreservingHash: caseP}, nil
}

func (n Name) write(w ioWriter) error {
	if err := WriteLengthPrefixedString(w, n.Text); err != nil {
		return err
	}
	if err := writeU16(w, n.NonCasePreservingHash); err != nil {
		return err
	}
	return writeU16(w, n.CasePreservingHash)
}

// ReadNameTable reads summary.NameCount names starting at summary.NameOffset.
func ReadNameTable(r *ByteReader, summary *FileSummary) (*NameTable, error) {
	if err := CheckPosition("NameTable", int64(summary.NameOffset), r.Position()); err != nil {
		return nil, err
	}
	names := make([]Name, 0, summary.NameCount)
	for i := uint32(0); i < summary.NameCount; i++ {
		n, err := readName(r)
		if err != nil {
			return nil, errors.Wrapf(err, "name[%d]", i)
		}
		n.Index = i
		names = append(names, n)
	}
	return &NameTable{names: names}, nil
}

// Write serializes every name in table order.
func (t *NameTable) Write(w ioWriter) error {
	for _, n := range t.names {
		if err := n.write(w); err != nil {
			return errors.Wrapf(err, "name[%d]", n.Index)
		}
	}
	return nil
}

// ByteSize is the number of bytes Write will emit: 8 + len(text) + 1 per
// name (4-byte length prefix, text, nul terminator, two 2-byte hashes).
func (t *NameTable) ByteSize() int {
	size := 0
	for _, n := range t.names {
		size += 8 + len(n.Text) + 1
	}
	return size
}
