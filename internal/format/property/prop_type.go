// Package property implements the self-describing property codec that
// decodes and re-encodes the body file's per-export property bags: the
// meta/tag/value envelope, the per-type loader dispatch table, and the
// struct-pattern registry that disambiguates opaque struct payloads. It
// builds on the primitive types in the sibling format package.
package property

import (
	"github.com/pkg/errors"

	"github.com/craigmc08/drg-editor/internal/format"
)

// PropType enumerates every known property kind. Its surface form on disk
// is a NameRef whose text is the enumerator name below.
type PropType int

const (
	IntProperty PropType = iota
	UInt8Property
	FloatProperty
	ObjectProperty
	SoftObjectProperty
	NameProperty
	StrProperty
	TextProperty
	BoolProperty
	ByteProperty
	EnumProperty
	ArrayProperty
	StructProperty
	MapProperty
)

var propTypeNames = map[PropType]string{
	IntProperty:        "IntProperty",
	UInt8Property:      "UInt8Property",
	FloatProperty:      "FloatProperty",
	ObjectProperty:     "ObjectProperty",
	SoftObjectProperty: "SoftObjectProperty",
	NameProperty:       "NameProperty",
	StrProperty:        "StrProperty",
	TextProperty:       "TextProperty",
	BoolProperty:       "BoolProperty",
	ByteProperty:       "ByteProperty",
	EnumProperty:       "EnumProperty",
	ArrayProperty:      "ArrayProperty",
	StructProperty:     "StructProperty",
	MapProperty:        "MapProperty",
}

var propTypeByName map[string]PropType

func init() {
	propTypeByName = make(map[string]PropType, len(propTypeNames))
	for t, name := range propTypeNames {
		propTypeByName[name] = t
	}
}

// String renders the enumerator name, matching the on-disk surface form.
func (t PropType) String() string {
	if name, ok := propTypeNames[t]; ok {
		return name
	}
	return "UnknownPropType"
}

// ParsePropType inverts String.
func ParsePropType(name string) (PropType, error) {
	t, ok := propTypeByName[name]
	if !ok {
		return 0, errors.Errorf("unknown PropType %q", name)
	}
	return t, nil
}

// Deserialize reads a NameRef and parses its surface form as a PropType.
func DeserializePropType(r *format.ByteReader, ctx *Context) (PropType, error) {
	ref, err := format.ReadNameRef(r)
	if err != nil {
		return 0, errors.Wrap(err, "PropType")
	}
	name := ctx.Names.String(ref)
	t, err := ParsePropType(name)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing PropType %q", name)
	}
	return t, nil
}

// Serialize writes a PropType as the NameRef of its enumerator name,
// inserting the name into the table if it is not already present.
func SerializePropType(w ioWriter, t PropType, ctx *Context) error {
	ref := ctx.Names.ParseAndAdd(t.String())
	return format.WriteNameRef(w, ref)
}

type ioWriter interface {
	Write(p []byte) (int, error)
}
