package property

import (
	"github.com/pkg/errors"

	"github.com/craigmc08/drg-editor/internal/format"
)

// Loader describes the six operations the codec dispatches to for a given
// PropType (spec.md §4.6). Simple is true when the tag is fully implied by
// the type and carries no bytes of its own — this both skips tag I/O and
// lets Array treat elements of this type as dense.
type Loader struct {
	ForTypes []PropType
	Simple   bool

	DeserializeTag   func(r *format.ByteReader, ctx *Context) (Tag, error)
	DeserializeValue func(r *format.ByteReader, tag Tag, maxSize uint64, ctx *Context) (Value, error)
	SerializeTag     func(w ioWriter, tag Tag, ctx *Context) error
	SerializeValue   func(w ioWriter, value Value, tag Tag, ctx *Context) error
	TagSize          func(tag Tag) int
	ValueSize        func(value Value, tag Tag) int
}

func (l *Loader) isForType(t PropType) bool {
	for _, candidate := range l.ForTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// Loaders is the full dispatch table, one entry per PropType (ByteProperty
// and EnumProperty share LoaderEnum, matching the original's grouping).
var Loaders = []*Loader{
	LoaderInt,
	LoaderUInt8,
	LoaderFloat,
	LoaderObject,
	LoaderSoftObject,
	LoaderName,
	LoaderStr,
	LoaderText,
	LoaderBool,
	LoaderEnum,
	LoaderArray,
	LoaderStruct,
	LoaderMap,
}

// GetLoaderFor finds the loader registered for typ.
func GetLoaderFor(typ PropType) (*Loader, error) {
	for _, l := range Loaders {
		if l.isForType(typ) {
			return l, nil
		}
	}
	return nil, errors.Errorf("no loader registered for %s", typ)
}

func simpleLoader(typ PropType, deserializeValue func(r *format.ByteReader, tag Tag, maxSize uint64, ctx *Context) (Value, error), serializeValue func(w ioWriter, value Value, tag Tag, ctx *Context) error, valueSize func(value Value, tag Tag) int) *Loader {
	return &Loader{
		ForTypes:         []PropType{typ},
		Simple:           true,
		DeserializeTag:   func(r *format.ByteReader, ctx *Context) (Tag, error) { return SimpleTag(typ), nil },
		DeserializeValue: deserializeValue,
		SerializeTag:     func(w ioWriter, tag Tag, ctx *Context) error { return nil },
		SerializeValue:   serializeValue,
		TagSize:          func(tag Tag) int { return 0 },
		ValueSize:        valueSize,
	}
}
