package property

import (
	"github.com/pkg/errors"

	"github.com/craigmc08/drg-editor/internal/format"
)

// LoaderBool handles BoolProperty. The value is carried entirely in the tag
// (spec.md §4.6); the value field is always empty.
var LoaderBool = &Loader{
	ForTypes: []PropType{BoolProperty},
	Simple:   false,
	DeserializeTag: func(r *format.ByteReader, ctx *Context) (Tag, error) {
		b, err := r.ReadByte()
		if err != nil {
			return Tag{}, errors.Wrap(err, "Bool tag")
		}
		return Tag{Kind: TagKindBool, BoolValue: b != 0}, nil
	},
	DeserializeValue: func(r *format.ByteReader, tag Tag, maxSize uint64, ctx *Context) (Value, error) {
		return Value{Kind: ValueKindBool}, nil
	},
	SerializeTag: func(w ioWriter, tag Tag, ctx *Context) error {
		var b byte
		if tag.BoolValue {
			b = 1
		}
		_, err := w.Write([]byte{b})
		return err
	},
	SerializeValue: func(w ioWriter, v Value, tag Tag, ctx *Context) error { return nil },
	TagSize:        func(tag Tag) int { return 1 },
	ValueSize:      func(v Value, tag Tag) int { return 0 },
}

// LoaderEnum handles both EnumProperty and ByteProperty: the tag carries the
// enum's type name, the value is the enumerator's own NameRef.
var LoaderEnum = &Loader{
	ForTypes: []PropType{EnumProperty, ByteProperty},
	Simple:   false,
	DeserializeTag: func(r *format.ByteReader, ctx *Context) (Tag, error) {
		ref, err := format.ReadNameRef(r)
		if err != nil {
			return Tag{}, errors.Wrap(err, "Enum/Byte.tag")
		}
		return Tag{Kind: TagKindEnum, EnumTypeName: ref}, nil
	},
	DeserializeValue: func(r *format.ByteReader, tag Tag, maxSize uint64, ctx *Context) (Value, error) {
		ref, err := format.ReadNameRef(r)
		if err != nil {
			return Value{}, errors.Wrap(err, "Enum/Byte.value")
		}
		return Value{Kind: ValueKindEnum, Enum: ref}, nil
	},
	SerializeTag: func(w ioWriter, tag Tag, ctx *Context) error {
		return format.WriteNameRef(w, tag.EnumTypeName)
	},
	SerializeValue: func(w ioWriter, v Value, tag Tag, ctx *Context) error {
		return format.WriteNameRef(w, v.Enum)
	},
	TagSize:   func(tag Tag) int { return 8 },
	ValueSize: func(v Value, tag Tag) int { return 8 },
}
