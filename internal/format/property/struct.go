package property

import (
	"io"

	"github.com/pkg/errors"

	"github.com/craigmc08/drg-editor/internal/format"
)

// LoaderStruct handles StructProperty. The tag is (type_name, guid); the
// value consults the struct-pattern registry (structpattern.go) to decide
// how to parse the otherwise-opaque payload.
var LoaderStruct = &Loader{
	ForTypes: []PropType{StructProperty},
	Simple:   false,
	DeserializeTag: func(r *format.ByteReader, ctx *Context) (Tag, error) {
		typeName, err := format.ReadNameRef(r)
		if err != nil {
			return Tag{}, errors.Wrap(err, "Struct.type_name")
		}
		var guid [16]byte
		if _, err := io.ReadFull(r, guid[:]); err != nil {
			return Tag{}, errors.Wrap(err, "Struct.guid")
		}
		return Tag{Kind: TagKindStruct, StructTypeName: typeName, StructGUID: guid}, nil
	},
	DeserializeValue: func(r *format.ByteReader, tag Tag, maxSize uint64, ctx *Context) (Value, error) {
		if ctx.Patterns == nil {
			return Value{}, errors.New("struct-pattern registry was not initialized")
		}
		typeName := ctx.Names.String(tag.StructTypeName)
		sv, err := ctx.Patterns.Deserialize(r, typeName, ctx)
		if err != nil {
			return Value{}, errors.Wrapf(err, "Struct[%s]", typeName)
		}
		return Value{Kind: ValueKindStruct, Struct: sv}, nil
	},
	SerializeTag: func(w ioWriter, tag Tag, ctx *Context) error {
		if err := format.WriteNameRef(w, tag.StructTypeName); err != nil {
			return errors.Wrap(err, "Struct.type_name")
		}
		_, err := w.Write(tag.StructGUID[:])
		return err
	},
	SerializeValue: func(w ioWriter, v Value, tag Tag, ctx *Context) error {
		return SerializeStructValue(w, v.Struct, ctx)
	},
	TagSize: func(tag Tag) int { return 24 },
	ValueSize: func(v Value, tag Tag) int {
		return structValueByteSize(v.Struct)
	},
}
