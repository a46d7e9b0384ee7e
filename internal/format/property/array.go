package property

import (
	"io"

	"github.com/pkg/errors"

	"github.com/craigmc08/drg-editor/internal/format"
)

// LoaderArray handles ArrayProperty. The tag names the element PropType; the
// value decodes three ways depending on that element type (spec.md §4.6):
// dense simple elements, a Struct element (schema announced once via a
// nested Meta/Tag pair), or RawData when neither applies.
var LoaderArray = &Loader{
	ForTypes: []PropType{ArrayProperty},
	Simple:   false,
	DeserializeTag: func(r *format.ByteReader, ctx *Context) (Tag, error) {
		inner, err := DeserializePropType(r, ctx)
		if err != nil {
			return Tag{}, errors.Wrap(err, "Array.inner_type")
		}
		return Tag{Kind: TagKindArray, ArrayInnerType: inner}, nil
	},
	DeserializeValue: func(r *format.ByteReader, tag Tag, maxSize uint64, ctx *Context) (Value, error) {
		innerLoader, err := GetLoaderFor(tag.ArrayInnerType)
		if err != nil {
			return Value{}, errors.Wrap(err, "Array.inner_type")
		}

		if innerLoader.Simple {
			count, err := readU32Discard(r)
			if err != nil {
				return Value{}, errors.Wrap(err, "Array.count")
			}
			innerTag := SimpleTag(tag.ArrayInnerType)
			values := make([]Value, 0, count)
			for i := uint32(0); i < count; i++ {
				v, err := innerLoader.DeserializeValue(r, innerTag, maxSize, ctx)
				if err != nil {
					return Value{}, errors.Wrapf(err, "Array[%d]", i)
				}
				values = append(values, v)
			}
			return Value{Kind: ValueKindArray, ArrayValues: values}, nil
		}

		if tag.ArrayInnerType == StructProperty {
			count, err := readU32Discard(r)
			if err != nil {
				return Value{}, errors.Wrap(err, "Array.count")
			}
			innerMeta, ok, err := DeserializeMeta(r, ctx)
			if err != nil {
				return Value{}, errors.Wrap(err, "Array struct-inner meta")
			}
			if !ok {
				return Value{}, errors.New("Array struct-inner meta was unexpectedly None")
			}
			innerTag, err := innerLoader.DeserializeTag(r, ctx)
			if err != nil {
				return Value{}, errors.Wrap(err, "Array struct-inner tag")
			}
			if _, err := r.ReadByte(); err != nil {
				return Value{}, errors.Wrap(err, "Array struct-inner separator")
			}
			values := make([]Value, 0, count)
			for i := uint32(0); i < count; i++ {
				v, err := innerLoader.DeserializeValue(r, innerTag, innerMeta.Size, ctx)
				if err != nil {
					return Value{}, errors.Wrapf(err, "Array[%d]", i)
				}
				values = append(values, v)
			}
			return Value{Kind: ValueKindArray, ArrayValues: values, ArrayInnerMeta: &innerMeta, ArrayInnerTag: &innerTag}, nil
		}

		data := make([]byte, maxSize)
		if _, err := io.ReadFull(r, data); err != nil {
			return Value{}, errors.Wrap(err, "Array raw data")
		}
		return Value{Kind: ValueKindRawData, RawData: data}, nil
	},
	SerializeTag: func(w ioWriter, tag Tag, ctx *Context) error {
		return SerializePropType(w, tag.ArrayInnerType, ctx)
	},
	SerializeValue: func(w ioWriter, v Value, tag Tag, ctx *Context) error {
		if v.Kind == ValueKindRawData {
			_, err := w.Write(v.RawData)
			return err
		}

		innerLoader, err := GetLoaderFor(tag.ArrayInnerType)
		if err != nil {
			return errors.Wrap(err, "Array.inner_type")
		}

		if err := writeU32Raw(w, uint32(len(v.ArrayValues))); err != nil {
			return err
		}

		if v.ArrayInnerMeta != nil {
			if err := v.ArrayInnerMeta.Serialize(w, ctx); err != nil {
				return errors.Wrap(err, "Array struct-inner meta")
			}
			if err := innerLoader.SerializeTag(w, *v.ArrayInnerTag, ctx); err != nil {
				return errors.Wrap(err, "Array struct-inner tag")
			}
			if _, err := w.Write([]byte{0}); err != nil {
				return err
			}
			for i, elem := range v.ArrayValues {
				if err := innerLoader.SerializeValue(w, elem, *v.ArrayInnerTag, ctx); err != nil {
					return errors.Wrapf(err, "Array[%d]", i)
				}
			}
			return nil
		}

		innerTag := SimpleTag(tag.ArrayInnerType)
		for i, elem := range v.ArrayValues {
			if err := innerLoader.SerializeValue(w, elem, innerTag, ctx); err != nil {
				return errors.Wrapf(err, "Array[%d]", i)
			}
		}
		return nil
	},
	TagSize: func(tag Tag) int { return 8 },
	ValueSize: func(v Value, tag Tag) int {
		if v.Kind == ValueKindRawData {
			return len(v.RawData)
		}
		innerLoader, err := GetLoaderFor(tag.ArrayInnerType)
		if err != nil {
			panic(err)
		}
		size := 4 // count
		if v.ArrayInnerMeta != nil {
			size += MetaByteSize + innerLoader.TagSize(*v.ArrayInnerTag) + 1
			for _, elem := range v.ArrayValues {
				size += innerLoader.ValueSize(elem, *v.ArrayInnerTag)
			}
			return size
		}
		innerTag := SimpleTag(tag.ArrayInnerType)
		for _, elem := range v.ArrayValues {
			size += innerLoader.ValueSize(elem, innerTag)
		}
		return size
	},
}
