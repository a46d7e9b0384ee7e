package property

import (
	"io"

	"github.com/pkg/errors"

	"github.com/craigmc08/drg-editor/internal/format"
)

// LoaderMap handles MapProperty. The tag names both the key and value
// PropTypes; when both sides are simple loaders, the value decodes as a
// dense, ordered set of key/value pairs. Otherwise it degrades to RawData,
// matching Array's fallback.
var LoaderMap = &Loader{
	ForTypes: []PropType{MapProperty},
	Simple:   false,
	DeserializeTag: func(r *format.ByteReader, ctx *Context) (Tag, error) {
		keyType, err := DeserializePropType(r, ctx)
		if err != nil {
			return Tag{}, errors.Wrap(err, "Map.key_type")
		}
		valueType, err := DeserializePropType(r, ctx)
		if err != nil {
			return Tag{}, errors.Wrap(err, "Map.value_type")
		}
		return Tag{Kind: TagKindMap, MapKeyType: keyType, MapValueType: valueType}, nil
	},
	DeserializeValue: func(r *format.ByteReader, tag Tag, maxSize uint64, ctx *Context) (Value, error) {
		keyLoader, err := GetLoaderFor(tag.MapKeyType)
		if err != nil {
			return Value{}, errors.Wrap(err, "Map.key_type")
		}
		valueLoader, err := GetLoaderFor(tag.MapValueType)
		if err != nil {
			return Value{}, errors.Wrap(err, "Map.value_type")
		}

		if !keyLoader.Simple || !valueLoader.Simple {
			data := make([]byte, maxSize)
			if _, err := io.ReadFull(r, data); err != nil {
				return Value{}, errors.Wrap(err, "Map raw data")
			}
			return Value{Kind: ValueKindRawData, RawData: data}, nil
		}

		numKeysToRemove, err := readU32Discard(r)
		if err != nil {
			return Value{}, errors.Wrap(err, "Map.num_keys_to_remove")
		}
		count, err := readU32Discard(r)
		if err != nil {
			return Value{}, errors.Wrap(err, "Map.count")
		}

		keyTag := SimpleTag(tag.MapKeyType)
		valueTag := SimpleTag(tag.MapValueType)
		entries := make([]MapEntry, 0, count)
		for i := uint32(0); i < count; i++ {
			key, err := keyLoader.DeserializeValue(r, keyTag, maxSize, ctx)
			if err != nil {
				return Value{}, errors.Wrapf(err, "Map[%d].key", i)
			}
			val, err := valueLoader.DeserializeValue(r, valueTag, maxSize, ctx)
			if err != nil {
				return Value{}, errors.Wrapf(err, "Map[%d].value", i)
			}
			entries = append(entries, MapEntry{Key: key, Value: val})
		}
		return Value{Kind: ValueKindMap, MapNumKeysToRemove: numKeysToRemove, MapEntries: entries}, nil
	},
	SerializeTag: func(w ioWriter, tag Tag, ctx *Context) error {
		if err := SerializePropType(w, tag.MapKeyType, ctx); err != nil {
			return errors.Wrap(err, "Map.key_type")
		}
		return SerializePropType(w, tag.MapValueType, ctx)
	},
	SerializeValue: func(w ioWriter, v Value, tag Tag, ctx *Context) error {
		if v.Kind == ValueKindRawData {
			_, err := w.Write(v.RawData)
			return err
		}

		keyLoader, err := GetLoaderFor(tag.MapKeyType)
		if err != nil {
			return errors.Wrap(err, "Map.key_type")
		}
		valueLoader, err := GetLoaderFor(tag.MapValueType)
		if err != nil {
			return errors.Wrap(err, "Map.value_type")
		}

		if err := writeU32Raw(w, v.MapNumKeysToRemove); err != nil {
			return err
		}
		if err := writeU32Raw(w, uint32(len(v.MapEntries))); err != nil {
			return err
		}
		keyTag := SimpleTag(tag.MapKeyType)
		valueTag := SimpleTag(tag.MapValueType)
		for i, entry := range v.MapEntries {
			if err := keyLoader.SerializeValue(w, entry.Key, keyTag, ctx); err != nil {
				return errors.Wrapf(err, "Map[%d].key", i)
			}
			if err := valueLoader.SerializeValue(w, entry.Value, valueTag, ctx); err != nil {
				return errors.Wrapf(err, "Map[%d].value", i)
			}
		}
		return nil
	},
	TagSize: func(tag Tag) int { return 16 },
	ValueSize: func(v Value, tag Tag) int {
		if v.Kind == ValueKindRawData {
			return len(v.RawData)
		}
		keyLoader, err := GetLoaderFor(tag.MapKeyType)
		if err != nil {
			panic(err)
		}
		valueLoader, err := GetLoaderFor(tag.MapValueType)
		if err != nil {
			panic(err)
		}
		keyTag := SimpleTag(tag.MapKeyType)
		valueTag := SimpleTag(tag.MapValueType)
		size := 8 // num_keys_to_remove + count
		for _, entry := range v.MapEntries {
			size += keyLoader.ValueSize(entry.Key, keyTag)
			size += valueLoader.ValueSize(entry.Value, valueTag)
		}
		return size
	},
}
