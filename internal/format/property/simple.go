package property

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/pkg/errors"

	"github.com/craigmc08/drg-editor/internal/format"
)

// LoaderInt handles IntProperty: a plain little-endian i32.
var LoaderInt = simpleLoader(IntProperty,
	func(r *format.ByteReader, tag Tag, maxSize uint64, ctx *Context) (Value, error) {
		var buf [4]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return Value{}, errors.Wrap(err, "Int")
		}
		return Value{Kind: ValueKindInt, Int: int32(binary.LittleEndian.Uint32(buf[:]))}, nil
	},
	func(w ioWriter, v Value, tag Tag, ctx *Context) error {
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], uint32(v.Int))
		_, err := w.Write(buf[:])
		return err
	},
	func(v Value, tag Tag) int { return 4 },
)

// LoaderUInt8 handles UInt8Property. The engine still writes it as a 4-byte
// slot; only the interpreted range differs from Int, so it reuses Int's
// wire shape with its own Value.Int field for the unsigned byte value.
var LoaderUInt8 = simpleLoader(UInt8Property,
	func(r *format.ByteReader, tag Tag, maxSize uint64, ctx *Context) (Value, error) {
		var buf [4]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return Value{}, errors.Wrap(err, "UInt8")
		}
		return Value{Kind: ValueKindInt, Int: int32(binary.LittleEndian.Uint32(buf[:]))}, nil
	},
	func(w ioWriter, v Value, tag Tag, ctx *Context) error {
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], uint32(v.Int))
		_, err := w.Write(buf[:])
		return err
	},
	func(v Value, tag Tag) int { return 4 },
)

// LoaderFloat handles FloatProperty: a plain little-endian f32.
var LoaderFloat = simpleLoader(FloatProperty,
	func(r *format.ByteReader, tag Tag, maxSize uint64, ctx *Context) (Value, error) {
		var buf [4]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return Value{}, errors.Wrap(err, "Float")
		}
		bits := binary.LittleEndian.Uint32(buf[:])
		return Value{Kind: ValueKindFloat, Float: math.Float32frombits(bits)}, nil
	},
	func(w ioWriter, v Value, tag Tag, ctx *Context) error {
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v.Float))
		_, err := w.Write(buf[:])
		return err
	},
	func(v Value, tag Tag) int { return 4 },
)

// LoaderObject handles ObjectProperty: a single Reference slot.
var LoaderObject = simpleLoader(ObjectProperty,
	func(r *format.ByteReader, tag Tag, maxSize uint64, ctx *Context) (Value, error) {
		ref, err := format.ReadReference(r, ctx.Imports, ctx.Exports)
		if err != nil {
			return Value{}, errors.Wrap(err, "Object")
		}
		return Value{Kind: ValueKindObject, Object: ref}, nil
	},
	func(w ioWriter, v Value, tag Tag, ctx *Context) error {
		return v.Object.Write(w, ctx.Imports, ctx.Exports)
	},
	func(v Value, tag Tag) int { return 4 },
)

// LoaderSoftObject handles SoftObjectProperty. spec.md §9 resolves the Open
// Question in favor of a Reference parent field over the legacy plain u32;
// IsLegacy lets a value constructed from an unresolvable index fall back to
// the raw-u32 pass-through the older revision used, so reading never fails
// outright on an asset built under the legacy layout.
var LoaderSoftObject = simpleLoader(SoftObjectProperty,
	func(r *format.ByteReader, tag Tag, maxSize uint64, ctx *Context) (Value, error) {
		name, err := format.ReadNameRef(r)
		if err != nil {
			return Value{}, errors.Wrap(err, "SoftObject.object_name")
		}
		raw, err := peekU32(r)
		if err != nil {
			return Value{}, errors.Wrap(err, "SoftObject.parent")
		}
		if parent, err := format.DecodeReference(int32(raw), ctx.Imports, ctx.Exports); err == nil {
			if _, err := readU32Discard(r); err != nil {
				return Value{}, errors.Wrap(err, "SoftObject.parent")
			}
			return Value{Kind: ValueKindSoftObject, SoftObjectName: name, SoftObjectParent: parent}, nil
		}
		v, err := readU32Discard(r)
		if err != nil {
			return Value{}, errors.Wrap(err, "SoftObject.parent (legacy)")
		}
		return Value{Kind: ValueKindSoftObject, SoftObjectName: name, SoftObjectLegacy: v, SoftObjectIsLegacy: true}, nil
	},
	func(w ioWriter, v Value, tag Tag, ctx *Context) error {
		if err := format.WriteNameRef(w, v.SoftObjectName); err != nil {
			return errors.Wrap(err, "SoftObject.object_name")
		}
		if v.SoftObjectIsLegacy {
			return writeU32Raw(w, v.SoftObjectLegacy)
		}
		return v.SoftObjectParent.Write(w, ctx.Imports, ctx.Exports)
	},
	func(v Value, tag Tag) int { return 12 },
)

func peekU32(r *format.ByteReader) (uint32, error) {
	pos := r.Position()
	v, err := readU32Discard(r)
	if err != nil {
		return 0, err
	}
	if _, err := r.Seek(pos, io.SeekStart); err != nil {
		return 0, err
	}
	return v, nil
}

func readU32Discard(r *format.ByteReader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func writeU32Raw(w ioWriter, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

// LoaderName handles NameProperty: a single NameRef.
var LoaderName = simpleLoader(NameProperty,
	func(r *format.ByteReader, tag Tag, maxSize uint64, ctx *Context) (Value, error) {
		ref, err := format.ReadNameRef(r)
		if err != nil {
			return Value{}, errors.Wrap(err, "Name")
		}
		return Value{Kind: ValueKindName, Name: ref}, nil
	},
	func(w ioWriter, v Value, tag Tag, ctx *Context) error {
		return format.WriteNameRef(w, v.Name)
	},
	func(v Value, tag Tag) int { return 8 },
)

// LoaderStr handles StrProperty: a length-prefixed, null-terminated UTF-8
// byte string.
var LoaderStr = simpleLoader(StrProperty,
	func(r *format.ByteReader, tag Tag, maxSize uint64, ctx *Context) (Value, error) {
		s, err := format.ReadLengthPrefixedString(r)
		if err != nil {
			return Value{}, errors.Wrap(err, "Str")
		}
		return Value{Kind: ValueKindStr, Str: s}, nil
	},
	func(w ioWriter, v Value, tag Tag, ctx *Context) error {
		return format.WriteLengthPrefixedString(w, v.Str)
	},
	func(v Value, tag Tag) int {
		if v.Str == "" {
			return 4
		}
		return 4 + len(v.Str) + 1
	},
)

// LoaderText handles TextProperty. Per spec.md §9's Open Question
// resolution, this module picks the layout with accompanying write code in
// the retrieved source: raw opaque bytes read verbatim up to the property's
// declared size, with no further internal structure assumed.
var LoaderText = simpleLoader(TextProperty,
	func(r *format.ByteReader, tag Tag, maxSize uint64, ctx *Context) (Value, error) {
		buf := make([]byte, maxSize)
		if _, err := io.ReadFull(r, buf); err != nil {
			return Value{}, errors.Wrap(err, "Text")
		}
		return Value{Kind: ValueKindText, TextBytes: buf}, nil
	},
	func(w ioWriter, v Value, tag Tag, ctx *Context) error {
		_, err := w.Write(v.TextBytes)
		return err
	},
	func(v Value, tag Tag) int { return len(v.TextBytes) },
)
