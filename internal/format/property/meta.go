package property

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"github.com/craigmc08/drg-editor/internal/format"
)

// Meta is the three-field prefix every non-terminal property begins with: a
// name, a PropType, and the declared byte size of everything after the tag's
// zero separator. A meta whose name renders as "None" terminates a property
// list and carries no further fields — callers detect this by checking the
// bool DeserializeMeta returns before looking at the Meta itself.
type Meta struct {
	Name format.NameRef
	Type PropType
	Size uint64
}

// MetaByteSize is the fixed width of a serialized Meta: an 8-byte NameRef, an
// 8-byte NameRef for the PropType's surface name, and an 8-byte size.
const MetaByteSize = 24

// DeserializeMeta reads a Meta, or reports ok=false if the name's surface
// form is "None" (the property-list terminator).
func DeserializeMeta(r *format.ByteReader, ctx *Context) (Meta, bool, error) {
	nameRef, err := format.ReadNameRef(r)
	if err != nil {
		return Meta{}, false, errors.Wrap(err, "Meta.name")
	}
	if ctx.Names.String(nameRef) == "None" {
		return Meta{}, false, nil
	}

	typ, err := DeserializePropType(r, ctx)
	if err != nil {
		return Meta{}, false, errors.Wrap(err, "Meta.type")
	}

	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Meta{}, false, errors.Wrap(err, "Meta.size")
	}
	size := binary.LittleEndian.Uint64(buf[:])

	return Meta{Name: nameRef, Type: typ, Size: size}, true, nil
}

// Serialize writes a Meta's three fields.
func (m Meta) Serialize(w ioWriter, ctx *Context) error {
	if err := format.WriteNameRef(w, m.Name); err != nil {
		return errors.Wrap(err, "Meta.name")
	}
	if err := SerializePropType(w, m.Type, ctx); err != nil {
		return errors.Wrap(err, "Meta.type")
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], m.Size)
	if _, err := w.Write(buf[:]); err != nil {
		return errors.Wrap(err, "Meta.size")
	}
	return nil
}

// WriteNoneTerminator writes the "None" NameRef that ends a property list.
func WriteNoneTerminator(w ioWriter, ctx *Context) error {
	ref := ctx.Names.ParseAndAdd("None")
	return format.WriteNameRef(w, ref)
}
