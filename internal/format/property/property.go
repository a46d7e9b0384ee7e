package property

import (
	"io"

	"github.com/pkg/errors"

	"github.com/craigmc08/drg-editor/internal/format"
)

// Property is one (meta, tag, value) triple: a named, typed, self-describing
// value embedded in an export's property bag.
type Property struct {
	Meta  Meta
	Tag   Tag
	Value Value
}

// DeserializeProperty reads one property, or reports ok=false if the meta's
// name is the list terminator "None" (spec.md §4.6 steps 1-6).
func DeserializeProperty(r *format.ByteReader, ctx *Context) (Property, bool, error) {
	meta, ok, err := DeserializeMeta(r, ctx)
	if err != nil {
		return Property{}, false, errors.Wrap(err, "Property.meta")
	}
	if !ok {
		return Property{}, false, nil
	}

	loader, err := GetLoaderFor(meta.Type)
	if err != nil {
		return Property{}, false, errors.Wrapf(err, "Property %q", ctx.Names.String(meta.Name))
	}

	tag, err := loader.DeserializeTag(r, ctx)
	if err != nil {
		return Property{}, false, errors.Wrapf(err, "Property %q tag", ctx.Names.String(meta.Name))
	}

	// Exactly one zero byte separates the tag from the value, for every
	// known type (spec.md §9: "treat it as part of the envelope, not the
	// value").
	if _, err := r.ReadByte(); err != nil {
		return Property{}, false, errors.Wrapf(err, "Property %q separator", ctx.Names.String(meta.Name))
	}

	r.Limit(int(meta.Size))
	value, err := loader.DeserializeValue(r, tag, meta.Size, ctx)
	r.Unlimit()
	if err != nil {
		return Property{}, false, errors.Wrapf(err, "Property %q value", ctx.Names.String(meta.Name))
	}

	return Property{Meta: meta, Tag: tag, Value: value}, true, nil
}

// Serialize writes a property, recomputing its Meta.Size from the actual
// serialized value size so the on-disk size field is always consistent.
func (p Property) Serialize(w ioWriter, ctx *Context) error {
	loader, err := GetLoaderFor(p.Meta.Type)
	if err != nil {
		return errors.Wrapf(err, "Property %q", ctx.Names.String(p.Meta.Name))
	}

	newSize := uint64(loader.ValueSize(p.Value, p.Tag))
	meta := Meta{Name: p.Meta.Name, Type: p.Meta.Type, Size: newSize}
	if err := meta.Serialize(w, ctx); err != nil {
		return errors.Wrapf(err, "Property %q meta", ctx.Names.String(p.Meta.Name))
	}

	if err := loader.SerializeTag(w, p.Tag, ctx); err != nil {
		return errors.Wrapf(err, "Property %q tag", ctx.Names.String(p.Meta.Name))
	}
	if _, err := w.Write([]byte{0}); err != nil {
		return err
	}
	if err := loader.SerializeValue(w, p.Value, p.Tag, ctx); err != nil {
		return errors.Wrapf(err, "Property %q value", ctx.Names.String(p.Meta.Name))
	}
	return nil
}

// ByteSize is the number of bytes Serialize will emit: meta (24) + tag_size
// + 1 (separator) + value_size.
func (p Property) ByteSize() int {
	loader, err := GetLoaderFor(p.Meta.Type)
	if err != nil {
		panic(err)
	}
	return MetaByteSize + loader.TagSize(p.Tag) + 1 + loader.ValueSize(p.Value, p.Tag)
}

// Properties is the ordered property bag belonging to one export: the
// properties themselves, whether the bag ends with a None sentinel, and any
// leftover bytes needed to exactly fill the export's declared serial_size.
type Properties struct {
	Items     []Property
	EndsWithNone bool
	Extra     []byte
}

// DeserializeProperties reads a property bag for export, whose
// ExportFileOffset the reader must already be positioned at.
func DeserializeProperties(r *format.ByteReader, export *format.Export, objectName string, ctx *Context) (Properties, error) {
	startPos := r.Position()
	if startPos != export.ExportFileOffset {
		return Properties{}, errors.Errorf(
			"wrong properties starting position for %s: expected to be at position %#X, but at %#X",
			objectName, export.ExportFileOffset, startPos)
	}

	var items []Property
	endsWithNone := false
	endPos := export.ExportFileOffset + export.SerialSize

	for r.Position() < endPos {
		propStart := r.Position()
		prop, ok, err := DeserializeProperty(r, ctx)
		if err != nil {
			return Properties{}, errors.Wrapf(err, "property in %s starting at %#X", objectName, propStart)
		}
		if !ok {
			endsWithNone = true
			break
		}
		items = append(items, prop)
	}

	numBytesRead := r.Position() - startPos
	if numBytesRead > export.SerialSize {
		return Properties{}, errors.Errorf(
			"properties length for %s too long: expected to read at most %#X bytes, but read %#X",
			objectName, export.SerialSize, numBytesRead)
	}

	var extra []byte
	if numBytesRead < export.SerialSize {
		remaining := int(export.SerialSize - numBytesRead)
		buf := make([]byte, remaining)
		if _, err := io.ReadFull(r, buf); err != nil {
			return Properties{}, errors.Wrapf(err, "properties extra data for %s", objectName)
		}
		extra = buf
	}

	return Properties{Items: items, EndsWithNone: endsWithNone, Extra: extra}, nil
}

// Serialize writes every property in order, the None terminator if
// EndsWithNone, then Extra verbatim.
func (p Properties) Serialize(w ioWriter, ctx *Context) error {
	for i, prop := range p.Items {
		if err := prop.Serialize(w, ctx); err != nil {
			return errors.Wrapf(err, "property[%d]", i)
		}
	}
	if p.EndsWithNone {
		if err := WriteNoneTerminator(w, ctx); err != nil {
			return errors.Wrap(err, "None terminator")
		}
	}
	if _, err := w.Write(p.Extra); err != nil {
		return err
	}
	return nil
}

// ByteSize is sum(property sizes) + (8 for the None terminator if present)
// + len(Extra).
func (p Properties) ByteSize() int {
	size := 0
	for _, prop := range p.Items {
		size += prop.ByteSize()
	}
	if p.EndsWithNone {
		size += 8
	}
	size += len(p.Extra)
	return size
}
