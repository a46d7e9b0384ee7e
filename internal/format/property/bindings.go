package property

import (
	"github.com/google/uuid"

	"github.com/craigmc08/drg-editor/internal/format"
)

// NewStructTag mints a Tag for a freshly-constructed StructProperty, the way
// an editor adding a new property to an export would: the type name is
// interned (adding it to the name table if needed) and the GUID is a new
// random UUID, since no on-disk GUID exists yet to preserve (see
// SPEC_FULL.md §4.E).
func NewStructTag(ctx *Context, typeName string) Tag {
	ref := ctx.Names.ParseAndAdd(typeName)
	id := uuid.New()
	var guid [16]byte
	copy(guid[:], id[:])
	return Tag{Kind: TagKindStruct, StructTypeName: ref, StructGUID: guid}
}

// NewProperty builds a Property from a name, its loader-implied tag, and a
// value, computing Meta.Size the same way Property.Serialize recomputes it.
func NewProperty(ctx *Context, name string, typ PropType, tag Tag, value Value) (Property, error) {
	loader, err := GetLoaderFor(typ)
	if err != nil {
		return Property{}, err
	}
	meta := Meta{
		Name: ctx.Names.ParseAndAdd(name),
		Type: typ,
		Size: uint64(loader.ValueSize(value, tag)),
	}
	return Property{Meta: meta, Tag: tag, Value: value}, nil
}

// NameOf is a small convenience wrapper around ctx.Names.String for callers
// that only have a NameRef in hand.
func NameOf(ctx *Context, ref format.NameRef) string {
	return ctx.Names.String(ref)
}
