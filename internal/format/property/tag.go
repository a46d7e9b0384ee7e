package property

import (
	"github.com/craigmc08/drg-editor/internal/format"
)

// TagKind discriminates Tag's variants. Most PropTypes use TagKindSimple,
// where the loader table itself implies the full tag and no bytes are read
// or written for it.
type TagKind int

const (
	TagKindSimple TagKind = iota
	TagKindBool
	TagKindEnum
	TagKindArray
	TagKindMap
	TagKindStruct
)

// Tag is the per-kind extra bytes between a property's Meta and its Value.
// It is a tagged union stored by value: only the fields relevant to Kind are
// populated, matching the small, bounded set of shapes the format actually
// uses (no recursive arm needs boxing).
type Tag struct {
	Kind TagKind

	// TagKindSimple
	SimpleType PropType

	// TagKindBool
	BoolValue bool

	// TagKindEnum (also used for ByteProperty)
	EnumTypeName format.NameRef

	// TagKindArray
	ArrayInnerType PropType

	// TagKindMap
	MapKeyType   PropType
	MapValueType PropType

	// TagKindStruct
	StructTypeName format.NameRef
	StructGUID     [16]byte
}

// SimpleTag builds the implied tag for a simple-loader PropType.
func SimpleTag(t PropType) Tag {
	return Tag{Kind: TagKindSimple, SimpleType: t}
}
