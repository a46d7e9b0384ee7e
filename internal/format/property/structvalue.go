package property

// StructValueKind discriminates StructValue's variants, one per struct
// pattern kind (spec.md §4.7).
type StructValueKind int

const (
	StructValueKindPropertyList StructValueKind = iota
	StructValueKindBinary
	StructValueKindBinaryProperties
	StructValueKindInt
	StructValueKindUInt
	StructValueKindFloat
	StructValueKindEnum
)

// StructValue is the decoded payload of a StructProperty value, shaped by
// whichever StructPattern the registry resolved for the struct's type name.
type StructValue struct {
	Kind StructValueKind

	// StructValueKindPropertyList
	Properties []Property
	HasNone    bool

	// StructValueKindBinary
	Bytes []byte

	// StructValueKindBinaryProperties: an ordered slice rather than a map,
	// so insertion order — and therefore round-trip byte order — survives
	// (spec.md §4.7: "Binary-properties preserves insertion order").
	BinaryProperties []BinaryPropertyValue

	// StructValueKindInt / KindUInt / KindFloat
	NumericSize int // 1, 2, 4, or 8 bytes
	IntValue    int64
	UIntValue   uint64
	FloatValue  float64

	// StructValueKindEnum
	EnumVariants []string
	EnumIndex    uint8
}

// BinaryPropertyValue is one named entry of a BinaryProperties StructValue.
type BinaryPropertyValue struct {
	Name  string
	Value StructValue
}
