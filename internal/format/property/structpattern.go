package property

import (
	"encoding/binary"
	"encoding/json"
	"io"
	"math"

	"github.com/pkg/errors"

	"github.com/craigmc08/drg-editor/internal/format"
)

// StructPatternKind discriminates a StructPattern's variants (spec.md §4.7).
type StructPatternKind int

const (
	PatternPropertyList StructPatternKind = iota
	PatternBinary
	PatternBinaryProperties
	PatternInt
	PatternUInt
	PatternFloating
	PatternEnum
)

// StructPattern is one parsed schema entry: either the registry's "default"
// or one of its named "patterns". It is not self-describing on disk —
// the registry is the out-of-band schema the binary format itself lacks
// (spec.md §4.7).
type StructPattern struct {
	Kind StructPatternKind

	BinarySize int

	BinaryProperties []binaryPropertyPattern

	NumericSize int // for PatternInt / PatternUInt / PatternFloating

	EnumVariants []string
}

type binaryPropertyPattern struct {
	Name    string
	Pattern StructPattern
}

// jsonPattern mirrors the wire schema from spec.md §4.7 for decoding.
type jsonPattern struct {
	Type       string            `json:"type"`
	Size       int               `json:"size"`
	Properties []jsonBinaryEntry `json:"properties"`
	Variants   []string          `json:"variants"`
}

type jsonBinaryEntry struct {
	Name string `json:"name"`
	jsonPattern
}

// UnmarshalJSON flattens {"name": ..., ...pattern fields} into a
// jsonBinaryEntry, since the wire format embeds the pattern's own fields
// alongside "name" rather than nesting it.
func (e *jsonBinaryEntry) UnmarshalJSON(data []byte) error {
	type alias jsonBinaryEntry
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*e = jsonBinaryEntry(a)
	return nil
}

func structPatternFromJSON(p jsonPattern) (StructPattern, error) {
	switch p.Type {
	case "property-list":
		return StructPattern{Kind: PatternPropertyList}, nil
	case "binary":
		if p.Size <= 0 {
			return StructPattern{}, errors.New(`struct pattern of type "binary" is missing a positive "size"`)
		}
		return StructPattern{Kind: PatternBinary, BinarySize: p.Size}, nil
	case "binary-properties":
		props := make([]binaryPropertyPattern, 0, len(p.Properties))
		for _, entry := range p.Properties {
			if entry.Name == "" {
				return StructPattern{}, errors.New(`binary-properties entry is missing "name"`)
			}
			inner, err := structPatternFromJSON(entry.jsonPattern)
			if err != nil {
				return StructPattern{}, errors.Wrapf(err, "in binary-properties.%s", entry.Name)
			}
			props = append(props, binaryPropertyPattern{Name: entry.Name, Pattern: inner})
		}
		return StructPattern{Kind: PatternBinaryProperties, BinaryProperties: props}, nil
	case "int":
		if !isValidIntSize(p.Size) {
			return StructPattern{}, errors.Errorf(`struct pattern of type "int" has invalid size %d (want 1, 2, 4, or 8)`, p.Size)
		}
		return StructPattern{Kind: PatternInt, NumericSize: p.Size}, nil
	case "uint":
		if !isValidIntSize(p.Size) {
			return StructPattern{}, errors.Errorf(`struct pattern of type "uint" has invalid size %d (want 1, 2, 4, or 8)`, p.Size)
		}
		return StructPattern{Kind: PatternUInt, NumericSize: p.Size}, nil
	case "floating":
		if p.Size != 4 && p.Size != 8 {
			return StructPattern{}, errors.Errorf(`struct pattern of type "floating" has invalid size %d (want 4 or 8)`, p.Size)
		}
		return StructPattern{Kind: PatternFloating, NumericSize: p.Size}, nil
	case "enum":
		if len(p.Variants) == 0 {
			return StructPattern{}, errors.New(`struct pattern of type "enum" is missing "variants"`)
		}
		return StructPattern{Kind: PatternEnum, EnumVariants: p.Variants}, nil
	case "":
		return StructPattern{}, errors.New("struct pattern is missing \"type\"")
	default:
		return StructPattern{}, errors.Errorf("unknown struct pattern type %q", p.Type)
	}
}

func isValidIntSize(n int) bool {
	return n == 1 || n == 2 || n == 4 || n == 8
}

// StructPatterns is the registry loaded once per process from a JSON
// sidecar and threaded explicitly through Context thereafter (spec.md §9
// Design Notes: "the cleaner redesign is an explicit context object... add
// the registry to it and delete the global" — there is no package-level
// registry variable anywhere in this codebase).
type StructPatterns struct {
	Default  StructPattern
	Patterns map[string]StructPattern

	// OnFallback, if set, is called with the struct type name whenever
	// lookup falls back to Default — the non-fatal diagnostic spec.md §7
	// calls "Unknown struct pattern handled by fallback".
	OnFallback func(structType string)
}

type jsonRegistry struct {
	Default  jsonPattern            `json:"default"`
	Patterns map[string]jsonPattern `json:"patterns"`
}

// LoadStructPatterns decodes the JSON sidecar described in spec.md §4.7.
func LoadStructPatterns(r io.Reader) (*StructPatterns, error) {
	var raw jsonRegistry
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "decoding struct pattern registry")
	}

	def, err := structPatternFromJSON(raw.Default)
	if err != nil {
		return nil, errors.Wrap(err, "default pattern")
	}

	patterns := make(map[string]StructPattern, len(raw.Patterns))
	for name, p := range raw.Patterns {
		pattern, err := structPatternFromJSON(p)
		if err != nil {
			return nil, errors.Wrapf(err, "pattern %q", name)
		}
		patterns[name] = pattern
	}

	return &StructPatterns{Default: def, Patterns: patterns}, nil
}

func (r *StructPatterns) lookup(structType string) StructPattern {
	if p, ok := r.Patterns[structType]; ok {
		return p
	}
	if r.OnFallback != nil {
		r.OnFallback(structType)
	}
	return r.Default
}

// Deserialize resolves structType against the registry (falling back to
// Default) and parses the payload accordingly.
func (r *StructPatterns) Deserialize(reader *format.ByteReader, structType string, ctx *Context) (StructValue, error) {
	pattern := r.lookup(structType)
	return pattern.deserialize(reader, ctx)
}

func (p StructPattern) deserialize(r *format.ByteReader, ctx *Context) (StructValue, error) {
	switch p.Kind {
	case PatternPropertyList:
		var items []Property
		hasNone := false
		for !r.AtEnd() {
			start := r.Position()
			prop, ok, err := DeserializeProperty(r, ctx)
			if err != nil {
				return StructValue{}, errors.Wrapf(err, "struct property-list at %#X", start)
			}
			if !ok {
				hasNone = true
				break
			}
			items = append(items, prop)
		}
		return StructValue{Kind: StructValueKindPropertyList, Properties: items, HasNone: hasNone}, nil

	case PatternBinary:
		buf := make([]byte, p.BinarySize)
		if _, err := io.ReadFull(r, buf); err != nil {
			return StructValue{}, errors.Wrap(err, "struct binary data")
		}
		return StructValue{Kind: StructValueKindBinary, Bytes: buf}, nil

	case PatternBinaryProperties:
		entries := make([]BinaryPropertyValue, 0, len(p.BinaryProperties))
		for _, entry := range p.BinaryProperties {
			v, err := entry.Pattern.deserialize(r, ctx)
			if err != nil {
				return StructValue{}, errors.Wrapf(err, "in binary-properties.%s", entry.Name)
			}
			entries = append(entries, BinaryPropertyValue{Name: entry.Name, Value: v})
		}
		return StructValue{Kind: StructValueKindBinaryProperties, BinaryProperties: entries}, nil

	case PatternInt:
		v, err := readSignedOfSize(r, p.NumericSize)
		if err != nil {
			return StructValue{}, errors.Wrap(err, "struct int value")
		}
		return StructValue{Kind: StructValueKindInt, NumericSize: p.NumericSize, IntValue: v}, nil

	case PatternUInt:
		v, err := readUnsignedOfSize(r, p.NumericSize)
		if err != nil {
			return StructValue{}, errors.Wrap(err, "struct uint value")
		}
		return StructValue{Kind: StructValueKindUInt, NumericSize: p.NumericSize, UIntValue: v}, nil

	case PatternFloating:
		v, err := readFloatOfSize(r, p.NumericSize)
		if err != nil {
			return StructValue{}, errors.Wrap(err, "struct floating value")
		}
		return StructValue{Kind: StructValueKindFloat, NumericSize: p.NumericSize, FloatValue: v}, nil

	case PatternEnum:
		b, err := r.ReadByte()
		if err != nil {
			return StructValue{}, errors.Wrap(err, "struct enum index")
		}
		if int(b) >= len(p.EnumVariants) {
			return StructValue{}, errors.Errorf("struct enum index %d is out of range (have %d variants)", b, len(p.EnumVariants))
		}
		return StructValue{Kind: StructValueKindEnum, EnumVariants: p.EnumVariants, EnumIndex: b}, nil

	default:
		return StructValue{}, errors.Errorf("unhandled struct pattern kind %d", p.Kind)
	}
}

// SerializeStructValue writes a decoded StructValue back to its exact
// on-disk form.
func SerializeStructValue(w ioWriter, v StructValue, ctx *Context) error {
	switch v.Kind {
	case StructValueKindPropertyList:
		for i, prop := range v.Properties {
			if err := prop.Serialize(w, ctx); err != nil {
				return errors.Wrapf(err, "struct property-list[%d]", i)
			}
		}
		if v.HasNone {
			if err := WriteNoneTerminator(w, ctx); err != nil {
				return errors.Wrap(err, "struct property-list None terminator")
			}
		}
		return nil

	case StructValueKindBinary:
		_, err := w.Write(v.Bytes)
		return err

	case StructValueKindBinaryProperties:
		for _, entry := range v.BinaryProperties {
			if err := SerializeStructValue(w, entry.Value, ctx); err != nil {
				return errors.Wrapf(err, "binary-properties.%s", entry.Name)
			}
		}
		return nil

	case StructValueKindInt:
		return writeSignedOfSize(w, v.NumericSize, v.IntValue)

	case StructValueKindUInt:
		return writeUnsignedOfSize(w, v.NumericSize, v.UIntValue)

	case StructValueKindFloat:
		return writeFloatOfSize(w, v.NumericSize, v.FloatValue)

	case StructValueKindEnum:
		_, err := w.Write([]byte{v.EnumIndex})
		return err

	default:
		return errors.Errorf("unhandled struct value kind %d", v.Kind)
	}
}

func structValueByteSize(v StructValue) int {
	switch v.Kind {
	case StructValueKindPropertyList:
		size := 0
		for _, prop := range v.Properties {
			size += prop.ByteSize()
		}
		if v.HasNone {
			size += 8
		}
		return size
	case StructValueKindBinary:
		return len(v.Bytes)
	case StructValueKindBinaryProperties:
		size := 0
		for _, entry := range v.BinaryProperties {
			size += structValueByteSize(entry.Value)
		}
		return size
	case StructValueKindInt, StructValueKindUInt, StructValueKindFloat:
		return v.NumericSize
	case StructValueKindEnum:
		return 1
	default:
		return 0
	}
}

func readSignedOfSize(r *format.ByteReader, size int) (int64, error) {
	u, err := readUnsignedOfSize(r, size)
	if err != nil {
		return 0, err
	}
	switch size {
	case 1:
		return int64(int8(u)), nil
	case 2:
		return int64(int16(u)), nil
	case 4:
		return int64(int32(u)), nil
	default:
		return int64(u), nil
	}
}

func readUnsignedOfSize(r *format.ByteReader, size int) (uint64, error) {
	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return 0, err
	}
	switch size {
	case 1:
		return uint64(buf[0]), nil
	case 2:
		return uint64(binary.LittleEndian.Uint16(buf)), nil
	case 4:
		return uint64(binary.LittleEndian.Uint32(buf)), nil
	default:
		return binary.LittleEndian.Uint64(buf), nil
	}
}

func readFloatOfSize(r *format.ByteReader, size int) (float64, error) {
	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return 0, err
	}
	if size == 4 {
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(buf))), nil
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(buf)), nil
}

func writeSignedOfSize(w ioWriter, size int, v int64) error {
	return writeUnsignedOfSize(w, size, uint64(v))
}

func writeUnsignedOfSize(w ioWriter, size int, v uint64) error {
	buf := make([]byte, size)
	switch size {
	case 1:
		buf[0] = byte(v)
	case 2:
		binary.LittleEndian.PutUint16(buf, uint16(v))
	case 4:
		binary.LittleEndian.PutUint32(buf, uint32(v))
	default:
		binary.LittleEndian.PutUint64(buf, v)
	}
	_, err := w.Write(buf)
	return err
}

func writeFloatOfSize(w ioWriter, size int, v float64) error {
	buf := make([]byte, size)
	if size == 4 {
		binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(v)))
	} else {
		binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
	}
	_, err := w.Write(buf)
	return err
}
