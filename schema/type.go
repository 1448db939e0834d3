package schema

import (
	"fmt"

	"github.com/crossbuild/ctfwriter/endian"
	"github.com/crossbuild/ctfwriter/errs"
)

// validAlignments are the power-of-two bit alignments a Type may
// declare (spec.md §3).
var validAlignments = map[int]struct{}{1: {}, 2: {}, 4: {}, 8: {}, 16: {}, 32: {}, 64: {}}

// StructField is one (name, type) entry of a structure Type, in
// declaration order.
type StructField struct {
	Name string
	Type *Type
}

// VariantField is one (label, type) entry of a variant Type, in
// declaration order. Label must name a mapping in the variant's tag
// enumeration.
type VariantField struct {
	Label string
	Type  *Type
}

// EnumMapping is one (label, [start,end]) entry of an enumeration
// Type, in declaration order. Signedness of Start/End matches the
// enumeration's container type.
type EnumMapping struct {
	Label string
	Start int64
	End   int64
}

// Type is a recursive schema node: a tagged union over Kind, owning
// its children strongly (structures own field types, arrays/sequences
// own their element type, variants own their branch types, enums own
// their container type). Once frozen, every mutator returns
// errs.ErrFrozen; freezing is transitive over owned children.
//
// The zero value is not meaningful; construct with one of the NewXxx
// functions.
type Type struct {
	kind   Kind
	frozen bool

	// integer / enumeration-container attributes.
	bits      int
	signed    bool
	base      Base
	byteOrder endian.EndianEngine
	strEnc    StringEncoding
	alignment int

	// float attributes: exponent bits + mantissa bits (including sign).
	exponentBits int
	mantissaBits int

	// enumeration
	container *Type
	mappings  []EnumMapping

	// structure
	fields     []StructField
	fieldIndex map[string]int

	// variant
	tagType       *Type
	tagFieldName  string
	variantFields []VariantField
	variantIndex  map[string]int

	// array / sequence element
	elem            *Type
	arrayLen        int
	lengthFieldName string
}

// Kind returns which tagged-union variant this Type represents.
func (t *Type) Kind() Kind { return t.kind }

// Frozen reports whether this Type's attributes and child lists are
// immutable.
func (t *Type) Frozen() bool { return t.frozen }

// Alignment returns the type's bit alignment. Structures report the
// max alignment of their children (computed at add-field time);
// strings are always byte-aligned.
func (t *Type) Alignment() int { return t.alignment }

// ByteOrder returns the type's declared byte order (integer and float
// kinds only; others return the zero value).
func (t *Type) ByteOrder() endian.EndianEngine { return t.byteOrder }

// Bits returns the declared bit width (integer kind) or, for an
// enumeration, its container's bit width.
func (t *Type) Bits() int {
	if t.kind == KindEnumeration {
		return t.container.bits
	}
	return t.bits
}

// Signed reports the type's signedness (integer kind, or an
// enumeration's container signedness).
func (t *Type) Signed() bool {
	if t.kind == KindEnumeration {
		return t.container.signed
	}
	return t.signed
}

// Base returns the integer display base.
func (t *Type) Base() Base { return t.base }

// Encoding returns the string-encoding hint (integer and string kinds).
func (t *Type) Encoding() StringEncoding { return t.strEnc }

// ExponentBits and MantissaBits return the float type's declared digit
// counts.
func (t *Type) ExponentBits() int { return t.exponentBits }
func (t *Type) MantissaBits() int { return t.mantissaBits }

// Container returns the enumeration's backing integer type.
func (t *Type) Container() *Type { return t.container }

// Mappings returns the enumeration's mapping list in insertion order.
// The returned slice is a defensive copy.
func (t *Type) Mappings() []EnumMapping {
	out := make([]EnumMapping, len(t.mappings))
	copy(out, t.mappings)
	return out
}

// Fields returns the structure's (name, type) list in declaration
// order. The returned slice is a defensive copy.
func (t *Type) Fields() []StructField {
	out := make([]StructField, len(t.fields))
	copy(out, t.fields)
	return out
}

// FieldIndex returns the index of a structure field by name, or false.
func (t *Type) FieldIndex(name string) (int, bool) {
	i, ok := t.fieldIndex[name]
	return i, ok
}

// TagType returns a variant's tag enumeration type.
func (t *Type) TagType() *Type { return t.tagType }

// TagFieldName returns the path a variant's tag is resolved at, relative
// to the enclosing structure scope at field-instantiation time.
func (t *Type) TagFieldName() string { return t.tagFieldName }

// VariantFields returns the variant's (label, type) list in declaration
// order. The returned slice is a defensive copy.
func (t *Type) VariantFields() []VariantField {
	out := make([]VariantField, len(t.variantFields))
	copy(out, t.variantFields)
	return out
}

// FieldTypeForLabel returns the child type registered under label, or
// false if no such branch was added.
func (t *Type) FieldTypeForLabel(label string) (*Type, bool) {
	i, ok := t.variantIndex[label]
	if !ok {
		return nil, false
	}
	return t.variantFields[i].Type, true
}

// Elem returns the element type of an array or sequence.
func (t *Type) Elem() *Type { return t.elem }

// ArrayLen returns an array's fixed length.
func (t *Type) ArrayLen() int { return t.arrayLen }

// LengthFieldName returns a sequence's length-field path.
func (t *Type) LengthFieldName() string { return t.lengthFieldName }

// Freeze transitions the type (and, transitively, every type it owns)
// to immutable. Freezing an already-frozen type is a no-op, including
// recursively: the walk below short-circuits once it hits an already
// frozen node, keeping freeze cheap to call repeatedly (spec.md §8,
// idempotence).
func (t *Type) Freeze() {
	if t.frozen {
		return
	}
	t.frozen = true

	switch t.kind {
	case KindEnumeration:
		t.container.Freeze()
	case KindStructure:
		for _, f := range t.fields {
			f.Type.Freeze()
		}
	case KindVariant:
		t.tagType.Freeze()
		for _, f := range t.variantFields {
			f.Type.Freeze()
		}
	case KindArray, KindSequence:
		t.elem.Freeze()
	}
}

func (t *Type) checkMutable() error {
	if t.frozen {
		return fmt.Errorf("%w: field type is frozen", errs.ErrFrozen)
	}
	return nil
}
