// Package field implements typed value instances bound to a schema.Type
// node: construction, assignment, deep copy, and bit-precise
// serialisation into a bitbuf.Buffer, per spec.md §3/§4.3.
package field

import (
	"github.com/crossbuild/ctfwriter/schema"
)

// Field is a typed value instance bound to a schema.Type. Composite
// kinds (Structure, Variant, Array, Sequence) hold child Fields built
// lazily on first access, mirroring the teacher corpus's general
// "construct state on demand, not up front" posture for large schema
// graphs.
//
// The zero value is not usable; construct with New.
type Field struct {
	typ  *schema.Type
	kind schema.Kind

	// scalar storage
	isSet  bool
	uval   uint64
	sval   int64
	fval   float64
	sbytes []byte

	// Enumeration
	container *Field

	// Structure / Array: lazily constructed, one slot per schema child.
	children []*Field

	// Variant
	selected      *Field
	selectedLabel string

	// Sequence
	seqChildren []*Field
	seqLength   int
	seqBound    bool
}

// New constructs a Field bound to t, freezing t (spec.md §3: a type
// freezes when a field is instantiated from it). Composite children
// are not built here; they're constructed lazily on first access.
func New(t *schema.Type) *Field {
	t.Freeze()

	f := &Field{typ: t, kind: t.Kind()}

	switch t.Kind() {
	case schema.KindEnumeration:
		f.container = New(t.Container())
	case schema.KindStructure:
		f.children = make([]*Field, len(t.Fields()))
	case schema.KindArray:
		f.children = make([]*Field, t.ArrayLen())
	case schema.KindSequence:
		f.seqChildren = nil
	}

	return f
}

// Type returns the schema node this field is bound to.
func (f *Field) Type() *schema.Type { return f.typ }

// Kind returns the field's tagged-union kind.
func (f *Field) Kind() schema.Kind { return f.kind }

// IsSet reports whether the field has a value ready to serialise. For
// composites this is true iff every required child is set.
func (f *Field) IsSet() bool {
	switch f.kind {
	case schema.KindInteger, schema.KindFloat, schema.KindString:
		return f.isSet
	case schema.KindEnumeration:
		return f.container.IsSet()
	case schema.KindStructure:
		for i := range f.children {
			if !f.StructureGetFieldByIndex(i).IsSet() {
				return false
			}
		}
		return true
	case schema.KindVariant:
		return f.selected != nil && f.selected.IsSet()
	case schema.KindArray:
		for i := range f.children {
			if !f.ArrayGetField(i).IsSet() {
				return false
			}
		}
		return true
	case schema.KindSequence:
		if !f.seqBound {
			return false
		}
		for i := range f.seqChildren {
			if !f.seqChildren[i].IsSet() {
				return false
			}
		}
		return true
	default:
		return false
	}
}
