package schema

import (
	"fmt"

	"github.com/crossbuild/ctfwriter/errs"
)

// NewStructure creates an empty structure type. Its alignment starts
// at 1 and becomes the max of its children's alignments as fields are
// added.
func NewStructure() *Type {
	return &Type{
		kind:       KindStructure,
		alignment:  1,
		fieldIndex: make(map[string]int),
	}
}

// AddField appends a (name, child) field to a structure type. Rejected
// if the structure is frozen, name is empty, reserved, or already used,
// or child is an enumeration with no mappings (spec.md §3).
func (t *Type) AddField(name string, child *Type) error {
	if err := t.checkMutable(); err != nil {
		return err
	}
	if t.kind != KindStructure {
		return fmt.Errorf("%w: AddField only applies to structure types", errs.ErrInvalidArgument)
	}
	if child == nil {
		return fmt.Errorf("%w: field type must not be nil", errs.ErrInvalidArgument)
	}
	if !ValidIdentifier(name) {
		return fmt.Errorf("%w: %q is not a valid field name", errs.ErrInvalidArgument, name)
	}
	if _, exists := t.fieldIndex[name]; exists {
		return fmt.Errorf("%w: field %q already exists", errs.ErrDuplicate, name)
	}
	if child.Kind() == KindEnumeration && len(child.mappings) == 0 {
		return fmt.Errorf("%w: enumeration field %q has no mappings", errs.ErrInvalidArgument, name)
	}

	t.fieldIndex[name] = len(t.fields)
	t.fields = append(t.fields, StructField{Name: name, Type: child})
	if child.Alignment() > t.alignment {
		t.alignment = child.Alignment()
	}

	return nil
}
