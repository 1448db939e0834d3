package schema

import (
	"fmt"

	"github.com/crossbuild/ctfwriter/errs"
)

// NewVariant creates a variant type tagged by tagType (an enumeration)
// whose current value, read from the field named by tagFieldName in
// the enclosing lexical scope at field-instantiation time, selects
// which branch is active.
func NewVariant(tagType *Type, tagFieldName string) (*Type, error) {
	if tagType == nil || tagType.Kind() != KindEnumeration {
		return nil, fmt.Errorf("%w: variant tag type must be an enumeration", errs.ErrInvalidArgument)
	}
	if tagFieldName == "" {
		return nil, fmt.Errorf("%w: variant tag field name must not be empty", errs.ErrInvalidArgument)
	}

	return &Type{
		kind:         KindVariant,
		tagType:      tagType,
		tagFieldName: tagFieldName,
		alignment:    1,
		variantIndex: make(map[string]int),
	}, nil
}

// AddVariantField appends a (label, child) branch. label must name a
// mapping already present in the tag enumeration; rejected otherwise,
// or if the label is already used in this variant.
func (t *Type) AddVariantField(label string, child *Type) error {
	if err := t.checkMutable(); err != nil {
		return err
	}
	if t.kind != KindVariant {
		return fmt.Errorf("%w: AddVariantField only applies to variant types", errs.ErrInvalidArgument)
	}
	if child == nil {
		return fmt.Errorf("%w: variant field type must not be nil", errs.ErrInvalidArgument)
	}
	if !t.tagType.HasMapping(label) {
		return fmt.Errorf("%w: label %q is not present in the variant's tag enumeration", errs.ErrInvalidArgument, label)
	}
	if _, exists := t.variantIndex[label]; exists {
		return fmt.Errorf("%w: variant label %q already used", errs.ErrDuplicate, label)
	}

	t.variantIndex[label] = len(t.variantFields)
	t.variantFields = append(t.variantFields, VariantField{Label: label, Type: child})
	if child.Alignment() > t.alignment {
		t.alignment = child.Alignment()
	}

	return nil
}
