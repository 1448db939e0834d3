package field

import (
	"fmt"

	"github.com/crossbuild/ctfwriter/errs"
	"github.com/crossbuild/ctfwriter/schema"
)

// VariantGetField resolves the active branch by reading tagField's
// current label and returns (constructing on first access, or reusing
// the same child if the label hasn't changed since the last call) the
// field for that branch. Returns errs.ErrInvalidTag if tagField has no
// value yet or its value matches no mapping in the variant's tag
// enumeration.
func (f *Field) VariantGetField(tagField *Field) (*Field, error) {
	if f.kind != schema.KindVariant {
		return nil, fmt.Errorf("%w: VariantGetField only applies to variant fields", errs.ErrInvalidArgument)
	}

	label, ok := tagField.MappingName()
	if !ok {
		return nil, fmt.Errorf("%w: tag field has no value matching a known mapping", errs.ErrInvalidTag)
	}

	if f.selected != nil && f.selectedLabel == label {
		return f.selected, nil
	}

	branchType, ok := f.typ.FieldTypeForLabel(label)
	if !ok {
		return nil, fmt.Errorf("%w: no variant branch for label %q", errs.ErrInvalidTag, label)
	}

	f.selected = New(branchType)
	f.selectedLabel = label
	return f.selected, nil
}

// VariantCurrentField returns the currently selected branch field and
// its label, or false if no branch has been selected yet.
func (f *Field) VariantCurrentField() (*Field, string, bool) {
	if f.selected == nil {
		return nil, "", false
	}
	return f.selected, f.selectedLabel, true
}
