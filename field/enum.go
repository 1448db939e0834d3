package field

import (
	"fmt"

	"github.com/crossbuild/ctfwriter/errs"
	"github.com/crossbuild/ctfwriter/schema"
)

// EnumerationContainer returns the child field holding the
// enumeration's backing integer value.
func (f *Field) EnumerationContainer() *Field {
	return f.container
}

// MappingName returns the label of the mapping the enumeration's
// current container value falls into, or false if unset or no mapping
// covers the value.
func (f *Field) MappingName() (string, bool) {
	if f.kind != schema.KindEnumeration {
		return "", false
	}
	if !f.container.isSet {
		return "", false
	}

	var value int64
	if f.typ.Container().Signed() {
		value = f.container.sval
	} else {
		value = int64(f.container.uval) //nolint:gosec
	}

	m, ok := f.typ.LookupByValue(value)
	if !ok {
		return "", false
	}
	return m.Label, true
}

// SetUnsignedByLabel sets the enumeration's container value to the
// start of the mapping named label (unsigned container).
func (f *Field) SetUnsignedByLabel(label string) error {
	if f.kind != schema.KindEnumeration {
		return fmt.Errorf("%w: SetUnsignedByLabel only applies to enumeration fields", errs.ErrInvalidArgument)
	}
	i, ok := f.typ.LookupByLabel(label)
	if !ok {
		return fmt.Errorf("%w: label %q not found", errs.ErrInvalidTag, label)
	}
	return f.container.SetUnsigned(uint64(f.typ.Mappings()[i].Start)) //nolint:gosec
}

// SetSignedByLabel sets the enumeration's container value to the start
// of the mapping named label (signed container).
func (f *Field) SetSignedByLabel(label string) error {
	if f.kind != schema.KindEnumeration {
		return fmt.Errorf("%w: SetSignedByLabel only applies to enumeration fields", errs.ErrInvalidArgument)
	}
	i, ok := f.typ.LookupByLabel(label)
	if !ok {
		return fmt.Errorf("%w: label %q not found", errs.ErrInvalidTag, label)
	}
	return f.container.SetSigned(f.typ.Mappings()[i].Start)
}
