package field

import (
	"fmt"

	"github.com/crossbuild/ctfwriter/errs"
	"github.com/crossbuild/ctfwriter/schema"
)

// SetFloat sets a float field's value.
func (f *Field) SetFloat(value float64) error {
	if f.kind != schema.KindFloat {
		return fmt.Errorf("%w: SetFloat only applies to float fields", errs.ErrInvalidArgument)
	}
	f.fval = value
	f.isSet = true
	return nil
}

// Float returns the field's current value and whether it has been set.
func (f *Field) Float() (float64, bool) {
	if f.kind != schema.KindFloat {
		return 0, false
	}
	return f.fval, f.isSet
}
