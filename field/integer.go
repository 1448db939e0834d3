package field

import (
	"fmt"

	"github.com/crossbuild/ctfwriter/errs"
	"github.com/crossbuild/ctfwriter/schema"
)

// SetUnsigned sets an unsigned integer field's value. Returns
// errs.ErrInvalidArgument if the field isn't an unsigned integer, or
// errs.ErrOutOfRange if value doesn't fit the declared bit width.
func (f *Field) SetUnsigned(value uint64) error {
	if f.kind != schema.KindInteger || f.typ.Signed() {
		return fmt.Errorf("%w: SetUnsigned only applies to unsigned integer fields", errs.ErrInvalidArgument)
	}
	if bits := f.typ.Bits(); bits < 64 && value >= (uint64(1)<<uint(bits)) {
		return fmt.Errorf("%w: value %d does not fit in %d bits", errs.ErrOutOfRange, value, bits)
	}
	f.uval = value
	f.isSet = true
	return nil
}

// SetSigned sets a signed integer field's value.
func (f *Field) SetSigned(value int64) error {
	if f.kind != schema.KindInteger || !f.typ.Signed() {
		return fmt.Errorf("%w: SetSigned only applies to signed integer fields", errs.ErrInvalidArgument)
	}
	bits := f.typ.Bits()
	if bits < 64 {
		lo := -(int64(1) << uint(bits-1))
		hi := (int64(1) << uint(bits-1)) - 1
		if value < lo || value > hi {
			return fmt.Errorf("%w: value %d does not fit in %d signed bits", errs.ErrOutOfRange, value, bits)
		}
	}
	f.sval = value
	f.isSet = true
	return nil
}

// Unsigned returns the field's current unsigned value and whether it
// has been set.
func (f *Field) Unsigned() (uint64, bool) {
	if f.kind != schema.KindInteger || f.typ.Signed() {
		return 0, false
	}
	return f.uval, f.isSet
}

// Signed returns the field's current signed value and whether it has
// been set.
func (f *Field) Signed() (int64, bool) {
	if f.kind != schema.KindInteger || !f.typ.Signed() {
		return 0, false
	}
	return f.sval, f.isSet
}
