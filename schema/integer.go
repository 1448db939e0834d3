package schema

import (
	"fmt"

	"github.com/crossbuild/ctfwriter/endian"
	"github.com/crossbuild/ctfwriter/errs"
)

// NewInteger creates an unsigned, little-endian, decimal-base integer
// type of the given bit width (1..=64), defaulting its alignment to 8
// bits (or 1 when bits == 1, the only alignment that divides 1 per
// spec.md §3).
func NewInteger(bits int) (*Type, error) {
	if bits < 1 || bits > 64 {
		return nil, fmt.Errorf("%w: integer size must be in 1..=64, got %d", errs.ErrOutOfRange, bits)
	}

	align := 8
	if bits == 1 {
		align = 1
	}

	return &Type{
		kind:      KindInteger,
		bits:      bits,
		base:      BaseDecimal,
		byteOrder: endian.GetLittleEndianEngine(),
		alignment: align,
	}, nil
}

// SetAlignment sets the integer or float type's bit alignment. Valid
// values are the powers of two 1,2,4,8,16,32,64; an integer of size 1
// may only use alignment 1 (spec.md §3: "size==1 implies alignment
// divides 1").
func (t *Type) SetAlignment(bits int) error {
	if err := t.checkMutable(); err != nil {
		return err
	}
	if t.kind != KindInteger && t.kind != KindFloat {
		return fmt.Errorf("%w: SetAlignment only applies to integer or float types", errs.ErrInvalidArgument)
	}
	if _, ok := validAlignments[bits]; !ok {
		return fmt.Errorf("%w: alignment must be a power of two in 1..=64, got %d", errs.ErrOutOfRange, bits)
	}
	if t.kind == KindInteger && t.bits == 1 && bits != 1 {
		return fmt.Errorf("%w: a 1-bit integer must use alignment 1", errs.ErrOutOfRange)
	}

	t.alignment = bits
	return nil
}

// SetByteOrder sets the integer or float type's byte order.
func (t *Type) SetByteOrder(order endian.EndianEngine) error {
	if err := t.checkMutable(); err != nil {
		return err
	}
	if t.kind != KindInteger && t.kind != KindFloat {
		return fmt.Errorf("%w: SetByteOrder only applies to integer or float types", errs.ErrInvalidArgument)
	}
	t.byteOrder = order
	return nil
}

// SetBase sets the integer type's display base.
func (t *Type) SetBase(base Base) error {
	if err := t.checkMutable(); err != nil {
		return err
	}
	if t.kind != KindInteger {
		return fmt.Errorf("%w: SetBase only applies to integer types", errs.ErrInvalidArgument)
	}
	t.base = base
	return nil
}

// SetSigned sets the integer type's signedness.
func (t *Type) SetSigned(signed bool) error {
	if err := t.checkMutable(); err != nil {
		return err
	}
	if t.kind != KindInteger {
		return fmt.Errorf("%w: SetSigned only applies to integer types", errs.ErrInvalidArgument)
	}
	t.signed = signed
	return nil
}

// SetEncoding sets the string-encoding hint carried by an integer type
// (used to tell a downstream reader to render the integer's bytes as
// text) or a string type's own encoding.
func (t *Type) SetEncoding(enc StringEncoding) error {
	if err := t.checkMutable(); err != nil {
		return err
	}
	if t.kind != KindInteger && t.kind != KindString {
		return fmt.Errorf("%w: SetEncoding only applies to integer or string types", errs.ErrInvalidArgument)
	}
	t.strEnc = enc
	return nil
}
