package schema

import (
	"fmt"

	"github.com/crossbuild/ctfwriter/endian"
	"github.com/crossbuild/ctfwriter/errs"
)

// NewFloat creates a floating-point type defaulted to IEEE-754 binary64
// shape (11 exponent bits, 53 mantissa bits including the sign bit),
// little-endian, 32-bit aligned.
func NewFloat() *Type {
	return &Type{
		kind:         KindFloat,
		exponentBits: 11,
		mantissaBits: 53,
		byteOrder:    endian.GetLittleEndianEngine(),
		alignment:    32,
	}
}

// SetExponentDigits sets the number of exponent bits. Only 8 (binary32)
// and 11 (binary64) produce a type this writer can serialise, since
// WriteFloat32/WriteFloat64 are the only encodings bitbuf implements.
func (t *Type) SetExponentDigits(bits int) error {
	if err := t.checkMutable(); err != nil {
		return err
	}
	if t.kind != KindFloat {
		return fmt.Errorf("%w: SetExponentDigits only applies to float types", errs.ErrInvalidArgument)
	}
	if bits != 8 && bits != 11 {
		return fmt.Errorf("%w: exponent digits must be 8 or 11, got %d", errs.ErrOutOfRange, bits)
	}
	t.exponentBits = bits
	return nil
}

// SetMantissaDigits sets the number of mantissa bits, including the
// sign bit. Only 24 (binary32) and 53 (binary64) are supported.
func (t *Type) SetMantissaDigits(bits int) error {
	if err := t.checkMutable(); err != nil {
		return err
	}
	if t.kind != KindFloat {
		return fmt.Errorf("%w: SetMantissaDigits only applies to float types", errs.ErrInvalidArgument)
	}
	if bits != 24 && bits != 53 {
		return fmt.Errorf("%w: mantissa digits must be 24 or 53, got %d", errs.ErrOutOfRange, bits)
	}
	t.mantissaBits = bits
	return nil
}

// IsBinary32 reports whether the float type's exponent/mantissa digit
// counts match IEEE-754 binary32 (8+24).
func (t *Type) IsBinary32() bool {
	return t.exponentBits == 8 && t.mantissaBits == 24
}

// IsBinary64 reports whether the float type's exponent/mantissa digit
// counts match IEEE-754 binary64 (11+53).
func (t *Type) IsBinary64() bool {
	return t.exponentBits == 11 && t.mantissaBits == 53
}
