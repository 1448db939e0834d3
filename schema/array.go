package schema

import (
	"fmt"

	"github.com/crossbuild/ctfwriter/errs"
)

// NewArray creates a fixed-length array type of length elements of
// elem. Rejected if elem is an enumeration with no mappings (spec.md
// §3) or length is negative.
func NewArray(elem *Type, length int) (*Type, error) {
	if elem == nil {
		return nil, fmt.Errorf("%w: array element type must not be nil", errs.ErrInvalidArgument)
	}
	if length < 0 {
		return nil, fmt.Errorf("%w: array length must be >= 0, got %d", errs.ErrOutOfRange, length)
	}
	if elem.Kind() == KindEnumeration && len(elem.mappings) == 0 {
		return nil, fmt.Errorf("%w: array element enumeration has no mappings", errs.ErrInvalidArgument)
	}

	return &Type{
		kind:      KindArray,
		elem:      elem,
		arrayLen:  length,
		alignment: elem.Alignment(),
	}, nil
}
