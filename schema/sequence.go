package schema

import (
	"fmt"

	"github.com/crossbuild/ctfwriter/errs"
)

// NewSequence creates a sequence type of elements of elem, whose
// logical length at field-instantiation time comes from the integer
// field named lengthFieldName in the enclosing lexical scope. Rejected
// if elem is an enumeration with no mappings (spec.md §3).
func NewSequence(elem *Type, lengthFieldName string) (*Type, error) {
	if elem == nil {
		return nil, fmt.Errorf("%w: sequence element type must not be nil", errs.ErrInvalidArgument)
	}
	if lengthFieldName == "" {
		return nil, fmt.Errorf("%w: sequence length field name must not be empty", errs.ErrInvalidArgument)
	}
	if elem.Kind() == KindEnumeration && len(elem.mappings) == 0 {
		return nil, fmt.Errorf("%w: sequence element enumeration has no mappings", errs.ErrInvalidArgument)
	}

	return &Type{
		kind:            KindSequence,
		elem:            elem,
		lengthFieldName: lengthFieldName,
		alignment:       elem.Alignment(),
	}, nil
}
