package field

import (
	"fmt"

	"github.com/crossbuild/ctfwriter/errs"
	"github.com/crossbuild/ctfwriter/schema"
)

// SequenceSetLength binds the sequence's element count, constructing n
// fresh element fields. Calling it again replaces the entire element
// slice.
func (f *Field) SequenceSetLength(n int) error {
	if f.kind != schema.KindSequence {
		return fmt.Errorf("%w: SequenceSetLength only applies to sequence fields", errs.ErrInvalidArgument)
	}
	if n < 0 {
		return fmt.Errorf("%w: sequence length must be >= 0, got %d", errs.ErrOutOfRange, n)
	}

	children := make([]*Field, n)
	for i := range children {
		children[i] = New(f.typ.Elem())
	}
	f.seqChildren = children
	f.seqLength = n
	f.seqBound = true
	return nil
}

// SequenceGetField returns the element field at index i. The sequence
// must have had its length bound via SequenceSetLength first.
func (f *Field) SequenceGetField(i int) (*Field, error) {
	if f.kind != schema.KindSequence {
		return nil, fmt.Errorf("%w: SequenceGetField only applies to sequence fields", errs.ErrInvalidArgument)
	}
	if !f.seqBound {
		return nil, fmt.Errorf("%w: sequence length not yet set", errs.ErrUnset)
	}
	if i < 0 || i >= len(f.seqChildren) {
		return nil, fmt.Errorf("%w: sequence index %d out of range [0,%d)", errs.ErrOutOfRange, i, len(f.seqChildren))
	}
	return f.seqChildren[i], nil
}

// SequenceLen returns the currently bound element count.
func (f *Field) SequenceLen() (int, error) {
	if f.kind != schema.KindSequence {
		return 0, fmt.Errorf("%w: SequenceLen only applies to sequence fields", errs.ErrInvalidArgument)
	}
	if !f.seqBound {
		return 0, fmt.Errorf("%w: sequence length not yet set", errs.ErrUnset)
	}
	return f.seqLength, nil
}
