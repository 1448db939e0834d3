package field

import (
	"fmt"

	"github.com/crossbuild/ctfwriter/errs"
	"github.com/crossbuild/ctfwriter/schema"
)

// ArrayGetField returns (constructing on first access) the element
// field at index i.
func (f *Field) ArrayGetField(i int) *Field {
	if f.children[i] == nil {
		f.children[i] = New(f.typ.Elem())
	}
	return f.children[i]
}

// ArrayLen returns the array's fixed length.
func (f *Field) ArrayLen() (int, error) {
	if f.kind != schema.KindArray {
		return 0, fmt.Errorf("%w: ArrayLen only applies to array fields", errs.ErrInvalidArgument)
	}
	return len(f.children), nil
}
