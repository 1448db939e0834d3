package field

import (
	"fmt"

	"github.com/crossbuild/ctfwriter/errs"
	"github.com/crossbuild/ctfwriter/schema"
)

// StructureGetFieldByIndex returns (constructing on first access) the
// child field at the schema's declaration index i.
func (f *Field) StructureGetFieldByIndex(i int) *Field {
	if f.children[i] == nil {
		f.children[i] = New(f.typ.Fields()[i].Type)
	}
	return f.children[i]
}

// StructureGetField returns (constructing on first access) the child
// field named name, or an error if no such field exists.
func (f *Field) StructureGetField(name string) (*Field, error) {
	if f.kind != schema.KindStructure {
		return nil, fmt.Errorf("%w: StructureGetField only applies to structure fields", errs.ErrInvalidArgument)
	}
	i, ok := f.typ.FieldIndex(name)
	if !ok {
		return nil, fmt.Errorf("%w: no structure field named %q", errs.ErrInvalidArgument, name)
	}
	return f.StructureGetFieldByIndex(i), nil
}
