package field

import (
	"fmt"

	"github.com/crossbuild/ctfwriter/bitbuf"
	"github.com/crossbuild/ctfwriter/errs"
	"github.com/crossbuild/ctfwriter/schema"
)

// Serialize writes f's current value into buf, aligning to the bound
// type's declared alignment first. It returns errs.ErrUnset if a
// scalar (or a required descendant of a composite) has no value yet.
func (f *Field) Serialize(buf *bitbuf.Buffer) error {
	buf.AlignTo(f.typ.Alignment())

	switch f.kind {
	case schema.KindInteger:
		return f.serializeInteger(buf)
	case schema.KindFloat:
		return f.serializeFloat(buf)
	case schema.KindString:
		return f.serializeString(buf)
	case schema.KindEnumeration:
		return f.container.Serialize(buf)
	case schema.KindStructure:
		return f.serializeStructure(buf)
	case schema.KindVariant:
		return f.serializeVariant(buf)
	case schema.KindArray:
		return f.serializeArray(buf)
	case schema.KindSequence:
		return f.serializeSequence(buf)
	default:
		return fmt.Errorf("%w: unknown field kind", errs.ErrInvalidArgument)
	}
}

func (f *Field) serializeInteger(buf *bitbuf.Buffer) error {
	if !f.isSet {
		return fmt.Errorf("%w: integer field has no value", errs.ErrUnset)
	}
	bits := f.typ.Bits()
	order := f.typ.ByteOrder()
	if f.typ.Signed() {
		buf.WriteSint(f.sval, bits, order)
	} else {
		buf.WriteUint(f.uval, bits, order)
	}
	return nil
}

func (f *Field) serializeFloat(buf *bitbuf.Buffer) error {
	if !f.isSet {
		return fmt.Errorf("%w: float field has no value", errs.ErrUnset)
	}
	order := f.typ.ByteOrder()
	if f.typ.IsBinary32() {
		buf.WriteFloat32(float32(f.fval), order)
	} else {
		buf.WriteFloat64(f.fval, order)
	}
	return nil
}

func (f *Field) serializeString(buf *bitbuf.Buffer) error {
	if !f.isSet {
		return fmt.Errorf("%w: string field has no value", errs.ErrUnset)
	}
	buf.WriteString(f.sbytes)
	return nil
}

func (f *Field) serializeStructure(buf *bitbuf.Buffer) error {
	for i := range f.typ.Fields() {
		child := f.StructureGetFieldByIndex(i)
		if err := child.Serialize(buf); err != nil {
			return fmt.Errorf("field %q: %w", f.typ.Fields()[i].Name, err)
		}
	}
	return nil
}

func (f *Field) serializeVariant(buf *bitbuf.Buffer) error {
	if f.selected == nil {
		return fmt.Errorf("%w: variant field has no branch selected", errs.ErrUnset)
	}
	return f.selected.Serialize(buf)
}

func (f *Field) serializeArray(buf *bitbuf.Buffer) error {
	for i := range f.children {
		if err := f.ArrayGetField(i).Serialize(buf); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

func (f *Field) serializeSequence(buf *bitbuf.Buffer) error {
	if !f.seqBound {
		return fmt.Errorf("%w: sequence field has no bound length", errs.ErrUnset)
	}
	for i, child := range f.seqChildren {
		if err := child.Serialize(buf); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}
