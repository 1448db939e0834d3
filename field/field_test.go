package field

import (
	"testing"

	"github.com/crossbuild/ctfwriter/bitbuf"
	"github.com/crossbuild/ctfwriter/errs"
	"github.com/crossbuild/ctfwriter/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intType(t *testing.T, bits int, signed bool) *schema.Type {
	t.Helper()
	typ, err := schema.NewInteger(bits)
	require.NoError(t, err)
	require.NoError(t, typ.SetSigned(signed))
	return typ
}

func TestNewFreezesBoundType(t *testing.T) {
	typ := intType(t, 8, false)
	require.False(t, typ.Frozen())
	New(typ)
	assert.True(t, typ.Frozen())
}

func TestIntegerSetUnsignedRangeChecks(t *testing.T) {
	f := New(intType(t, 8, false))

	require.NoError(t, f.SetUnsigned(255))
	err := f.SetUnsigned(256)
	require.ErrorIs(t, err, errs.ErrOutOfRange)
}

func TestIntegerSetSignedRangeChecks(t *testing.T) {
	f := New(intType(t, 8, true))

	require.NoError(t, f.SetSigned(127))
	require.NoError(t, f.SetSigned(-128))
	require.ErrorIs(t, f.SetSigned(128), errs.ErrOutOfRange)
	require.ErrorIs(t, f.SetSigned(-129), errs.ErrOutOfRange)
}

func TestIntegerWrongSignednessRejected(t *testing.T) {
	f := New(intType(t, 8, false))
	err := f.SetSigned(1)
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestIsSetBeforeAndAfterAssignment(t *testing.T) {
	f := New(intType(t, 8, false))
	assert.False(t, f.IsSet())
	require.NoError(t, f.SetUnsigned(1))
	assert.True(t, f.IsSet())
}

func TestStructureIsSetRequiresEveryChild(t *testing.T) {
	st := schema.NewStructure()
	a, _ := schema.NewInteger(8)
	b, _ := schema.NewInteger(8)
	require.NoError(t, st.AddField("a", a))
	require.NoError(t, st.AddField("b", b))

	f := New(st)
	assert.False(t, f.IsSet())

	af, err := f.StructureGetField("a")
	require.NoError(t, err)
	require.NoError(t, af.SetUnsigned(1))
	assert.False(t, f.IsSet(), "b is still unset")

	bf, err := f.StructureGetField("b")
	require.NoError(t, err)
	require.NoError(t, bf.SetUnsigned(2))
	assert.True(t, f.IsSet())
}

func TestStructureGetFieldUnknownName(t *testing.T) {
	st := schema.NewStructure()
	f := New(st)
	_, err := f.StructureGetField("missing")
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestSequenceUnboundIsNotSet(t *testing.T) {
	elem, _ := schema.NewInteger(8)
	seqType, err := schema.NewSequence(elem, "len")
	require.NoError(t, err)

	f := New(seqType)
	assert.False(t, f.IsSet(), "an unbound sequence must not vacuously report set")
}

func TestSequenceSetLengthAndIndexing(t *testing.T) {
	elem, _ := schema.NewInteger(8)
	seqType, _ := schema.NewSequence(elem, "len")
	f := New(seqType)

	require.NoError(t, f.SequenceSetLength(7))
	n, err := f.SequenceLen()
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	for i := 0; i < 7; i++ {
		ef, err := f.SequenceGetField(i)
		require.NoError(t, err)
		require.NoError(t, ef.SetUnsigned(uint64(i)))
	}
	assert.True(t, f.IsSet())

	_, err = f.SequenceGetField(7)
	require.ErrorIs(t, err, errs.ErrOutOfRange)
}

func TestSequenceGetFieldBeforeLengthSet(t *testing.T) {
	elem, _ := schema.NewInteger(8)
	seqType, _ := schema.NewSequence(elem, "len")
	f := New(seqType)

	_, err := f.SequenceGetField(0)
	require.ErrorIs(t, err, errs.ErrUnset)
}

func TestArrayGetFieldLazyConstructionAndLen(t *testing.T) {
	elem, _ := schema.NewInteger(16)
	arrType, err := schema.NewArray(elem, 4)
	require.NoError(t, err)

	f := New(arrType)
	n, err := f.ArrayLen()
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	assert.False(t, f.IsSet())
	for i := 0; i < 4; i++ {
		require.NoError(t, f.ArrayGetField(i).SetUnsigned(uint64(i*10)))
	}
	assert.True(t, f.IsSet())
}

func TestEnumerationMappingNameRoundTrip(t *testing.T) {
	container, _ := schema.NewInteger(8)
	require.NoError(t, container.SetSigned(false))
	enumType, err := schema.NewEnumeration(container)
	require.NoError(t, err)
	require.NoError(t, enumType.AddMappingUnsigned("RED", 0, 0))
	require.NoError(t, enumType.AddMappingUnsigned("GREEN", 1, 1))

	f := New(enumType)
	_, ok := f.MappingName()
	assert.False(t, ok)

	require.NoError(t, f.SetUnsignedByLabel("GREEN"))
	label, ok := f.MappingName()
	require.True(t, ok)
	assert.Equal(t, "GREEN", label)
}

func TestEnumerationSetByLabelUnknownLabel(t *testing.T) {
	container, _ := schema.NewInteger(8)
	require.NoError(t, container.SetSigned(false))
	enumType, _ := schema.NewEnumeration(container)
	require.NoError(t, enumType.AddMappingUnsigned("RED", 0, 0))

	f := New(enumType)
	err := f.SetUnsignedByLabel("BLUE")
	require.ErrorIs(t, err, errs.ErrInvalidTag)
}

func buildVariantSchema(t *testing.T) (*schema.Type, *schema.Type) {
	t.Helper()
	container, _ := schema.NewInteger(8)
	require.NoError(t, container.SetSigned(false))
	tag, err := schema.NewEnumeration(container)
	require.NoError(t, err)
	require.NoError(t, tag.AddMappingUnsigned("INT", 0, 0))
	require.NoError(t, tag.AddMappingUnsigned("STR", 1, 1))

	v, err := schema.NewVariant(tag, "tag")
	require.NoError(t, err)
	intBranch, _ := schema.NewInteger(32)
	require.NoError(t, v.AddVariantField("INT", intBranch))
	require.NoError(t, v.AddVariantField("STR", schema.NewString()))

	return tag, v
}

func TestVariantGetFieldSelectsBranchByTag(t *testing.T) {
	tagType, variantType := buildVariantSchema(t)

	st := schema.NewStructure()
	require.NoError(t, st.AddField("tag", tagType))
	require.NoError(t, st.AddField("body", variantType))

	root := New(st)
	tagField, err := root.StructureGetField("tag")
	require.NoError(t, err)
	bodyField, err := root.StructureGetField("body")
	require.NoError(t, err)

	require.NoError(t, tagField.SetUnsignedByLabel("STR"))
	branch, err := bodyField.VariantGetField(tagField)
	require.NoError(t, err)
	require.NoError(t, branch.StringSet("hello"))

	cur, label, ok := bodyField.VariantCurrentField()
	require.True(t, ok)
	assert.Equal(t, "STR", label)
	assert.Same(t, branch, cur)
}

func TestVariantGetFieldUnknownTagValue(t *testing.T) {
	_, variantType := buildVariantSchema(t)
	tagTypeOnly, _ := schema.NewInteger(8)
	require.NoError(t, tagTypeOnly.SetSigned(false))

	bodyField := New(variantType)
	looseTag := New(tagTypeOnly) // not an enumeration field at all
	_, err := bodyField.VariantGetField(looseTag)
	require.ErrorIs(t, err, errs.ErrInvalidTag)
}

func TestStringAppendAndAppendLen(t *testing.T) {
	f := New(schema.NewString())
	require.NoError(t, f.Append("hello "))
	require.NoError(t, f.AppendLen("world!!!", 5))

	s, ok := f.String()
	require.True(t, ok)
	assert.Equal(t, "hello world", s)
}

func TestAppendLenPadsShortValue(t *testing.T) {
	f := New(schema.NewString())
	require.NoError(t, f.AppendLen("ab", 5))
	s, _ := f.String()
	assert.Equal(t, "ab\x00\x00\x00", s)
}

func TestCopyIsIndependentDeepCopy(t *testing.T) {
	elem, _ := schema.NewInteger(8)
	seqType, _ := schema.NewSequence(elem, "len")
	orig := New(seqType)
	require.NoError(t, orig.SequenceSetLength(7))
	for i := 0; i < 7; i++ {
		ef, _ := orig.SequenceGetField(i)
		require.NoError(t, ef.SetUnsigned(uint64(i)))
	}

	clone := orig.Copy()
	n, err := clone.SequenceLen()
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	cf, err := clone.SequenceGetField(3)
	require.NoError(t, err)
	require.NoError(t, cf.SetUnsigned(99))

	of, err := orig.SequenceGetField(3)
	require.NoError(t, err)
	v, _ := of.Unsigned()
	assert.Equal(t, uint64(3), v, "mutating the copy must not affect the original")

	_, err = clone.SequenceGetField(7)
	require.ErrorIs(t, err, errs.ErrOutOfRange)
}

func TestSerializeStructureOfIntegers(t *testing.T) {
	st := schema.NewStructure()
	a, _ := schema.NewInteger(8)
	b, _ := schema.NewInteger(16)
	require.NoError(t, st.AddField("a", a))
	require.NoError(t, st.AddField("b", b))

	f := New(st)
	af, _ := f.StructureGetField("a")
	bf, _ := f.StructureGetField("b")
	require.NoError(t, af.SetUnsigned(0xAB))
	require.NoError(t, bf.SetUnsigned(0x1234))

	buf := bitbuf.New(8)
	require.NoError(t, f.Serialize(buf))
	assert.Equal(t, []byte{0xAB, 0x34, 0x12}, buf.Bytes())
}

func TestSerializeUnsetFieldErrors(t *testing.T) {
	f := New(intType(t, 8, false))
	buf := bitbuf.New(4)
	err := f.Serialize(buf)
	require.ErrorIs(t, err, errs.ErrUnset)
}

func TestSerializeVariantWithNoSelectionErrors(t *testing.T) {
	_, variantType := buildVariantSchema(t)
	f := New(variantType)
	buf := bitbuf.New(4)
	err := f.Serialize(buf)
	require.ErrorIs(t, err, errs.ErrUnset)
}
