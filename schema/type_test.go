package schema

import (
	"testing"

	"github.com/crossbuild/ctfwriter/endian"
	"github.com/crossbuild/ctfwriter/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIntegerDefaults(t *testing.T) {
	i, err := NewInteger(32)
	require.NoError(t, err)
	assert.Equal(t, 32, i.Bits())
	assert.Equal(t, 8, i.Alignment())
	assert.False(t, i.Signed())
	assert.Equal(t, endian.GetLittleEndianEngine(), i.ByteOrder())
}

func TestNewIntegerRejectsOutOfRangeWidth(t *testing.T) {
	_, err := NewInteger(0)
	require.ErrorIs(t, err, errs.ErrOutOfRange)

	_, err = NewInteger(65)
	require.ErrorIs(t, err, errs.ErrOutOfRange)
}

func TestOneBitIntegerDefaultsToAlignmentOne(t *testing.T) {
	i, err := NewInteger(1)
	require.NoError(t, err)
	assert.Equal(t, 1, i.Alignment())
}

func TestSetAlignmentRejectsNonAlignedOneBitInteger(t *testing.T) {
	i, err := NewInteger(1)
	require.NoError(t, err)
	err = i.SetAlignment(8)
	require.ErrorIs(t, err, errs.ErrOutOfRange)
}

func TestSetAlignmentRejectsNonPowerOfTwo(t *testing.T) {
	i, _ := NewInteger(32)
	err := i.SetAlignment(3)
	require.ErrorIs(t, err, errs.ErrOutOfRange)
}

func TestMutatorsRejectOnFrozenType(t *testing.T) {
	i, _ := NewInteger(32)
	i.Freeze()

	require.ErrorIs(t, i.SetSigned(true), errs.ErrFrozen)
	require.ErrorIs(t, i.SetAlignment(16), errs.ErrFrozen)
	require.ErrorIs(t, i.SetBase(BaseHex), errs.ErrFrozen)
}

func TestFreezeIsIdempotentAndTransitive(t *testing.T) {
	inner, _ := NewInteger(16)
	outer := NewStructure()
	require.NoError(t, outer.AddField("x", inner))

	outer.Freeze()
	outer.Freeze() // idempotent, must not panic or change state

	assert.True(t, outer.Frozen())
	assert.True(t, inner.Frozen())
}

func TestNewFloatDefaultsToBinary64(t *testing.T) {
	f := NewFloat()
	assert.True(t, f.IsBinary64())
	assert.False(t, f.IsBinary32())
}

func TestSetExponentAndMantissaDigitsToBinary32(t *testing.T) {
	f := NewFloat()
	require.NoError(t, f.SetExponentDigits(8))
	require.NoError(t, f.SetMantissaDigits(24))
	assert.True(t, f.IsBinary32())
}

func TestSetExponentDigitsRejectsUnsupportedWidth(t *testing.T) {
	f := NewFloat()
	err := f.SetExponentDigits(10)
	require.ErrorIs(t, err, errs.ErrOutOfRange)
}

func TestNewStringDefaults(t *testing.T) {
	s := NewString()
	assert.Equal(t, KindString, s.Kind())
	assert.Equal(t, 8, s.Alignment())
	assert.Equal(t, EncodingUTF8, s.Encoding())
}

func TestStructureAddFieldTracksMaxAlignment(t *testing.T) {
	st := NewStructure()
	narrow, _ := NewInteger(8)
	wide, _ := NewInteger(32)

	require.NoError(t, st.AddField("a", narrow))
	assert.Equal(t, 8, st.Alignment())

	require.NoError(t, st.AddField("b", wide))
	assert.Equal(t, 8, st.Alignment()) // both default-align to 8; widening doesn't change it here

	require.NoError(t, wide.SetAlignment(32))
	assert.Equal(t, 8, st.Alignment(), "alignment was captured at AddField time, not live")
}

func TestStructureAddFieldRejectsDuplicateName(t *testing.T) {
	st := NewStructure()
	i, _ := NewInteger(8)
	require.NoError(t, st.AddField("x", i))

	j, _ := NewInteger(16)
	err := st.AddField("x", j)
	require.ErrorIs(t, err, errs.ErrDuplicate)
}

func TestStructureAddFieldRejectsReservedIdentifier(t *testing.T) {
	st := NewStructure()
	i, _ := NewInteger(8)
	err := st.AddField("struct", i)
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestStructureAddFieldRejectsFrozenStructure(t *testing.T) {
	st := NewStructure()
	st.Freeze()
	i, _ := NewInteger(8)
	err := st.AddField("x", i)
	require.ErrorIs(t, err, errs.ErrFrozen)
}

func TestEnumerationMappingLookup(t *testing.T) {
	container, _ := NewInteger(8)
	require.NoError(t, container.SetSigned(false))
	e, err := NewEnumeration(container)
	require.NoError(t, err)

	require.NoError(t, e.AddMappingUnsigned("RED", 0, 0))
	require.NoError(t, e.AddMappingUnsigned("GREEN", 1, 1))

	m, ok := e.LookupByValue(1)
	require.True(t, ok)
	assert.Equal(t, "GREEN", m.Label)

	_, ok = e.LookupByValue(5)
	assert.False(t, ok)
}

func TestEnumerationAddMappingRejectsOverlap(t *testing.T) {
	container, _ := NewInteger(8)
	require.NoError(t, container.SetSigned(false))
	e, _ := NewEnumeration(container)

	require.NoError(t, e.AddMappingUnsigned("A", 0, 10))
	err := e.AddMappingUnsigned("B", 5, 15)
	require.ErrorIs(t, err, errs.ErrOverlap)
}

func TestEnumerationAddMappingWrongSignednessHelper(t *testing.T) {
	unsignedContainer, _ := NewInteger(8)
	require.NoError(t, unsignedContainer.SetSigned(false))
	e, _ := NewEnumeration(unsignedContainer)

	err := e.AddMapping("A", 0, 1)
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestEnumerationRejectsNonIntegerContainer(t *testing.T) {
	_, err := NewEnumeration(NewString())
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestVariantFieldMustMatchTagEnumerationLabel(t *testing.T) {
	container, _ := NewInteger(8)
	require.NoError(t, container.SetSigned(false))
	tag, _ := NewEnumeration(container)
	require.NoError(t, tag.AddMappingUnsigned("A", 0, 0))

	v, err := NewVariant(tag, "tag")
	require.NoError(t, err)

	i, _ := NewInteger(32)
	require.NoError(t, v.AddVariantField("A", i))

	err = v.AddVariantField("B", i)
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestVariantRejectsDuplicateLabel(t *testing.T) {
	container, _ := NewInteger(8)
	require.NoError(t, container.SetSigned(false))
	tag, _ := NewEnumeration(container)
	require.NoError(t, tag.AddMappingUnsigned("A", 0, 0))

	v, _ := NewVariant(tag, "tag")
	i, _ := NewInteger(32)
	require.NoError(t, v.AddVariantField("A", i))
	err := v.AddVariantField("A", i)
	require.ErrorIs(t, err, errs.ErrDuplicate)
}

func TestArrayRejectsEmptyEnumerationElement(t *testing.T) {
	container, _ := NewInteger(8)
	e, _ := NewEnumeration(container)
	_, err := NewArray(e, 4)
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestArrayInheritsElementAlignment(t *testing.T) {
	elem, _ := NewInteger(32)
	arr, err := NewArray(elem, 3)
	require.NoError(t, err)
	assert.Equal(t, 8, arr.Alignment())
	assert.Equal(t, 3, arr.ArrayLen())
}

func TestSequenceRequiresLengthFieldName(t *testing.T) {
	elem, _ := NewInteger(8)
	_, err := NewSequence(elem, "")
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestValidIdentifierRejectsReservedAndEmpty(t *testing.T) {
	assert.False(t, ValidIdentifier(""))
	assert.False(t, ValidIdentifier("event"))
	assert.True(t, ValidIdentifier("payload"))
}
