package bitbuf

import (
	"testing"

	"github.com/crossbuild/ctfwriter/endian"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteUintLittleEndianByteAligned(t *testing.T) {
	b := New(8)
	b.WriteUint(0x1234, 16, endian.GetLittleEndianEngine())
	assert.Equal(t, int64(16), b.BitLen())
	assert.Equal(t, []byte{0x34, 0x12}, b.Bytes())
}

func TestWriteUintBigEndianReproducesStandardByteOrder(t *testing.T) {
	b := New(4)
	b.WriteUint(0x01, 8, endian.GetBigEndianEngine())
	assert.Equal(t, []byte{0x01}, b.Bytes())
}

func TestWriteUintBigEndianMultiByteMatchesStandardBigEndian(t *testing.T) {
	b := New(4)
	b.WriteUint(0xC1FC1FC1, 32, endian.GetBigEndianEngine())
	assert.Equal(t, []byte{0xC1, 0xFC, 0x1F, 0xC1}, b.Bytes())
}

func TestWriteUintUnalignedPacksIntoSameByte(t *testing.T) {
	b := New(4)
	b.WriteUint(1, 1, endian.GetLittleEndianEngine())  // flag bit
	b.WriteUint(42, 7, endian.GetLittleEndianEngine()) // 7-bit value, same byte
	assert.Equal(t, int64(8), b.BitLen())
	assert.Equal(t, []byte{0x55}, b.Bytes())
}

func TestWriteSintTwosComplement(t *testing.T) {
	b := New(4)
	b.WriteSint(-1, 8, endian.GetLittleEndianEngine())
	assert.Equal(t, []byte{0xFF}, b.Bytes())
}

func TestWriteSintMinValueFitsDeclaredWidth(t *testing.T) {
	b := New(4)
	b.WriteSint(-128, 8, endian.GetLittleEndianEngine())
	assert.Equal(t, []byte{0x80}, b.Bytes())
}

func TestWriteFloat32LittleEndian(t *testing.T) {
	b := New(4)
	b.WriteFloat32(1.0, endian.GetLittleEndianEngine())
	assert.Equal(t, []byte{0x00, 0x00, 0x80, 0x3F}, b.Bytes())
}

func TestWriteFloat64AdvancesBitLenBy64(t *testing.T) {
	b := New(8)
	b.WriteFloat64(3.14, endian.GetLittleEndianEngine())
	assert.Equal(t, int64(64), b.BitLen())
	assert.Equal(t, 8, b.ByteLen())
}

func TestAlignToPadsWithZeroBits(t *testing.T) {
	b := New(4)
	b.WriteUint(1, 1, endian.GetLittleEndianEngine())
	b.AlignTo(8)
	assert.Equal(t, int64(8), b.BitLen())
	assert.Equal(t, []byte{0x01}, b.Bytes())
}

func TestAlignToNoOpWhenAlreadyAligned(t *testing.T) {
	b := New(4)
	b.WriteUint(0xAB, 8, endian.GetLittleEndianEngine())
	b.AlignTo(8)
	assert.Equal(t, int64(8), b.BitLen())
}

func TestWriteStringAppendsNulTerminator(t *testing.T) {
	b := New(8)
	b.WriteString([]byte("hi"))
	assert.Equal(t, []byte{'h', 'i', 0}, b.Bytes())
}

func TestWriteRawSplicesBytesAligned(t *testing.T) {
	b := New(8)
	b.WriteUint(1, 4, endian.GetLittleEndianEngine())
	b.WriteRaw([]byte{0xDE, 0xAD})
	require.Equal(t, int64(8+16), b.BitLen())
	bytes := b.Bytes()
	assert.Equal(t, byte(0xDE), bytes[1])
	assert.Equal(t, byte(0xAD), bytes[2])
}

func TestPadToBitLenExtendsWithZeros(t *testing.T) {
	b := New(8)
	b.WriteUint(0xFF, 8, endian.GetLittleEndianEngine())
	b.PadToBitLen(32)
	assert.Equal(t, int64(32), b.BitLen())
	assert.Equal(t, []byte{0xFF, 0, 0, 0}, b.Bytes())
}

func TestPadToBitLenNoOpWhenAlreadyPastTarget(t *testing.T) {
	b := New(8)
	b.WriteUint(0xFF, 8, endian.GetLittleEndianEngine())
	b.PadToBitLen(4)
	assert.Equal(t, int64(8), b.BitLen())
}

func TestResetKeepsCapacityButClearsContent(t *testing.T) {
	b := New(8)
	b.WriteUint(0xFF, 8, endian.GetLittleEndianEngine())
	b.Reset()
	assert.Equal(t, int64(0), b.BitLen())
	assert.Empty(t, b.Bytes())
}

func TestReserveGrowsWithoutAdvancingCursor(t *testing.T) {
	b := New(0)
	b.Reserve(64)
	assert.Equal(t, int64(0), b.BitLen())
	b.WriteUint(1, 8, endian.GetLittleEndianEngine())
	assert.Equal(t, int64(8), b.BitLen())
}
