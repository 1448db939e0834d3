// Package bitbuf implements the growable, bit-addressable buffer that
// every schema field serialises into. It supports aligned and
// unaligned writes of 1–64 bit signed/unsigned integers, IEEE-754
// floats, and NUL-terminated strings, in either bit-order convention
// CTF uses: little-endian-of-bits for little-endian fields (the first
// bit written occupies the least significant position of its byte) and
// big-endian-of-bits for big-endian fields (the first bit written
// occupies the most significant position).
//
// The growable storage is grounded on the teacher package's pooled
// byte buffer (fixed-chunk growth for small buffers, 25% growth for
// large ones); bitbuf adds the bit
// cursor and the two bit-packing conventions on top of it.
package bitbuf

import (
	"math"

	"github.com/crossbuild/ctfwriter/endian"
	"github.com/crossbuild/ctfwriter/internal/pool"
)

// Buffer is a growable, bit-addressable output buffer. The zero value
// is not usable; construct with New.
type Buffer struct {
	buf    *pool.ByteBuffer
	bitLen int64 // total bits logically written so far
}

// New creates an empty Buffer with the given initial byte capacity.
func New(initialCapacity int) *Buffer {
	return &Buffer{buf: pool.NewByteBuffer(initialCapacity)}
}

// Reset empties the buffer, retaining its allocated capacity for reuse
// across packets.
func (b *Buffer) Reset() {
	b.buf.Reset()
	b.bitLen = 0
}

// BitLen returns the number of bits written so far.
func (b *Buffer) BitLen() int64 {
	return b.bitLen
}

// ByteLen returns the number of bytes needed to hold BitLen bits,
// rounding up.
func (b *Buffer) ByteLen() int {
	return int((b.bitLen + 7) / 8)
}

// Bytes returns the buffer's content, padded with zero bits up to the
// current byte boundary. The returned slice aliases the buffer's
// internal storage and is only valid until the next mutating call.
func (b *Buffer) Bytes() []byte {
	return b.buf.Bytes()[:b.ByteLen()]
}

// Reserve ensures the buffer has room for at least n more bits without
// reallocating, for callers that want to pre-size before a burst of
// writes (e.g. the stream writer estimating an event's encoded size).
func (b *Buffer) Reserve(n int64) {
	b.ensureBits(n)
}

// ensureBits grows the backing array so it can hold bitLen+additional
// bits, zero-filling any newly exposed bytes (pooled buffers may carry
// stale data from a previous packet).
func (b *Buffer) ensureBits(additional int64) {
	needBytes := int((b.bitLen + additional + 7) / 8)
	curLen := b.buf.Len()
	if needBytes <= curLen {
		return
	}

	b.buf.ExtendOrGrow(needBytes - curLen)
	for i := curLen; i < needBytes; i++ {
		b.buf.B[i] = 0
	}
}

// AlignTo advances the cursor to the next multiple of bits, zero-filling
// the skipped bits. bits must be a power of two; 0 or 1 is a no-op.
func (b *Buffer) AlignTo(bits int) {
	if bits <= 1 {
		return
	}

	rem := b.bitLen % int64(bits)
	if rem == 0 {
		return
	}

	pad := int64(bits) - rem
	b.ensureBits(pad)
	b.bitLen += pad
}

// setBit sets or clears the bit at absolute bit position pos. For
// little-endian-of-bits, position pos within a byte maps to that
// byte's bit pos%8 (LSB-first). For big-endian-of-bits, it maps to
// bit 7-pos%8 (MSB-first), so that a byte-aligned big-endian write
// reproduces the literal standard big-endian byte sequence rather than
// a per-byte bit reversal of it.
func (b *Buffer) setBit(pos int64, v bool, be bool) {
	byteIdx := pos / 8
	var bitIdx uint
	if be {
		bitIdx = 7 - uint(pos%8)
	} else {
		bitIdx = uint(pos % 8)
	}
	if v {
		b.buf.B[byteIdx] |= 1 << bitIdx
	} else {
		b.buf.B[byteIdx] &^= 1 << bitIdx
	}
}

// writeBits packs the low `width` bits of value starting at the current
// cursor, in the bit order implied by order, then advances the cursor.
// No alignment is performed; sub-byte, unaligned writes (e.g. a 3-bit
// variant selector immediately after a 1-bit flag) are expected.
func (b *Buffer) writeBits(value uint64, width int, order endian.EndianEngine) {
	b.ensureBits(int64(width))

	be := order == endian.GetBigEndianEngine()
	start := b.bitLen
	for i := 0; i < width; i++ {
		var srcBit uint
		if be {
			// Big-endian-of-bits: first bit written is the MSB of value.
			srcBit = uint(width - 1 - i)
		} else {
			// Little-endian-of-bits: first bit written is the LSB of value.
			srcBit = uint(i)
		}
		bit := (value>>srcBit)&1 != 0
		b.setBit(start+int64(i), bit, be)
	}
	b.bitLen += int64(width)
}

// WriteUint writes the low `bits` bits of value (1..=64) in the given
// byte order. It does not align the cursor; callers align beforehand
// via AlignTo when the field type declares an alignment.
func (b *Buffer) WriteUint(value uint64, bits int, order endian.EndianEngine) {
	b.writeBits(value, bits, order)
}

// WriteSint writes the two's-complement representation of value using
// `bits` bits (1..=64) in the given byte order.
func (b *Buffer) WriteSint(value int64, bits int, order endian.EndianEngine) {
	var mask uint64
	if bits == 64 {
		mask = math.MaxUint64
	} else {
		mask = (uint64(1) << uint(bits)) - 1
	}

	b.writeBits(uint64(value)&mask, bits, order)
}

// WriteFloat32 writes value as IEEE-754 binary32 in the given byte
// order. Callers align the cursor to the float type's declared
// alignment first.
func (b *Buffer) WriteFloat32(value float32, order endian.EndianEngine) {
	b.writeBits(uint64(math.Float32bits(value)), 32, order)
}

// WriteFloat64 writes value as IEEE-754 binary64 in the given byte
// order.
func (b *Buffer) WriteFloat64(value float64, order endian.EndianEngine) {
	b.writeBits(math.Float64bits(value), 64, order)
}

// WriteRaw aligns to a byte boundary and copies data in directly,
// without touching the bit-packing conventions above. Used to splice
// an already-serialised packet header/context buffer in front of an
// independently accumulated event buffer (stream.Stream.Flush).
func (b *Buffer) WriteRaw(data []byte) {
	b.AlignTo(8)
	need := int64(len(data) * 8)
	b.ensureBits(need)
	start := b.ByteLen()
	copy(b.buf.B[start:], data)
	b.bitLen += need
}

// PadToBitLen zero-fills the buffer until it reaches target bits; it
// is a no-op if the buffer is already at or past target. target is
// used as given, not rounded to a byte boundary. Used to pad a flushed
// packet out to its declared packet_size.
func (b *Buffer) PadToBitLen(target int64) {
	if target <= b.bitLen {
		return
	}
	b.ensureBits(target - b.bitLen)
	b.bitLen = target
}

// WriteString writes data followed by a single NUL byte. The cursor
// must already be byte-aligned; WriteString aligns to 8 bits itself as
// a defensive measure since the string schema type carries no
// alignment attribute of its own and is implicitly byte-aligned.
func (b *Buffer) WriteString(data []byte) {
	b.AlignTo(8)

	need := int64((len(data) + 1) * 8)
	b.ensureBits(need)

	start := b.ByteLen()
	copy(b.buf.B[start:], data)
	b.buf.B[start+len(data)] = 0
	b.bitLen += need
}
