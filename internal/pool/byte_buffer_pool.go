// Package pool provides growable byte buffers pooled with sync.Pool,
// used by the bit buffer and the packet writer to amortise allocation
// across many flushed packets.
package pool

import (
	"io"
	"sync"
)

// Default and threshold sizes for the packet buffer pool. Packets are
// typically a few KiB to a few hundred KiB; the thresholds bound how
// large a buffer the pool will retain for reuse.
const (
	PacketBufferDefaultSize  = 1024 * 4   // 4 KiB, matches the spec's default packet capacity
	PacketBufferMaxThreshold = 1024 * 256 // 256 KiB
)

// ByteBuffer is a growable byte slice wrapper that tracks length
// separately from capacity, letting callers Extend into pre-reserved
// capacity without an allocation.
type ByteBuffer struct {
	B []byte
}

// NewByteBuffer creates a ByteBuffer with the given initial capacity.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{B: make([]byte, 0, defaultSize)}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset empties the buffer but keeps its allocated capacity.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the current length.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the current capacity.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// MustWrite appends data, growing the backing array if necessary.
func (bb *ByteBuffer) MustWrite(data []byte) {
	bb.B = append(bb.B, data...)
}

// Slice returns B[start:end]; panics on out-of-bounds indices, since
// callers only ever slice within capacity they have already reserved.
func (bb *ByteBuffer) Slice(start, end int) []byte {
	if start < 0 || end < start || end > cap(bb.B) {
		panic("pool: Slice: invalid indices")
	}

	return bb.B[start:end]
}

// SetLength sets the length to n without touching contents; panics if n
// exceeds capacity.
func (bb *ByteBuffer) SetLength(n int) {
	if n < 0 || n > cap(bb.B) {
		panic("pool: SetLength: invalid length")
	}
	bb.B = bb.B[:n]
}

// Extend grows the length by n bytes if capacity allows, without
// reallocating. Returns false if there isn't enough spare capacity.
func (bb *ByteBuffer) Extend(n int) bool {
	curLen := len(bb.B)
	if cap(bb.B)-curLen < n {
		return false
	}

	bb.B = bb.B[:curLen+n]

	return true
}

// ExtendOrGrow extends the buffer by n bytes, reallocating if needed.
func (bb *ByteBuffer) ExtendOrGrow(n int) {
	if bb.Extend(n) {
		return
	}

	start := len(bb.B)
	bb.Grow(n)
	bb.B = bb.B[:start+n]
}

// Grow ensures the buffer can hold requiredBytes more bytes without a
// further reallocation. Small buffers grow by a fixed chunk; buffers
// already past 4x that chunk grow by 25% of their current capacity, to
// balance reallocation count against over-allocation for large packets.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	available := cap(bb.B) - len(bb.B)
	if available >= requiredBytes {
		return
	}

	growBy := PacketBufferDefaultSize
	if cap(bb.B) > 4*PacketBufferDefaultSize {
		growBy = cap(bb.B) / 4
	}

	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// Write implements io.Writer.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)
	return len(data), nil
}

// WriteTo implements io.WriterTo.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// Pool is a sync.Pool of ByteBuffers bounded by a maximum retained
// capacity, so a handful of abnormally large packets don't bloat the
// pool's steady-state memory footprint.
type Pool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewPool creates a Pool whose buffers start at defaultSize and are
// discarded, rather than retained, once they grow past maxThreshold.
func NewPool(defaultSize, maxThreshold int) *Pool {
	return &Pool{
		pool: sync.Pool{
			New: func() any { return NewByteBuffer(defaultSize) },
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (p *Pool) Get() *ByteBuffer {
	bb, _ := p.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool, discarding it instead if it
// grew past the pool's maxThreshold.
func (p *Pool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if p.maxThreshold > 0 && cap(bb.B) > p.maxThreshold {
		return
	}

	bb.Reset()
	p.pool.Put(bb)
}

var packetPool = NewPool(PacketBufferDefaultSize, PacketBufferMaxThreshold)

// GetPacketBuffer retrieves a ByteBuffer from the default packet pool.
func GetPacketBuffer() *ByteBuffer {
	return packetPool.Get()
}

// PutPacketBuffer returns a ByteBuffer to the default packet pool.
func PutPacketBuffer(bb *ByteBuffer) {
	packetPool.Put(bb)
}
