package compress

import (
	"sync"

	"github.com/pierrec/lz4/v4"
)

// lz4CompressorPool pools lz4.Compressor instances, which keep
// internal state worth reusing across calls.
var lz4CompressorPool = sync.Pool{
	New: func() any { return &lz4.Compressor{} },
}

// LZ4Compressor compresses with LZ4, favouring speed over ratio —
// suited to archiving streams still expected to be read back often.
type LZ4Compressor struct{}

var _ Codec = (*LZ4Compressor)(nil)

// NewLZ4Compressor creates an LZ4 compressor.
func NewLZ4Compressor() LZ4Compressor { return LZ4Compressor{} }

// Compress compresses data using a pooled lz4.Compressor.
func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dst := make([]byte, lz4.CompressBlockBound(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// incompressible input: lz4 signals this by writing nothing.
		return data, nil
	}
	return dst[:n], nil
}

// Decompress reverses Compress. The original size is not stored, so it
// starts with a destination buffer four times the input's length and
// doubles it until block decompression succeeds.
func (c LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dst := make([]byte, 0, len(data)*4)
	for {
		n, err := lz4.UncompressBlock(data, dst[:cap(dst)])
		if err == nil {
			return dst[:cap(dst)][:n], nil
		}
		dst = make([]byte, 0, cap(dst)*2)
	}
}
