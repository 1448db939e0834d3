package compress

import "github.com/klauspost/compress/s2"

// S2Compressor compresses with S2, Snappy's faster, higher-ratio
// successor, selected in the archive package with
// WithAlgorithm(AlgorithmS2) (the archive default is zstd).
type S2Compressor struct{}

var _ Codec = (*S2Compressor)(nil)

// NewS2Compressor creates an S2 compressor.
func NewS2Compressor() S2Compressor { return S2Compressor{} }

// Compress compresses data using S2.
func (c S2Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	return s2.Encode(nil, data), nil
}

// Decompress reverses Compress.
func (c S2Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	return s2.Decode(nil, data)
}
