package compress

// NoOpCompressor bypasses compression, returning the input unchanged.
// ForAlgorithm returns it for AlgorithmNone or an empty name; the
// archive package has no sidecar extension for it and rejects it.
type NoOpCompressor struct{}

var _ Codec = (*NoOpCompressor)(nil)

// NewNoOpCompressor creates a no-operation compressor.
func NewNoOpCompressor() NoOpCompressor { return NoOpCompressor{} }

// Compress returns data unchanged.
func (c NoOpCompressor) Compress(data []byte) ([]byte, error) { return data, nil }

// Decompress returns data unchanged.
func (c NoOpCompressor) Decompress(data []byte) ([]byte, error) { return data, nil }
