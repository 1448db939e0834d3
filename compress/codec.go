// Package compress provides pluggable compression codecs for the
// archive package's sidecar compression of finalised stream files. It
// is never applied to the live packet wire format (spec.md §6's
// packet binary layout is fixed and uncompressed); it exists purely
// for the opt-in archival path.
package compress

// Compressor compresses a byte slice, returning a new, independently
// owned result.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses a Compressor's output.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines compression and decompression.
type Codec interface {
	Compressor
	Decompressor
}

// Algorithm names a codec, for use in archive file naming and manifest
// entries.
type Algorithm string

const (
	AlgorithmNone Algorithm = "none"
	AlgorithmZstd Algorithm = "zstd"
	AlgorithmLZ4  Algorithm = "lz4"
	AlgorithmS2   Algorithm = "s2"
)

// ForAlgorithm returns the Codec implementing name.
func ForAlgorithm(name Algorithm) (Codec, bool) {
	switch name {
	case AlgorithmNone, "":
		return NewNoOpCompressor(), true
	case AlgorithmZstd:
		return NewZstdCompressor(), true
	case AlgorithmLZ4:
		return NewLZ4Compressor(), true
	case AlgorithmS2:
		return NewS2Compressor(), true
	default:
		return nil, false
	}
}
