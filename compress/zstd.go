package compress

// ZstdCompressor provides Zstandard compression for the archive
// package's cold-storage path: finalised stream files that are
// unlikely to be read again soon, where compression ratio matters
// more than latency. The cgo build picks up github.com/valyala/gozstd
// (libzstd bindings); the pure-Go build falls back to
// github.com/klauspost/compress/zstd, so the package stays usable on
// CGO_ENABLED=0 toolchains.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
func NewZstdCompressor() ZstdCompressor { return ZstdCompressor{} }
