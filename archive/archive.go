// Package archive provides an opt-in, off-the-wire-format finalisation
// step: compressing a closed stream's file into a sidecar copy for
// cold storage, without touching spec.md §6's fixed binary layout.
package archive

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/crossbuild/ctfwriter/compress"
	"github.com/crossbuild/ctfwriter/errs"
	"github.com/crossbuild/ctfwriter/internal/options"
	"github.com/crossbuild/ctfwriter/stream"
)

// extensions maps an Algorithm to its sidecar file extension.
var extensions = map[compress.Algorithm]string{
	compress.AlgorithmZstd: ".zst",
	compress.AlgorithmLZ4:  ".lz4",
	compress.AlgorithmS2:   ".s2",
}

// Config holds the archive operation's configurable state.
type Config struct {
	algorithm compress.Algorithm
	logger    *slog.Logger
	removeSrc bool
}

// Option configures an archive operation.
type Option = options.Option[*Config]

// WithAlgorithm selects the compression codec for the sidecar file.
// Defaults to compress.AlgorithmZstd.
func WithAlgorithm(alg compress.Algorithm) Option {
	return options.NoError(func(c *Config) { c.algorithm = alg })
}

// WithLogger injects a logger for archive diagnostics. A nil logger
// (the default) falls back to slog.Default() at call time.
func WithLogger(l *slog.Logger) Option {
	return options.NoError(func(c *Config) { c.logger = l })
}

// WithRemoveSource deletes the original uncompressed file once its
// sidecar has been written successfully. Off by default: archiving is
// meant to add a cold-storage copy, not to mutate the live trace
// directory unless a caller explicitly asks for that.
func WithRemoveSource(remove bool) Option {
	return options.NoError(func(c *Config) { c.removeSrc = remove })
}

// File compresses the file at path into a sidecar next to it, named
// path plus the algorithm's extension (e.g. "stream_0" ->
// "stream_0.zst"), and returns the sidecar's path.
func File(ctx context.Context, path string, opts ...Option) (string, error) {
	cfg := &Config{algorithm: compress.AlgorithmZstd}
	if err := options.Apply(cfg, opts...); err != nil {
		return "", err
	}
	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	ext, ok := extensions[cfg.algorithm]
	if !ok {
		return "", fmt.Errorf("%w: unsupported archive algorithm %q", errs.ErrInvalidArgument, cfg.algorithm)
	}
	codec, ok := compress.ForAlgorithm(cfg.algorithm)
	if !ok {
		return "", fmt.Errorf("%w: unsupported archive algorithm %q", errs.ErrInvalidArgument, cfg.algorithm)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrIO, err)
	}

	logger.Debug("archiving stream file", "path", path, "algorithm", cfg.algorithm, "bytes", len(data))

	compressed, err := codec.Compress(data)
	if err != nil {
		return "", fmt.Errorf("compress %s: %w", path, err)
	}

	dst := path + ext
	if err := os.WriteFile(dst, compressed, 0o644); err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrIO, err)
	}

	logger.Info("wrote archive sidecar", "path", dst, "original_bytes", len(data), "compressed_bytes", len(compressed))

	if cfg.removeSrc {
		if err := os.Remove(path); err != nil {
			return "", fmt.Errorf("%w: %v", errs.ErrIO, err)
		}
	}

	return dst, nil
}

// Stream archives s's output file. s must already be closed (or at
// least flushed) since File reads the file's bytes directly off disk
// rather than from the stream's in-memory buffer.
func Stream(ctx context.Context, s *stream.Stream, opts ...Option) (string, error) {
	return File(ctx, s.Path(), opts...)
}

// Restore decompresses the sidecar at path (inferring its algorithm
// from the extension) and returns the original bytes, for tests and
// tools that need to verify an archived stream round-trips.
func Restore(path string) ([]byte, error) {
	alg, ok := algorithmForExtension(path)
	if !ok {
		return nil, fmt.Errorf("%w: cannot infer archive algorithm from %q", errs.ErrInvalidArgument, path)
	}
	codec, ok := compress.ForAlgorithm(alg)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported archive algorithm %q", errs.ErrInvalidArgument, alg)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrIO, err)
	}
	return codec.Decompress(data)
}

func algorithmForExtension(path string) (compress.Algorithm, bool) {
	for alg, ext := range extensions {
		if len(path) > len(ext) && path[len(path)-len(ext):] == ext {
			return alg, true
		}
	}
	return "", false
}
