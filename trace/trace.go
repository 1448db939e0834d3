// Package trace implements the root Trace object: packet-header type,
// clocks, environment map, stream classes, stream creation, and
// coordinated shutdown, per spec.md §3/§4.6.
package trace

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/crossbuild/ctfwriter/clock"
	"github.com/crossbuild/ctfwriter/endian"
	"github.com/crossbuild/ctfwriter/errs"
	"github.com/crossbuild/ctfwriter/internal/idgen"
	"github.com/crossbuild/ctfwriter/internal/omap"
	"github.com/crossbuild/ctfwriter/internal/options"
	"github.com/crossbuild/ctfwriter/schema"
	"github.com/crossbuild/ctfwriter/stream"
)

// magic is the CTF packet-header magic constant (spec.md §6).
const magic = 0xC1FC1FC1

// defaultPacketHeader builds the trace-wide packet-header type: magic
// (u32), uuid (byte[16]), stream_id (u32).
func defaultPacketHeader() *schema.Type {
	t := schema.NewStructure()
	magicT, _ := schema.NewInteger(32)
	_ = magicT.SetSigned(false)
	_ = magicT.SetByteOrder(endian.GetBigEndianEngine())

	byteT, _ := schema.NewInteger(8)
	_ = byteT.SetSigned(false)
	uuidT, _ := schema.NewArray(byteT, 16)

	streamIDT, _ := schema.NewInteger(32)
	_ = streamIDT.SetSigned(false)

	_ = t.AddField("magic", magicT)
	_ = t.AddField("uuid", uuidT)
	_ = t.AddField("stream_id", streamIDT)
	return t
}

// EnvValue is an environment-map value: either a string or an integer
// (spec.md §3, "string key → integer | string value").
type EnvValue struct {
	IsString bool
	Str      string
	Int      int64
}

// Config holds Trace's configurable state, mutated by Option functions
// before New finalises it.
type Config struct {
	directory string
	uuid      [16]byte
}

// Option configures a Trace at construction time.
type Option = options.Option[*Config]

// WithUUID sets the trace's UUID explicitly.
func WithUUID(uuid [16]byte) Option {
	return options.NoError(func(c *Config) { c.uuid = uuid })
}

// WithGeneratedUUID derives the trace's UUID deterministically from
// seed, for callers that don't need external UUID coordination (spec.md
// explicitly treats UUID generation as an external concern the writer
// doesn't itself implement; this is a convenience on top, not the
// writer's authoritative identity scheme).
func WithGeneratedUUID(seed string) Option {
	return options.NoError(func(c *Config) { c.uuid = idgen.UUIDFromSeed("trace:" + seed) })
}

// Trace is the root domain object: packet-header type, ordered clocks,
// ordered stream classes, and an insertion-ordered environment map.
type Trace struct {
	directory    string
	uuid         [16]byte
	packetHeader *schema.Type
	frozen       bool

	clocks        []*clock.Clock
	streamClasses []*stream.Class
	classIndex    map[string]int
	classHashes   map[uint64]struct{}
	nextClassID   uint64

	env *omap.Map[EnvValue]

	streams []*stream.Stream
}

// New creates a trace rooted at directory, creating the directory if
// it doesn't exist.
func New(directory string, opts ...Option) (*Trace, error) {
	if directory == "" {
		return nil, fmt.Errorf("%w: trace directory must not be empty", errs.ErrInvalidArgument)
	}

	cfg := &Config{directory: directory}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(directory, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrIO, err)
	}

	return &Trace{
		directory:    directory,
		uuid:         cfg.uuid,
		packetHeader: defaultPacketHeader(),
		classIndex:   make(map[string]int),
		classHashes:  make(map[uint64]struct{}),
		env:          omap.New[EnvValue](),
	}, nil
}

// Directory returns the trace's output directory, satisfying
// stream.TraceRef.
func (t *Trace) Directory() string { return t.directory }

// UUID returns the trace's UUID.
func (t *Trace) UUID() [16]byte { return t.uuid }

// PacketHeader returns the trace-wide packet-header type, mutable
// until the first stream is created.
func (t *Trace) PacketHeader() *schema.Type { return t.packetHeader }

// AddClock appends a clock to the trace's ordered clock list.
func (t *Trace) AddClock(c *clock.Clock) error {
	if c == nil {
		return fmt.Errorf("%w: clock must not be nil", errs.ErrInvalidArgument)
	}
	t.clocks = append(t.clocks, c)
	return nil
}

// Clocks returns the trace's clocks, in the order they were added.
func (t *Trace) Clocks() []*clock.Clock {
	out := make([]*clock.Clock, len(t.clocks))
	copy(out, t.clocks)
	return out
}

// SetEnv sets an environment string value, overwriting any prior value
// for key (last-write-wins, spec.md §3).
func (t *Trace) SetEnv(key, value string) {
	t.env.Set(key, EnvValue{IsString: true, Str: value})
}

// SetEnvInt sets an environment integer value.
func (t *Trace) SetEnvInt(key string, value int64) {
	t.env.Set(key, EnvValue{Int: value})
}

// Env returns the environment value for key, and whether it's set.
func (t *Trace) Env(key string) (EnvValue, bool) { return t.env.Get(key) }

// EnvKeys returns the environment map's keys in insertion order.
func (t *Trace) EnvKeys() []string { return t.env.Keys() }

// AddStreamClass appends sc to the trace's stream-class list, assigning
// it the next monotonically increasing ID if it has none (spec.md
// §4.6). Rejects a duplicate name.
func (t *Trace) AddStreamClass(sc *stream.Class) error {
	if sc == nil {
		return fmt.Errorf("%w: stream class must not be nil", errs.ErrInvalidArgument)
	}
	nameHash := idgen.ID(sc.Name())
	if _, maybeExists := t.classHashes[nameHash]; maybeExists {
		if _, exists := t.classIndex[sc.Name()]; exists {
			return fmt.Errorf("%w: stream class named %q already added", errs.ErrDuplicate, sc.Name())
		}
	}

	if _, hasID := sc.ID(); !hasID {
		if err := sc.SetID(t.nextClassID); err != nil {
			return err
		}
	}
	id, _ := sc.ID()
	if id >= t.nextClassID {
		t.nextClassID = id + 1
	}

	t.classIndex[sc.Name()] = len(t.streamClasses)
	t.classHashes[nameHash] = struct{}{}
	t.streamClasses = append(t.streamClasses, sc)
	return nil
}

// StreamClasses returns the trace's stream classes, in the order they
// were added.
func (t *Trace) StreamClasses() []*stream.Class {
	out := make([]*stream.Class, len(t.streamClasses))
	copy(out, t.streamClasses)
	return out
}

// CreateStream produces a stream from sc: freezes the trace's packet-
// header type and sc's schema types, opens the stream's output file
// under the trace directory, and populates the packet-header field's
// magic/uuid/stream_id values (spec.md §4.5).
func (t *Trace) CreateStream(sc *stream.Class, opts ...StreamOption) (*stream.Stream, error) {
	if sc == nil {
		return nil, fmt.Errorf("%w: stream class must not be nil", errs.ErrInvalidArgument)
	}

	t.freeze()

	cfg := &streamConfig{fileName: fmt.Sprintf("stream_%d", len(t.streams))}
	for _, opt := range opts {
		opt(cfg)
	}

	file, err := os.Create(filepath.Join(t.directory, cfg.fileName))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrIO, err)
	}

	header := newPacketHeaderField(t.packetHeader)
	if err := populatePacketHeader(header, t.uuid, uint64(len(t.streams))); err != nil { //nolint:gosec
		_ = file.Close()
		return nil, err
	}

	s, err := stream.New(sc, file, header, stream.NewWeakTraceResolver[Trace](t))
	if err != nil {
		_ = file.Close()
		return nil, err
	}

	t.streams = append(t.streams, s)
	return s, nil
}

// StreamOption configures stream creation.
type StreamOption func(*streamConfig)

type streamConfig struct {
	fileName string
}

// WithFileName overrides the default `stream_<n>` output file name.
func WithFileName(name string) StreamOption {
	return func(c *streamConfig) { c.fileName = name }
}

// freeze freezes the trace's packet-header type once, at first stream
// creation (spec.md §4.6).
func (t *Trace) freeze() {
	if t.frozen {
		return
	}
	t.frozen = true
	t.packetHeader.Freeze()
}

// Close flushes and closes every stream concurrently, returning the
// first error encountered (if any); the rest still run to completion
// (spec.md §5: stream flushes are independent, no cross-stream
// ordering guarantee).
func (t *Trace) Close() error {
	var g errgroup.Group
	for _, s := range t.streams {
		g.Go(func() error {
			return s.Close()
		})
	}
	return g.Wait()
}
