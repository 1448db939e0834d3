package stream

import (
	"fmt"
	"os"
	"weak"

	"github.com/crossbuild/ctfwriter/bitbuf"
	"github.com/crossbuild/ctfwriter/errs"
	"github.com/crossbuild/ctfwriter/event"
	"github.com/crossbuild/ctfwriter/field"
	"github.com/crossbuild/ctfwriter/internal/pool"
)

// TraceRef is the minimal upward view a Stream needs of its owning
// trace, held as a weak reference (spec.md §5: stream → trace is an
// upward edge, broken to avoid a trace ↔ stream ↔ event cycle).
type TraceRef interface {
	Directory() string
}

// Stream is a runtime instance of a Class, bound to an output file. It
// owns the per-stream packet-header and packet-context field
// instances, a reusable stream-event-context instance shared by every
// appended event, and the growing bit buffer for the packet currently
// being assembled.
type Stream struct {
	class *Class
	file  *os.File
	path  string

	packetHeader  *field.Field
	packetContext *field.Field
	streamCtx     *field.Field

	eventBuf *bitbuf.Buffer

	eventCount      int
	discardedEvents uint64
	packetSeqNum    uint64

	traceResolve func() (TraceRef, error)
}

// New creates a stream from class, bound to file, with the packet
// header field (already populated with magic/uuid/stream_id by the
// caller — trace.CreateStream) and a weak resolver to the owning
// trace. Creation freezes class and all its schema types.
func New(class *Class, file *os.File, packetHeader *field.Field, traceResolve func() (TraceRef, error)) (*Stream, error) {
	if class == nil {
		return nil, fmt.Errorf("%w: stream class must not be nil", errs.ErrInvalidArgument)
	}
	if file == nil {
		return nil, fmt.Errorf("%w: stream output file must not be nil", errs.ErrInvalidArgument)
	}

	class.freeze()

	s := &Stream{
		class:         class,
		file:          file,
		path:          file.Name(),
		packetHeader:  packetHeader,
		packetContext: field.New(class.pktContext),
		streamCtx:     field.New(class.streamCtx),
		eventBuf:      bitbuf.New(pool.PacketBufferDefaultSize),
		traceResolve:  traceResolve,
	}
	return s, nil
}

// NewWeakTraceResolver builds a resolver closure around a weak pointer
// to trace, for use as stream.New's traceResolve argument. Kept here
// (rather than in the trace package) so the weak.Pointer construction
// and the errs.ErrParentGone translation live next to the interface
// they satisfy. PT is the trace package's own *Trace type, constrained
// to implement TraceRef.
func NewWeakTraceResolver[T any, PT interface {
	*T
	TraceRef
}](trace PT) func() (TraceRef, error) {
	wp := weak.Make(trace)
	return func() (TraceRef, error) {
		p := wp.Value()
		if p == nil {
			return nil, fmt.Errorf("%w: owning trace no longer exists", errs.ErrParentGone)
		}
		return p, nil
	}
}

// Name returns the stream's class name.
func (s *Stream) Name() string { return s.class.Name() }

// Class returns the stream's class.
func (s *Stream) Class() *Class { return s.class }

// Path returns the stream's output file path.
func (s *Stream) Path() string { return s.path }

// Trace returns the owning trace, or errs.ErrParentGone if it has
// since been released.
func (s *Stream) Trace() (TraceRef, error) {
	if s.traceResolve == nil {
		return nil, fmt.Errorf("%w: stream has no owning trace", errs.ErrParentGone)
	}
	return s.traceResolve()
}

// PacketContext returns the stream's packet-context field instance,
// mutable to add values for any custom fields before Flush.
func (s *Stream) PacketContext() *field.Field { return s.packetContext }

// StreamEventContext returns the stream's shared stream-event-context
// field instance, serialised into every event.
func (s *Stream) StreamEventContext() *field.Field { return s.streamCtx }

// EventCount returns the number of events accumulated in the
// currently open (unflushed) packet.
func (s *Stream) EventCount() int { return s.eventCount }

// PacketSequenceNumber returns the number of packets flushed so far.
func (s *Stream) PacketSequenceNumber() uint64 { return s.packetSeqNum }

// GetDiscardedEventsCount returns the cumulative discarded-event
// counter, which survives across flushes.
func (s *Stream) GetDiscardedEventsCount() uint64 { return s.discardedEvents }

// AppendDiscardedEvents adds n to the discarded-event counter.
func (s *Stream) AppendDiscardedEvents(n uint64) { s.discardedEvents += n }

// AppendEvent serialises ev into the current packet buffer: verifying
// ev belongs to this stream's class, constructing a default header if
// ev has none (id from the event class, timestamp from the class's
// clock, or 0 when no clock is bound), then writing header, stream-event-context, event-
// context, and payload in order (spec.md §4.5).
func (s *Stream) AppendEvent(ev *event.Event) error {
	if _, ok := s.class.EventClassByName(ev.Class().Name()); !ok {
		return fmt.Errorf("%w: event's class %q is not part of this stream", errs.ErrInvalidArgument, ev.Class().Name())
	}

	if ev.Header() == nil {
		header := field.New(s.class.eventHdr)
		if id, ok := ev.Class().ID(); ok {
			idField, err := header.StructureGetField("id")
			if err == nil {
				_ = idField.SetUnsigned(id)
			}
		}
		var ts uint64
		if s.class.clock != nil {
			ts = s.class.clock.Time()
		}
		if tsField, err := header.StructureGetField("timestamp"); err == nil {
			_ = tsField.SetUnsigned(ts)
		}
		ev.BindStream(s.traceStreamResolve(), header)
	} else {
		ev.BindStream(s.traceStreamResolve(), ev.Header())
	}

	if err := ev.Header().Serialize(s.eventBuf); err != nil {
		return fmt.Errorf("event header: %w", err)
	}
	if err := s.streamCtx.Serialize(s.eventBuf); err != nil {
		return fmt.Errorf("stream event context: %w", err)
	}
	if evCtx := ev.EventContext(); evCtx != nil {
		if err := evCtx.Serialize(s.eventBuf); err != nil {
			return fmt.Errorf("event context: %w", err)
		}
	}
	if err := ev.Payload().Serialize(s.eventBuf); err != nil {
		return fmt.Errorf("event payload: %w", err)
	}

	s.eventCount++
	return nil
}

// traceStreamResolve builds the event.StreamRef resolver this stream
// hands to every event it accepts: a closure over a weak pointer to
// the stream, so the event → stream edge does not keep the stream
// alive; once the stream is collected the resolver returns
// errs.ErrParentGone to a caller still holding the event.
func (s *Stream) traceStreamResolve() func() (event.StreamRef, error) {
	wp := weak.Make(s)
	return func() (event.StreamRef, error) {
		p := wp.Value()
		if p == nil {
			return nil, fmt.Errorf("%w: owning stream no longer exists", errs.ErrParentGone)
		}
		return p, nil
	}
}

// Flush writes the accumulated packet to the stream's file: computes
// content_size/packet_size, serialises packet header and context, and
// appends the event buffer padded to packet_size (spec.md §4.5).
// Flushing an empty packet (no events appended) still writes a
// well-formed header-only packet (spec.md §9, Open Questions).
func (s *Stream) Flush() error {
	if name, ok := s.class.DiscardedEventsField(); ok {
		f, err := s.streamCtx.StructureGetField(name)
		if err != nil {
			return err
		}
		if err := f.SetUnsigned(s.discardedEvents); err != nil {
			return err
		}
	}

	eventBits := int64(s.eventBuf.BitLen())

	contentSizeField, err := s.packetContext.StructureGetField("content_size")
	if err != nil {
		return err
	}
	packetSizeField, err := s.packetContext.StructureGetField("packet_size")
	if err != nil {
		return err
	}

	dry := bitbuf.New(128)
	_ = contentSizeField.SetUnsigned(0)
	_ = packetSizeField.SetUnsigned(0)
	if err := s.packetHeader.Serialize(dry); err != nil {
		return fmt.Errorf("packet header: %w", err)
	}
	if err := s.packetContext.Serialize(dry); err != nil {
		return fmt.Errorf("packet context: %w", err)
	}
	headerCtxBits := int64(dry.BitLen())

	contentSizeBits := headerCtxBits + eventBits
	packetSizeBits := ((contentSizeBits + 7) / 8) * 8

	if err := contentSizeField.SetUnsigned(uint64(contentSizeBits)); err != nil { //nolint:gosec
		return err
	}
	if err := packetSizeField.SetUnsigned(uint64(packetSizeBits)); err != nil { //nolint:gosec
		return err
	}

	final := bitbuf.New(pool.PacketBufferDefaultSize)
	if err := s.packetHeader.Serialize(final); err != nil {
		return fmt.Errorf("packet header: %w", err)
	}
	if err := s.packetContext.Serialize(final); err != nil {
		return fmt.Errorf("packet context: %w", err)
	}
	final.WriteRaw(s.eventBuf.Bytes())
	final.PadToBitLen(packetSizeBits)

	n, err := s.file.Write(final.Bytes())
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrIO, err)
	}
	if n != len(final.Bytes()) {
		return fmt.Errorf("%w: short write (%d of %d bytes)", errs.ErrIO, n, len(final.Bytes()))
	}

	s.eventBuf.Reset()
	s.eventCount = 0
	s.packetSeqNum++
	return nil
}

// Close flushes any buffered events and closes the stream's file.
func (s *Stream) Close() error {
	if s.eventCount > 0 || s.packetSeqNum == 0 {
		if err := s.Flush(); err != nil {
			return err
		}
	}
	if err := s.file.Close(); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrIO, err)
	}
	return nil
}
