// Package stream implements stream classes and streams: the
// per-stream schema container and the runtime packet writer bound to
// an output file, per spec.md §4.5.
package stream

import (
	"fmt"

	"github.com/crossbuild/ctfwriter/clock"
	"github.com/crossbuild/ctfwriter/errs"
	"github.com/crossbuild/ctfwriter/event"
	"github.com/crossbuild/ctfwriter/internal/idgen"
	"github.com/crossbuild/ctfwriter/schema"
)

// defaultPacketContext, defaultEventHeader build the stream class's
// default packet-context and event-header types (spec.md §4.5).
func defaultPacketContext() *schema.Type {
	t := schema.NewStructure()
	contentSize, _ := schema.NewInteger(32)
	_ = contentSize.SetSigned(false)
	packetSize, _ := schema.NewInteger(32)
	_ = packetSize.SetSigned(false)
	_ = t.AddField("content_size", contentSize)
	_ = t.AddField("packet_size", packetSize)
	return t
}

func defaultEventHeader() *schema.Type {
	t := schema.NewStructure()
	id, _ := schema.NewInteger(32)
	_ = id.SetSigned(false)
	ts, _ := schema.NewInteger(64)
	_ = ts.SetSigned(false)
	_ = t.AddField("id", id)
	_ = t.AddField("timestamp", ts)
	return t
}

// ClassOption configures a Class at construction time.
type ClassOption func(*Class) error

// Class is a stream class: a name, an optional ID (assigned when it
// joins a trace), an optional clock, and the three per-stream schema
// types (packet context, event header, stream event context).
type Class struct {
	name       string
	hasID      bool
	id         uint64
	clock      *clock.Clock
	pktContext *schema.Type
	eventHdr   *schema.Type
	streamCtx  *schema.Type
	frozen     bool

	eventClasses []*event.Class
	nameIndex    map[string]int
	nameHashes   map[uint64]struct{}
	idIndex      map[uint64]int
	nextEventID  uint64

	discardedEventsField string
}

// NewClass creates a stream class named name with the spec's default
// packet-context and event-header types, and an empty stream-event-
// context structure.
func NewClass(name string, opts ...ClassOption) (*Class, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: stream class name must not be empty", errs.ErrInvalidArgument)
	}
	c := &Class{
		name:       name,
		pktContext: defaultPacketContext(),
		eventHdr:   defaultEventHeader(),
		streamCtx:  schema.NewStructure(),
		nameIndex:  make(map[string]int),
		nameHashes: make(map[uint64]struct{}),
		idIndex:    make(map[uint64]int),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// WithClock binds a clock to the stream class at construction time.
func WithClock(c *clock.Clock) ClassOption {
	return func(sc *Class) error {
		return sc.SetClock(c)
	}
}

// WithID assigns the stream class's ID explicitly.
func WithID(id uint64) ClassOption {
	return func(sc *Class) error {
		return sc.SetID(id)
	}
}

// WithDiscardedEventsField adds a uint64 field named name to the
// stream class's stream-event-context structure, mirrored from the
// stream's discarded-event counter at every Flush (spec.md §4.5).
func WithDiscardedEventsField(name string) ClassOption {
	return func(sc *Class) error {
		if name == "" {
			return fmt.Errorf("%w: discarded events field name must not be empty", errs.ErrInvalidArgument)
		}
		count, err := schema.NewInteger(64)
		if err != nil {
			return err
		}
		if err := count.SetSigned(false); err != nil {
			return err
		}
		if err := sc.streamCtx.AddField(name, count); err != nil {
			return err
		}
		sc.discardedEventsField = name
		return nil
	}
}

// Name returns the stream class's name.
func (c *Class) Name() string { return c.name }

// ID returns the stream class's assigned ID and whether one has been
// assigned yet.
func (c *Class) ID() (uint64, bool) { return c.id, c.hasID }

// SetID assigns the stream class's ID, before it joins a trace.
func (c *Class) SetID(id uint64) error {
	if c.frozen {
		return fmt.Errorf("%w: stream class is frozen", errs.ErrFrozen)
	}
	c.id = id
	c.hasID = true
	return nil
}

// SetClock binds (or replaces) the stream class's clock. Fails with
// errs.ErrFrozen once a stream has been created from this class
// (spec.md §8, S6).
func (c *Class) SetClock(clk *clock.Clock) error {
	if c.frozen {
		return fmt.Errorf("%w: stream class is frozen", errs.ErrFrozen)
	}
	c.clock = clk
	return nil
}

// Clock returns the stream class's bound clock, or nil.
func (c *Class) Clock() *clock.Clock { return c.clock }

// PacketContext returns the stream class's packet-context structure
// type, mutable until the class is frozen.
func (c *Class) PacketContext() *schema.Type { return c.pktContext }

// EventHeader returns the stream class's event-header structure type.
func (c *Class) EventHeader() *schema.Type { return c.eventHdr }

// StreamEventContext returns the stream class's stream-event-context
// structure type, empty by default.
func (c *Class) StreamEventContext() *schema.Type { return c.streamCtx }

// SetStreamEventContext replaces the stream-event-context type, which
// must be a structure.
func (c *Class) SetStreamEventContext(t *schema.Type) error {
	if c.frozen {
		return fmt.Errorf("%w: stream class is frozen", errs.ErrFrozen)
	}
	if t != nil && t.Kind() != schema.KindStructure {
		return fmt.Errorf("%w: stream event context must be a structure type", errs.ErrInvalidArgument)
	}
	c.streamCtx = t
	return nil
}

// AddEventClass adds ec to the stream class: rejects a duplicate name
// or ID, assigns the next available ID if ec has none, and freezes
// ec's schema types (spec.md §4.5).
func (c *Class) AddEventClass(ec *event.Class) error {
	if c.frozen {
		return fmt.Errorf("%w: stream class is frozen", errs.ErrFrozen)
	}
	if ec == nil {
		return fmt.Errorf("%w: event class must not be nil", errs.ErrInvalidArgument)
	}
	nameHash := idgen.ID(ec.Name())
	if _, maybeExists := c.nameHashes[nameHash]; maybeExists {
		if _, exists := c.nameIndex[ec.Name()]; exists {
			return fmt.Errorf("%w: event class named %q already added", errs.ErrDuplicate, ec.Name())
		}
	}

	id, hasID := ec.ID()
	if !hasID {
		id = c.nextEventID
		if err := ec.SetID(id); err != nil {
			return err
		}
	}
	if _, exists := c.idIndex[id]; exists {
		return fmt.Errorf("%w: event class ID %d already used", errs.ErrDuplicate, id)
	}
	if id >= c.nextEventID {
		c.nextEventID = id + 1
	}

	event.Freeze(ec)

	idx := len(c.eventClasses)
	c.eventClasses = append(c.eventClasses, ec)
	c.nameIndex[ec.Name()] = idx
	c.nameHashes[nameHash] = struct{}{}
	c.idIndex[id] = idx
	return nil
}

// EventClasses returns the stream class's event classes, in the order
// they were added.
func (c *Class) EventClasses() []*event.Class {
	out := make([]*event.Class, len(c.eventClasses))
	copy(out, c.eventClasses)
	return out
}

// EventClassByName looks up an event class by name.
func (c *Class) EventClassByName(name string) (*event.Class, bool) {
	i, ok := c.nameIndex[name]
	if !ok {
		return nil, false
	}
	return c.eventClasses[i], true
}

// freeze transitions the stream class to immutable: its packet-
// context, event-header, and stream-event-context types freeze, and
// every owned event class's types freeze transitively (spec.md §9).
func (c *Class) freeze() {
	if c.frozen {
		return
	}
	c.frozen = true
	c.pktContext.Freeze()
	c.eventHdr.Freeze()
	if c.streamCtx != nil {
		c.streamCtx.Freeze()
	}
	for _, ec := range c.eventClasses {
		event.Freeze(ec)
	}
}

// Frozen reports whether a stream has been created from this class.
func (c *Class) Frozen() bool { return c.frozen }

// DiscardedEventsField returns the stream-event-context field name
// mirroring the discarded-event counter, and whether one was
// configured via WithDiscardedEventsField.
func (c *Class) DiscardedEventsField() (string, bool) {
	return c.discardedEventsField, c.discardedEventsField != ""
}
