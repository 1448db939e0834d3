// Package event implements event classes (schema templates for
// events) and event instances, per spec.md §4.4.
package event

import (
	"fmt"

	"github.com/crossbuild/ctfwriter/errs"
	"github.com/crossbuild/ctfwriter/field"
	"github.com/crossbuild/ctfwriter/schema"
)

// recognised attribute keys, spec.md §4.4.
const (
	AttrID          = "id"
	AttrName        = "name"
	AttrLogLevel    = "loglevel"
	AttrModelEMFURI = "model.emf.uri"
)

// Class is an event class: a name, an optional ID (assigned when added
// to a stream class), a payload structure type, an optional per-event
// context structure type, and an attribute bag.
type Class struct {
	name      string
	hasID     bool
	id        uint64
	payload   *schema.Type
	eventCtx  *schema.Type
	frozen    bool
	logLevel  int64
	hasLL     bool
	modelEMF  string
	hasEMF    bool
	attrOrder []string
}

// NewClass creates an event class named name, with an empty payload
// structure type ready to receive fields via Payload().AddField.
func NewClass(name string) (*Class, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: event class name must not be empty", errs.ErrInvalidArgument)
	}
	return &Class{
		name:      name,
		payload:   schema.NewStructure(),
		attrOrder: []string{AttrName},
	}, nil
}

// Name returns the event class's current name.
func (c *Class) Name() string { return c.name }

// SetName replaces the event class's name.
func (c *Class) SetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: event class name must not be empty", errs.ErrInvalidArgument)
	}
	c.name = name
	return nil
}

// ID returns the event class's assigned ID and whether one has been
// assigned yet (assignment happens on SetID or on joining a stream
// class via AddEventClass).
func (c *Class) ID() (uint64, bool) { return c.id, c.hasID }

// SetID assigns the event class's ID explicitly, before it joins a
// stream class. Fails if the class is already frozen.
func (c *Class) SetID(id uint64) error {
	if c.frozen {
		return fmt.Errorf("%w: event class is frozen", errs.ErrFrozen)
	}
	c.id = id
	c.hasID = true
	return nil
}

// Payload returns the event class's payload structure type, mutable
// until the class is frozen.
func (c *Class) Payload() *schema.Type { return c.payload }

// SetEventContext sets the event class's optional per-event context
// type, which must be a structure.
func (c *Class) SetEventContext(t *schema.Type) error {
	if c.frozen {
		return fmt.Errorf("%w: event class is frozen", errs.ErrFrozen)
	}
	if t != nil && t.Kind() != schema.KindStructure {
		return fmt.Errorf("%w: event context must be a structure type", errs.ErrInvalidArgument)
	}
	c.eventCtx = t
	return nil
}

// EventContext returns the event class's context type, or nil.
func (c *Class) EventContext() *schema.Type { return c.eventCtx }

// SetLogLevel sets the informational `loglevel` attribute.
func (c *Class) SetLogLevel(level int64) {
	if !c.hasLL {
		c.attrOrder = append(c.attrOrder, AttrLogLevel)
	}
	c.logLevel = level
	c.hasLL = true
}

// LogLevel returns the `loglevel` attribute and whether it's set.
func (c *Class) LogLevel() (int64, bool) { return c.logLevel, c.hasLL }

// SetModelEMFURI sets the informational `model.emf.uri` attribute.
func (c *Class) SetModelEMFURI(uri string) {
	if !c.hasEMF {
		c.attrOrder = append(c.attrOrder, AttrModelEMFURI)
	}
	c.modelEMF = uri
	c.hasEMF = true
}

// ModelEMFURI returns the `model.emf.uri` attribute and whether it's
// set.
func (c *Class) ModelEMFURI() (string, bool) { return c.modelEMF, c.hasEMF }

// AttributeNames returns the names of the name, loglevel and
// model.emf.uri attributes that have been set, in the order they were
// first assigned. The id attribute is not listed; read it with ID.
func (c *Class) AttributeNames() []string {
	out := make([]string, len(c.attrOrder))
	copy(out, c.attrOrder)
	return out
}

// AttributeByIndex returns the i'th assigned attribute's name and
// string-rendered value, for ordered-index readback (spec.md §4.4).
func (c *Class) AttributeByIndex(i int) (name, value string, ok bool) {
	if i < 0 || i >= len(c.attrOrder) {
		return "", "", false
	}
	name = c.attrOrder[i]
	switch name {
	case AttrName:
		return name, c.name, true
	case AttrLogLevel:
		return name, fmt.Sprintf("%d", c.logLevel), true
	case AttrModelEMFURI:
		return name, c.modelEMF, true
	default:
		return name, "", false
	}
}

// SetAttribute assigns one of the recognised attribute keys (AttrID,
// AttrName, AttrLogLevel, AttrModelEMFURI) generically, rejecting
// unknown keys and type-mismatched values (spec.md §4.4).
func (c *Class) SetAttribute(key string, value any) error {
	switch key {
	case AttrID:
		v, ok := value.(uint64)
		if !ok {
			return fmt.Errorf("%w: attribute %q requires a non-negative integer value", errs.ErrInvalidArgument, key)
		}
		return c.SetID(v)
	case AttrName:
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: attribute %q requires a string value", errs.ErrInvalidArgument, key)
		}
		return c.SetName(v)
	case AttrLogLevel:
		v, ok := value.(int64)
		if !ok {
			return fmt.Errorf("%w: attribute %q requires an integer value", errs.ErrInvalidArgument, key)
		}
		c.SetLogLevel(v)
		return nil
	case AttrModelEMFURI:
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: attribute %q requires a string value", errs.ErrInvalidArgument, key)
		}
		c.SetModelEMFURI(v)
		return nil
	default:
		return fmt.Errorf("%w: unrecognised event-class attribute %q", errs.ErrInvalidArgument, key)
	}
}

// freeze freezes the class's payload and context types, and marks the
// class itself immutable (spec.md §4.5: AddEventClass freezes ec's
// types; §9: freezing is transitive).
func (c *Class) freeze() {
	if c.frozen {
		return
	}
	c.frozen = true
	c.payload.Freeze()
	if c.eventCtx != nil {
		c.eventCtx.Freeze()
	}
}

// Frozen reports whether the class has been added to a stream class.
func (c *Class) Frozen() bool { return c.frozen }

// StreamRef is the minimal upward view an Event needs of its owning
// stream, kept as a weak reference to avoid an event-class/stream
// ownership cycle (spec.md §5).
type StreamRef interface {
	Name() string
}

// Event is a runtime event instance: a strong reference to its class,
// an optional header field, an optional context field, the payload
// field, and a weak back-reference to the stream it was appended to.
//
// The back-reference is stored as a resolver closure rather than a
// weak.Pointer directly, since the stream package (which owns the
// concrete *stream.Stream a weak.Pointer would wrap) imports this
// package for Class/Event, so this package cannot import stream back.
// The stream package constructs the weak.Pointer over its own type and
// hands this package only a closure that resolves it.
type Event struct {
	class         *Class
	header        *field.Field
	evCtx         *field.Field
	payload       *field.Field
	streamResolve func() (StreamRef, error)
}

// New creates an event instance bound to class. The payload field is
// constructed immediately (from class's frozen payload type); header
// and event-context fields are constructed lazily by the stream on
// append, matching spec.md §4.4's "optional header field... optional
// event-context field".
func New(class *Class) (*Event, error) {
	if class == nil {
		return nil, fmt.Errorf("%w: event class must not be nil", errs.ErrInvalidArgument)
	}
	return &Event{
		class:   class,
		payload: field.New(class.payload),
	}, nil
}

// Class returns the event's class.
func (e *Event) Class() *Class { return e.class }

// Payload returns the event's payload field.
func (e *Event) Payload() *field.Field { return e.payload }

// Header returns the event's header field, or nil if not yet bound by
// the owning stream.
func (e *Event) Header() *field.Field { return e.header }

// SetHeader binds the event's header field explicitly, overriding the
// stream's default construction on append.
func (e *Event) SetHeader(f *field.Field) { e.header = f }

// EventContext returns the event's context field, constructing it
// lazily from the class's context type on first access, or nil if the
// class declares no context type.
func (e *Event) EventContext() *field.Field {
	if e.evCtx == nil && e.class.eventCtx != nil {
		e.evCtx = field.New(e.class.eventCtx)
	}
	return e.evCtx
}

// Stream returns the stream this event was appended to, or
// errs.ErrParentGone if the stream has since been released, or if the
// event has not been appended to any stream yet.
func (e *Event) Stream() (StreamRef, error) {
	if e.streamResolve == nil {
		return nil, fmt.Errorf("%w: event has not been appended to a stream", errs.ErrParentGone)
	}
	return e.streamResolve()
}

// BindStream is called by the owning stream during AppendEvent: it
// installs the weak-resolving closure and, if the event has no header
// field yet, the stream's freshly constructed default header (spec.md
// §4.5 step 2).
func (e *Event) BindStream(resolve func() (StreamRef, error), defaultHeader *field.Field) {
	e.streamResolve = resolve
	if e.header == nil {
		e.header = defaultHeader
	}
}

// Freeze exposes the class freeze hook to the stream package, which
// calls it from AddEventClass.
func Freeze(c *Class) { c.freeze() }
