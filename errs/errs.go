// Package errs defines the sentinel errors returned across the trace
// writer. Failing operations wrap one of these with
// fmt.Errorf("%w: ...", errs.ErrX, ...); callers inspect the kind with
// errors.Is. Not every error carries a sentinel: archive.File returns
// the context's own error when its context is done, and errors from a
// compression codec pass through without one.
package errs

import "errors"

var (
	// ErrInvalidArgument is returned for nil inputs where not permitted,
	// unknown identifiers, or a value of the wrong shape for the
	// operation (e.g. a non-structure where a structure is required).
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrOutOfRange is returned when an integer value does not fit its
	// declared bit width, an enum mapping has end < start, or a
	// floating-point type declares an impossible digit count.
	ErrOutOfRange = errors.New("value out of range")

	// ErrDuplicate is returned for a duplicate field name, mapping
	// label, event-class name, or event-class ID.
	ErrDuplicate = errors.New("duplicate")

	// ErrOverlap is returned when an enumeration range overlaps an
	// existing mapping's range.
	ErrOverlap = errors.New("range overlap")

	// ErrFrozen is returned when a mutator is called on a frozen schema
	// node or a frozen stream class.
	ErrFrozen = errors.New("frozen")

	// ErrUnset is returned when reading or serialising a field that has
	// no value.
	ErrUnset = errors.New("field unset")

	// ErrInvalidTag is returned when a variant's tag field value does
	// not match any declared label.
	ErrInvalidTag = errors.New("invalid variant tag")

	// ErrIO is returned when the underlying file write or mkdir fails.
	ErrIO = errors.New("i/o error")

	// ErrParentGone is returned when a weak upward reference no longer
	// resolves because its logical parent was collected.
	ErrParentGone = errors.New("parent gone")
)
