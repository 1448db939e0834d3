package field

import (
	"fmt"

	"github.com/crossbuild/ctfwriter/errs"
	"github.com/crossbuild/ctfwriter/schema"
)

// StringSet replaces a string field's value outright.
func (f *Field) StringSet(value string) error {
	if f.kind != schema.KindString {
		return fmt.Errorf("%w: StringSet only applies to string fields", errs.ErrInvalidArgument)
	}
	f.sbytes = []byte(value)
	f.isSet = true
	return nil
}

// Append appends value to a string field's current content, treating an
// unset field as empty.
func (f *Field) Append(value string) error {
	if f.kind != schema.KindString {
		return fmt.Errorf("%w: Append only applies to string fields", errs.ErrInvalidArgument)
	}
	f.sbytes = append(f.sbytes, value...)
	f.isSet = true
	return nil
}

// AppendLen appends exactly n bytes of value, truncating or zero-padding
// as needed. Embedded NUL bytes within the first n bytes are copied
// as-is; the writer's own NUL terminator is appended separately at
// serialisation time regardless of any embedded NULs (spec.md §9).
func (f *Field) AppendLen(value string, n int) error {
	if f.kind != schema.KindString {
		return fmt.Errorf("%w: AppendLen only applies to string fields", errs.ErrInvalidArgument)
	}
	if n < 0 {
		return fmt.Errorf("%w: length must be >= 0, got %d", errs.ErrOutOfRange, n)
	}
	chunk := make([]byte, n)
	copy(chunk, value)
	f.sbytes = append(f.sbytes, chunk...)
	f.isSet = true
	return nil
}

// String returns the field's current bytes and whether it has been set.
func (f *Field) String() (string, bool) {
	if f.kind != schema.KindString {
		return "", false
	}
	return string(f.sbytes), f.isSet
}
