package schema

import (
	"fmt"

	"github.com/crossbuild/ctfwriter/errs"
)

// NewEnumeration creates an enumeration type backed by container, which
// must be an integer type (not itself an enumeration). The new type
// starts with no mappings; spec.md §3 forbids placing an enumeration
// with zero mappings inside a sequence, array, or structure, but it
// may exist standalone (e.g. while still being built) until then.
func NewEnumeration(container *Type) (*Type, error) {
	if container == nil || container.Kind() != KindInteger {
		return nil, fmt.Errorf("%w: enumeration container must be an integer type", errs.ErrInvalidArgument)
	}

	return &Type{
		kind:      KindEnumeration,
		container: container,
		alignment: container.alignment,
	}, nil
}

// AddMapping adds a (label, [start,end]) mapping interpreted with the
// container's signedness. It is rejected if the container is unsigned
// (use AddMappingUnsigned), if start > end, if the range overlaps an
// existing mapping, or if label is already used.
func (t *Type) AddMapping(label string, start, end int64) error {
	if err := t.checkMutable(); err != nil {
		return err
	}
	if t.kind != KindEnumeration {
		return fmt.Errorf("%w: AddMapping only applies to enumeration types", errs.ErrInvalidArgument)
	}
	if !t.container.signed {
		return fmt.Errorf("%w: container is unsigned, use AddMappingUnsigned", errs.ErrInvalidArgument)
	}
	if start > end {
		return fmt.Errorf("%w: mapping end (%d) must be >= start (%d)", errs.ErrOutOfRange, end, start)
	}
	if label == "" {
		return fmt.Errorf("%w: mapping label must not be empty", errs.ErrInvalidArgument)
	}

	for _, m := range t.mappings {
		if m.Label == label {
			return fmt.Errorf("%w: mapping label %q already used", errs.ErrDuplicate, label)
		}
		if rangesOverlapSigned(m.Start, m.End, start, end) {
			return fmt.Errorf("%w: [%d,%d] overlaps existing mapping %q [%d,%d]",
				errs.ErrOverlap, start, end, m.Label, m.Start, m.End)
		}
	}

	t.mappings = append(t.mappings, EnumMapping{Label: label, Start: start, End: end})
	return nil
}

// AddMappingUnsigned adds a (label, [start,end]) mapping interpreted as
// unsigned values. It is rejected if the container is signed.
func (t *Type) AddMappingUnsigned(label string, start, end uint64) error {
	if err := t.checkMutable(); err != nil {
		return err
	}
	if t.kind != KindEnumeration {
		return fmt.Errorf("%w: AddMappingUnsigned only applies to enumeration types", errs.ErrInvalidArgument)
	}
	if t.container.signed {
		return fmt.Errorf("%w: container is signed, use AddMapping", errs.ErrInvalidArgument)
	}
	if start > end {
		return fmt.Errorf("%w: mapping end (%d) must be >= start (%d)", errs.ErrOutOfRange, end, start)
	}
	if label == "" {
		return fmt.Errorf("%w: mapping label must not be empty", errs.ErrInvalidArgument)
	}

	for _, m := range t.mappings {
		if m.Label == label {
			return fmt.Errorf("%w: mapping label %q already used", errs.ErrDuplicate, label)
		}
		if rangesOverlapUnsigned(uint64(m.Start), uint64(m.End), start, end) {
			return fmt.Errorf("%w: [%d,%d] overlaps existing mapping %q [%d,%d]",
				errs.ErrOverlap, start, end, m.Label, m.Start, m.End)
		}
	}

	t.mappings = append(t.mappings, EnumMapping{
		Label: label,
		Start: int64(start), //nolint:gosec
		End:   int64(end),   //nolint:gosec
	})
	return nil
}

func rangesOverlapSigned(aStart, aEnd, bStart, bEnd int64) bool {
	return aStart <= bEnd && bStart <= aEnd
}

func rangesOverlapUnsigned(aStart, aEnd, bStart, bEnd uint64) bool {
	return aStart <= bEnd && bStart <= aEnd
}

// LookupByValue returns the first mapping whose range covers value
// (interpreted with the container's signedness), in insertion order,
// and true; or false if no mapping covers it.
func (t *Type) LookupByValue(value int64) (EnumMapping, bool) {
	if t.container.signed {
		for _, m := range t.mappings {
			if value >= m.Start && value <= m.End {
				return m, true
			}
		}
		return EnumMapping{}, false
	}

	uv := uint64(value)
	for _, m := range t.mappings {
		if uv >= uint64(m.Start) && uv <= uint64(m.End) {
			return m, true
		}
	}
	return EnumMapping{}, false
}

// LookupByLabel returns the index of the mapping named label.
func (t *Type) LookupByLabel(label string) (int, bool) {
	for i, m := range t.mappings {
		if m.Label == label {
			return i, true
		}
	}
	return 0, false
}

// HasMapping reports whether label names the enumeration's tag
// mapping; used by variant field addition to validate a label exists
// in the tag enumeration before accepting a branch under it.
func (t *Type) HasMapping(label string) bool {
	_, ok := t.LookupByLabel(label)
	return ok
}
