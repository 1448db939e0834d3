package field

// Copy returns a deep copy of f: scalar values, byte content, and the
// full composite child tree are duplicated, but the bound schema.Type
// is shared (types are immutable once frozen, so sharing is safe and
// avoids needlessly duplicating the schema graph). Variant selection
// state and sequence length binding are preserved (spec.md §4.3,
// property 6).
func (f *Field) Copy() *Field {
	out := &Field{
		typ:           f.typ,
		kind:          f.kind,
		isSet:         f.isSet,
		uval:          f.uval,
		sval:          f.sval,
		fval:          f.fval,
		selectedLabel: f.selectedLabel,
		seqLength:     f.seqLength,
		seqBound:      f.seqBound,
	}

	if f.sbytes != nil {
		out.sbytes = make([]byte, len(f.sbytes))
		copy(out.sbytes, f.sbytes)
	}

	if f.container != nil {
		out.container = f.container.Copy()
	}

	if f.children != nil {
		out.children = make([]*Field, len(f.children))
		for i, c := range f.children {
			if c != nil {
				out.children[i] = c.Copy()
			}
		}
	}

	if f.selected != nil {
		out.selected = f.selected.Copy()
	}

	if f.seqChildren != nil {
		out.seqChildren = make([]*Field, len(f.seqChildren))
		for i, c := range f.seqChildren {
			if c != nil {
				out.seqChildren[i] = c.Copy()
			}
		}
	}

	return out
}
