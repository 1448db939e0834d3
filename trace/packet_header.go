package trace

import (
	"fmt"

	"github.com/crossbuild/ctfwriter/field"
	"github.com/crossbuild/ctfwriter/schema"
)

// newPacketHeaderField constructs a field instance for the trace-wide
// packet-header type.
func newPacketHeaderField(t *schema.Type) *field.Field {
	return field.New(t)
}

// populatePacketHeader fills a packet-header field's magic, uuid, and
// stream_id members. The magic field is always written in its own
// declared byte order, independent of any user customisation of the
// enclosing structure (spec.md §9, Open Questions).
func populatePacketHeader(h *field.Field, uuid [16]byte, streamID uint64) error {
	magicField, err := h.StructureGetField("magic")
	if err != nil {
		return fmt.Errorf("packet header has no magic field: %w", err)
	}
	if err := magicField.SetUnsigned(magic); err != nil {
		return err
	}

	uuidField, err := h.StructureGetField("uuid")
	if err != nil {
		return fmt.Errorf("packet header has no uuid field: %w", err)
	}
	n, err := uuidField.ArrayLen()
	if err != nil {
		return err
	}
	for i := 0; i < n && i < len(uuid); i++ {
		if err := uuidField.ArrayGetField(i).SetUnsigned(uint64(uuid[i])); err != nil {
			return err
		}
	}

	streamIDField, err := h.StructureGetField("stream_id")
	if err != nil {
		return fmt.Errorf("packet header has no stream_id field: %w", err)
	}
	return streamIDField.SetUnsigned(streamID)
}
