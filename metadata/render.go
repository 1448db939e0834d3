// Package metadata renders a trace's schema into CTF 1.8 TSDL text
// (spec.md §4.6).
package metadata

import (
	"fmt"
	"strings"

	"github.com/crossbuild/ctfwriter/clock"
	"github.com/crossbuild/ctfwriter/endian"
	"github.com/crossbuild/ctfwriter/event"
	"github.com/crossbuild/ctfwriter/schema"
	"github.com/crossbuild/ctfwriter/stream"
	"github.com/crossbuild/ctfwriter/trace"
)

// preamble is the textual marker TSDL documents open with.
const preamble = "/* CTF 1.8 */\n\n"

// Render produces the complete TSDL metadata document for t: a trace
// block, an env block, one clock block per clock, the packet-header
// type declaration, then one stream block and one event block per
// class. Output is deterministic for a given trace (spec.md §4.6).
func Render(t *trace.Trace) (string, error) {
	var b strings.Builder
	b.WriteString(preamble)

	if err := renderTraceBlock(&b, t); err != nil {
		return "", err
	}
	renderEnvBlock(&b, t)
	for _, c := range t.Clocks() {
		renderClockBlock(&b, c)
	}

	b.WriteString("struct packet_header {\n")
	renderStructBody(&b, t.PacketHeader(), 1)
	b.WriteString("};\n\n")

	for _, sc := range t.StreamClasses() {
		if err := renderStreamBlock(&b, sc); err != nil {
			return "", err
		}
		for _, ec := range sc.EventClasses() {
			if err := renderEventBlock(&b, sc, ec); err != nil {
				return "", err
			}
		}
	}

	return b.String(), nil
}

func renderTraceBlock(b *strings.Builder, t *trace.Trace) error {
	uuid := t.UUID()
	fmt.Fprintf(b, "trace {\n")
	fmt.Fprintf(b, "\tmajor = 1;\n")
	fmt.Fprintf(b, "\tminor = 8;\n")
	fmt.Fprintf(b, "\tuuid = %s;\n", formatUUID(uuid))
	fmt.Fprintf(b, "\tbyte_order = %s;\n", endian.Name(endian.GetLittleEndianEngine()))
	fmt.Fprintf(b, "\tpacket.header := struct packet_header;\n")
	b.WriteString("};\n\n")
	return nil
}

func renderEnvBlock(b *strings.Builder, t *trace.Trace) {
	b.WriteString("env {\n")
	for _, key := range t.EnvKeys() {
		v, _ := t.Env(key)
		if v.IsString {
			fmt.Fprintf(b, "\t%s = %q;\n", key, v.Str)
		} else {
			fmt.Fprintf(b, "\t%s = %d;\n", key, v.Int)
		}
	}
	b.WriteString("};\n\n")
}

func renderClockBlock(b *strings.Builder, c *clock.Clock) {
	fmt.Fprintf(b, "clock {\n")
	fmt.Fprintf(b, "\tname = %s;\n", c.Name())
	if c.Description() != "" {
		fmt.Fprintf(b, "\tdescription = %q;\n", c.Description())
	}
	fmt.Fprintf(b, "\tfreq = %d;\n", c.Frequency())
	fmt.Fprintf(b, "\toffset_s = %d;\n", c.OffsetSeconds())
	fmt.Fprintf(b, "\toffset = %d;\n", c.OffsetTicks())
	fmt.Fprintf(b, "\tprecision = %d;\n", c.Precision())
	fmt.Fprintf(b, "\tabsolute = %s;\n", boolStr(c.Absolute()))
	fmt.Fprintf(b, "\tuuid = %s;\n", formatUUID(c.UUID()))
	b.WriteString("};\n\n")
}

func renderStreamBlock(b *strings.Builder, sc *stream.Class) error {
	id, _ := sc.ID()
	fmt.Fprintf(b, "stream {\n")
	fmt.Fprintf(b, "\tid = %d;\n", id)
	b.WriteString("\tevent.header := struct {\n")
	renderStructBody(b, sc.EventHeader(), 2)
	b.WriteString("\t};\n")
	b.WriteString("\tpacket.context := struct {\n")
	renderStructBody(b, sc.PacketContext(), 2)
	b.WriteString("\t};\n")
	if sc.StreamEventContext() != nil && len(sc.StreamEventContext().Fields()) > 0 {
		b.WriteString("\tevent.context := struct {\n")
		renderStructBody(b, sc.StreamEventContext(), 2)
		b.WriteString("\t};\n")
	}
	b.WriteString("};\n\n")
	return nil
}

func renderEventBlock(b *strings.Builder, sc *stream.Class, ec *event.Class) error {
	id, _ := ec.ID()
	streamID, _ := sc.ID()
	fmt.Fprintf(b, "event {\n")
	fmt.Fprintf(b, "\tname = %q;\n", ec.Name())
	fmt.Fprintf(b, "\tid = %d;\n", id)
	fmt.Fprintf(b, "\tstream_id = %d;\n", streamID)
	if ll, ok := ec.LogLevel(); ok {
		fmt.Fprintf(b, "\tloglevel = %d;\n", ll)
	}
	if uri, ok := ec.ModelEMFURI(); ok {
		fmt.Fprintf(b, "\tmodel.emf.uri = %q;\n", uri)
	}
	if ec.EventContext() != nil {
		b.WriteString("\tcontext := struct {\n")
		renderStructBody(b, ec.EventContext(), 2)
		b.WriteString("\t};\n")
	}
	b.WriteString("\tfields := struct {\n")
	renderStructBody(b, ec.Payload(), 2)
	b.WriteString("\t};\n")
	b.WriteString("};\n\n")
	return nil
}

func boolStr(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

func formatUUID(u [16]byte) string {
	return fmt.Sprintf("%02x%02x%02x%02x-%02x%02x-%02x%02x-%02x%02x-%02x%02x%02x%02x%02x%02x",
		u[0], u[1], u[2], u[3], u[4], u[5], u[6], u[7], u[8], u[9], u[10], u[11], u[12], u[13], u[14], u[15])
}

// renderStructBody renders one declaration line per field of a
// structure type, indented by depth tabs.
func renderStructBody(b *strings.Builder, t *schema.Type, depth int) {
	indent := strings.Repeat("\t", depth)
	for _, f := range t.Fields() {
		b.WriteString(indent)
		b.WriteString(renderType(f.Type))
		fmt.Fprintf(b, " %s;\n", f.Name)
	}
}

// renderType renders a field type recursively into its TSDL
// declaration (without the trailing field name or semicolon).
func renderType(t *schema.Type) string {
	switch t.Kind() {
	case schema.KindInteger:
		return renderInteger(t)
	case schema.KindFloat:
		return renderFloat(t)
	case schema.KindString:
		return "string"
	case schema.KindEnumeration:
		return renderEnum(t)
	case schema.KindStructure:
		return renderStruct(t)
	case schema.KindVariant:
		return renderVariant(t)
	case schema.KindArray:
		return fmt.Sprintf("%s[%d]", renderType(t.Elem()), t.ArrayLen())
	case schema.KindSequence:
		return fmt.Sprintf("%s[%s]", renderType(t.Elem()), t.LengthFieldName())
	default:
		return "unknown"
	}
}

func renderInteger(t *schema.Type) string {
	signed := 0
	if t.Signed() {
		signed = 1
	}
	return fmt.Sprintf(
		"integer { size = %d; align = %d; signed = %d; byte_order = %s; base = %s; encoding = %s; }",
		t.Bits(), t.Alignment(), signed, endian.Name(t.ByteOrder()), t.Base().String(), encodingName(t.Encoding()),
	)
}

func renderFloat(t *schema.Type) string {
	return fmt.Sprintf(
		"floating_point { exp_dig = %d; mant_dig = %d; align = %d; byte_order = %s; }",
		t.ExponentBits(), t.MantissaBits(), t.Alignment(), endian.Name(t.ByteOrder()),
	)
}

func renderEnum(t *schema.Type) string {
	var b strings.Builder
	b.WriteString("enum : ")
	b.WriteString(renderInteger(t.Container()))
	b.WriteString(" { ")
	mappings := t.Mappings()
	for i, m := range mappings {
		if i > 0 {
			b.WriteString(", ")
		}
		if m.Start == m.End {
			fmt.Fprintf(&b, "%s = %d", m.Label, m.Start)
		} else {
			fmt.Fprintf(&b, "%s = %d ... %d", m.Label, m.Start, m.End)
		}
	}
	b.WriteString(" }")
	return b.String()
}

func renderStruct(t *schema.Type) string {
	var b strings.Builder
	b.WriteString("struct {\n")
	renderStructBody(&b, t, 1)
	b.WriteString("}")
	return b.String()
}

func renderVariant(t *schema.Type) string {
	var b strings.Builder
	fmt.Fprintf(&b, "variant <%s> {\n", t.TagFieldName())
	for _, vf := range t.VariantFields() {
		fmt.Fprintf(&b, "\t%s %s;\n", renderType(vf.Type), vf.Label)
	}
	b.WriteString("}")
	return b.String()
}

func encodingName(e schema.StringEncoding) string {
	switch e {
	case schema.EncodingUTF8:
		return "UTF8"
	case schema.EncodingASCII:
		return "ASCII"
	default:
		return "none"
	}
}
