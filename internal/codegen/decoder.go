package codegen

import (
	"fmt"
	"strings"

	"github.com/pbts-gen/pbts/internal/classify"
	"github.com/pbts-gen/pbts/internal/ir"
	"github.com/pbts-gen/pbts/internal/typemap"
	"github.com/pbts-gen/pbts/internal/visit"
)

// decodeResult mirrors encodeResult for the decode<Name> side.
type decodeResult struct {
	Text           string
	Deps           []*typemap.Entry
	NeedsLong      bool
	NeedsTimestamp bool
	NeedsDuration  bool
}

// EmitDecode renders decode<Name>(reader, length?) -> Message (spec.md
// §4.G): clone the base prototype, initialize repeated fields, then loop
// dispatching on the wire tag's field number until the sub-message
// boundary.
func EmitDecode(tm *typemap.TypeMap, msg visit.Message) (decodeResult, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "function decode%s(reader: Reader, length?: number): %s {\n", msg.Name, msg.Name)
	b.WriteString("    const end = length === undefined ? reader.len : reader.pos + length;\n")
	fmt.Fprintf(&b, "    const message = { ...base%s } as %s;\n", msg.Name, msg.Name)
	for _, f := range msg.Desc.GetField() {
		if classify.IsRepeated(f) {
			fmt.Fprintf(&b, "    message.%s = [];\n", ir.CamelCase(f.GetName()))
		}
	}
	b.WriteString("    while (reader.pos < end) {\n")
	b.WriteString("        const tagValue = reader.uint32();\n")
	b.WriteString("        switch (tagValue >>> 3) {\n")

	var out decodeResult
	for _, f := range msg.Desc.GetField() {
		lines, sub, err := decodeField(tm, f)
		if err != nil {
			return decodeResult{}, fmt.Errorf("message %s: field %s: %w", msg.FullName, f.GetName(), err)
		}
		b.WriteString(lines)
		out.NeedsLong = out.NeedsLong || sub.NeedsLong
		out.NeedsTimestamp = out.NeedsTimestamp || sub.NeedsTimestamp
		out.NeedsDuration = out.NeedsDuration || sub.NeedsDuration
		out.Deps = append(out.Deps, sub.Deps...)
	}

	b.WriteString("            default:\n")
	b.WriteString("                reader.skipType(tagValue & 7);\n")
	b.WriteString("        }\n")
	b.WriteString("    }\n")
	b.WriteString("    return message;\n}")
	out.Text = b.String()
	return out, nil
}

func decodeField(tm *typemap.TypeMap, f *classify.Field) (string, decodeResult, error) {
	name := ir.CamelCase(f.GetName())
	accessor := "message." + name

	var body string
	var result decodeResult
	var err error

	switch {
	case classify.IsRepeated(f) && classify.IsPackable(f):
		body, result = decodePackedField(f, accessor)

	case classify.IsRepeated(f):
		body, result, err = decodeRepeatedUnpacked(tm, f, accessor)

	default:
		body, result, err = decodeSingleField(tm, f, accessor)
	}
	if err != nil {
		return "", decodeResult{}, err
	}

	return fmt.Sprintf("            case %d:\n%s                break;\n", f.GetNumber(), body), result, nil
}

func decodeSingleField(tm *typemap.TypeMap, f *classify.Field, accessor string) (string, decodeResult, error) {
	switch {
	case classify.IsWellKnownTimestamp(f):
		return fmt.Sprintf("                %s = decodeTimestampMessage(reader, reader.uint32());\n", accessor),
			decodeResult{NeedsTimestamp: true, NeedsLong: true}, nil

	case classify.IsWellKnownDuration(f):
		return fmt.Sprintf("                %s = decodeDurationMessage(reader, reader.uint32());\n", accessor),
			decodeResult{NeedsDuration: true, NeedsLong: true}, nil

	case classify.IsWrapperValue(f):
		expr, err := tm.Resolve(f.GetTypeName(), true)
		if err != nil {
			return "", decodeResult{}, err
		}
		var deps []*typemap.Entry
		if expr.ImportModule != "" {
			deps = append(deps, &typemap.Entry{Module: expr.ImportModule, TypeID: expr.ImportName})
		}
		return fmt.Sprintf("                %s = %s.decode(reader, reader.uint32()).value;\n", accessor, expr.Text),
			decodeResult{Deps: deps}, nil

	case classify.IsMessage(f):
		if tm.IsMapEntry(f.GetTypeName()) {
			return "", decodeResult{}, &classify.UnhandledFieldShape{FieldName: f.GetName()}
		}
		expr, err := tm.Resolve(f.GetTypeName(), true)
		if err != nil {
			return "", decodeResult{}, err
		}
		var deps []*typemap.Entry
		if expr.ImportModule != "" {
			deps = append(deps, &typemap.Entry{Module: expr.ImportModule, TypeID: expr.ImportName})
		}
		return fmt.Sprintf("                %s = %s.decode(reader, reader.uint32());\n", accessor, expr.Text),
			decodeResult{Deps: deps}, nil

	default:
		method, ok := classify.ToReaderCall(f)
		if !ok {
			return "", decodeResult{}, &classify.UnhandledFieldShape{FieldName: f.GetName()}
		}
		if classify.Is64Bit(f) {
			return fmt.Sprintf("                %s = longToNumber(reader.%s() as Long);\n", accessor, method),
				decodeResult{NeedsLong: true}, nil
		}
		return fmt.Sprintf("                %s = reader.%s();\n", accessor, method), decodeResult{}, nil
	}
}

// decodeRepeatedUnpacked handles repeated non-packable fields (strings,
// bytes, messages): append a single decoded value per occurrence.
func decodeRepeatedUnpacked(tm *typemap.TypeMap, f *classify.Field, accessor string) (string, decodeResult, error) {
	single, result, err := decodeSingleElement(tm, f)
	if err != nil {
		return "", decodeResult{}, err
	}
	return fmt.Sprintf("                %s.push(%s);\n", accessor, single), result, nil
}

// decodeSingleElement renders the RHS read expression for one element of a
// repeated field (used both by the unpacked-append path and the packed
// sub-reader loop).
func decodeSingleElement(tm *typemap.TypeMap, f *classify.Field) (string, decodeResult, error) {
	switch {
	case classify.IsWellKnownTimestamp(f):
		return "decodeTimestampMessage(reader, reader.uint32())", decodeResult{NeedsTimestamp: true, NeedsLong: true}, nil
	case classify.IsWellKnownDuration(f):
		return "decodeDurationMessage(reader, reader.uint32())", decodeResult{NeedsDuration: true, NeedsLong: true}, nil
	case classify.IsWrapperValue(f):
		expr, err := tm.Resolve(f.GetTypeName(), true)
		if err != nil {
			return "", decodeResult{}, err
		}
		var deps []*typemap.Entry
		if expr.ImportModule != "" {
			deps = append(deps, &typemap.Entry{Module: expr.ImportModule, TypeID: expr.ImportName})
		}
		return fmt.Sprintf("%s.decode(reader, reader.uint32()).value", expr.Text), decodeResult{Deps: deps}, nil
	case classify.IsMessage(f):
		if tm.IsMapEntry(f.GetTypeName()) {
			return "", decodeResult{}, &classify.UnhandledFieldShape{FieldName: f.GetName()}
		}
		expr, err := tm.Resolve(f.GetTypeName(), true)
		if err != nil {
			return "", decodeResult{}, err
		}
		var deps []*typemap.Entry
		if expr.ImportModule != "" {
			deps = append(deps, &typemap.Entry{Module: expr.ImportModule, TypeID: expr.ImportName})
		}
		return fmt.Sprintf("%s.decode(reader, reader.uint32())", expr.Text), decodeResult{Deps: deps}, nil
	default:
		method, ok := classify.ToReaderCall(f)
		if !ok {
			return "", decodeResult{}, &classify.UnhandledFieldShape{FieldName: f.GetName()}
		}
		if classify.Is64Bit(f) {
			return fmt.Sprintf("longToNumber(reader.%s() as Long)", method), decodeResult{NeedsLong: true}, nil
		}
		return fmt.Sprintf("reader.%s()", method), decodeResult{}, nil
	}
}

// decodePackedField handles repeated packable fields: the wire type on the
// tag decides whether this occurrence is a packed run or one legacy
// unpacked value, so both encodings decode correctly (spec.md §4.G tie-break:
// "Packed repeated decode MUST accept both wire encodings").
func decodePackedField(f *classify.Field, accessor string) (string, decodeResult) {
	method, _ := classify.ScalarMethod(f)
	is64 := classify.Is64Bit(f)
	readExpr := fmt.Sprintf("reader.%s()", method)
	if is64 {
		readExpr = fmt.Sprintf("longToNumber(reader.%s() as Long)", method)
	}
	var b strings.Builder
	b.WriteString("                if ((tagValue & 7) === 2) {\n")
	b.WriteString("                    const packedEnd = reader.pos + reader.uint32();\n")
	b.WriteString("                    while (reader.pos < packedEnd) {\n")
	fmt.Fprintf(&b, "                        %s.push(%s);\n", accessor, readExpr)
	b.WriteString("                    }\n")
	b.WriteString("                } else {\n")
	fmt.Fprintf(&b, "                    %s.push(%s);\n", accessor, readExpr)
	b.WriteString("                }\n")
	return b.String(), decodeResult{NeedsLong: is64}
}
