package codegen

import (
	"fmt"
	"strings"

	"github.com/pbts-gen/pbts/internal/classify"
	"github.com/pbts-gen/pbts/internal/ir"
	"github.com/pbts-gen/pbts/internal/typemap"
	"github.com/pbts-gen/pbts/internal/typeexpr"
	"github.com/pbts-gen/pbts/internal/visit"
)

// encodeResult carries an emitted encode<Name> function body plus the
// runtime helpers and cross-file deps it pulled in, so the caller can fold
// those into the file-level accumulators.
type encodeResult struct {
	Text           string
	Deps           []*typemap.Entry
	NeedsLong      bool
	NeedsTimestamp bool
	NeedsDuration  bool
}

// EmitEncode renders encode<Name>(message, writer?) -> writer (spec.md
// §4.F): for each field, in declaration order, a conditionally-written
// wire-format write.
func EmitEncode(tm *typemap.TypeMap, msg visit.Message) (encodeResult, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "function encode%s(message: %s, writer: Writer = Writer.create()): Writer {\n", msg.Name, msg.Name)

	var out encodeResult
	for _, f := range msg.Desc.GetField() {
		lines, sub, err := encodeField(tm, f)
		if err != nil {
			return encodeResult{}, fmt.Errorf("message %s: field %s: %w", msg.FullName, f.GetName(), err)
		}
		b.WriteString(lines)
		out.NeedsLong = out.NeedsLong || sub.NeedsLong
		out.NeedsTimestamp = out.NeedsTimestamp || sub.NeedsTimestamp
		out.NeedsDuration = out.NeedsDuration || sub.NeedsDuration
		out.Deps = append(out.Deps, sub.Deps...)
	}

	b.WriteString("    return writer;\n}")
	out.Text = b.String()
	return out, nil
}

func encodeField(tm *typemap.TypeMap, f *classify.Field) (string, encodeResult, error) {
	name := ir.CamelCase(f.GetName())
	accessor := "message." + name

	if classify.IsRepeated(f) {
		return encodeRepeated(tm, f, accessor)
	}
	return encodeSingle(tm, f, accessor, "    ")
}

func encodeRepeated(tm *typemap.TypeMap, f *classify.Field, accessor string) (string, encodeResult, error) {
	var b strings.Builder
	if classify.IsPacked(f) {
		method, ok := classify.ScalarMethod(f)
		if !ok {
			return "", encodeResult{}, &classify.UnhandledFieldShape{FieldName: f.GetName()}
		}
		fmt.Fprintf(&b, "    if (%s.length > 0) {\n", accessor)
		b.WriteString("        const packedWriter = Writer.create();\n")
		fmt.Fprintf(&b, "        for (const item of %s) {\n", accessor)
		fmt.Fprintf(&b, "            packedWriter.%s(item);\n", method)
		b.WriteString("        }\n")
		fmt.Fprintf(&b, "        writer.uint32(tag(%d, WIRE.LDELIM)).bytes(packedWriter.finish());\n", f.GetNumber())
		b.WriteString("    }\n")
		return b.String(), encodeResult{}, nil
	}

	fmt.Fprintf(&b, "    for (const item of %s) {\n", accessor)
	lines, sub, err := encodeSingle(tm, f, "item", "        ")
	if err != nil {
		return "", encodeResult{}, err
	}
	b.WriteString(lines)
	b.WriteString("    }\n")
	return b.String(), sub, nil
}

func encodeSingle(tm *typemap.TypeMap, f *classify.Field, accessor, indent string) (string, encodeResult, error) {
	wt := classify.WireTypeOf(f)
	tagExpr := fmt.Sprintf("tag(%d, %s)", f.GetNumber(), wireTypeConst(wt))

	switch {
	case classify.IsWellKnownTimestamp(f):
		lines := guarded(f, accessor, indent, fmt.Sprintf("writeTimestamp(%s, writer.uint32(%s).fork()).ldelim();", accessor, tagExpr))
		return lines, encodeResult{NeedsTimestamp: true, NeedsLong: true}, nil

	case classify.IsWellKnownDuration(f):
		lines := guarded(f, accessor, indent, fmt.Sprintf("writeDuration(%s, writer.uint32(%s).fork()).ldelim();", accessor, tagExpr))
		return lines, encodeResult{NeedsDuration: true, NeedsLong: true}, nil

	case classify.IsWrapperValue(f):
		expr, err := tm.Resolve(f.GetTypeName(), true)
		if err != nil {
			return "", encodeResult{}, err
		}
		body := fmt.Sprintf("%s.encode({ value: %s }, writer.uint32(%s).fork()).ldelim();", expr.Text, accessor, tagExpr)
		var deps []*typemap.Entry
		if expr.ImportModule != "" {
			deps = append(deps, &typemap.Entry{Module: expr.ImportModule, TypeID: expr.ImportName})
		}
		return guarded(f, accessor, indent, body), encodeResult{Deps: deps}, nil

	case classify.IsMessage(f):
		if tm.IsMapEntry(f.GetTypeName()) {
			return "", encodeResult{}, &classify.UnhandledFieldShape{FieldName: f.GetName()}
		}
		expr, err := tm.Resolve(f.GetTypeName(), true)
		if err != nil {
			return "", encodeResult{}, err
		}
		body := fmt.Sprintf("%s.encode(%s, writer.uint32(%s).fork()).ldelim();", expr.Text, accessor, tagExpr)
		var deps []*typemap.Entry
		if expr.ImportModule != "" {
			deps = append(deps, &typemap.Entry{Module: expr.ImportModule, TypeID: expr.ImportName})
		}
		return guarded(f, accessor, indent, body), encodeResult{Deps: deps}, nil

	default:
		method, ok := classify.ScalarMethod(f)
		if !ok {
			return "", encodeResult{}, &classify.UnhandledFieldShape{FieldName: f.GetName()}
		}
		body := fmt.Sprintf("writer.uint32(%s).%s(%s);", tagExpr, method, accessor)
		if classify.IsWithinOneof(f) {
			return guarded(f, accessor, indent, body), encodeResult{}, nil
		}
		return indent + body + "\n", encodeResult{}, nil
	}
}

// guarded wraps body in the conditional guard shared by nested-message and
// within-oneof fields (spec.md §4.F: "same conditional guard as nested
// message"): only write when the field is present and not the default.
func guarded(f *classify.Field, accessor, indent, body string) string {
	def := typeexpr.ElementDefaultValue(f)
	var cond string
	if def == "undefined" {
		cond = fmt.Sprintf("%s !== undefined", accessor)
	} else {
		cond = fmt.Sprintf("%s !== undefined && %s !== %s", accessor, accessor, def)
	}
	return fmt.Sprintf("%sif (%s) {\n%s    %s\n%s}\n", indent, cond, indent, body, indent)
}

func wireTypeConst(wt ir.WireType) string {
	switch wt {
	case ir.WireVarint:
		return "WIRE.VARINT"
	case ir.WireFixed32:
		return "WIRE.FIXED32"
	case ir.WireFixed64:
		return "WIRE.FIXED64"
	default:
		return "WIRE.LDELIM"
	}
}
