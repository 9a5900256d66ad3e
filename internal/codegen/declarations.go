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

// EmitEnum renders e as an exported TypeScript enum, one member per value
// bound to its wire number (spec.md §4.E).
func EmitEnum(e visit.Enum) string {
	var b strings.Builder
	fmt.Fprintf(&b, "export enum %s {\n", e.Name)
	for _, v := range e.Desc.GetValue() {
		fmt.Fprintf(&b, "    %s = %d,\n", ir.PascalCase(v.GetName()), v.GetNumber())
	}
	b.WriteString("}")
	return b.String()
}

// EmitInterface renders msg's shape declaration: one property per field,
// camelCased, typed via typeexpr.ToTypeName (spec.md §4.E). Returns the
// cross-file type-map entries the interface's field types depend on, so
// the caller can register imports on the enclosing CodeFile.
func EmitInterface(tm *typemap.TypeMap, msg visit.Message) (string, []*typemap.Entry, error) {
	var b strings.Builder
	var deps []*typemap.Entry
	fmt.Fprintf(&b, "export interface %s {\n", msg.Name)
	for _, f := range msg.Desc.GetField() {
		res, err := typeexpr.ToTypeName(tm, f)
		if err != nil {
			return "", nil, fmt.Errorf("message %s: field %s: %w", msg.FullName, f.GetName(), err)
		}
		if res.Dep != nil {
			deps = append(deps, res.Dep)
		}
		fmt.Fprintf(&b, "    %s: %s;\n", ir.CamelCase(f.GetName()), res.Text)
	}
	b.WriteString("}")
	return b.String(), deps, nil
}

// EmitBasePrototype renders base<Name>: an immutable record of every field
// not in a oneof and not message-typed, each at its scalar default (spec.md
// §4.E). Fields inside a oneof receive no key — the clone seeds only the
// always-present shape. Message-typed fields also receive no key: they
// default to absent, per spec.md §4.E ("Messages themselves receive no key
// in the prototype").
func EmitBasePrototype(msg visit.Message) string {
	var b strings.Builder
	fmt.Fprintf(&b, "const base%s: %s = {\n", msg.Name, msg.Name)
	for _, f := range msg.Desc.GetField() {
		if classify.IsWithinOneof(f) || classify.IsMessage(f) {
			continue
		}
		fmt.Fprintf(&b, "    %s: %s,\n", ir.CamelCase(f.GetName()), typeexpr.DefaultValue(f))
	}
	b.WriteString("};")
	return b.String()
}
