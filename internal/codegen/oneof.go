package codegen

import (
	"fmt"
	"strings"

	"github.com/pbts-gen/pbts/internal/ir"
	"github.com/pbts-gen/pbts/internal/visit"
	"google.golang.org/protobuf/types/descriptorpb"
)

// generateOneOfProperty renders a tagged-union property type for a real
// oneof group, e.g. `{ field: "name"; value: string } | { field: "id"; value: number }`,
// the redesign sketched but not adopted by the translator (spec.md §9 open
// question on oneof representation). Each member encodes which field is
// set in a discriminant literal rather than via per-field `| undefined`,
// which is the representation §4.C actually specifies and EmitInterface
// uses. Kept and tested on its own as a documented alternative; it is not
// wired into EmitInterface.
func generateOneOfProperty(msg visit.Message, oneofIndex int32) (string, error) {
	oneofs := msg.Desc.GetOneofDecl()
	if int(oneofIndex) >= len(oneofs) {
		return "", fmt.Errorf("oneof index %d out of range for message %s", oneofIndex, msg.Name)
	}
	var members []*descriptorpb.FieldDescriptorProto
	for _, f := range msg.Desc.GetField() {
		if f.OneofIndex != nil && f.GetOneofIndex() == oneofIndex {
			members = append(members, f)
		}
	}
	if len(members) == 0 {
		return "", fmt.Errorf("oneof %s has no members", oneofs[oneofIndex].GetName())
	}

	var variants []string
	for _, f := range members {
		variants = append(variants, fmt.Sprintf("{ field: %q; value: %s }", ir.CamelCase(f.GetName()), oneofFieldType(f)))
	}
	return strings.Join(variants, " | "), nil
}

// oneofFieldType is a minimal, non-TypeMap-aware base type used only by
// generateOneOfProperty's own variants; unlike typeexpr.ToTypeName it
// never needs to resolve message/enum cross-file imports because this
// sketch never participates in real emission.
func oneofFieldType(f *descriptorpb.FieldDescriptorProto) string {
	switch f.GetType() {
	case descriptorpb.FieldDescriptorProto_TYPE_STRING:
		return "string"
	case descriptorpb.FieldDescriptorProto_TYPE_BOOL:
		return "boolean"
	case descriptorpb.FieldDescriptorProto_TYPE_BYTES:
		return "Uint8Array"
	default:
		return "number"
	}
}
