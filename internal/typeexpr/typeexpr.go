// Package typeexpr implements the Type-Name Renderer (spec.md §4.C):
// given a TypeMap and a field, produces the emitted-code type expression
// and default value. Grounded on the teacher's jsBaseType/jsDocType/
// jsDefaultValue (internal/generate/js/generator.go), generalized from
// ir.Field/ir.Kind to descriptorpb.FieldDescriptorProto.
package typeexpr

import (
	"fmt"

	"github.com/pbts-gen/pbts/internal/classify"
	"github.com/pbts-gen/pbts/internal/typemap"
	"google.golang.org/protobuf/types/descriptorpb"
)

// Result is a rendered field type: Text is the expression to emit; Dep is
// set when Text requires an import (nil for self-contained native types).
type Result struct {
	Text string
	Dep  *typemap.Entry
}

// ToTypeName renders field f's emitted-code type expression following the
// four-step algorithm of spec.md §4.C: base type, oneof-nullable wrap,
// message-nullable wrap, repeated wrap.
func ToTypeName(tm *typemap.TypeMap, f *classify.Field) (Result, error) {
	base, dep, err := basicTypeName(tm, f)
	if err != nil {
		return Result{}, err
	}
	text := base
	// Wrapper value fields already render as a fully-nullable native type
	// (typemap.Resolve with keepWrapper=false), so skip the generic
	// message-nullable wrap here or the type would read "T | undefined |
	// undefined".
	if classify.IsWrapperValue(f) {
		// no further wrap
	} else if classify.IsWithinOneof(f) {
		text = text + " | undefined"
	} else if classify.IsMessage(f) {
		text = text + " | undefined"
	}
	if classify.IsRepeated(f) {
		text = "(" + text + ")[]"
	}
	return Result{Text: text, Dep: dep}, nil
}

// basicTypeName is step 1 of §4.C: primitive scalars map to obvious native
// types; google.protobuf.Timestamp and Duration map to native Date and
// number (milliseconds); other MESSAGE/ENUM types consult the TypeMap (§4.A).
func basicTypeName(tm *typemap.TypeMap, f *classify.Field) (string, *typemap.Entry, error) {
	if classify.IsWellKnownTimestamp(f) {
		return "Date", nil, nil
	}
	if classify.IsWellKnownDuration(f) {
		return "number", nil, nil
	}
	if classify.IsMessage(f) || f.GetType() == descriptorpb.FieldDescriptorProto_TYPE_ENUM {
		if tm.IsMapEntry(f.GetTypeName()) {
			return "", nil, &classify.UnhandledFieldShape{FieldName: f.GetName()}
		}
		expr, err := tm.Resolve(f.GetTypeName(), false)
		if err != nil {
			return "", nil, err
		}
		if expr.ImportModule == "" {
			return expr.Text, nil, nil
		}
		return expr.Text, &typemap.Entry{Module: expr.ImportModule, TypeID: expr.ImportName}, nil
	}
	switch f.GetType() {
	case descriptorpb.FieldDescriptorProto_TYPE_STRING:
		return "string", nil, nil
	case descriptorpb.FieldDescriptorProto_TYPE_BYTES:
		return "Uint8Array", nil, nil
	case descriptorpb.FieldDescriptorProto_TYPE_BOOL:
		return "boolean", nil, nil
	case descriptorpb.FieldDescriptorProto_TYPE_FLOAT,
		descriptorpb.FieldDescriptorProto_TYPE_DOUBLE,
		descriptorpb.FieldDescriptorProto_TYPE_INT32,
		descriptorpb.FieldDescriptorProto_TYPE_UINT32,
		descriptorpb.FieldDescriptorProto_TYPE_SINT32,
		descriptorpb.FieldDescriptorProto_TYPE_FIXED32,
		descriptorpb.FieldDescriptorProto_TYPE_SFIXED32,
		descriptorpb.FieldDescriptorProto_TYPE_INT64,
		descriptorpb.FieldDescriptorProto_TYPE_UINT64,
		descriptorpb.FieldDescriptorProto_TYPE_SINT64,
		descriptorpb.FieldDescriptorProto_TYPE_FIXED64,
		descriptorpb.FieldDescriptorProto_TYPE_SFIXED64:
		return "number", nil, nil
	default:
		return "", nil, fmt.Errorf("typeexpr: unhandled field type %v", f.GetType())
	}
}

// DefaultValue renders the default-value literal used by the encoder's
// skip logic and by the base prototype (spec.md §4.C).
func DefaultValue(f *classify.Field) string {
	if classify.IsRepeated(f) {
		return "[]"
	}
	return ElementDefaultValue(f)
}

// ElementDefaultValue is DefaultValue without the repeated short-circuit:
// the default a single element of f would take, used by the encoder's
// per-item presence guard inside a repeated loop where the enclosing
// accessor is already an individual element, not the array (spec.md §4.F
// "within oneof"/"nested message" guards apply per element, not per
// array).
func ElementDefaultValue(f *classify.Field) string {
	if classify.IsWellKnownTimestamp(f) {
		return "undefined"
	}
	if classify.IsWellKnownDuration(f) {
		return "undefined"
	}
	if classify.IsWrapperValue(f) {
		return "undefined"
	}
	if classify.IsMessage(f) {
		return "undefined"
	}
	switch f.GetType() {
	case descriptorpb.FieldDescriptorProto_TYPE_STRING:
		return `""`
	case descriptorpb.FieldDescriptorProto_TYPE_BYTES:
		return "new Uint8Array(0)"
	case descriptorpb.FieldDescriptorProto_TYPE_BOOL:
		return "false"
	case descriptorpb.FieldDescriptorProto_TYPE_FLOAT,
		descriptorpb.FieldDescriptorProto_TYPE_DOUBLE:
		return "0.0"
	default:
		return "0"
	}
}
