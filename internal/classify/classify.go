// Package classify implements the Type Classifier (spec.md §4.B): pure
// predicates and scalar-method lookups over *descriptorpb.FieldDescriptorProto,
// grounded on the teacher's jsWireType/jsWriterMethod/jsIsPackable family in
// internal/generate/js/generator.go, adapted from the teacher's ir.Kind enum
// to operate directly on descriptorpb field types.
package classify

import (
	"fmt"

	"github.com/pbts-gen/pbts/internal/ir"
	"google.golang.org/protobuf/types/descriptorpb"
)

type Field = descriptorpb.FieldDescriptorProto

// UnhandledFieldShape is returned when a field's (type, label) combination
// isn't one the generator handles — currently only map<K,V> fields, an
// explicit Non-goal (spec.md §7 error kind 2, §9 "Map fields").
type UnhandledFieldShape struct {
	FieldName string
}

func (e *UnhandledFieldShape) Error() string {
	return fmt.Sprintf("unhandled field shape: %s (map fields are not supported)", e.FieldName)
}

// wrapperValueTypes is the wrapper value type set (spec.md §4.A).
var wrapperValueTypes = map[string]bool{
	".google.protobuf.StringValue": true,
	".google.protobuf.Int32Value":  true,
	".google.protobuf.BoolValue":   true,
}

const (
	timestampTypeName = ".google.protobuf.Timestamp"
	durationTypeName  = ".google.protobuf.Duration"
)

// IsMessage reports whether f's declared type is MESSAGE.
func IsMessage(f *Field) bool {
	return f.GetType() == descriptorpb.FieldDescriptorProto_TYPE_MESSAGE
}

// IsEnum reports whether f's declared type is ENUM.
func IsEnum(f *Field) bool {
	return f.GetType() == descriptorpb.FieldDescriptorProto_TYPE_ENUM
}

// IsPrimitive is the complement of IsMessage: enums travel as varints so
// they're classified with the scalars for read/write purposes.
func IsPrimitive(f *Field) bool {
	return !IsMessage(f)
}

// IsRepeated reports whether f is a proto3 repeated field.
func IsRepeated(f *Field) bool {
	return f.GetLabel() == descriptorpb.FieldDescriptorProto_LABEL_REPEATED
}

// IsWithinOneof reports whether f has a oneof index, which includes the
// synthetic oneof of a proto3 `optional` field. Unlike the teacher, which
// rejects real oneofs outright in
// collectFields, this generalizes to accept them: the encode/decode tables
// both give "within oneof" fields explicit treatment.
func IsWithinOneof(f *Field) bool {
	return f.OneofIndex != nil
}

// IsWrapperValue reports whether f's message type is one of the wrapper
// value types.
func IsWrapperValue(f *Field) bool {
	return IsMessage(f) && wrapperValueTypes[f.GetTypeName()]
}

// IsWellKnownTimestamp reports whether f's message type is
// google.protobuf.Timestamp.
func IsWellKnownTimestamp(f *Field) bool {
	return IsMessage(f) && f.GetTypeName() == timestampTypeName
}

// IsWellKnownDuration reports whether f's message type is
// google.protobuf.Duration.
func IsWellKnownDuration(f *Field) bool {
	return IsMessage(f) && f.GetTypeName() == durationTypeName
}

// IsPackable reports whether f's type is a scalar numeric or enum (spec.md
// §3 invariant 4, §4.F): messages, strings, and bytes are never packable.
func IsPackable(f *Field) bool {
	switch f.GetType() {
	case descriptorpb.FieldDescriptorProto_TYPE_STRING,
		descriptorpb.FieldDescriptorProto_TYPE_BYTES,
		descriptorpb.FieldDescriptorProto_TYPE_MESSAGE,
		descriptorpb.FieldDescriptorProto_TYPE_GROUP:
		return false
	default:
		return true
	}
}

// IsPacked reports whether a repeated, packable field is actually emitted
// packed: proto3 packs repeated scalar/enum fields by default unless the
// field explicitly opts out via [packed = false].
func IsPacked(f *Field) bool {
	if !IsRepeated(f) || !IsPackable(f) {
		return false
	}
	if opts := f.GetOptions(); opts != nil && opts.Packed != nil {
		return opts.GetPacked()
	}
	return true
}

// Is64Bit reports whether f's scalar type needs 64-bit narrowing on decode
// (spec.md §4.F "scalar primitive, 64-bit int").
func Is64Bit(f *Field) bool {
	switch f.GetType() {
	case descriptorpb.FieldDescriptorProto_TYPE_INT64,
		descriptorpb.FieldDescriptorProto_TYPE_UINT64,
		descriptorpb.FieldDescriptorProto_TYPE_SINT64,
		descriptorpb.FieldDescriptorProto_TYPE_FIXED64,
		descriptorpb.FieldDescriptorProto_TYPE_SFIXED64:
		return true
	default:
		return false
	}
}

// BasicWireType returns the wire type used to encode f's scalar value,
// defined exactly when f is a scalar primitive (spec.md §3 invariant 4).
// The bool result is false for message fields, where wire type is always
// length-delimited but computed by the caller rather than looked up here.
func BasicWireType(f *Field) (ir.WireType, bool) {
	if IsMessage(f) {
		return 0, false
	}
	switch f.GetType() {
	case descriptorpb.FieldDescriptorProto_TYPE_STRING,
		descriptorpb.FieldDescriptorProto_TYPE_BYTES:
		return ir.WireLengthDelimited, true
	case descriptorpb.FieldDescriptorProto_TYPE_FIXED32,
		descriptorpb.FieldDescriptorProto_TYPE_SFIXED32,
		descriptorpb.FieldDescriptorProto_TYPE_FLOAT:
		return ir.WireFixed32, true
	case descriptorpb.FieldDescriptorProto_TYPE_FIXED64,
		descriptorpb.FieldDescriptorProto_TYPE_SFIXED64,
		descriptorpb.FieldDescriptorProto_TYPE_DOUBLE:
		return ir.WireFixed64, true
	default:
		return ir.WireVarint, true
	}
}

// WireTypeOf returns the wire type used on the wire for f, including
// message fields (always length-delimited).
func WireTypeOf(f *Field) ir.WireType {
	if IsMessage(f) {
		return ir.WireLengthDelimited
	}
	wt, _ := BasicWireType(f)
	return wt
}

// ScalarMethod returns the Writer/Reader method name used for f's scalar
// type (e.g. "int32", "sint64", "bool"), grounded on the teacher's
// jsWriterMethod/jsReaderMethod (they share one name per type in both
// directions). Defined exactly when f is a scalar primitive.
func ScalarMethod(f *Field) (string, bool) {
	switch f.GetType() {
	case descriptorpb.FieldDescriptorProto_TYPE_BOOL:
		return "bool", true
	case descriptorpb.FieldDescriptorProto_TYPE_INT32:
		return "int32", true
	case descriptorpb.FieldDescriptorProto_TYPE_INT64:
		return "int64", true
	case descriptorpb.FieldDescriptorProto_TYPE_UINT32:
		return "uint32", true
	case descriptorpb.FieldDescriptorProto_TYPE_UINT64:
		return "uint64", true
	case descriptorpb.FieldDescriptorProto_TYPE_SINT32:
		return "sint32", true
	case descriptorpb.FieldDescriptorProto_TYPE_SINT64:
		return "sint64", true
	case descriptorpb.FieldDescriptorProto_TYPE_FIXED32:
		return "fixed32", true
	case descriptorpb.FieldDescriptorProto_TYPE_FIXED64:
		return "fixed64", true
	case descriptorpb.FieldDescriptorProto_TYPE_SFIXED32:
		return "sfixed32", true
	case descriptorpb.FieldDescriptorProto_TYPE_SFIXED64:
		return "sfixed64", true
	case descriptorpb.FieldDescriptorProto_TYPE_FLOAT:
		return "float", true
	case descriptorpb.FieldDescriptorProto_TYPE_DOUBLE:
		return "double", true
	case descriptorpb.FieldDescriptorProto_TYPE_STRING:
		return "string", true
	case descriptorpb.FieldDescriptorProto_TYPE_BYTES:
		return "bytes", true
	case descriptorpb.FieldDescriptorProto_TYPE_ENUM:
		return "int32", true
	default:
		return "", false
	}
}

// ToReaderCall is an alias for ScalarMethod: reader and writer share a
// method name per scalar type, so `toReaderCall(field.type)` (spec.md §3
// invariant 4) and ScalarMethod resolve to the same string.
func ToReaderCall(f *Field) (string, bool) {
	return ScalarMethod(f)
}

// PackedType returns the scalar method used inside a packed run, defined
// exactly when f is packable. It coincides with ScalarMethod for every
// packable type since enums and numerics share reader/writer method names.
func PackedType(f *Field) (string, bool) {
	if !IsPackable(f) {
		return "", false
	}
	return ScalarMethod(f)
}
