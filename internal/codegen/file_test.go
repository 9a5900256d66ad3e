package codegen

import (
	"strings"
	"testing"

	"github.com/pbts-gen/pbts/internal/ir"
	"github.com/pbts-gen/pbts/internal/typemap"
	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"
)

func scalarFd(name string, fields ...*descriptorpb.FieldDescriptorProto) *descriptorpb.FileDescriptorProto {
	return &descriptorpb.FileDescriptorProto{
		Name: proto.String(name),
		MessageType: []*descriptorpb.DescriptorProto{
			{Name: proto.String("M"), Field: fields},
		},
	}
}

func f(name string, num int32, typ descriptorpb.FieldDescriptorProto_Type, opts ...func(*descriptorpb.FieldDescriptorProto)) *descriptorpb.FieldDescriptorProto {
	ff := &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(num),
		Type:   &typ,
	}
	for _, o := range opts {
		o(ff)
	}
	return ff
}

func repeatedLabel(ff *descriptorpb.FieldDescriptorProto) {
	label := descriptorpb.FieldDescriptorProto_LABEL_REPEATED
	ff.Label = &label
}

func typeNameOpt(name string) func(*descriptorpb.FieldDescriptorProto) {
	return func(ff *descriptorpb.FieldDescriptorProto) { ff.TypeName = proto.String(name) }
}

// Scenario 1: empty message.
func TestScenarioEmptyMessage(t *testing.T) {
	fd := scalarFd("empty.proto")
	tm := typemap.Build([]*descriptorpb.FileDescriptorProto{fd})
	out, err := Generate(tm, fd)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	text := string(out.Content)
	if !strings.Contains(text, "function encodeM(message: M, writer: Writer = Writer.create()): Writer {\n    return writer;\n}") {
		t.Errorf("expected a no-op encode body for Empty, got:\n%s", text)
	}
}

// Scenario 2: scalar echo.
func TestScenarioScalarEcho(t *testing.T) {
	fd := scalarFd("m.proto", f("email", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING))
	tm := typemap.Build([]*descriptorpb.FileDescriptorProto{fd})
	out, err := Generate(tm, fd)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	text := string(out.Content)
	if !strings.Contains(text, "writer.uint32(tag(1, WIRE.LDELIM)).string(message.email);") {
		t.Errorf("missing unconditional scalar write, got:\n%s", text)
	}
	wantTag := uint32(protowire.EncodeTag(1, protowire.BytesType))
	if gotTag := ir.Tag(1, ir.WireLengthDelimited); gotTag != wantTag {
		t.Errorf("ir.Tag(1, LDELIM) = %#x, want %#x", gotTag, wantTag)
	}
	if wantTag != 0x0a {
		t.Errorf("tag for field 1 LDELIM = %#x, want 0x0a", wantTag)
	}
}

// Scenario 3: repeated packed.
func TestScenarioRepeatedPacked(t *testing.T) {
	fd := scalarFd("m.proto", f("xs", 1, descriptorpb.FieldDescriptorProto_TYPE_INT32, repeatedLabel))
	tm := typemap.Build([]*descriptorpb.FileDescriptorProto{fd})
	out, err := Generate(tm, fd)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	text := string(out.Content)
	if !strings.Contains(text, "writer.uint32(tag(1, WIRE.LDELIM)).bytes(packedWriter.finish());") {
		t.Errorf("missing packed encode, got:\n%s", text)
	}
	if !strings.Contains(text, "packedWriter.int32(item);") {
		t.Errorf("missing packed element write, got:\n%s", text)
	}
	if !strings.Contains(text, "if ((tagValue & 7) === 2) {") {
		t.Errorf("decoder must accept both packed and unpacked wire encodings, got:\n%s", text)
	}
}

// Scenario 4: nested message.
func TestScenarioNestedMessage(t *testing.T) {
	fd := &descriptorpb.FileDescriptorProto{
		Name: proto.String("nested.proto"),
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name: proto.String("Outer"),
				Field: []*descriptorpb.FieldDescriptorProto{
					f("inner", 2, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, typeNameOpt(".Inner")),
				},
			},
			{
				Name:  proto.String("Inner"),
				Field: []*descriptorpb.FieldDescriptorProto{f("n", 1, descriptorpb.FieldDescriptorProto_TYPE_INT32)},
			},
		},
	}
	tm := typemap.Build([]*descriptorpb.FileDescriptorProto{fd})
	out, err := Generate(tm, fd)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	text := string(out.Content)
	if !strings.Contains(text, "Inner.encode(message.inner, writer.uint32(tag(2, WIRE.LDELIM)).fork()).ldelim();") {
		t.Errorf("missing nested-message encode, got:\n%s", text)
	}
	wantTag := uint32(protowire.EncodeTag(2, protowire.BytesType))
	if wantTag != 0x12 {
		t.Fatalf("sanity check failed: tag(2, LDELIM) = %#x, want 0x12", wantTag)
	}
	if strings.Contains(text, "const baseOuter: Outer = {\n    inner:") {
		t.Errorf("base prototype must not seed a key for a message-typed field, got:\n%s", text)
	}
}

// Scenario 5: wrapper value.
func TestScenarioWrapperValue(t *testing.T) {
	fd := scalarFd("m.proto", f("s", 3, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, typeNameOpt(".google.protobuf.StringValue")))
	tm := typemap.Build([]*descriptorpb.FileDescriptorProto{fd})
	out, err := Generate(tm, fd)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	text := string(out.Content)
	if !strings.Contains(text, "StringValue.encode({ value: message.s }, writer.uint32(tag(3, WIRE.LDELIM)).fork()).ldelim();") {
		t.Errorf("missing wrapper-value encode, got:\n%s", text)
	}
	if !strings.Contains(text, "s: string | undefined;") {
		t.Errorf("wrapper field should render as native nullable type, got:\n%s", text)
	}
	if !strings.Contains(text, `import { StringValue } from "./wrappers";`) {
		t.Errorf("expected wrapper import, got:\n%s", text)
	}
}

// Scenario 6: enum field, written unconditionally even at its zero value.
func TestScenarioEnumField(t *testing.T) {
	fd := &descriptorpb.FileDescriptorProto{
		Name: proto.String("m.proto"),
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name:  proto.String("M"),
				Field: []*descriptorpb.FieldDescriptorProto{f("c", 1, descriptorpb.FieldDescriptorProto_TYPE_ENUM, typeNameOpt(".Color"))},
			},
		},
		EnumType: []*descriptorpb.EnumDescriptorProto{
			{
				Name: proto.String("Color"),
				Value: []*descriptorpb.EnumValueDescriptorProto{
					{Name: proto.String("RED"), Number: proto.Int32(0)},
					{Name: proto.String("GREEN"), Number: proto.Int32(1)},
				},
			},
		},
	}
	tm := typemap.Build([]*descriptorpb.FileDescriptorProto{fd})
	out, err := Generate(tm, fd)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	text := string(out.Content)
	if !strings.Contains(text, "writer.uint32(tag(1, WIRE.VARINT)).int32(message.c);") {
		t.Errorf("missing unconditional enum write, got:\n%s", text)
	}
	if strings.Contains(text, "if (message.c !== undefined") {
		t.Errorf("enum scalar must not be default-guarded, got:\n%s", text)
	}
}

// P5: name flattening carries through to the decoder's type references.
func TestNameFlatteningInGeneratedFile(t *testing.T) {
	fd := &descriptorpb.FileDescriptorProto{
		Name:    proto.String("nest.proto"),
		Package: proto.String("pkg"),
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name: proto.String("A"),
				NestedType: []*descriptorpb.DescriptorProto{
					{
						Name: proto.String("B"),
						NestedType: []*descriptorpb.DescriptorProto{
							{Name: proto.String("C")},
						},
						Field: []*descriptorpb.FieldDescriptorProto{
							f("c", 1, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, typeNameOpt(".pkg.A.B.C")),
						},
					},
				},
			},
		},
	}
	tm := typemap.Build([]*descriptorpb.FileDescriptorProto{fd})
	out, err := Generate(tm, fd)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	text := string(out.Content)
	if !strings.Contains(text, "export interface A_B {") {
		t.Errorf("expected flattened A_B interface, got:\n%s", text)
	}
	if !strings.Contains(text, "export interface A_B_C {") {
		t.Errorf("expected flattened A_B_C interface, got:\n%s", text)
	}
	if !strings.Contains(text, "A_B_C.decode(") {
		t.Errorf("decoder must reference the flattened name A_B_C, got:\n%s", text)
	}
}

// P7: base<Name> contains exactly the non-oneof fields at their defaults.
func TestBasePrototypeExcludesOneofFields(t *testing.T) {
	idx := int32(0)
	fd := scalarFd("m.proto",
		f("name", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
		f("tag", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING, func(ff *descriptorpb.FieldDescriptorProto) { ff.OneofIndex = &idx }),
	)
	tm := typemap.Build([]*descriptorpb.FileDescriptorProto{fd})
	out, err := Generate(tm, fd)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	text := string(out.Content)
	if !strings.Contains(text, `name: "",`) {
		t.Errorf("base prototype missing non-oneof field default, got:\n%s", text)
	}
	baseStart := strings.Index(text, "const baseM")
	baseEnd := strings.Index(text[baseStart:], "};") + baseStart
	baseBlock := text[baseStart:baseEnd]
	if strings.Contains(baseBlock, "tag:") {
		t.Errorf("base prototype must not seed oneof fields, got:\n%s", baseBlock)
	}
}

// P6: unknown field numbers are skipped via skipType, not rejected.
func TestUnknownFieldToleranceShape(t *testing.T) {
	fd := scalarFd("m.proto", f("email", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING))
	tm := typemap.Build([]*descriptorpb.FileDescriptorProto{fd})
	out, err := Generate(tm, fd)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	text := string(out.Content)
	if !strings.Contains(text, "default:\n                reader.skipType(tagValue & 7);") {
		t.Errorf("missing unknown-field skip in decode loop, got:\n%s", text)
	}
}

func TestGenerateAllPreservesOrder(t *testing.T) {
	fdA := scalarFd("a.proto", f("x", 1, descriptorpb.FieldDescriptorProto_TYPE_INT32))
	fdB := scalarFd("b.proto", f("y", 1, descriptorpb.FieldDescriptorProto_TYPE_INT32))
	tm := typemap.Build([]*descriptorpb.FileDescriptorProto{fdA, fdB})
	files, err := GenerateAll(tm, []*descriptorpb.FileDescriptorProto{fdA, fdB})
	if err != nil {
		t.Fatalf("GenerateAll error: %v", err)
	}
	if len(files) != 2 || files[0].Path != "./a" || files[1].Path != "./b" {
		t.Fatalf("GenerateAll order = %+v, want [./a ./b]", files)
	}
}

func TestGenerateRejectsMapField(t *testing.T) {
	fd := &descriptorpb.FileDescriptorProto{
		Name: proto.String("m.proto"),
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name: proto.String("M"),
				Field: []*descriptorpb.FieldDescriptorProto{
					f("tags", 1, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, typeNameOpt(".M.TagsEntry"), repeatedLabel),
				},
				NestedType: []*descriptorpb.DescriptorProto{
					{
						Name:    proto.String("TagsEntry"),
						Options: &descriptorpb.MessageOptions{MapEntry: proto.Bool(true)},
						Field: []*descriptorpb.FieldDescriptorProto{
							f("key", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
							f("value", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
						},
					},
				},
			},
		},
	}
	tm := typemap.Build([]*descriptorpb.FileDescriptorProto{fd})
	if _, err := Generate(tm, fd); err == nil {
		t.Fatal("expected an UnhandledFieldShape error for a map field, got nil")
	}
}
