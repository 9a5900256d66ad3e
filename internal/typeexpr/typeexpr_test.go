package typeexpr

import (
	"testing"

	"github.com/pbts-gen/pbts/internal/typemap"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"
)

func field(typ descriptorpb.FieldDescriptorProto_Type, opts ...func(*descriptorpb.FieldDescriptorProto)) *descriptorpb.FieldDescriptorProto {
	f := &descriptorpb.FieldDescriptorProto{Type: &typ}
	for _, o := range opts {
		o(f)
	}
	return f
}

func repeated(f *descriptorpb.FieldDescriptorProto) {
	label := descriptorpb.FieldDescriptorProto_LABEL_REPEATED
	f.Label = &label
}

func withinOneof(idx int32) func(*descriptorpb.FieldDescriptorProto) {
	return func(f *descriptorpb.FieldDescriptorProto) { f.OneofIndex = &idx }
}

func typeName(name string) func(*descriptorpb.FieldDescriptorProto) {
	return func(f *descriptorpb.FieldDescriptorProto) { f.TypeName = proto.String(name) }
}

func emptyTypeMap() *typemap.TypeMap {
	return typemap.Build(nil)
}

func TestToTypeNameScalar(t *testing.T) {
	tm := emptyTypeMap()
	res, err := ToTypeName(tm, field(descriptorpb.FieldDescriptorProto_TYPE_STRING))
	if err != nil {
		t.Fatalf("ToTypeName error: %v", err)
	}
	if res.Text != "string" {
		t.Errorf("Text = %q, want string", res.Text)
	}
}

func TestToTypeNameRepeatedScalar(t *testing.T) {
	tm := emptyTypeMap()
	res, err := ToTypeName(tm, field(descriptorpb.FieldDescriptorProto_TYPE_INT32, repeated))
	if err != nil {
		t.Fatalf("ToTypeName error: %v", err)
	}
	if res.Text != "(number)[]" {
		t.Errorf("Text = %q, want (number)[]", res.Text)
	}
}

func TestToTypeNameMessageIsNullable(t *testing.T) {
	fd := &descriptorpb.FileDescriptorProto{
		Name:    proto.String("m.proto"),
		Package: proto.String("pkg"),
		MessageType: []*descriptorpb.DescriptorProto{
			{Name: proto.String("Nested")},
		},
	}
	tm := typemap.Build([]*descriptorpb.FileDescriptorProto{fd})

	res, err := ToTypeName(tm, field(descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, typeName(".pkg.Nested")))
	if err != nil {
		t.Fatalf("ToTypeName error: %v", err)
	}
	if res.Text != "Nested | undefined" {
		t.Errorf("Text = %q, want Nested | undefined", res.Text)
	}
	if res.Dep == nil || res.Dep.Module != "./m" {
		t.Errorf("Dep = %+v, want module ./m", res.Dep)
	}
}

func TestToTypeNameWithinOneofScalar(t *testing.T) {
	tm := emptyTypeMap()
	res, err := ToTypeName(tm, field(descriptorpb.FieldDescriptorProto_TYPE_BOOL, withinOneof(0)))
	if err != nil {
		t.Fatalf("ToTypeName error: %v", err)
	}
	if res.Text != "boolean | undefined" {
		t.Errorf("Text = %q, want boolean | undefined", res.Text)
	}
}

func TestToTypeNameWrapperValueNotDoubleWrapped(t *testing.T) {
	tm := emptyTypeMap()
	res, err := ToTypeName(tm, field(descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, typeName(".google.protobuf.StringValue")))
	if err != nil {
		t.Fatalf("ToTypeName error: %v", err)
	}
	if res.Text != "string | undefined" {
		t.Errorf("Text = %q, want string | undefined (no double wrap)", res.Text)
	}
}

func TestDefaultValue(t *testing.T) {
	cases := []struct {
		f    *descriptorpb.FieldDescriptorProto
		want string
	}{
		{field(descriptorpb.FieldDescriptorProto_TYPE_STRING), `""`},
		{field(descriptorpb.FieldDescriptorProto_TYPE_BOOL), "false"},
		{field(descriptorpb.FieldDescriptorProto_TYPE_INT32), "0"},
		{field(descriptorpb.FieldDescriptorProto_TYPE_DOUBLE), "0.0"},
		{field(descriptorpb.FieldDescriptorProto_TYPE_BYTES), "new Uint8Array(0)"},
		{field(descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, typeName(".pkg.X")), "undefined"},
		{field(descriptorpb.FieldDescriptorProto_TYPE_INT32, repeated), "[]"},
	}
	for _, tc := range cases {
		if got := DefaultValue(tc.f); got != tc.want {
			t.Errorf("DefaultValue(%v) = %q, want %q", tc.f.GetType(), got, tc.want)
		}
	}
}
