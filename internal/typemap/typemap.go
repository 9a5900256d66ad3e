// Package typemap implements the Type Mapping Table (spec.md §4.A): a
// read-only, once-built index from fully-qualified proto type names to the
// output module and identifier they resolve to. Grounded on the teacher's
// indexMessages (internal/generate/js/generator.go) but keyed by proto name
// rather than by generated ir.Message, since callers look types up by the
// dotted name found in a field's type_name.
package typemap

import (
	"fmt"
	"strings"

	"github.com/pbts-gen/pbts/internal/visit"
	"google.golang.org/protobuf/types/descriptorpb"
)

// Entry is the (module, type_id) pair a fully-qualified proto name resolves
// to.
type Entry struct {
	Module string
	TypeID string
}

// TypeExpr is a type-name renderer result: Text is the expression to emit
// inline; ImportModule/ImportName are set when Text requires an import
// (empty when Text is a self-contained native expression, e.g. a wrapper's
// unwrapped native type).
type TypeExpr struct {
	Text         string
	ImportModule string
	ImportName   string
}

// UnknownType is returned by Lookup when proto_name has no entry.
type UnknownType struct {
	ProtoName string
}

func (e *UnknownType) Error() string {
	return fmt.Sprintf("unknown type: %s", e.ProtoName)
}

// wrapper value type set (spec.md §4.A), resolved to their unwrapped native
// TypeScript type when keep_wrapper is false.
var wrapperNativeTypes = map[string]string{
	".google.protobuf.StringValue": "string | undefined",
	".google.protobuf.Int32Value":  "number | undefined",
	".google.protobuf.BoolValue":   "boolean | undefined",
}

// wrappersModule is the conventional module wrapper value messages are
// imported from when keep_wrapper is true (they are still real messages on
// the wire, encoded via Wrapper.encode/decode).
const wrappersModule = "./wrappers"

var wrapperEntries = map[string]Entry{
	".google.protobuf.StringValue": {Module: wrappersModule, TypeID: "StringValue"},
	".google.protobuf.Int32Value":  {Module: wrappersModule, TypeID: "Int32Value"},
	".google.protobuf.BoolValue":   {Module: wrappersModule, TypeID: "BoolValue"},
}

// TypeMap is the built index. Zero value is not usable; construct with
// Build.
type TypeMap struct {
	entries    map[string]Entry
	mapEntries map[string]bool
}

// ModuleForFile derives the output module path from a FileDescriptor's
// logical name (spec.md §6): basename with ".proto" stripped and "/"
// replaced by "_", as a relative import path.
func ModuleForFile(protoPath string) string {
	name := strings.TrimSuffix(protoPath, ".proto")
	name = strings.ReplaceAll(name, "/", "_")
	return "./" + name
}

// Build indexes every message and enum across all input files, keyed by
// their fully-qualified proto name (without leading dot). It's run once,
// over the whole input set, before any emission starts — TypeMap is
// read-only from then on (spec.md "Lifetimes").
func Build(files []*descriptorpb.FileDescriptorProto) *TypeMap {
	tm := &TypeMap{entries: make(map[string]Entry), mapEntries: make(map[string]bool)}
	for _, fd := range files {
		module := ModuleForFile(fd.GetName())
		visit.Visit(fd,
			func(m visit.Message) {
				tm.entries[m.FullName] = Entry{Module: module, TypeID: m.Name}
			},
			func(e visit.Enum) {
				tm.entries[e.FullName] = Entry{Module: module, TypeID: e.Name}
			},
		)
		dottedPrefix := ""
		if fd.GetPackage() != "" {
			dottedPrefix = fd.GetPackage() + "."
		}
		collectMapEntries(fd.GetMessageType(), dottedPrefix, tm.mapEntries)
	}
	return tm
}

// collectMapEntries records the fully-qualified names of synthetic
// map<K,V> entry messages (descriptorpb marks these with
// MessageOptions.map_entry), which visit.Visit deliberately skips. Map
// fields are an explicit Non-goal; IsMapEntry lets callers reject them
// with UnhandledFieldShape instead of an opaque UnknownType miss.
func collectMapEntries(msgs []*descriptorpb.DescriptorProto, dottedPrefix string, out map[string]bool) {
	for _, m := range msgs {
		fullName := dottedPrefix + m.GetName()
		if m.GetOptions().GetMapEntry() {
			out[fullName] = true
		}
		collectMapEntries(m.GetNestedType(), fullName+".", out)
	}
}

// IsMapEntry reports whether protoName (fully-qualified, leading dot
// optional) names a synthetic map entry message.
func (tm *TypeMap) IsMapEntry(protoName string) bool {
	return tm.mapEntries[strings.TrimPrefix(protoName, ".")]
}

// Lookup resolves proto_name (fully-qualified, leading dot optional) to its
// (module, type_id) pair. Wrapper value types resolve to their ./wrappers
// entry here; callers that want the unwrapped native type use Resolve.
func (tm *TypeMap) Lookup(protoName string) (Entry, error) {
	key := strings.TrimPrefix(protoName, ".")
	if e, ok := wrapperEntries[protoName]; ok {
		return e, nil
	}
	if e, ok := wrapperEntries["."+key]; ok {
		return e, nil
	}
	if e, ok := tm.entries[key]; ok {
		return e, nil
	}
	return Entry{}, &UnknownType{ProtoName: protoName}
}

// Resolve produces the type expression a field referencing proto_name
// should render to. When proto_name is a wrapper value type and keepWrapper
// is false, the native nullable scalar type is returned with no import
// (spec.md §4.A). Otherwise the imported type_id is returned.
func (tm *TypeMap) Resolve(protoName string, keepWrapper bool) (TypeExpr, error) {
	dotted := protoName
	if !strings.HasPrefix(dotted, ".") {
		dotted = "." + dotted
	}
	if native, ok := wrapperNativeTypes[dotted]; ok && !keepWrapper {
		return TypeExpr{Text: native}, nil
	}
	entry, err := tm.Lookup(protoName)
	if err != nil {
		return TypeExpr{}, err
	}
	return TypeExpr{Text: entry.TypeID, ImportModule: entry.Module, ImportName: entry.TypeID}, nil
}
