// Package visit implements the Descriptor Visitor (spec.md §4.D): a
// pre-order traversal of a file's message/enum tree that produces
// (fully_qualified_name, descriptor) pairs with correct nested-name
// prefixing.
package visit

import (
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/pbts-gen/pbts/internal/ir"
)

// Message is one visited message: Name is the flattened local identifier
// emitted into source (e.g. "Outer_Inner", per invariant 2); FullName is
// the fully-qualified proto name with the package prefix but no leading
// dot (e.g. "pkg.Outer.Inner"), the key used by the Type Mapping Table.
type Message struct {
	Name     string
	FullName string
	Desc     *descriptorpb.DescriptorProto
}

// Enum is the enum analogue of Message.
type Enum struct {
	Name     string
	FullName string
	Desc     *descriptorpb.EnumDescriptorProto
}

// Visit walks a file descriptor's top-level and nested message/enum
// declarations in pre-order, invoking onMessage/onEnum for each. Emission
// order matches the file's declaration order; callers that need a
// different grouping (e.g. "all enums first") post-process the results.
func Visit(fd *descriptorpb.FileDescriptorProto, onMessage func(Message), onEnum func(Enum)) {
	dottedPrefix := ""
	if fd.GetPackage() != "" {
		dottedPrefix = fd.GetPackage() + "."
	}
	visitEnums(fd.GetEnumType(), "", dottedPrefix, onEnum)
	visitMessages(fd.GetMessageType(), "", dottedPrefix, onMessage, onEnum)
}

func visitEnums(enums []*descriptorpb.EnumDescriptorProto, flatPrefix, dottedPrefix string, onEnum func(Enum)) {
	for _, e := range enums {
		onEnum(Enum{
			Name:     flatPrefix + ir.PascalCase(e.GetName()),
			FullName: dottedPrefix + e.GetName(),
			Desc:     e,
		})
	}
}

func visitMessages(msgs []*descriptorpb.DescriptorProto, flatPrefix, dottedPrefix string, onMessage func(Message), onEnum func(Enum)) {
	for _, m := range msgs {
		if m.GetOptions().GetMapEntry() {
			// Synthetic map<K,V> entry message; map fields are an
			// explicit Non-goal (spec.md §1) and a field referencing one
			// is rejected with classify.UnhandledFieldShape via
			// TypeMap.IsMapEntry. Skipping the synthetic wrapper here
			// keeps the visited set free of descriptors that were never
			// written by a user.
			continue
		}
		flatName := flatPrefix + ir.PascalCase(m.GetName())
		fullName := dottedPrefix + m.GetName()
		onMessage(Message{Name: flatName, FullName: fullName, Desc: m})
		visitEnums(m.GetEnumType(), flatName+"_", fullName+".", onEnum)
		visitMessages(m.GetNestedType(), flatName+"_", fullName+".", onMessage, onEnum)
	}
}
