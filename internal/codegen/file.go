// File orchestrates the two-pass translation of one FileDescriptorProto
// into a finished CodeFile (spec.md §4.D "two full passes", §6 Output
// interface). Grounded on the teacher's Generator.Generate loop
// (internal/generate/js/generator.go buildJSFileData), restructured around
// the component functions in declarations.go/encoder.go/decoder.go instead
// of a single monolithic builder.
package codegen

import (
	"fmt"

	"github.com/pbts-gen/pbts/internal/typemap"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/pbts-gen/pbts/internal/visit"
)

// runtimeModule is the conventional import path for the Reader/Writer/Long
// surface the emitted file consumes (spec.md §6). Follows the
// protobufjs/ts-proto fork()/ldelim() API the spec's Runtime library
// surface literally names, rather than @protobuf-ts/runtime's IBinaryWriter
// shape seen elsewhere in the retrieved pack.
const runtimeModule = "protobufjs/minimal"

// File is the emitted-file artifact: Path is the basename-derived module
// path (spec.md §6), Content is the rendered source.
type File struct {
	Path    string
	Content []byte
}

// Generate runs the full two-pass translation for one input file and
// returns its emitted artifact. Pure with respect to (tm, fd): the same
// inputs always render the same bytes (spec.md §5).
func Generate(tm *typemap.TypeMap, fd *descriptorpb.FileDescriptorProto) (File, error) {
	var messages []visit.Message
	var enums []visit.Enum
	visit.Visit(fd,
		func(m visit.Message) { messages = append(messages, m) },
		func(e visit.Enum) { enums = append(enums, e) },
	)

	ownModule := typemap.ModuleForFile(fd.GetName())
	cf := NewCodeFile()

	// Declarations pass: every enum and message shape, so the codec pass
	// below never forward-references an undeclared type within this file.
	for _, e := range enums {
		cf = cf.WithDecl(EmitEnum(e))
	}
	for _, m := range messages {
		decl, deps, err := EmitInterface(tm, m)
		if err != nil {
			return File{}, err
		}
		cf = cf.WithDecl(decl)
		cf = addDepEntries(cf, ownModule, deps)
	}

	// Codec pass: base prototype, encode/decode functions, and the
	// exported { encode, decode } binding, per message.
	var needsLong, needsTimestamp, needsDuration bool
	for _, m := range messages {
		cf = cf.WithDecl(EmitBasePrototype(m))

		enc, err := EmitEncode(tm, m)
		if err != nil {
			return File{}, err
		}
		cf = cf.WithDecl(enc.Text)
		cf = addDepEntries(cf, ownModule, enc.Deps)
		needsLong = needsLong || enc.NeedsLong
		needsTimestamp = needsTimestamp || enc.NeedsTimestamp
		needsDuration = needsDuration || enc.NeedsDuration

		dec, err := EmitDecode(tm, m)
		if err != nil {
			return File{}, err
		}
		cf = cf.WithDecl(dec.Text)
		cf = addDepEntries(cf, ownModule, dec.Deps)
		needsLong = needsLong || dec.NeedsLong
		needsTimestamp = needsTimestamp || dec.NeedsTimestamp
		needsDuration = needsDuration || dec.NeedsDuration

		cf = cf.WithDecl(fmt.Sprintf("export const %s = { encode: encode%s, decode: decode%s };", m.Name, m.Name, m.Name))
	}

	cf = cf.WithDecl(tagHelper)
	cf = cf.WithDecl(wireConstHelper)
	if needsLong {
		cf = cf.WithImport(runtimeModule, "Long")
		cf = cf.WithDecl(longToNumberHelper)
	}
	if needsTimestamp {
		cf = cf.WithDecl(writeTimestampHelper)
		cf = cf.WithDecl(decodeTimestampHelper)
	}
	if needsDuration {
		cf = cf.WithDecl(writeDurationHelper)
		cf = cf.WithDecl(decodeDurationHelper)
	}
	if len(messages) > 0 {
		cf = cf.WithImport(runtimeModule, "Writer")
		cf = cf.WithImport(runtimeModule, "Reader")
	}

	return File{Path: ownModule, Content: cf.Render()}, nil
}

// addDepEntries registers imports for deps, skipping any entry whose
// module is this file's own output module: same-file message/enum
// references are resolved by the declarations pass, not an import.
func addDepEntries(cf CodeFile, ownModule string, deps []*typemap.Entry) CodeFile {
	for _, d := range deps {
		if d == nil || d.Module == ownModule {
			continue
		}
		cf = cf.WithImport(d.Module, d.TypeID)
	}
	return cf
}
