// Package codegen implements the Declaration Emitter, Encoder Emitter, and
// Decoder Emitter (spec.md §4.E/F/G): the two-pass translation from a
// parsed file descriptor into a TypeScript source file. Grounded on the
// teacher's generate.OutputFile / string-building style in
// internal/generate/js/generator.go, restructured around an immutable
// CodeFile builder per spec.md's Lifetimes section ("Code model objects are
// immutable after construction... each mutation returns a new value").
package codegen

import (
	"fmt"
	"sort"
	"strings"
)

// CodeFile is an ordered container of declarations plus an import set
// (spec.md §3 CodeFile glossary entry). Every With* method returns a new
// value; the receiver is never mutated.
type CodeFile struct {
	imports map[string]map[string]bool // module -> set of imported names
	decls   []string
}

// NewCodeFile returns an empty CodeFile.
func NewCodeFile() CodeFile {
	return CodeFile{imports: map[string]map[string]bool{}}
}

// WithImport returns a CodeFile with name imported from module added to
// the import set. A no-op if module is empty (native types need no
// import).
func (f CodeFile) WithImport(module, name string) CodeFile {
	if module == "" || name == "" {
		return f
	}
	next := f.clone()
	if next.imports[module] == nil {
		next.imports[module] = map[string]bool{}
	}
	next.imports[module][name] = true
	return next
}

// WithDecl returns a CodeFile with text appended as the next top-level
// declaration.
func (f CodeFile) WithDecl(text string) CodeFile {
	next := f.clone()
	next.decls = append(next.decls, text)
	return next
}

func (f CodeFile) clone() CodeFile {
	next := CodeFile{
		imports: make(map[string]map[string]bool, len(f.imports)),
		decls:   append([]string(nil), f.decls...),
	}
	for module, names := range f.imports {
		copied := make(map[string]bool, len(names))
		for n := range names {
			copied[n] = true
		}
		next.imports[module] = copied
	}
	return next
}

// Render serializes the CodeFile: a sorted block of import statements
// followed by each declaration in insertion order, separated by a blank
// line, matching the <imports>\n\n<declarations> shape of spec.md §6.
func (f CodeFile) Render() []byte {
	var b strings.Builder

	modules := make([]string, 0, len(f.imports))
	for module := range f.imports {
		modules = append(modules, module)
	}
	sort.Strings(modules)
	for _, module := range modules {
		names := make([]string, 0, len(f.imports[module]))
		for n := range f.imports[module] {
			names = append(names, n)
		}
		sort.Strings(names)
		fmt.Fprintf(&b, "import { %s } from \"%s\";\n", strings.Join(names, ", "), module)
	}
	if len(modules) > 0 {
		b.WriteString("\n")
	}

	for i, decl := range f.decls {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(decl)
	}
	if len(f.decls) > 0 {
		b.WriteString("\n")
	}
	return []byte(b.String())
}
