package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pbts-gen/pbts/internal/codegen"
	"github.com/pbts-gen/pbts/internal/emitfs"
	"github.com/pbts-gen/pbts/internal/parser"
	"github.com/pbts-gen/pbts/internal/typemap"
)

type stringList []string

func (s *stringList) String() string {
	return fmt.Sprint([]string(*s))
}

func (s *stringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}

func main() {
	var importPaths stringList
	var out string

	flag.Var(&importPaths, "proto_path", "proto import path (repeatable)")
	flag.StringVar(&out, "out", "", "output directory for generated TypeScript")
	flag.Parse()

	if len(flag.Args()) == 0 {
		fmt.Fprintln(os.Stderr, "no proto files provided")
		os.Exit(1)
	}
	if out == "" {
		fmt.Fprintln(os.Stderr, "-out is required")
		os.Exit(1)
	}
	if len(importPaths) == 0 {
		importPaths = append(importPaths, ".")
	}

	ctx := context.Background()
	p := parser.Parser{ImportPaths: importPaths}
	files, err := p.Parse(ctx, flag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	tm := typemap.Build(files)
	outputs, err := codegen.GenerateAll(tm, files)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := emitfs.WriteFiles(filepath.Clean(out), outputs); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
