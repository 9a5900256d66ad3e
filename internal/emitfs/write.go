// Package emitfs writes generated codegen.File artifacts to disk, each
// under an output root joined with the file's module-relative path plus a
// .ts extension. Grounded on the teacher's generate.WriteFiles
// (internal/generate/write.go).
package emitfs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pbts-gen/pbts/internal/codegen"
)

// WriteFiles writes each file in outputs to outDir, creating parent
// directories as needed. file.Path is a "./name"-style relative module
// path (spec.md §6); it's rebased under outDir and given a .ts extension.
func WriteFiles(outDir string, outputs []codegen.File) error {
	for _, file := range outputs {
		path := filepath.Join(outDir, strings.TrimPrefix(file.Path, "./")+".ts")
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create dir %s: %w", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, file.Content, 0o644); err != nil {
			return fmt.Errorf("write file %s: %w", path, err)
		}
	}
	return nil
}
