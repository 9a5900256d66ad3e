package codegen

import (
	"context"

	"golang.org/x/sync/errgroup"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/pbts-gen/pbts/internal/typemap"
)

// GenerateAll runs Generate once per input file, possibly in parallel
// (spec.md §5: "Multiple files may be generated in parallel... no shared
// mutable state exists beyond the read-only TypeMap"). Results preserve
// the input order regardless of completion order.
func GenerateAll(tm *typemap.TypeMap, files []*descriptorpb.FileDescriptorProto) ([]File, error) {
	results := make([]File, len(files))
	g, _ := errgroup.WithContext(context.Background())
	for i, fd := range files {
		i, fd := i, fd
		g.Go(func() error {
			f, err := Generate(tm, fd)
			if err != nil {
				return err
			}
			results[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
