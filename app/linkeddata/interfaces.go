package linkeddata

import (
	"context"

	"github.com/lysyi3m/foaf-comb/app/graph"
)

// Parser dereferences a URI into a graph fragment. Implementations must
// honour ctx cancellation.
type Parser interface {
	Parse(ctx context.Context, uri string) (graph.Index, error)
}

// ContentExtractor fetches the page behind link and returns its main content.
type ContentExtractor interface {
	Extract(ctx context.Context, link string) (string, error)
}
