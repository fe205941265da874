package gdocs

import (
	"context"

	"github.com/draftwell/grantdocs/internal/docgen"
)

// Shape is the structural snapshot of a document: every table's discovered
// cell addressing, in document order, plus the body end index.
type Shape struct {
	Tables []docgen.TableHandle
	End    int64
}

// Service is the remote document service the build pipeline talks to. The
// batch contract matters: BatchMutate applies its ops atomically and in
// array order against the service's own copy of the document, which is what
// makes the planner's precomputed positions valid.
type Service interface {
	Create(ctx context.Context, title string) (string, error)
	BatchMutate(ctx context.Context, docID string, ops []docgen.Op) error
	Structure(ctx context.Context, docID string) (*Shape, error)
	Move(ctx context.Context, docID, folderID string) error
	Link(docID string) string
}
