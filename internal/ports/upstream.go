package ports

import (
	"context"
	"io"

	"github.com/aalvaropc/seqyank/internal/domain"
)

// AnnotationSource is the names collaborator: it reports how the upstream
// store actually names the requested sequences.
type AnnotationSource interface {
	Annotate(ctx context.Context, ids []domain.QualifiedID) ([]domain.AnnotationEntry, error)
}

// SequenceFetcher is the raw fetch collaborator. It returns one concatenated
// FASTA stream in retrieval order; the caller closes it.
type SequenceFetcher interface {
	Fetch(ctx context.Context, list []domain.ResolvedEntry) (io.ReadCloser, error)
}
