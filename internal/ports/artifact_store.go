package ports

import "github.com/aalvaropc/seqyank/internal/domain"

// ArtifactStore persists batch artifacts for reproducibility.
type ArtifactStore interface {
	SaveBatch(run domain.BatchArtifact) (id string, err error)
}
