package ports

import "github.com/aalvaropc/seqyank/internal/domain"

// BatchLoader loads request batches from a source (e.g., filesystem).
type BatchLoader interface {
	LoadBatch(path string) (domain.BatchSpec, error)
	ListBatches(root string) ([]domain.BatchRef, error)
}
