package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/aalvaropc/seqyank/internal/domain"
)

type fakeBatchLoader struct {
	batches map[string]domain.BatchSpec
}

func (f fakeBatchLoader) LoadBatch(path string) (domain.BatchSpec, error) {
	b, ok := f.batches[path]
	if !ok {
		return domain.BatchSpec{}, &domain.OpError{Op: "batchfile.load", Kind: domain.KindNotFound, Path: path, Err: domain.ErrNotFound}
	}
	b.Path = path
	return b, nil
}

func (f fakeBatchLoader) ListBatches(_ string) ([]domain.BatchRef, error) {
	return nil, nil
}

// fakeNames answers every query with a fixed report and records the query.
type fakeNames struct {
	mu      sync.Mutex
	entries []domain.AnnotationEntry
	err     error
	queries [][]domain.QualifiedID
}

func (f *fakeNames) Annotate(ctx context.Context, ids []domain.QualifiedID) ([]domain.AnnotationEntry, error) {
	f.mu.Lock()
	f.queries = append(f.queries, ids)
	f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.entries, f.err
}

// fakeFetcher streams a canned FASTA text.
type fakeFetcher struct {
	mu     sync.Mutex
	stream string
	err    error
	lists  [][]domain.ResolvedEntry
}

func (f *fakeFetcher) Fetch(_ context.Context, list []domain.ResolvedEntry) (io.ReadCloser, error) {
	f.mu.Lock()
	f.lists = append(f.lists, list)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return io.NopCloser(strings.NewReader(f.stream)), nil
}

type fakeStore struct {
	mu    sync.Mutex
	saved []domain.BatchArtifact
}

func (s *fakeStore) SaveBatch(run domain.BatchArtifact) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, run)
	return "batch-123", nil
}

type errStore struct{ err error }

func (s errStore) SaveBatch(_ domain.BatchArtifact) (string, error) {
	return "", s.err
}

var errBoom = errors.New("boom")

func preferred(ids ...string) []domain.AnnotationEntry {
	out := make([]domain.AnnotationEntry, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.NewAnnotationEntry("GB_NEW", id, "GB_NEW"))
	}
	return out
}

func standard(ids ...string) []domain.AnnotationEntry {
	out := make([]domain.AnnotationEntry, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.NewAnnotationEntry("GBALL", id, "GB_NEW"))
	}
	return out
}

func testConfig(overlap int) domain.Config {
	cfg := domain.DefaultConfig()
	cfg.Reconcile.OverlapLength = overlap
	return cfg
}
