package usecase

import (
	"context"

	"github.com/aalvaropc/seqyank/internal/domain"
	"github.com/aalvaropc/seqyank/internal/ports"
	"github.com/aalvaropc/seqyank/internal/usecase/normalize"
)

type ValidateBatch struct {
	batches ports.BatchLoader
	cfg     domain.Config
}

type ValidateOption func(*ValidateBatch)

func WithValidateConfig(cfg domain.Config) ValidateOption {
	return func(uc *ValidateBatch) {
		uc.cfg = cfg
	}
}

func NewValidateBatch(bl ports.BatchLoader, opts ...ValidateOption) *ValidateBatch {
	uc := &ValidateBatch{batches: bl, cfg: domain.DefaultConfig()}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// ValidationReport summarizes a batch checked without contacting the upstream.
type ValidationReport struct {
	Batch    string
	Requests []domain.SequenceRequest
	Issues   []domain.Issue
}

// OK reports whether every line parsed.
func (r ValidationReport) OK() bool {
	return len(r.Issues) == 0
}

// Execute parses a batch file and reports malformed lines. Aliases that are
// not in the alias table are passed through and not reported.
func (uc *ValidateBatch) Execute(ctx context.Context, path string) (ValidationReport, error) {
	spec, err := uc.batches.LoadBatch(path)
	if err != nil {
		return ValidationReport{}, err
	}
	if err := ctx.Err(); err != nil {
		return ValidationReport{}, err
	}

	lines, err := InputLines(spec)
	if err != nil {
		return ValidationReport{Batch: spec.Name}, err
	}

	n := normalize.Normalize(lines, normalize.OptionsFrom(uc.cfg))
	return ValidationReport{
		Batch:    spec.Name,
		Requests: n.Requests,
		Issues:   n.Issues,
	}, nil
}
