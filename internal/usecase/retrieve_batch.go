package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aalvaropc/seqyank/internal/domain"
	"github.com/aalvaropc/seqyank/internal/fasta"
	"github.com/aalvaropc/seqyank/internal/ports"
	"github.com/aalvaropc/seqyank/internal/usecase/merge"
	"github.com/aalvaropc/seqyank/internal/usecase/normalize"
	"github.com/aalvaropc/seqyank/internal/usecase/reassemble"
)

// RetrieveBatch runs one batch through the whole pipeline: normalize,
// annotate, merge, fetch, reassemble, extract and reorder.
type RetrieveBatch struct {
	batches ports.BatchLoader
	names   ports.AnnotationSource
	fetcher ports.SequenceFetcher
	store   ports.ArtifactStore

	cfg      domain.Config
	upstream string
	log      *slog.Logger
	now      func() time.Time
}

type RetrieveOption func(*RetrieveBatch)

func WithLogger(l *slog.Logger) RetrieveOption {
	return func(uc *RetrieveBatch) {
		if l != nil {
			uc.log = l
		}
	}
}

// WithArtifactStore enables saving every executed batch.
func WithArtifactStore(s ports.ArtifactStore) RetrieveOption {
	return func(uc *RetrieveBatch) {
		uc.store = s
	}
}

func WithConfig(cfg domain.Config) RetrieveOption {
	return func(uc *RetrieveBatch) {
		uc.cfg = cfg
	}
}

// WithUpstreamLabel names the upstream in saved artifacts.
func WithUpstreamLabel(label string) RetrieveOption {
	return func(uc *RetrieveBatch) {
		uc.upstream = label
	}
}

func NewRetrieveBatch(bl ports.BatchLoader, names ports.AnnotationSource, fetcher ports.SequenceFetcher, opts ...RetrieveOption) *RetrieveBatch {
	uc := &RetrieveBatch{
		batches: bl,
		names:   names,
		fetcher: fetcher,
		cfg:     domain.DefaultConfig(),
		log:     slog.New(slog.NewJSONHandler(io.Discard, nil)),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Execute loads the batch at path, runs it and saves the artifact when a
// store is configured. The returned id is empty when nothing was saved.
func (uc *RetrieveBatch) Execute(ctx context.Context, path string) (domain.BatchArtifact, string, error) {
	spec, err := uc.batches.LoadBatch(path)
	if err != nil {
		return domain.BatchArtifact{}, "", err
	}

	art, err := uc.Run(ctx, spec)
	if err != nil {
		return art, "", err
	}

	if uc.store == nil || !uc.cfg.Artifacts.Save {
		return art, "", nil
	}
	id, err := uc.store.SaveBatch(art)
	if err != nil {
		uc.log.Warn("batch.save_failed", "batch", spec.Name, "err", err)
		return art, "", err
	}
	art.ID = id
	return art, id, nil
}

// BatchOutcome is the result of one batch in ExecuteAll.
type BatchOutcome struct {
	Path     string
	Artifact domain.BatchArtifact
	ID       string
	Err      error
}

// ExecuteAll runs independent batches concurrently, at most parallel at a
// time. Outcomes follow the order of paths; a failing batch does not stop
// the others. The returned error joins every batch failure.
func (uc *RetrieveBatch) ExecuteAll(ctx context.Context, paths []string, parallel int) ([]BatchOutcome, error) {
	out := make([]BatchOutcome, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	if parallel > 0 {
		g.SetLimit(parallel)
	}

	for i, p := range paths {
		g.Go(func() error {
			art, id, err := uc.Execute(gctx, p)
			out[i] = BatchOutcome{Path: p, Artifact: art, ID: id, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return out, err
	}

	var errs []error
	for _, o := range out {
		if o.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", o.Path, o.Err))
		}
	}
	return out, errors.Join(errs...)
}

// Run reconciles one batch. Per-request problems end up in the result's
// issues; only input and upstream failures are returned as errors, and then
// no partial result is returned.
func (uc *RetrieveBatch) Run(ctx context.Context, spec domain.BatchSpec) (domain.BatchArtifact, error) {
	art := domain.BatchArtifact{
		BatchName: spec.Name,
		BatchPath: spec.Path,
		Upstream:  uc.upstream,
		StartedAt: uc.now(),
	}

	lines, err := InputLines(spec)
	if err != nil {
		return art, err
	}

	log := uc.log.With("batch", spec.Name)
	log.Info("batch.started", "lines", len(lines))

	n := normalize.Normalize(lines, normalize.OptionsFrom(uc.cfg))
	art.Requests = len(n.Requests)
	issues := make([]domain.Issue, 0, len(n.Issues))
	issues = append(issues, n.Issues...)

	if len(n.Requests) == 0 {
		art.Result = domain.ResultSet{Found: []domain.FoundSequence{}, Missing: []string{}, Issues: issues}
		art.EndedAt = uc.now()
		log.Info("batch.finished", "found", 0, "missing", 0, "issues", len(issues))
		return art, nil
	}

	entries, err := uc.names.Annotate(ctx, merge.QueryIDs(n.Requests))
	if err != nil {
		return art, upstreamErr("upstream.names", err)
	}
	log.Debug("batch.names", "requests", len(n.Requests), "entries", len(entries))

	plan := merge.Merge(n.Requests, n.Coords, entries)
	issues = append(issues, plan.Issues...)
	art.Retrieval = plan.Resolved

	var seqs []domain.ReassembledSequence
	if len(plan.Resolved) > 0 {
		log.Debug("batch.fetch", "rows", len(plan.Resolved), "units", len(plan.Units))

		res, err := uc.fetch(ctx, plan)
		if err != nil {
			return art, err
		}
		for _, is := range res.Issues {
			log.Warn("reassemble.issue", "identifier", is.Identifier, "message", is.Message)
		}
		issues = append(issues, res.Issues...)
		seqs = res.Sequences
	}

	rs := assemble(plan, seqs, uc.cfg.Reconcile.LineWidth, log)
	rs.Issues = append(issues, rs.Issues...)
	art.Result = rs
	art.EndedAt = uc.now()

	log.Info("batch.finished",
		"found", len(rs.Found),
		"missing", len(rs.Missing),
		"issues", len(rs.Issues),
		"duration_ms", art.EndedAt.Sub(art.StartedAt).Milliseconds(),
	)
	return art, nil
}

func (uc *RetrieveBatch) fetch(ctx context.Context, plan merge.Plan) (reassemble.Result, error) {
	rc, err := uc.fetcher.Fetch(ctx, plan.Resolved)
	if err != nil {
		return reassemble.Result{}, upstreamErr("upstream.fetch", err)
	}
	defer rc.Close()

	r := reassemble.New(reassemble.Options{
		OverlapLength: uc.cfg.Reconcile.OverlapLength,
		ParseFragment: plan.FragmentParser(),
	})
	res, err := r.Run(fasta.NewScanner(rc))
	if err != nil {
		return reassemble.Result{}, upstreamErr("upstream.fetch", err)
	}
	return res, nil
}

// InputLines returns the request lines of a batch. Exactly one of inline
// lines or an upload must be given.
func InputLines(spec domain.BatchSpec) ([]string, error) {
	hasLines := len(spec.Lines) > 0
	hasUpload := strings.TrimSpace(spec.Upload) != ""

	switch {
	case hasLines && hasUpload:
		return nil, &domain.OpError{
			Op:   "batch.input",
			Kind: domain.KindMalformedRequest,
			Path: spec.Path,
			Err:  fmt.Errorf("%w: both request lines and an upload were given", domain.ErrMalformedRequest),
		}
	case !hasLines && !hasUpload:
		return nil, &domain.OpError{
			Op:   "batch.input",
			Kind: domain.KindMalformedRequest,
			Path: spec.Path,
			Err:  fmt.Errorf("%w: no request lines and no upload", domain.ErrMalformedRequest),
		}
	case hasUpload:
		return normalize.SplitUpload(spec.Upload), nil
	default:
		return spec.Lines, nil
	}
}

func upstreamErr(op string, err error) error {
	if domain.IsKind(err, domain.KindUpstreamUnavailable) {
		return err
	}
	return &domain.OpError{
		Op:   op,
		Kind: domain.KindUpstreamUnavailable,
		Err:  fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err),
	}
}
