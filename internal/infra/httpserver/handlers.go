package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aalvaropc/seqyank/internal/domain"
	"github.com/aalvaropc/seqyank/internal/infra/listfile"
	"github.com/aalvaropc/seqyank/internal/ports"
	"github.com/aalvaropc/seqyank/internal/usecase/normalize"
)

const defaultMaxUpload = 8 << 20

// Retriever runs one batch. *usecase.RetrieveBatch satisfies it.
type Retriever interface {
	Run(ctx context.Context, spec domain.BatchSpec) (domain.BatchArtifact, error)
}

// Store answers names and fetch calls, typically a local catalog.
type Store interface {
	ports.AnnotationSource
	ports.SequenceFetcher
}

type Handlers struct {
	retriever   Retriever
	store       Store
	preferredDB string
	maxUpload   int64
	logger      *slog.Logger
}

type Option func(*Handlers)

// WithStore mounts /v1/names and /v1/fetch on top of s.
func WithStore(s Store, preferredDB string) Option {
	return func(h *Handlers) {
		h.store = s
		h.preferredDB = preferredDB
	}
}

func WithMaxUpload(n int64) Option {
	return func(h *Handlers) {
		if n > 0 {
			h.maxUpload = n
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(h *Handlers) {
		if l != nil {
			h.logger = l
		}
	}
}

func NewHandlers(r Retriever, opts ...Option) *Handlers {
	h := &Handlers{
		retriever: r,
		maxUpload: defaultMaxUpload,
		logger:    slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Mount registers the routes on r.
func (h *Handlers) Mount(r chi.Router) {
	r.Get("/healthz", h.Health)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/retrieve", h.Retrieve)
		if h.store != nil {
			r.Post("/names", h.Names)
			r.Post("/fetch", h.Fetch)
		}
	})
}

func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "store": h.store != nil})
}

type retrieveRequest struct {
	Name   string   `json:"name"`
	Lines  []string `json:"lines"`
	Upload string   `json:"upload"`
}

type retrieveResponse struct {
	Batch     string                 `json:"batch"`
	Requests  int                    `json:"requests"`
	Retrieval []domain.ResolvedEntry `json:"retrieval"`
	domain.ResultSet
}

// Retrieve handles POST /v1/retrieve. The body is JSON ({"lines": [...]}
// or {"upload": "..."}), a plain-text upload, or a form with a "seqs" text
// field or an "upfile" file. The answer is FASTA text, or JSON when
// format=json or the client accepts only JSON.
func (h *Handlers) Retrieve(w http.ResponseWriter, r *http.Request) {
	spec, err := h.readSpec(w, r)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	art, err := h.retriever.Run(r.Context(), spec)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, retrieveResponse{
			Batch:     art.BatchName,
			Requests:  art.Requests,
			Retrieval: art.Retrieval,
			ResultSet: art.Result,
		})
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, art.Result.Text())
}

func (h *Handlers) readSpec(w http.ResponseWriter, r *http.Request) (domain.BatchSpec, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	spec := domain.BatchSpec{Name: "http"}

	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch ct {
	case "application/json":
		var body retrieveRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return spec, badInput(err)
		}
		if strings.TrimSpace(body.Name) != "" {
			spec.Name = body.Name
		}
		spec.Lines = body.Lines
		spec.Upload = body.Upload
		return spec, nil

	case "text/plain":
		b, err := io.ReadAll(r.Body)
		if err != nil {
			return spec, badInput(err)
		}
		spec.Upload = string(b)
		return spec, nil

	case "multipart/form-data":
		if err := r.ParseMultipartForm(h.maxUpload); err != nil {
			return spec, badInput(err)
		}
		f, _, err := r.FormFile("upfile")
		switch {
		case err == nil:
			defer f.Close()
			b, err := io.ReadAll(f)
			if err != nil {
				return spec, badInput(err)
			}
			spec.Upload = string(b)
		case !errors.Is(err, http.ErrMissingFile):
			return spec, badInput(err)
		}

	default:
		if err := r.ParseForm(); err != nil {
			return spec, badInput(err)
		}
	}

	if seqs := r.FormValue("seqs"); strings.TrimSpace(seqs) != "" {
		spec.Lines = normalize.SplitUpload(seqs)
	}
	if name := strings.TrimSpace(r.FormValue("name")); name != "" {
		spec.Name = name
	}
	return spec, nil
}

func badInput(err error) error {
	return &domain.OpError{
		Op:   "http.retrieve",
		Kind: domain.KindMalformedRequest,
		Err:  fmt.Errorf("%w: %w", domain.ErrMalformedRequest, err),
	}
}

type namesResponse struct {
	Entries []namesRow `json:"entries"`
}

type namesRow struct {
	LogicalDB  string `json:"logical_db"`
	Identifier string `json:"identifier"`
}

// Names handles POST /v1/names: a list-file query answered with a list-file
// report, or {"ids": ["DB:ID", ...]} answered with {"entries": [...]}.
func (h *Handlers) Names(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	asJSON := strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")

	var (
		ids []domain.QualifiedID
		err error
	)
	if asJSON {
		ids, err = decodeNamesQuery(r.Body)
	} else {
		ids, err = listfile.ParseQuery(r.Body)
	}
	if err != nil {
		writeError(w, badInput(err), h.logger)
		return
	}

	entries, err := h.store.Annotate(r.Context(), ids)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	if asJSON {
		out := namesResponse{Entries: make([]namesRow, 0, len(entries))}
		for _, e := range entries {
			out.Entries = append(out.Entries, namesRow{LogicalDB: e.LogicalDB, Identifier: e.Identifier})
		}
		writeJSON(w, http.StatusOK, out)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, listfile.EncodeReport(entries))
}

func decodeNamesQuery(r io.Reader) ([]domain.QualifiedID, error) {
	var body struct {
		IDs []string `json:"ids"`
	}
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return nil, err
	}
	out := make([]domain.QualifiedID, 0, len(body.IDs))
	for _, s := range body.IDs {
		db, id, ok := strings.Cut(s, ":")
		if !ok || db == "" || id == "" {
			return nil, fmt.Errorf("%q is not DB:ID", s)
		}
		out = append(out, domain.QualifiedID{LogicalDB: db, Identifier: id})
	}
	return out, nil
}

// Fetch handles POST /v1/fetch: a list-file retrieval list answered with
// the concatenated FASTA stream.
func (h *Handlers) Fetch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	list, err := listfile.ParseRetrieval(r.Body)
	if err != nil {
		writeError(w, badInput(err), h.logger)
		return
	}

	rc, err := h.store.Fetch(r.Context(), list)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Warn("http.fetch_copy_failed", "err", err)
	}
}

func wantsJSON(r *http.Request) bool {
	if f := r.URL.Query().Get("format"); f != "" {
		return f == "json"
	}
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func writeError(w http.ResponseWriter, err error, logger *slog.Logger) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("http.error", "status", status, "err", err)
	}
	writeJSON(w, status, errorBody{Error: err.Error(), Kind: string(domain.KindOf(err))})
}

func statusFor(err error) int {
	var mbe *http.MaxBytesError
	switch {
	case errors.As(err, &mbe):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}

	switch domain.KindOf(err) {
	case domain.KindMalformedRequest, domain.KindInvalidConfig:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindUpstreamUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
