package usecase

import (
	"io"
	"log/slog"
	"path/filepath"

	"github.com/aalvaropc/seqyank/internal/domain"
	"github.com/aalvaropc/seqyank/internal/ports"
)

// InitWorkspace scaffolds a workspace directory.
type InitWorkspace struct {
	initializer ports.WorkspaceInitializer
	locator     ports.WorkspaceLocator
	log         *slog.Logger
}

type InitOption func(*InitWorkspace)

// WithLocator lets Execute report an enclosing workspace.
func WithLocator(l ports.WorkspaceLocator) InitOption {
	return func(uc *InitWorkspace) { uc.locator = l }
}

func WithInitLogger(l *slog.Logger) InitOption {
	return func(uc *InitWorkspace) {
		if l != nil {
			uc.log = l
		}
	}
}

func NewInitWorkspace(initializer ports.WorkspaceInitializer, opts ...InitOption) *InitWorkspace {
	uc := &InitWorkspace{
		initializer: initializer,
		log:         slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// InitResult tells the caller where the workspace landed. Enclosing is the
// root of an existing workspace containing Root, if any.
type InitResult struct {
	Root      string
	Enclosing string
}

// Execute writes the workspace templates under root. Existing files are kept
// unless force is set.
func (uc *InitWorkspace) Execute(root string, force bool) (InitResult, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return InitResult{}, &domain.OpError{Op: "init.abs", Kind: domain.KindExecution, Path: root, Err: err}
	}
	res := InitResult{Root: abs}

	if uc.locator != nil {
		if found, err := uc.locator.FindRoot(abs); err == nil {
			res.Enclosing = found
		}
	}

	if err := uc.initializer.Init(domain.WorkspaceSpec{Root: abs}, force); err != nil {
		uc.log.Error("workspace.init_failed", "root", abs, "err", err)
		return res, err
	}
	uc.log.Info("workspace.init", "root", abs, "force", force, "enclosing", res.Enclosing)
	return res, nil
}
