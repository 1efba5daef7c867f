package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aalvaropc/seqyank/internal/domain"
	"github.com/aalvaropc/seqyank/internal/infra/batchfile"
	"github.com/aalvaropc/seqyank/internal/infra/catalog"
	"github.com/aalvaropc/seqyank/internal/infra/config"
	"github.com/aalvaropc/seqyank/internal/infra/runstore"
	"github.com/aalvaropc/seqyank/internal/infra/upstream"
	"github.com/aalvaropc/seqyank/internal/infra/workspacefinder"
	"github.com/aalvaropc/seqyank/internal/ports"
)

type workspaceCtx struct {
	root string
	cfg  domain.Config

	batches *batchfile.Loader

	names   ports.AnnotationSource
	fetcher ports.SequenceFetcher
	// catalog is set when the workspace answers from a local FASTA file.
	catalog  *catalog.Catalog
	upstream string

	store ports.ArtifactStore
}

func loadWorkspace(workspaceFlag string) (*workspaceCtx, error) {
	root, err := resolveWorkspaceRoot(workspaceFlag)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}

	ws := &workspaceCtx{
		root:    root,
		cfg:     cfg,
		batches: batchfile.FromConfig(cfg),
		store:   runstore.NewJSONStore(root, cfg, runstore.WithIndex(true)),
	}

	switch cfg.Upstream.Kind {
	case domain.UpstreamCatalog:
		p := cfg.Upstream.Catalog
		if !filepath.IsAbs(p) {
			p = filepath.Join(root, p)
		}
		cat, err := catalog.Load(p, cfg.Reconcile.PreferredDB)
		if err != nil {
			return nil, err
		}
		ws.names, ws.fetcher, ws.catalog = cat, cat, cat
		ws.upstream = "catalog:" + cfg.Upstream.Catalog
	default:
		client := upstream.New(cfg.Upstream, cfg.Reconcile.PreferredDB)
		ws.names, ws.fetcher = client, client
		ws.upstream = cfg.Upstream.NamesURL
	}

	return ws, nil
}

func resolveWorkspaceRoot(workspaceFlag string) (string, error) {
	w := strings.TrimSpace(workspaceFlag)
	if w != "" {
		abs, err := filepath.Abs(w)
		if err != nil {
			return "", fmt.Errorf("invalid workspace path: %w", err)
		}
		return abs, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	root, err := workspacefinder.NewFinder().FindRoot(wd)
	if err != nil {
		return "", fmt.Errorf("workspace not found from %q (tip: run `seqyank init`): %w", wd, err)
	}
	return root, nil
}

// resolveBatchPath accepts a path (relative to the workspace root), a file
// name under the batches dir, or a batch name.
func resolveBatchPath(ws *workspaceCtx, arg string) (string, error) {
	in := strings.TrimSpace(arg)
	if in == "" {
		return "", fmt.Errorf("batch is required (use --batch or -b)")
	}

	if looksLikePath(in) {
		p := in
		if !filepath.IsAbs(p) {
			p = filepath.Join(ws.root, p)
		}
		return filepath.Clean(p), nil
	}

	if hasYAMLExt(in) {
		p := filepath.Join(ws.root, ws.cfg.Paths.BatchesDir, in)
		if fileExists(p) {
			return p, nil
		}
	}

	return ws.batches.Resolve(ws.root, in)
}

func looksLikePath(s string) bool {
	return strings.Contains(s, "/") || strings.Contains(s, string(filepath.Separator))
}

func hasYAMLExt(s string) bool {
	ext := strings.ToLower(filepath.Ext(s))
	return ext == ".yaml" || ext == ".yml"
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
