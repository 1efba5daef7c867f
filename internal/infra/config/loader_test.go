package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aalvaropc/seqyank/internal/domain"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestLoad_AppliesDefaults(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, FileName), "seqyank:\n  reconcile:\n    overlap_length: 5\n")

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Reconcile.OverlapLength != 5 {
		t.Fatalf("expected overlap 5, got %d", cfg.Reconcile.OverlapLength)
	}
	if cfg.Reconcile.LineWidth != 60 || cfg.Reconcile.PreferredDB != "GB_NEW" || cfg.Reconcile.Delimiter != "!" {
		t.Fatalf("expected reconcile defaults, got %+v", cfg.Reconcile)
	}
	if cfg.Upstream.Kind != domain.UpstreamCatalog || cfg.Paths.BatchesDir != "batches" || cfg.Paths.RunsDir != "runs" {
		t.Fatalf("expected defaults, got %+v / %+v", cfg.Upstream, cfg.Paths)
	}
	if cfg.Aliases["genbank"].DB != "GBALL" {
		t.Fatalf("expected default aliases")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(t.TempDir())
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, FileName), "seqyank: [\n")

	_, err := Load(root)
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected invalid config, got %v", err)
	}
}

func TestLoad_FullFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, FileName), `
seqyank:
  reconcile:
    overlap_length: 0
    line_width: 70
    min_position: 1
    preferred_db: gb_new
    delimiter: "|"
  aliases:
    ensembl:
      db: ensembl
    genbank:
      db: gbnew
  upstream:
    kind: http
    names_url: http://store.local/names
    fetch_url: http://store.local/fetch
    names_format: json
    names_jsonpath: $.rows[*]
    timeout: 5s
    max_body_bytes: 1024
  paths:
    batches_dir: in
    runs_dir: out
  server:
    addr: 127.0.0.1:9000
  artifacts:
    save: false
    mask_credentials: false
`)

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Reconcile.OverlapLength != 0 || cfg.Reconcile.LineWidth != 70 || cfg.Reconcile.Delimiter != "|" {
		t.Fatalf("unexpected reconcile: %+v", cfg.Reconcile)
	}
	if cfg.Reconcile.PreferredDB != "GB_NEW" {
		t.Fatalf("expected preferred db upper-cased, got %q", cfg.Reconcile.PreferredDB)
	}
	if cfg.Aliases["ensembl"].DB != "ENSEMBL" || cfg.Aliases["genbank"].DB != "GBNEW" || cfg.Aliases["refseq"].DB != "REFSEQALL" {
		t.Fatalf("unexpected aliases: %+v", cfg.Aliases)
	}
	if cfg.Upstream.Kind != domain.UpstreamHTTP || cfg.Upstream.NamesFormat != domain.NamesFormatJSON || cfg.Upstream.NamesJSONPath != "$.rows[*]" {
		t.Fatalf("unexpected upstream: %+v", cfg.Upstream)
	}
	if cfg.Upstream.Timeout != 5*time.Second || cfg.Upstream.MaxBodyBytes != 1024 {
		t.Fatalf("unexpected limits: %+v", cfg.Upstream)
	}
	if cfg.Paths.BatchesDir != "in" || cfg.Paths.RunsDir != "out" || cfg.Server.Addr != "127.0.0.1:9000" {
		t.Fatalf("unexpected paths/server: %+v %+v", cfg.Paths, cfg.Server)
	}
	if cfg.Artifacts.Save || cfg.Artifacts.MaskCredentials {
		t.Fatalf("expected artifacts disabled: %+v", cfg.Artifacts)
	}
}

func TestLoad_HTTPRequiresURLs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, FileName), "seqyank:\n  upstream:\n    kind: http\n    names_url: http://x/names\n")

	_, err := Load(root)
	if err == nil || !strings.Contains(err.Error(), "upstream.fetch_url") {
		t.Fatalf("expected fetch_url error, got %v", err)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, FileName), "seqyank:\n  reconcile:\n    line_width: 70\n")

	t.Setenv("SEQYANK_LINE_WIDTH", "80")
	t.Setenv("SEQYANK_OVERLAP_LENGTH", "0")
	t.Setenv("SEQYANK_SAVE_ARTIFACTS", "false")
	t.Setenv("SEQYANK_TIMEOUT", "2s")

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Reconcile.LineWidth != 80 || cfg.Reconcile.OverlapLength != 0 {
		t.Fatalf("expected env overrides, got %+v", cfg.Reconcile)
	}
	if cfg.Artifacts.Save {
		t.Fatalf("expected save disabled from env")
	}
	if cfg.Upstream.Timeout != 2*time.Second {
		t.Fatalf("expected timeout 2s, got %s", cfg.Upstream.Timeout)
	}
}

func TestLoad_DotEnvFillsUnsetVariables(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, FileName), "seqyank:\n  upstream:\n    kind: http\n")
	writeFile(t, filepath.Join(root, ".env"), "SEQYANK_NAMES_URL=http://dotenv/names\nSEQYANK_FETCH_URL=http://dotenv/fetch\n")
	t.Setenv("SEQYANK_FETCH_URL", "http://shell/fetch")
	t.Cleanup(func() { os.Unsetenv("SEQYANK_NAMES_URL") })

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Upstream.NamesURL != "http://dotenv/names" {
		t.Fatalf("expected names url from .env, got %q", cfg.Upstream.NamesURL)
	}
	if cfg.Upstream.FetchURL != "http://shell/fetch" {
		t.Fatalf("expected shell variable to win, got %q", cfg.Upstream.FetchURL)
	}
}
