package batchfile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aalvaropc/seqyank/internal/domain"
	"github.com/aalvaropc/seqyank/internal/infra/config"
	"github.com/aalvaropc/seqyank/internal/ports"
)

// Loader reads batch files from <root>/<batches dir>.
type Loader struct {
	batchesDir string
	delimiter  string
}

type Option func(*Loader)

func WithBatchesDir(dir string) Option {
	return func(l *Loader) { l.batchesDir = dir }
}

// WithDelimiter sets the separator used when rendering mapping-style requests.
func WithDelimiter(d string) Option {
	return func(l *Loader) { l.delimiter = d }
}

func NewLoader(opts ...Option) *Loader {
	def := domain.DefaultConfig()
	l := &Loader{batchesDir: def.Paths.BatchesDir, delimiter: def.Reconcile.Delimiter}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// FromConfig builds a Loader that follows the workspace configuration.
func FromConfig(cfg domain.Config) *Loader {
	return NewLoader(WithBatchesDir(cfg.Paths.BatchesDir), WithDelimiter(cfg.Reconcile.Delimiter))
}

var _ ports.BatchLoader = (*Loader)(nil)

func (l *Loader) LoadBatch(path string) (domain.BatchSpec, error) {
	return config.LoadBatch(path, l.delimiter)
}

func (l *Loader) ListBatches(root string) ([]domain.BatchRef, error) {
	dir := filepath.Join(root, l.batchesDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "batchfile.list",
			Kind: domain.KindNotFound,
			Path: dir,
			Err:  err,
		}
	}

	var refs []domain.BatchRef
	for _, e := range entries {
		if e.IsDir() || !isYAML(e.Name()) {
			continue
		}
		p := filepath.Join(dir, e.Name())
		n := readName(p)
		if n == "" {
			n = strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		}
		refs = append(refs, domain.BatchRef{Name: n, Path: p})
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	return refs, nil
}

// Resolve maps a CLI argument onto a batch file. An existing path wins;
// otherwise arg is matched against batch names and file stems.
func (l *Loader) Resolve(root, arg string) (string, error) {
	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		return arg, nil
	}

	refs, err := l.ListBatches(root)
	if err != nil {
		return "", err
	}
	for _, r := range refs {
		stem := strings.TrimSuffix(filepath.Base(r.Path), filepath.Ext(r.Path))
		if r.Name == arg || stem == arg {
			return r.Path, nil
		}
	}

	return "", &domain.OpError{
		Op:   "batchfile.resolve",
		Kind: domain.KindNotFound,
		Path: arg,
		Err:  fmt.Errorf("no batch named %q: %w", arg, domain.ErrNotFound),
	}
}

func isYAML(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}

func readName(path string) string {
	b, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	var v struct {
		Name string `yaml:"name"`
	}
	if err := yaml.Unmarshal(b, &v); err != nil {
		return ""
	}
	return strings.TrimSpace(v.Name)
}
