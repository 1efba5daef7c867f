package fsworkspace

import (
	"bufio"
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/aalvaropc/seqyank/internal/domain"
	"github.com/aalvaropc/seqyank/internal/ports"
)

const gitignoreHeader = "# seqyank"

// Initializer scaffolds a workspace: seqyank.yaml, a demo batch and a
// demo catalog the default configuration can answer from.
type Initializer struct {
	dirs    []string
	ignored []string
}

func NewInitializer() *Initializer {
	paths := domain.DefaultConfig().Paths
	return &Initializer{
		dirs:    []string{paths.BatchesDir, "catalog", paths.RunsDir, filepath.Join(".seqyank", "logs")},
		ignored: []string{paths.RunsDir + "/", ".seqyank/", ".env"},
	}
}

var _ ports.WorkspaceInitializer = (*Initializer)(nil)

// Init is idempotent: existing files are kept unless force is set, and
// .gitignore only gains the entries it lacks.
func (i *Initializer) Init(spec domain.WorkspaceSpec, force bool) error {
	root := filepath.Clean(spec.Root)

	for _, d := range i.dirs {
		p := filepath.Join(root, d)
		if err := os.MkdirAll(p, 0o755); err != nil {
			return &domain.OpError{Op: "fsworkspace.init", Kind: domain.KindExecution, Path: p, Err: err}
		}
	}

	if err := appendIgnored(filepath.Join(root, ".gitignore"), i.ignored); err != nil {
		return &domain.OpError{Op: "fsworkspace.gitignore", Kind: domain.KindExecution, Path: root, Err: err}
	}

	return copyTemplates(root, "templates", force)
}

func copyTemplates(root, dir string, force bool) error {
	return fs.WalkDir(templatesFS, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, _ := filepath.Rel(dir, filepath.FromSlash(p))
		dst := filepath.Join(root, rel)
		if err := writeTemplate(p, dst, force); err != nil {
			return &domain.OpError{Op: "fsworkspace.template", Kind: domain.KindExecution, Path: dst, Err: err}
		}
		return nil
	})
}

func writeTemplate(src, dst string, force bool) error {
	if !force {
		_, err := os.Stat(dst)
		if err == nil {
			return nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	b, err := fs.ReadFile(templatesFS, src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, b, 0o644)
}

// appendIgnored adds the seqyank block to a .gitignore, writing only
// the lines that are not already present.
func appendIgnored(file string, entries []string) error {
	existing, err := os.ReadFile(file)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	seen := map[string]bool{}
	sc := bufio.NewScanner(bytes.NewReader(existing))
	for sc.Scan() {
		if line := bytes.TrimSpace(sc.Bytes()); len(line) > 0 {
			seen[string(line)] = true
		}
	}

	var block bytes.Buffer
	for _, e := range entries {
		if !seen[e] {
			block.WriteString(e + "\n")
		}
	}
	if block.Len() == 0 {
		return nil
	}

	var out bytes.Buffer
	out.Write(existing)
	if len(existing) > 0 {
		if existing[len(existing)-1] != '\n' {
			out.WriteByte('\n')
		}
		out.WriteByte('\n')
	}
	if !seen[gitignoreHeader] {
		out.WriteString(gitignoreHeader + "\n")
	}
	out.Write(block.Bytes())

	return os.WriteFile(file, out.Bytes(), 0o644)
}
