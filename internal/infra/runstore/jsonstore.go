package runstore

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aalvaropc/seqyank/internal/domain"
	"github.com/aalvaropc/seqyank/internal/ports"
)

const defaultRunsDir = "runs"
const maskValue = "********"

// JSONStore writes one JSON document per batch under <root>/<runs dir>.
type JSONStore struct {
	rootDir     string
	runsDirName string
	masking     bool
	writeIndex  bool
	now         func() time.Time
}

type Option func(*JSONStore)

// WithIndex appends a summary line per batch to runs/index.jsonl.
func WithIndex(enabled bool) Option {
	return func(s *JSONStore) { s.writeIndex = enabled }
}

func WithNow(now func() time.Time) Option {
	return func(s *JSONStore) { s.now = now }
}

func NewJSONStore(root string, cfg domain.Config, opts ...Option) *JSONStore {
	runsDir := cfg.Paths.RunsDir
	if strings.TrimSpace(runsDir) == "" {
		runsDir = defaultRunsDir
	}

	s := &JSONStore{
		rootDir:     root,
		runsDirName: runsDir,
		masking:     cfg.Artifacts.MaskCredentials,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.ArtifactStore = (*JSONStore)(nil)

func (s *JSONStore) SaveBatch(run domain.BatchArtifact) (string, error) {
	dir := filepath.Join(s.rootDir, s.runsDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &domain.OpError{Op: "runstore.mkdir", Kind: domain.KindExecution, Path: dir, Err: err}
	}

	if run.StartedAt.IsZero() {
		run.StartedAt = s.now()
	}
	ts := run.StartedAt.UTC()

	name := run.BatchName
	if strings.TrimSpace(name) == "" {
		name = strings.TrimSuffix(filepath.Base(run.BatchPath), filepath.Ext(run.BatchPath))
	}
	slug := slugify(name)
	if slug == "" {
		slug = "batch"
	}

	id := uniqueID(dir, fmt.Sprintf("%s_%s", ts.Format("20060102T150405Z"), slug))
	filename := id + ".json"
	path := filepath.Join(dir, filename)

	run.ID = id
	if s.masking {
		run.Upstream = maskURL(run.Upstream)
	}

	b, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return "", &domain.OpError{Op: "runstore.marshal", Kind: domain.KindExecution, Path: path, Err: err}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return "", &domain.OpError{Op: "runstore.write", Kind: domain.KindExecution, Path: tmp, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", &domain.OpError{Op: "runstore.rename", Kind: domain.KindExecution, Path: path, Err: err}
	}

	if s.writeIndex {
		_ = appendIndex(dir, filename, run)
	}

	return id, nil
}

// uniqueID suffixes base when two batches with the same name start in the same second.
func uniqueID(dir, base string) string {
	id := base
	for n := 2; ; n++ {
		if _, err := os.Stat(filepath.Join(dir, id+".json")); os.IsNotExist(err) {
			return id
		}
		id = fmt.Sprintf("%s-%d", base, n)
	}
}

type indexLine struct {
	ID        string    `json:"id"`
	File      string    `json:"file"`
	Batch     string    `json:"batch"`
	Upstream  string    `json:"upstream"`
	StartedAt time.Time `json:"started_at"`
	Requests  int       `json:"requests"`
	Found     int       `json:"found"`
	Missing   int       `json:"missing"`
	Issues    int       `json:"issues"`
}

func appendIndex(dir, filename string, run domain.BatchArtifact) error {
	line, err := json.Marshal(indexLine{
		ID:        run.ID,
		File:      filename,
		Batch:     run.BatchName,
		Upstream:  run.Upstream,
		StartedAt: run.StartedAt,
		Requests:  run.Requests,
		Found:     len(run.Result.Found),
		Missing:   len(run.Result.Missing),
		Issues:    len(run.Result.Issues),
	})
	if err != nil {
		return err
	}

	f, err := os.OpenFile(filepath.Join(dir, "index.jsonl"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(append(line, '\n'))
	return err
}

// maskURL hides userinfo passwords and credential-looking query values.
// Anything that does not parse as an absolute URL is returned unchanged.
func maskURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return raw
	}
	if u.User != nil {
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), maskValue)
		}
	}
	if u.RawQuery != "" {
		q := u.Query()
		for k := range q {
			if isSensitiveKey(k) {
				q.Set(k, maskValue)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func isSensitiveKey(k string) bool {
	kk := strings.ToLower(k)
	return strings.Contains(kk, "token") ||
		strings.Contains(kk, "secret") ||
		strings.Contains(kk, "password") ||
		strings.Contains(kk, "apikey") ||
		strings.Contains(kk, "api_key") ||
		kk == "key"
}

// slugify produces a safe filename component.
func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	var b strings.Builder
	b.Grow(len(s))

	lastDash := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}
