package logger

import (
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Config selects the workspace whose .seqyank/logs receives the log file.
// Mirror, when set, also gets every record (serve passes os.Stderr).
type Config struct {
	Root   string
	Debug  bool
	Mirror io.Writer
}

type sink struct {
	log  *slog.Logger
	file *os.File
	path string
}

var (
	mu      sync.RWMutex
	current = discard()
)

func discard() sink {
	return sink{log: slog.New(slog.NewJSONHandler(io.Discard, nil))}
}

// Setup opens <root>/.seqyank/logs/seqyank.log in append mode and installs
// it as the process logger. The returned func closes the file and restores
// the discarding logger.
func Setup(cfg Config) (func() error, error) {
	root := filepath.Clean(cfg.Root)
	dir := filepath.Join(root, ".seqyank", "logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		swap(discard())
		return nil, err
	}

	path := filepath.Join(dir, "seqyank.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		swap(discard())
		return nil, err
	}

	var w io.Writer = f
	if cfg.Mirror != nil {
		w = io.MultiWriter(f, cfg.Mirror)
	}

	opts := &slog.HandlerOptions{Level: slog.LevelInfo, ReplaceAttr: replaceAttr}
	if cfg.Debug {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	}

	s := sink{
		log:  slog.New(slog.NewJSONHandler(w, opts)).With("app", "seqyank"),
		file: f,
		path: path,
	}
	swap(s)
	s.log.Info("logger.initialized", "path", path, "debug", cfg.Debug)

	return func() error {
		old := swap(discard())
		if old.file == nil {
			return nil
		}
		return old.file.Close()
	}, nil
}

func swap(s sink) sink {
	mu.Lock()
	defer mu.Unlock()
	old := current
	current = s
	return old
}

func L() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return current.log
}

// Path is the open log file, or "" when logging is discarded.
func Path() string {
	mu.RLock()
	defer mu.RUnlock()
	return current.path
}

// replaceAttr writes times in UTC and hides passwords in URL-valued
// attributes (names_url, fetch_url, url).
func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	switch {
	case a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime:
		a.Value = slog.StringValue(a.Value.Time().UTC().Format(time.RFC3339Nano))
	case strings.HasSuffix(a.Key, "url") && a.Value.Kind() == slog.KindString:
		a.Value = slog.StringValue(redactURL(a.Value.String()))
	}
	return a
}

func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); !ok {
		return raw
	}
	u.User = url.UserPassword(u.User.Username(), "xxxxx")
	return u.String()
}
