package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aalvaropc/seqyank/internal/domain"
)

// MapConfig applies a parsed seqyank.yaml on top of domain.DefaultConfig.
func MapConfig(path string, y YAMLConfig) (domain.Config, error) {
	cfg := domain.DefaultConfig()
	s := y.Seqyank

	if v := s.Reconcile.OverlapLength; v != nil {
		if *v < 0 {
			return cfg, invalidField(path, "reconcile.overlap_length", "must not be negative")
		}
		cfg.Reconcile.OverlapLength = *v
	}
	if v := s.Reconcile.LineWidth; v != nil {
		if *v < 1 {
			return cfg, invalidField(path, "reconcile.line_width", "must be positive")
		}
		cfg.Reconcile.LineWidth = *v
	}
	if v := s.Reconcile.MinPosition; v != nil {
		if *v < 1 {
			return cfg, invalidField(path, "reconcile.min_position", "must be at least 1")
		}
		cfg.Reconcile.MinPosition = *v
	}
	if v := strings.TrimSpace(s.Reconcile.PreferredDB); v != "" {
		cfg.Reconcile.PreferredDB = strings.ToUpper(v)
	}
	if s.Reconcile.Delimiter != "" {
		cfg.Reconcile.Delimiter = s.Reconcile.Delimiter
	}

	for name, a := range s.Aliases {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" || strings.TrimSpace(a.DB) == "" {
			return cfg, invalidField(path, "aliases."+name+".db", "alias target is required")
		}
		cfg.Aliases[key] = domain.Alias{DB: strings.ToUpper(strings.TrimSpace(a.DB)), StripDots: a.StripDots}
	}

	u := s.Upstream
	if u.Kind != "" {
		cfg.Upstream.Kind = strings.ToLower(strings.TrimSpace(u.Kind))
	}
	if u.NamesURL != "" {
		cfg.Upstream.NamesURL = u.NamesURL
	}
	if u.FetchURL != "" {
		cfg.Upstream.FetchURL = u.FetchURL
	}
	if u.NamesFormat != "" {
		cfg.Upstream.NamesFormat = strings.ToLower(strings.TrimSpace(u.NamesFormat))
	}
	if u.NamesJSONPath != "" {
		cfg.Upstream.NamesJSONPath = u.NamesJSONPath
	}
	if u.Catalog != "" {
		cfg.Upstream.Catalog = u.Catalog
	}
	if u.Timeout != "" {
		d, err := time.ParseDuration(u.Timeout)
		if err != nil || d <= 0 {
			return cfg, invalidField(path, "upstream.timeout", fmt.Sprintf("invalid duration %q", u.Timeout))
		}
		cfg.Upstream.Timeout = d
	}
	if u.MaxBodyBytes != nil {
		if *u.MaxBodyBytes < 1 {
			return cfg, invalidField(path, "upstream.max_body_bytes", "must be positive")
		}
		cfg.Upstream.MaxBodyBytes = *u.MaxBodyBytes
	}

	if s.Paths.BatchesDir != "" {
		cfg.Paths.BatchesDir = s.Paths.BatchesDir
	}
	if s.Paths.RunsDir != "" {
		cfg.Paths.RunsDir = s.Paths.RunsDir
	}
	if s.Server.Addr != "" {
		cfg.Server.Addr = s.Server.Addr
	}
	if s.Artifacts.Save != nil {
		cfg.Artifacts.Save = *s.Artifacts.Save
	}
	if s.Artifacts.MaskCredentials != nil {
		cfg.Artifacts.MaskCredentials = *s.Artifacts.MaskCredentials
	}

	return cfg, nil
}

// Validate checks the cross-field rules once every override is applied.
func Validate(path string, cfg domain.Config) error {
	switch cfg.Upstream.Kind {
	case domain.UpstreamCatalog:
		if strings.TrimSpace(cfg.Upstream.Catalog) == "" {
			return invalidField(path, "upstream.catalog", "catalog path is required for kind catalog")
		}
	case domain.UpstreamHTTP:
		if strings.TrimSpace(cfg.Upstream.NamesURL) == "" {
			return invalidField(path, "upstream.names_url", "required for kind http")
		}
		if strings.TrimSpace(cfg.Upstream.FetchURL) == "" {
			return invalidField(path, "upstream.fetch_url", "required for kind http")
		}
	default:
		return invalidField(path, "upstream.kind", fmt.Sprintf("unsupported kind %q", cfg.Upstream.Kind))
	}

	switch cfg.Upstream.NamesFormat {
	case domain.NamesFormatListFile, domain.NamesFormatJSON:
	default:
		return invalidField(path, "upstream.names_format", fmt.Sprintf("unsupported format %q", cfg.Upstream.NamesFormat))
	}
	return nil
}

// MapBatch turns a parsed batch file into a BatchSpec. Mapping requests are
// rendered with delim so they read like typed lines.
func MapBatch(path string, y YAMLBatch, delim string) (domain.BatchSpec, error) {
	spec := domain.BatchSpec{
		Name:   strings.TrimSpace(y.Name),
		Path:   path,
		Upload: y.Upload,
		Lines:  make([]string, 0, len(y.Requests)),
	}
	if spec.Name == "" {
		return domain.BatchSpec{}, invalidField(path, "name", "batch name is required")
	}

	for i, r := range y.Requests {
		if r.Line != "" {
			spec.Lines = append(spec.Lines, r.Line)
			continue
		}
		if strings.TrimSpace(r.DB) == "" || strings.TrimSpace(r.ID) == "" {
			return domain.BatchSpec{}, invalidField(path, fmt.Sprintf("requests[%d]", i), "db and id are required")
		}
		spec.Lines = append(spec.Lines, strings.Join([]string{
			r.DB, r.ID, itoa(r.Begin), itoa(r.End), r.Strand, itoa(r.Flank),
		}, delim))
	}

	return spec, nil
}

func itoa(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "config.map",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("field %s: %s: %w", field, msg, domain.ErrInvalidConfig),
	}
}
