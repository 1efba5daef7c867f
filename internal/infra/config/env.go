package config

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/aalvaropc/seqyank/internal/domain"
)

// EnvPrefix is prepended to every variable, e.g. SEQYANK_NAMES_URL.
const EnvPrefix = "SEQYANK"

// EnvConfig holds the settings that may be overridden from the environment.
// Unset variables leave the file configuration untouched.
type EnvConfig struct {
	UpstreamKind  string        `envconfig:"UPSTREAM_KIND"`
	NamesURL      string        `envconfig:"NAMES_URL"`
	FetchURL      string        `envconfig:"FETCH_URL"`
	NamesFormat   string        `envconfig:"NAMES_FORMAT"`
	Catalog       string        `envconfig:"CATALOG"`
	Timeout       time.Duration `envconfig:"TIMEOUT"`
	OverlapLength *int          `envconfig:"OVERLAP_LENGTH"`
	LineWidth     *int          `envconfig:"LINE_WIDTH"`
	PreferredDB   string        `envconfig:"PREFERRED_DB"`
	ServerAddr    string        `envconfig:"SERVER_ADDR"`
	SaveArtifacts *bool         `envconfig:"SAVE_ARTIFACTS"`
}

// LoadFromEnv reads SEQYANK_* variables.
func LoadFromEnv() (EnvConfig, error) {
	var e EnvConfig
	if err := envconfig.Process(EnvPrefix, &e); err != nil {
		return EnvConfig{}, err
	}
	return e, nil
}

// Apply overlays the set variables onto cfg.
func (e EnvConfig) Apply(cfg domain.Config) domain.Config {
	if e.UpstreamKind != "" {
		cfg.Upstream.Kind = strings.ToLower(e.UpstreamKind)
	}
	if e.NamesURL != "" {
		cfg.Upstream.NamesURL = e.NamesURL
	}
	if e.FetchURL != "" {
		cfg.Upstream.FetchURL = e.FetchURL
	}
	if e.NamesFormat != "" {
		cfg.Upstream.NamesFormat = strings.ToLower(e.NamesFormat)
	}
	if e.Catalog != "" {
		cfg.Upstream.Catalog = e.Catalog
	}
	if e.Timeout > 0 {
		cfg.Upstream.Timeout = e.Timeout
	}
	if e.OverlapLength != nil && *e.OverlapLength >= 0 {
		cfg.Reconcile.OverlapLength = *e.OverlapLength
	}
	if e.LineWidth != nil && *e.LineWidth > 0 {
		cfg.Reconcile.LineWidth = *e.LineWidth
	}
	if e.PreferredDB != "" {
		cfg.Reconcile.PreferredDB = strings.ToUpper(e.PreferredDB)
	}
	if e.ServerAddr != "" {
		cfg.Server.Addr = e.ServerAddr
	}
	if e.SaveArtifacts != nil {
		cfg.Artifacts.Save = *e.SaveArtifacts
	}
	return cfg
}
