package domain

import (
	"sort"
	"strings"
	"time"
)

// Config represents the seqyank configuration loaded from seqyank.yaml.
type Config struct {
	Reconcile ReconcileConfig
	Aliases   AliasTable
	Upstream  UpstreamConfig
	Paths     PathsConfig
	Server    ServerConfig
	Artifacts ArtifactsConfig
}

// ReconcileConfig holds the constants of the reconciliation engine.
type ReconcileConfig struct {
	// OverlapLength is the number of residues duplicated at each fragment boundary.
	OverlapLength int
	// LineWidth is the FASTA output line width.
	LineWidth int
	// MinPosition is the smallest addressable coordinate; flanks never go below it.
	MinPosition int
	// PreferredDB is the logical database of the newest revision stream.
	PreferredDB string
	// Delimiter separates the fields of a request line.
	Delimiter string
}

// Alias maps a caller-facing database alias onto the upstream logical database.
type Alias struct {
	DB        string
	StripDots bool
}

// AliasTable is keyed by lower-case alias.
type AliasTable map[string]Alias

// Lookup maps alias to its target; unknown aliases pass through unchanged.
func (t AliasTable) Lookup(alias string) (Alias, bool) {
	a, ok := t[strings.ToLower(strings.TrimSpace(alias))]
	if !ok {
		return Alias{DB: strings.TrimSpace(alias)}, false
	}
	return a, true
}

// Names returns aliases sorted for display.
func (t AliasTable) Names() []string {
	out := make([]string, 0, len(t))
	for k := range t {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Upstream kinds.
const (
	UpstreamHTTP    = "http"
	UpstreamCatalog = "catalog"
)

// Names report formats.
const (
	NamesFormatListFile = "listfile"
	NamesFormatJSON     = "json"
)

type UpstreamConfig struct {
	Kind          string
	NamesURL      string
	FetchURL      string
	NamesFormat   string
	NamesJSONPath string
	Catalog       string
	Timeout       time.Duration
	MaxBodyBytes  int64
}

type PathsConfig struct {
	BatchesDir string
	RunsDir    string
}

type ServerConfig struct {
	Addr string
}

type ArtifactsConfig struct {
	Save            bool
	MaskCredentials bool
}

// DefaultAliases mirrors the upstream store's logical database names.
func DefaultAliases() AliasTable {
	return AliasTable{
		"genbank":   {DB: "GBALL"},
		"refseq":    {DB: "REFSEQALL"},
		"swissprot": {DB: "SPTRNRDB"},
		"trembl":    {DB: "SPTRNRDB"},
		"tigrmgi":   {DB: "TIGRMGI"},
		"tigrrgi":   {DB: "TIGRRGI"},
		"tigrhgi":   {DB: "TIGRHGI"},
		"dots":      {DB: "DOTSM", StripDots: true},
		"nia":       {DB: "NIAMGI"},
	}
}

// DefaultConfig provides sane defaults if seqyank.yaml is partially missing.
func DefaultConfig() Config {
	return Config{
		Reconcile: ReconcileConfig{
			OverlapLength: 10000,
			LineWidth:     60,
			MinPosition:   1,
			PreferredDB:   "GB_NEW",
			Delimiter:     "!",
		},
		Aliases: DefaultAliases(),
		Upstream: UpstreamConfig{
			Kind:          UpstreamCatalog,
			NamesFormat:   NamesFormatListFile,
			NamesJSONPath: "$.entries[*]",
			Catalog:       "catalog/demo.fasta",
			Timeout:       60 * time.Second,
			MaxBodyBytes:  64 << 20,
		},
		Paths: PathsConfig{
			BatchesDir: "batches",
			RunsDir:    "runs",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Artifacts: ArtifactsConfig{
			Save:            true,
			MaskCredentials: true,
		},
	}
}
