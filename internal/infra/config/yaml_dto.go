package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

type YAMLConfig struct {
	Seqyank YAMLSeqyank `yaml:"seqyank"`
}

type YAMLSeqyank struct {
	Reconcile YAMLReconcile        `yaml:"reconcile"`
	Aliases   map[string]YAMLAlias `yaml:"aliases"`
	Upstream  YAMLUpstream         `yaml:"upstream"`

	Paths struct {
		BatchesDir string `yaml:"batches_dir"`
		RunsDir    string `yaml:"runs_dir"`
	} `yaml:"paths"`

	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	Artifacts struct {
		Save            *bool `yaml:"save"`
		MaskCredentials *bool `yaml:"mask_credentials"`
	} `yaml:"artifacts"`
}

type YAMLReconcile struct {
	OverlapLength *int   `yaml:"overlap_length"`
	LineWidth     *int   `yaml:"line_width"`
	MinPosition   *int   `yaml:"min_position"`
	PreferredDB   string `yaml:"preferred_db"`
	Delimiter     string `yaml:"delimiter"`
}

type YAMLAlias struct {
	DB        string `yaml:"db"`
	StripDots bool   `yaml:"strip_dots"`
}

type YAMLUpstream struct {
	Kind          string `yaml:"kind"`
	NamesURL      string `yaml:"names_url"`
	FetchURL      string `yaml:"fetch_url"`
	NamesFormat   string `yaml:"names_format"`
	NamesJSONPath string `yaml:"names_jsonpath"`
	Catalog       string `yaml:"catalog"`
	Timeout       string `yaml:"timeout"`
	MaxBodyBytes  *int64 `yaml:"max_body_bytes"`
}

// YAMLBatch is a batch file: a name plus either request lines or an upload.
type YAMLBatch struct {
	Name     string            `yaml:"name"`
	Requests []YAMLRequestLine `yaml:"requests"`
	Upload   string            `yaml:"upload"`
}

// YAMLRequestLine accepts either a ready-made line ("genbank!AC1!!!1!") or
// a mapping with the same fields.
type YAMLRequestLine struct {
	Line string

	DB     string `yaml:"db"`
	ID     string `yaml:"id"`
	Begin  *int   `yaml:"begin"`
	End    *int   `yaml:"end"`
	Strand string `yaml:"strand"`
	Flank  *int   `yaml:"flank"`
}

func (r *YAMLRequestLine) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		return n.Decode(&r.Line)
	case yaml.MappingNode:
		type plain YAMLRequestLine
		var p plain
		if err := n.Decode(&p); err != nil {
			return err
		}
		*r = YAMLRequestLine(p)
		return nil
	default:
		return fmt.Errorf("line %d: request must be a string or a mapping", n.Line)
	}
}
