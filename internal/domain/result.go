package domain

import (
	"strings"
	"time"
)

// FoundSequence is one retrieved record, rendered as FASTA text.
type FoundSequence struct {
	Order      int    `json:"order"`
	Identifier string `json:"identifier"`
	FASTA      string `json:"fasta"`
}

// ResultSet is the outcome of one batch. Found is sorted by request order.
type ResultSet struct {
	Found   []FoundSequence `json:"found"`
	Missing []string        `json:"missing"`
	Issues  []Issue         `json:"issues"`
}

// FASTA concatenates every found record in request order.
func (rs ResultSet) FASTA() string {
	var b strings.Builder
	for _, f := range rs.Found {
		b.WriteString(f.FASTA)
	}
	return b.String()
}

// MissingText is the newline-joined list of identifiers that could not be retrieved.
func (rs ResultSet) MissingText() string {
	if len(rs.Missing) == 0 {
		return ""
	}
	return strings.Join(rs.Missing, "\n") + "\n"
}

// BatchArtifact is a persisted batch outcome.
type BatchArtifact struct {
	ID string `json:"id,omitempty"`

	BatchName string `json:"batch_name"`
	BatchPath string `json:"batch_path,omitempty"`
	Upstream  string `json:"upstream"`

	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`

	Requests  int             `json:"requests"`
	Retrieval []ResolvedEntry `json:"retrieval"`
	Result    ResultSet       `json:"result"`
}

// MissingBlock frames the missing identifiers between ***** lines, the
// notice printed ahead of the sequences. Empty when nothing is missing.
func (rs ResultSet) MissingBlock() string {
	if len(rs.Missing) == 0 {
		return ""
	}
	return "*****\nFailed to find these sequences:\n" + rs.MissingText() + "*****\n"
}

// Text is the plain-text response: the missing block, then the sequences.
func (rs ResultSet) Text() string {
	return rs.MissingBlock() + rs.FASTA()
}
