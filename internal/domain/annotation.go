package domain

import (
	"regexp"
	"strconv"
	"strings"
)

var fragmentIDRe = regexp.MustCompile(`^(.+)_([0-9]+)$`)

// ParseFragmentID splits an identifier of the form base_N into its base and ordinal.
func ParseFragmentID(id string) (base string, ordinal int, ok bool) {
	m := fragmentIDRe.FindStringSubmatch(id)
	if m == nil {
		return id, 0, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return id, 0, false
	}
	return m[1], n, true
}

// FragmentOf reports whether id is a fragment of base (base_N, case-insensitive).
func FragmentOf(id, base string) (ordinal int, ok bool) {
	b, n, ok := ParseFragmentID(id)
	if !ok || Key(b) != Key(base) {
		return 0, false
	}
	return n, true
}

// AnnotationEntry is one row of the annotation report: how the upstream
// store actually names a requested sequence.
type AnnotationEntry struct {
	LogicalDB      string `json:"logical_db"`
	Identifier     string `json:"identifier"`
	BaseIdentifier string `json:"base_identifier"`
	Ordinal        *int   `json:"ordinal,omitempty"`
	Preferred      bool   `json:"preferred"`
}

// NewAnnotationEntry derives base identifier, ordinal and the preferred flag.
// preferredDB names the logical database of the newest revision stream.
func NewAnnotationEntry(logicalDB, identifier, preferredDB string) AnnotationEntry {
	e := AnnotationEntry{
		LogicalDB:      strings.ToUpper(strings.TrimSpace(logicalDB)),
		Identifier:     Key(identifier),
		BaseIdentifier: Key(identifier),
		Preferred:      strings.EqualFold(strings.TrimSpace(logicalDB), strings.TrimSpace(preferredDB)),
	}
	if base, n, ok := ParseFragmentID(e.Identifier); ok {
		e.BaseIdentifier = base
		e.Ordinal = &n
	}
	return e
}

// IsFragment reports whether the entry carries a fragment ordinal.
func (e AnnotationEntry) IsFragment() bool {
	return e.Ordinal != nil
}

func (e AnnotationEntry) QualifiedID() QualifiedID {
	return QualifiedID{LogicalDB: e.LogicalDB, Identifier: e.Identifier}
}
