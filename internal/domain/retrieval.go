package domain

import "strings"

// ResolvedEntry is one line of the corrected retrieval list.
// Range is only set when the base identifier is not fragmented.
type ResolvedEntry struct {
	LogicalDB  string     `json:"logical_db"`
	Identifier string     `json:"identifier"`
	Range      CoordRange `json:"range"`
}

func (e ResolvedEntry) QualifiedID() QualifiedID {
	return QualifiedID{LogicalDB: e.LogicalDB, Identifier: e.Identifier}
}

// PendingCoordinate is a range requested on a fragmented base identifier.
// It is applied locally after reassembly.
type PendingCoordinate struct {
	BaseIdentifier string     `json:"base_identifier"`
	Order          int        `json:"order"`
	Range          CoordRange `json:"range"`
}

// RawRecord is one FASTA record as streamed by the fetch collaborator.
// Body holds the residues with line wraps removed. LogicalDB is set when
// the header carried a DB: prefix.
type RawRecord struct {
	LogicalDB   string
	Identifier  string
	Description string
	Body        string
}

func (r RawRecord) Header() string {
	return header(r.Identifier, r.Description)
}

func (r RawRecord) Residues() string {
	return r.Body
}

// ReassembledSequence is the stitched result of one or more raw records
// sharing a base identifier.
type ReassembledSequence struct {
	BaseIdentifier string
	Description    string
	Body           string
	Fragments      int
}

func (s ReassembledSequence) Header() string {
	return header(s.BaseIdentifier, s.Description)
}

func (s ReassembledSequence) Residues() string {
	return s.Body
}

func header(id, desc string) string {
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return ">" + id
	}
	return ">" + id + " " + desc
}
