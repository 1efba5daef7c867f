package domain

import "strings"

// Strand selects which strand of a nucleotide sequence is returned.
type Strand string

const (
	StrandPlus  Strand = "+"
	StrandMinus Strand = "-"
)

// ParseStrand maps the caller-facing strand field onto a Strand.
// "1" and "+" mean plus, "0" and "-" mean minus, anything else is plus.
func ParseStrand(s string) Strand {
	switch strings.TrimSpace(s) {
	case "0", "-":
		return StrandMinus
	default:
		return StrandPlus
	}
}

// CoordRange is a 1-based, inclusive subsequence window. Either side may be absent.
type CoordRange struct {
	Begin *int `json:"begin,omitempty"`
	End   *int `json:"end,omitempty"`
}

// NewRange builds a fully specified range.
func NewRange(begin, end int) CoordRange {
	return CoordRange{Begin: &begin, End: &end}
}

// IsZero reports whether neither side of the range is set.
func (r CoordRange) IsZero() bool {
	return r.Begin == nil && r.End == nil
}

// Equal compares two ranges by value.
func (r CoordRange) Equal(o CoordRange) bool {
	return intPtrEqual(r.Begin, o.Begin) && intPtrEqual(r.End, o.End)
}

// Resolve fills absent sides: begin defaults to 1 and end to length.
func (r CoordRange) Resolve(length int) (begin, end int) {
	begin, end = 1, length
	if r.Begin != nil {
		begin = *r.Begin
	}
	if r.End != nil {
		end = *r.End
	}
	return begin, end
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// SequenceRequest is one normalized line of the caller's request list.
// Order is the 0-based position in the original list; identifiers may repeat.
type SequenceRequest struct {
	Order      int        `json:"order"`
	Alias      string     `json:"alias"`
	LogicalDB  string     `json:"logical_db"`
	Identifier string     `json:"identifier"`
	Range      CoordRange `json:"range"`
	Strand     Strand     `json:"strand"`

	// Line is the raw input line, kept for error reporting.
	Line string `json:"-"`
}

// Key returns the case-insensitive matching key of the requested identifier.
func (r SequenceRequest) Key() string {
	return Key(r.Identifier)
}

// QualifiedID is a logicalDB:identifier pair sent to the names collaborator.
type QualifiedID struct {
	LogicalDB  string
	Identifier string
}

func (q QualifiedID) String() string {
	return q.LogicalDB + ":" + q.Identifier
}

// Key normalizes an identifier for matching. The upstream store reports
// identifiers upper-cased.
func Key(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}
