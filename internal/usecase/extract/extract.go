// Package extract slices subranges out of whole sequences and renders them
// as FASTA text.
package extract

import (
	"fmt"

	"github.com/aalvaropc/seqyank/internal/domain"
	"github.com/aalvaropc/seqyank/internal/fasta"
)

// Sequence is anything with a FASTA header and an unwrapped residue body.
type Sequence interface {
	Header() string
	Residues() string
}

// Slice returns residues [begin, end] (1-based, inclusive) of seq. Absent
// sides default to the sequence bounds.
func Slice(seq Sequence, r domain.CoordRange) (string, error) {
	body := seq.Residues()
	begin, end := r.Resolve(len(body))

	if begin < 1 || end > len(body) || begin > end {
		return "", &domain.OpError{
			Op:   "extract.slice",
			Kind: domain.KindRangeOutOfBounds,
			Err:  fmt.Errorf("%w: [%d, %d] on %d residues", domain.ErrRangeOutOfBounds, begin, end, len(body)),
		}
	}
	return body[begin-1 : end], nil
}

// Extract renders the requested window of seq wrapped to width, under the
// original header.
func Extract(seq Sequence, r domain.CoordRange, width int) (string, error) {
	w, err := Window(seq, r)
	if err != nil {
		return "", err
	}
	return Render(w, width), nil
}

// Render renders the whole of seq.
func Render(seq Sequence, width int) string {
	return fasta.Format(seq.Header(), seq.Residues(), width)
}

// Minus returns seq read from the minus strand.
func Minus(seq Sequence) Sequence {
	return oriented{header: seq.Header(), residues: fasta.ReverseComplement(seq.Residues())}
}

type oriented struct {
	header   string
	residues string
}

func (o oriented) Header() string   { return o.header }
func (o oriented) Residues() string { return o.residues }

// Window returns the [begin, end] slice of seq under the same header.
// A zero range returns seq unchanged.
func Window(seq Sequence, r domain.CoordRange) (Sequence, error) {
	if r.IsZero() {
		return seq, nil
	}
	s, err := Slice(seq, r)
	if err != nil {
		return nil, err
	}
	return oriented{header: seq.Header(), residues: s}, nil
}
