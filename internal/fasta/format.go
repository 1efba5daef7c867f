package fasta

import "strings"

// Wrap breaks residues into lines of at most width characters, each
// terminated by a newline. width <= 0 keeps a single line.
func Wrap(residues string, width int) string {
	if residues == "" {
		return ""
	}
	if width <= 0 || len(residues) <= width {
		return residues + "\n"
	}

	var b strings.Builder
	b.Grow(len(residues) + len(residues)/width + 1)
	for off := 0; off < len(residues); off += width {
		end := off + width
		if end > len(residues) {
			end = len(residues)
		}
		b.WriteString(residues[off:end])
		b.WriteByte('\n')
	}
	return b.String()
}

// Format renders one record: header line then wrapped residues.
func Format(header, residues string, width int) string {
	if !strings.HasPrefix(header, ">") {
		header = ">" + header
	}
	return header + "\n" + Wrap(residues, width)
}

var complement = map[byte]byte{
	'a': 't', 't': 'a', 'c': 'g', 'g': 'c', 'n': 'n',
	'A': 'T', 'T': 'A', 'C': 'G', 'G': 'C', 'N': 'N',
}

// ReverseComplement returns the minus-strand reading of dna.
// Unknown residues are kept as they are.
func ReverseComplement(dna string) string {
	out := make([]byte, len(dna))
	for i := 0; i < len(dna); i++ {
		b := dna[len(dna)-1-i]
		if c, ok := complement[b]; ok {
			b = c
		}
		out[i] = b
	}
	return string(out)
}
