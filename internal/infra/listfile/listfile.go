// Package listfile reads and writes the list-file text exchanged with the
// upstream store: a ".." header line followed by one DB:ID row per line,
// optionally followed by Begin:/End: coordinates.
package listfile

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/aalvaropc/seqyank/internal/domain"
)

const header = ".."

var rowRe = regexp.MustCompile(`^\s*([A-Za-z_0-9]+):([A-Za-z0-9_.\-]+)(?:\s+Begin:([0-9]*))?(?:\s+End:([0-9]*))?`)

// EncodeQuery renders the names query: identifiers only, no coordinates.
func EncodeQuery(ids []domain.QualifiedID) string {
	var b strings.Builder
	b.WriteString(header + "\n")
	for _, id := range ids {
		b.WriteString(id.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// EncodeRetrieval renders the corrected retrieval list.
func EncodeRetrieval(list []domain.ResolvedEntry) string {
	var b strings.Builder
	b.WriteString(header + "\n")
	for _, e := range list {
		b.WriteString(e.QualifiedID().String())
		if !e.Range.IsZero() {
			fmt.Fprintf(&b, "   Begin:%s  End:%s", intOrBlank(e.Range.Begin), intOrBlank(e.Range.End))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// EncodeReport renders an annotation report, one DB:ID row per stored entry.
func EncodeReport(entries []domain.AnnotationEntry) string {
	var b strings.Builder
	b.WriteString(header + "\n")
	for _, e := range entries {
		b.WriteString(e.LogicalDB + ":" + e.Identifier)
		b.WriteByte('\n')
	}
	return b.String()
}

func intOrBlank(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

// Row is one parsed list-file line.
type Row struct {
	LogicalDB  string
	Identifier string
	Range      domain.CoordRange
}

// Parse reads every DB:ID row of r. The header line, blank lines and lines
// that do not start with DB:ID are skipped; text after the row is ignored.
func Parse(r io.Reader) ([]Row, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	var out []Row
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == header {
			continue
		}
		m := rowRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		row := Row{LogicalDB: m[1], Identifier: m[2]}
		row.Range.Begin = atoiOrNil(m[3])
		row.Range.End = atoiOrNil(m[4])
		out = append(out, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("listfile: %w", err)
	}
	return out, nil
}

func atoiOrNil(s string) *int {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// ParseReport reads an annotation report into entries.
func ParseReport(r io.Reader, preferredDB string) ([]domain.AnnotationEntry, error) {
	rows, err := Parse(r)
	if err != nil {
		return nil, err
	}
	out := make([]domain.AnnotationEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.NewAnnotationEntry(row.LogicalDB, row.Identifier, preferredDB))
	}
	return out, nil
}

// ParseRetrieval reads a retrieval list back into resolved entries.
func ParseRetrieval(r io.Reader) ([]domain.ResolvedEntry, error) {
	rows, err := Parse(r)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ResolvedEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.ResolvedEntry{LogicalDB: row.LogicalDB, Identifier: row.Identifier, Range: row.Range})
	}
	return out, nil
}

// ParseQuery reads a names query back into qualified ids.
func ParseQuery(r io.Reader) ([]domain.QualifiedID, error) {
	rows, err := Parse(r)
	if err != nil {
		return nil, err
	}
	out := make([]domain.QualifiedID, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.QualifiedID{LogicalDB: row.LogicalDB, Identifier: row.Identifier})
	}
	return out, nil
}
