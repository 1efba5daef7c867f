// Package catalog is a file-backed sequence store. It answers names and
// fetch calls from one FASTA file whose headers read ">DB:ID description",
// the way the remote store would, including fragments and revision streams.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/aalvaropc/seqyank/internal/domain"
	"github.com/aalvaropc/seqyank/internal/fasta"
	"github.com/aalvaropc/seqyank/internal/ports"
)

const lineWidth = 60

type Catalog struct {
	preferredDB string
	records     []domain.RawRecord
	byQID       map[string]int
}

// Load reads the catalog at path.
func Load(path, preferredDB string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		kind := domain.KindExecution
		if errors.Is(err, fs.ErrNotExist) {
			kind = domain.KindNotFound
		}
		return nil, &domain.OpError{Op: "catalog.load", Kind: kind, Path: path, Err: err}
	}
	defer f.Close()

	c, err := Read(f, preferredDB)
	if err != nil {
		return nil, &domain.OpError{Op: "catalog.load", Kind: domain.KindInvalidConfig, Path: path, Err: err}
	}
	return c, nil
}

// Read builds a catalog from FASTA text. Every header needs a DB: prefix.
func Read(r io.Reader, preferredDB string) (*Catalog, error) {
	recs, err := fasta.ReadAll(r)
	if err != nil {
		return nil, err
	}

	c := &Catalog{preferredDB: preferredDB, byQID: map[string]int{}}
	for _, rec := range recs {
		if rec.LogicalDB == "" {
			return nil, fmt.Errorf("record %q has no DB: prefix", rec.Identifier)
		}
		rec.LogicalDB = strings.ToUpper(rec.LogicalDB)
		rec.Identifier = domain.Key(rec.Identifier)
		k := qid(rec.LogicalDB, rec.Identifier)
		if _, dup := c.byQID[k]; dup {
			return nil, fmt.Errorf("duplicate record %s", k)
		}
		c.byQID[k] = len(c.records)
		c.records = append(c.records, rec)
	}
	return c, nil
}

var (
	_ ports.AnnotationSource = (*Catalog)(nil)
	_ ports.SequenceFetcher  = (*Catalog)(nil)
)

// Len returns the number of records held.
func (c *Catalog) Len() int {
	return len(c.records)
}

// Annotate reports, for every queried identifier, the records named like it
// or as its base_N fragments, in the queried database and in the preferred
// revision database.
func (c *Catalog) Annotate(ctx context.Context, ids []domain.QualifiedID) ([]domain.AnnotationEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []domain.AnnotationEntry
	seen := map[int]bool{}
	for _, q := range ids {
		var hits []int
		for i, rec := range c.records {
			if seen[i] || !c.inScope(rec.LogicalDB, q.LogicalDB) {
				continue
			}
			if rec.Identifier == domain.Key(q.Identifier) {
				hits = append(hits, i)
				continue
			}
			if _, ok := domain.FragmentOf(rec.Identifier, q.Identifier); ok {
				hits = append(hits, i)
			}
		}
		sort.Ints(hits)
		for _, i := range hits {
			seen[i] = true
			out = append(out, domain.NewAnnotationEntry(c.records[i].LogicalDB, c.records[i].Identifier, c.preferredDB))
		}
	}
	return out, nil
}

func (c *Catalog) inScope(recDB, queryDB string) bool {
	return strings.EqualFold(recDB, queryDB) || strings.EqualFold(recDB, c.preferredDB)
}

// Fetch renders the listed records in list order. Rows naming unknown
// records are skipped. Ranges are clamped to the record.
func (c *Catalog) Fetch(ctx context.Context, list []domain.ResolvedEntry) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var b strings.Builder
	for _, e := range list {
		i, ok := c.byQID[qid(strings.ToUpper(e.LogicalDB), domain.Key(e.Identifier))]
		if !ok {
			continue
		}
		rec := c.records[i]

		body := rec.Body
		if !e.Range.IsZero() {
			begin, end := e.Range.Resolve(len(body))
			begin = max(begin, 1)
			end = min(end, len(body))
			if begin > end {
				continue
			}
			body = body[begin-1 : end]
		}

		hdr := ">" + rec.LogicalDB + ":" + rec.Identifier
		if rec.Description != "" {
			hdr += " " + rec.Description
		}
		b.WriteString(fasta.Format(hdr, body, lineWidth))
	}
	return io.NopCloser(strings.NewReader(b.String())), nil
}

func qid(db, id string) string {
	return db + ":" + id
}
