// Package merge reconciles normalized requests with the annotation report
// into a corrected retrieval plan.
package merge

import (
	"github.com/aalvaropc/seqyank/internal/domain"
	"github.com/aalvaropc/seqyank/internal/usecase/normalize"
)

// Unit is one thing the fetched stream is expected to yield after
// reassembly: a single non-fragmented row or a whole fragment group.
type Unit struct {
	Key        string
	Identifier string
	LogicalDB  string
	Range      domain.CoordRange
	Fragmented bool
	Fragments  int
}

// Assignment ties a request to the unit that serves it.
// Unit is -1 when the identifier could not be resolved.
type Assignment struct {
	Order      int
	Identifier string
	Strand     domain.Strand
	Unit       int
}

// Plan is the outcome of a merge.
type Plan struct {
	Resolved    []domain.ResolvedEntry
	Pending     []domain.PendingCoordinate
	Missing     []string
	Issues      []domain.Issue
	Units       []Unit
	Assignments []Assignment

	fragmented map[string]bool
	// inRun[i] is true when Resolved[i] belongs to a fragment group.
	inRun []bool
}

type baseState struct {
	unit  int   // first unit emitted for the base
	units []int // non-fragmented rows emitted so far
}

// Merge walks requests in order and resolves each against entries.
// coords is not modified.
func Merge(requests []domain.SequenceRequest, coords *normalize.CoordQueue, entries []domain.AnnotationEntry) Plan {
	idx := newGroupIndex(entries)
	queue := coords.Clone()

	plan := Plan{fragmented: map[string]bool{}}
	seen := map[string]*baseState{}
	missing := map[string]bool{}

	for _, req := range requests {
		key := req.Key()
		as := Assignment{Order: req.Order, Identifier: req.Identifier, Strand: req.Strand, Unit: -1}

		g, _, ok := idx.resolve(req.Identifier)
		if !ok {
			if !missing[key] {
				missing[key] = true
				plan.Missing = append(plan.Missing, req.Identifier)
				plan.Issues = append(plan.Issues, domain.Issue{
					Kind:       domain.KindUnresolvedIdentifier,
					Order:      req.Order,
					Identifier: req.Identifier,
					Message:    "not present in the annotation report",
				})
			}
			plan.Assignments = append(plan.Assignments, as)
			continue
		}

		r, hasRange := queue.Pop(req.Identifier)
		st := seen[key]

		if g.fragmented() {
			if st == nil {
				st = &baseState{unit: plan.addFragmentGroup(key, g.rows())}
				seen[key] = st
			}
			if hasRange {
				plan.Pending = append(plan.Pending, domain.PendingCoordinate{
					BaseIdentifier: plan.Units[st.unit].Identifier,
					Order:          req.Order,
					Range:          r,
				})
			}
			as.Unit = st.unit
			plan.Assignments = append(plan.Assignments, as)
			continue
		}

		if st == nil {
			st = &baseState{}
			seen[key] = st
		}
		as.Unit = plan.rowFor(st, *g.exact, r)
		plan.Assignments = append(plan.Assignments, as)
	}

	return plan
}

// rowFor returns the unit serving entry with range r, emitting a new row
// unless an identical one was already emitted for the base.
func (p *Plan) rowFor(st *baseState, e domain.AnnotationEntry, r domain.CoordRange) int {
	for _, u := range st.units {
		if p.Units[u].Range.Equal(r) {
			return u
		}
	}

	p.Resolved = append(p.Resolved, domain.ResolvedEntry{
		LogicalDB:  e.LogicalDB,
		Identifier: e.Identifier,
		Range:      r,
	})
	p.inRun = append(p.inRun, false)
	p.Units = append(p.Units, Unit{
		Key:        domain.Key(e.Identifier),
		Identifier: e.Identifier,
		LogicalDB:  e.LogicalDB,
		Range:      r,
	})
	u := len(p.Units) - 1
	st.units = append(st.units, u)
	return u
}

func (p *Plan) addFragmentGroup(key string, rows []domain.AnnotationEntry) int {
	for _, e := range rows {
		p.Resolved = append(p.Resolved, domain.ResolvedEntry{
			LogicalDB:  e.LogicalDB,
			Identifier: e.Identifier,
		})
		p.inRun = append(p.inRun, true)
	}
	p.Units = append(p.Units, Unit{
		Key:        key,
		Identifier: rows[0].BaseIdentifier,
		LogicalDB:  rows[0].LogicalDB,
		Fragmented: true,
		Fragments:  len(rows),
	})
	p.fragmented[key] = true
	return len(p.Units) - 1
}

// PendingFor returns the range still to be applied for the request at order.
func (p Plan) PendingFor(order int) (domain.CoordRange, bool) {
	for _, pc := range p.Pending {
		if pc.Order == order {
			return pc.Range, true
		}
	}
	return domain.CoordRange{}, false
}

// IsFragmented reports whether base was resolved to a fragment group.
func (p Plan) IsFragmented(base string) bool {
	return p.fragmented[domain.Key(base)]
}

// FragmentParser recognizes base_N identifiers in the fetched stream, but
// only for bases this plan resolved to fragment groups. Accessions that
// merely contain an underscore stay whole.
//
// The parser expects one call per record in stream order. An identifier
// listed both inside a fragment run and as a requested row of its own
// (A_1 next to A) is classified by its position in Resolved, so the
// standalone copy stays whole. Records beyond the planned list fall back
// to the base check.
func (p Plan) FragmentParser() func(id string) (base string, ordinal int, ok bool) {
	planned := map[string][]bool{}
	for i, e := range p.Resolved {
		k := domain.Key(e.Identifier)
		planned[k] = append(planned[k], i < len(p.inRun) && p.inRun[i])
	}

	return func(id string) (string, int, bool) {
		k := domain.Key(id)
		if q := planned[k]; len(q) > 0 {
			planned[k] = q[1:]
			if !q[0] {
				return id, 0, false
			}
		}
		base, n, ok := domain.ParseFragmentID(id)
		if !ok || !p.fragmented[domain.Key(base)] {
			return id, 0, false
		}
		return base, n, true
	}
}

// QueryIDs returns the distinct logicalDB:identifier pairs to send to the
// names collaborator, in request order.
func QueryIDs(requests []domain.SequenceRequest) []domain.QualifiedID {
	seen := map[string]bool{}
	out := make([]domain.QualifiedID, 0, len(requests))
	for _, r := range requests {
		k := r.LogicalDB + "\x00" + r.Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, domain.QualifiedID{LogicalDB: r.LogicalDB, Identifier: domain.Key(r.Identifier)})
	}
	return out
}
