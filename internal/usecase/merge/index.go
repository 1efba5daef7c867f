package merge

import (
	"sort"

	"github.com/aalvaropc/seqyank/internal/domain"
)

// tier is the revision stream an annotation entry came from.
type tier int

const (
	tierPreferred tier = iota
	tierStandard
	tierCount
)

// group collects the entries one tier holds for a single identifier:
// the entry named exactly like it and any identifier_N fragments.
type group struct {
	exact     *domain.AnnotationEntry
	fragments map[int]domain.AnnotationEntry
}

func (g *group) empty() bool {
	return g == nil || (g.exact == nil && len(g.fragments) == 0)
}

func (g *group) fragmented() bool {
	return len(g.fragments) > 0
}

// rows returns the retrieval rows of the group: fragments sorted by
// numeric ordinal, otherwise the exact entry.
func (g *group) rows() []domain.AnnotationEntry {
	if !g.fragmented() {
		return []domain.AnnotationEntry{*g.exact}
	}
	ords := make([]int, 0, len(g.fragments))
	for n := range g.fragments {
		ords = append(ords, n)
	}
	sort.Ints(ords)

	out := make([]domain.AnnotationEntry, 0, len(ords))
	for _, n := range ords {
		out = append(out, g.fragments[n])
	}
	return out
}

// groupIndex is keyed first by tier, then by identifier key.
type groupIndex [tierCount]map[string]*group

func newGroupIndex(entries []domain.AnnotationEntry) *groupIndex {
	var idx groupIndex
	for t := range idx {
		idx[t] = map[string]*group{}
	}

	for _, e := range entries {
		if e.Identifier == "" {
			continue
		}
		t := tierStandard
		if e.Preferred {
			t = tierPreferred
		}

		g := idx.at(t, e.Identifier)
		if g.exact == nil {
			g.exact = &e
		}

		if e.IsFragment() {
			fg := idx.at(t, e.BaseIdentifier)
			if _, dup := fg.fragments[*e.Ordinal]; !dup {
				fg.fragments[*e.Ordinal] = e
			}
		}
	}
	return &idx
}

func (idx *groupIndex) at(t tier, id string) *group {
	k := domain.Key(id)
	g, ok := idx[t][k]
	if !ok {
		g = &group{fragments: map[int]domain.AnnotationEntry{}}
		idx[t][k] = g
	}
	return g
}

// resolve returns the group for a requested identifier. The preferred tier
// wins outright; the two tiers are never merged.
func (idx *groupIndex) resolve(id string) (*group, tier, bool) {
	k := domain.Key(id)
	for t := tierPreferred; t < tierCount; t++ {
		if g := idx[t][k]; !g.empty() {
			return g, t, true
		}
	}
	return nil, tierCount, false
}
