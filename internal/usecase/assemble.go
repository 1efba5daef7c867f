package usecase

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/aalvaropc/seqyank/internal/domain"
	"github.com/aalvaropc/seqyank/internal/usecase/extract"
	"github.com/aalvaropc/seqyank/internal/usecase/merge"
)

// assemble pairs reassembled sequences with the plan's units and renders
// one FASTA record per resolved request, in request order.
func assemble(plan merge.Plan, seqs []domain.ReassembledSequence, width int, log *slog.Logger) domain.ResultSet {
	queues := map[string][]domain.ReassembledSequence{}
	for _, s := range seqs {
		k := domain.Key(s.BaseIdentifier)
		queues[k] = append(queues[k], s)
	}

	byUnit := make([]*domain.ReassembledSequence, len(plan.Units))
	for i, u := range plan.Units {
		q := queues[u.Key]
		if len(q) == 0 {
			continue
		}
		s := q[0]
		byUnit[i] = &s
		queues[u.Key] = q[1:]
	}
	for k, q := range queues {
		if len(q) > 0 {
			log.Debug("batch.unmatched", "identifier", k, "count", len(q))
		}
	}

	missing := map[string]bool{}
	for _, id := range plan.Missing {
		missing[domain.Key(id)] = true
	}

	rs := domain.ResultSet{Found: []domain.FoundSequence{}, Missing: []string{}}
	for _, as := range plan.Assignments {
		if as.Unit < 0 {
			continue
		}
		seq := byUnit[as.Unit]
		if seq == nil {
			missing[domain.Key(as.Identifier)] = true
			if !seenIssue(rs.Issues, as.Identifier) {
				rs.Issues = append(rs.Issues, domain.Issue{
					Kind:       domain.KindUnresolvedIdentifier,
					Order:      as.Order,
					Identifier: as.Identifier,
					Message:    "not returned by the fetch collaborator",
				})
			}
			continue
		}

		r, _ := plan.PendingFor(as.Order)
		text, err := render(*seq, r, as.Strand, width)
		if err != nil {
			missing[domain.Key(as.Identifier)] = true
			rs.Issues = append(rs.Issues, domain.Issue{
				Kind:       domain.KindOf(err),
				Order:      as.Order,
				Identifier: as.Identifier,
				Message:    err.Error(),
			})
			continue
		}

		rs.Found = append(rs.Found, domain.FoundSequence{
			Order:      as.Order,
			Identifier: as.Identifier,
			FASTA:      text,
		})
	}

	sort.SliceStable(rs.Found, func(i, j int) bool { return rs.Found[i].Order < rs.Found[j].Order })

	listed := map[string]bool{}
	for _, as := range plan.Assignments {
		k := domain.Key(as.Identifier)
		if missing[k] && !listed[k] {
			listed[k] = true
			rs.Missing = append(rs.Missing, as.Identifier)
		}
	}
	return rs
}

func render(seq domain.ReassembledSequence, r domain.CoordRange, strand domain.Strand, width int) (string, error) {
	w, err := extract.Window(seq, r)
	if err != nil {
		return "", fmt.Errorf("pending range: %w", err)
	}
	if strand == domain.StrandMinus {
		w = extract.Minus(w)
	}
	return extract.Render(w, width), nil
}

func seenIssue(issues []domain.Issue, id string) bool {
	for _, is := range issues {
		if domain.Key(is.Identifier) == domain.Key(id) {
			return true
		}
	}
	return false
}
