// Package normalize turns caller request lines into typed sequence requests.
package normalize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aalvaropc/seqyank/internal/domain"
)

const fieldCount = 6

// Options configure line parsing.
type Options struct {
	Aliases     domain.AliasTable
	Delimiter   string
	MinPosition int
}

// OptionsFrom builds Options from workspace configuration.
func OptionsFrom(cfg domain.Config) Options {
	return Options{
		Aliases:     cfg.Aliases,
		Delimiter:   cfg.Reconcile.Delimiter,
		MinPosition: cfg.Reconcile.MinPosition,
	}
}

func (o Options) withDefaults() Options {
	def := domain.DefaultConfig()
	if o.Aliases == nil {
		o.Aliases = def.Aliases
	}
	if o.Delimiter == "" {
		o.Delimiter = def.Reconcile.Delimiter
	}
	if o.MinPosition < 1 {
		o.MinPosition = def.Reconcile.MinPosition
	}
	return o
}

// Result is the normalized form of one batch of request lines.
type Result struct {
	Requests []domain.SequenceRequest
	Coords   *CoordQueue
	Issues   []domain.Issue
}

// Normalize parses lines in order. Blank lines are skipped without taking an
// order slot; malformed lines take a slot and are reported as issues.
func Normalize(lines []string, opts Options) Result {
	opts = opts.withDefaults()

	res := Result{
		Requests: make([]domain.SequenceRequest, 0, len(lines)),
		Coords:   NewCoordQueue(),
	}

	order := 0
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		req, err := parseLine(line, order, opts)
		if err != nil {
			res.Issues = append(res.Issues, domain.Issue{
				Kind:    domain.KindMalformedRequest,
				Order:   order,
				Line:    line,
				Message: err.Error(),
			})
			order++
			continue
		}

		res.Requests = append(res.Requests, req)
		if !req.Range.IsZero() {
			res.Coords.Push(req.Identifier, req.Range)
		}
		order++
	}

	return res
}

func parseLine(line string, order int, opts Options) (domain.SequenceRequest, error) {
	fields := strings.Split(line, opts.Delimiter)
	if len(fields) != fieldCount {
		return domain.SequenceRequest{}, fmt.Errorf("expected %d fields separated by %q, got %d", fieldCount, opts.Delimiter, len(fields))
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	alias, id := fields[0], fields[1]
	if id == "" {
		return domain.SequenceRequest{}, fmt.Errorf("identifier is empty")
	}

	target, _ := opts.Aliases.Lookup(alias)
	if target.StripDots {
		id = strings.ReplaceAll(id, ".", "")
	}

	begin, err := optionalInt("begin", fields[2])
	if err != nil {
		return domain.SequenceRequest{}, err
	}
	end, err := optionalInt("end", fields[3])
	if err != nil {
		return domain.SequenceRequest{}, err
	}
	flank, err := optionalInt("flank", fields[5])
	if err != nil {
		return domain.SequenceRequest{}, err
	}

	if begin != nil && end != nil && *begin > *end {
		return domain.SequenceRequest{}, fmt.Errorf("begin %d is after end %d", *begin, *end)
	}

	if flank != nil && *flank > 0 {
		if begin != nil {
			b := *begin - *flank
			if b < opts.MinPosition {
				b = opts.MinPosition
			}
			begin = &b
		}
		if end != nil {
			e := *end + *flank
			end = &e
		}
	}

	return domain.SequenceRequest{
		Order:      order,
		Alias:      alias,
		LogicalDB:  target.DB,
		Identifier: id,
		Range:      domain.CoordRange{Begin: begin, End: end},
		Strand:     domain.ParseStrand(fields[4]),
		Line:       line,
	}, nil
}

func optionalInt(name, s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("%s %q is not a number", name, s)
	}
	if n < 0 {
		return nil, fmt.Errorf("%s %d is negative", name, n)
	}
	return &n, nil
}

// SplitUpload breaks a bulk upload into request lines. Both LF and CRLF
// line endings are accepted.
func SplitUpload(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var out []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
