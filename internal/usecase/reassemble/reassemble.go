// Package reassemble stitches the fragments of a fetched FASTA stream back
// into whole sequences in a single forward pass.
package reassemble

import (
	"errors"
	"fmt"
	"io"

	"github.com/aalvaropc/seqyank/internal/domain"
)

// RecordSource yields raw records in stream order and io.EOF at the end.
type RecordSource interface {
	Next() (domain.RawRecord, error)
}

// FragmentParser splits a stream identifier into base and ordinal.
type FragmentParser func(id string) (base string, ordinal int, ok bool)

type Options struct {
	// OverlapLength residues are trimmed from the buffer tail before each join.
	OverlapLength int
	// ParseFragment defaults to domain.ParseFragmentID.
	ParseFragment FragmentParser
}

// Result holds the reassembled sequences in stream order plus any
// stitching anomalies.
type Result struct {
	Sequences []domain.ReassembledSequence
	Issues    []domain.Issue
}

type Reassembler struct {
	overlap int
	parse   FragmentParser
}

func New(opts Options) *Reassembler {
	r := &Reassembler{overlap: opts.OverlapLength, parse: opts.ParseFragment}
	if r.overlap < 0 {
		r.overlap = 0
	}
	if r.parse == nil {
		r.parse = domain.ParseFragmentID
	}
	return r
}

// scan is the per-pass state.
type scan struct {
	state     state
	base      string
	desc      string
	buf       []byte
	fragments int
	lastOrd   int

	out Result
}

// Run consumes src to the end. Stitching anomalies are reported as issues
// and never stop the pass; only a read error from src does.
func (r *Reassembler) Run(src RecordSource) (Result, error) {
	s := &scan{}

	for {
		rec, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Result{}, err
		}

		base, ord, frag := r.parse(rec.Identifier)
		rel := s.relate(base, ord, frag)
		act, ok := transitions[transition{s.state, rel}]
		if !ok {
			return Result{}, fmt.Errorf("reassemble: no transition for %s/%s", s.state, rel)
		}

		switch act {
		case actStartSingle:
			s.startSingle(rec, base, frag)
		case actStartRun:
			s.startRun(rec, base, ord)
		case actFlushStartSingle:
			s.flush()
			s.startSingle(rec, base, frag)
		case actFlushStartRun:
			s.flush()
			s.startRun(rec, base, ord)
		case actAppend:
			s.append(rec, ord, r.overlap)
		}
	}

	s.flush()
	return s.out, nil
}

func (s *scan) relate(base string, ord int, frag bool) relation {
	if !frag {
		return relPlain
	}
	same := s.state != stateEmpty && domain.Key(base) == domain.Key(s.base)
	switch {
	case ord == 0 && same:
		return relStartSame
	case ord == 0:
		return relStartOther
	case same:
		return relContinueSame
	default:
		return relContinueOther
	}
}

func (s *scan) startSingle(rec domain.RawRecord, base string, frag bool) {
	id := rec.Identifier
	if frag {
		// A continuation fragment with no run to join: kept whole under its base.
		id = base
		s.issue(base, fmt.Sprintf("orphan fragment %s outside its run", rec.Identifier))
	}
	s.state = stateSingle
	s.base = id
	s.desc = rec.Description
	s.buf = []byte(rec.Body)
	s.fragments = 1
}

func (s *scan) startRun(rec domain.RawRecord, base string, ord int) {
	if ord != 0 {
		s.issue(base, fmt.Sprintf("fragment run starts at ordinal %d", ord))
	}
	s.state = stateRun
	s.base = base
	s.desc = rec.Description
	s.buf = []byte(rec.Body)
	s.fragments = 1
	s.lastOrd = ord
}

func (s *scan) append(rec domain.RawRecord, ord, overlap int) {
	switch {
	case ord == s.lastOrd:
		s.issue(s.base, fmt.Sprintf("duplicate fragment ordinal %d", ord))
	case ord < s.lastOrd:
		s.issue(s.base, fmt.Sprintf("fragment ordinal %d after %d", ord, s.lastOrd))
	case ord > s.lastOrd+1:
		s.issue(s.base, fmt.Sprintf("fragment ordinal %d follows %d, gap", ord, s.lastOrd))
	}

	s.buf = join(s.buf, rec.Body, overlap)
	s.fragments++
	s.lastOrd = ord
}

func (s *scan) flush() {
	if s.state == stateEmpty {
		return
	}
	s.out.Sequences = append(s.out.Sequences, domain.ReassembledSequence{
		BaseIdentifier: s.base,
		Description:    s.desc,
		Body:           string(s.buf),
		Fragments:      s.fragments,
	})
	s.state = stateEmpty
	s.base, s.desc, s.buf, s.fragments, s.lastOrd = "", "", nil, 0, 0
}

func (s *scan) issue(base, msg string) {
	s.out.Issues = append(s.out.Issues, domain.Issue{
		Kind:       domain.KindFragmentOrder,
		Order:      -1,
		Identifier: base,
		Message:    msg,
	})
}

// join drops the last overlap residues of buf and appends body.
// A buffer no longer than the overlap is emptied.
func join(buf []byte, body string, overlap int) []byte {
	if overlap > 0 {
		if len(buf) <= overlap {
			buf = buf[:0]
		} else {
			buf = buf[:len(buf)-overlap]
		}
	}
	return append(buf, body...)
}

// SliceSource adapts an in-memory list of records.
type SliceSource struct {
	recs []domain.RawRecord
	pos  int
}

func NewSliceSource(recs []domain.RawRecord) *SliceSource {
	return &SliceSource{recs: recs}
}

func (s *SliceSource) Next() (domain.RawRecord, error) {
	if s.pos >= len(s.recs) {
		return domain.RawRecord{}, io.EOF
	}
	r := s.recs[s.pos]
	s.pos++
	return r, nil
}
