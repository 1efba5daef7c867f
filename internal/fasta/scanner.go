// Package fasta reads and writes FASTA text.
package fasta

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/aalvaropc/seqyank/internal/domain"
)

const maxLine = 64 * 1024 * 1024 // allow very long single-line sequences (64 MiB)

// Scanner yields the records of a concatenated FASTA stream one at a time.
// The stream is read once, front to back.
type Scanner struct {
	sc      *bufio.Scanner
	pending string // header line of the next record, if already read
	started bool
	done    bool
}

func NewScanner(r io.Reader) *Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLine)
	return &Scanner{sc: sc}
}

// Next returns the next record, or io.EOF once the stream is exhausted.
// Text before the first header is ignored.
func (s *Scanner) Next() (domain.RawRecord, error) {
	if s.done {
		return domain.RawRecord{}, io.EOF
	}

	if !s.started {
		s.started = true
		for s.sc.Scan() {
			line := s.sc.Bytes()
			if len(line) > 0 && line[0] == '>' {
				s.pending = string(line)
				break
			}
		}
		if err := s.sc.Err(); err != nil {
			s.done = true
			return domain.RawRecord{}, fmt.Errorf("fasta scan: %w", err)
		}
	}

	if s.pending == "" {
		s.done = true
		return domain.RawRecord{}, io.EOF
	}

	db, id, desc := ParseHeader(s.pending)
	s.pending = ""

	var body bytes.Buffer
	for s.sc.Scan() {
		line := s.sc.Bytes()
		if len(line) > 0 && line[0] == '>' {
			s.pending = string(line)
			break
		}
		body.Write(bytes.TrimSpace(line))
	}
	if err := s.sc.Err(); err != nil {
		s.done = true
		return domain.RawRecord{}, fmt.Errorf("fasta scan: %w", err)
	}

	return domain.RawRecord{LogicalDB: db, Identifier: id, Description: desc, Body: body.String()}, nil
}

// ParseHeader splits a ">DB:ID description" line. The DB: prefix is optional.
func ParseHeader(line string) (db, id, desc string) {
	line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), ">"))
	if i := strings.IndexAny(line, " \t"); i >= 0 {
		id, desc = line[:i], strings.TrimSpace(line[i+1:])
	} else {
		id = line
	}
	if i := strings.LastIndex(id, ":"); i >= 0 {
		db, id = id[:i], id[i+1:]
	}
	return db, id, desc
}

// ReadAll drains r into records.
func ReadAll(r io.Reader) ([]domain.RawRecord, error) {
	s := NewScanner(r)
	var out []domain.RawRecord
	for {
		rec, err := s.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
}
