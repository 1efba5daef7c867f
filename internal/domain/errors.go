package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for broad classification.
var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidConfig       = errors.New("invalid config")
	ErrMalformedRequest    = errors.New("malformed request")
	ErrUnresolved          = errors.New("unresolved identifier")
	ErrFragmentOrder       = errors.New("fragment order")
	ErrRangeOutOfBounds    = errors.New("range out of bounds")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrExecution           = errors.New("execution error")
)

// ErrorKind is a coarse-grained categorization for errors.
type ErrorKind string

const (
	KindNotFound             ErrorKind = "not_found"
	KindInvalidConfig        ErrorKind = "invalid_config"
	KindMalformedRequest     ErrorKind = "malformed_request"
	KindUnresolvedIdentifier ErrorKind = "unresolved_identifier"
	KindFragmentOrder        ErrorKind = "fragment_order"
	KindRangeOutOfBounds     ErrorKind = "range_out_of_bounds"
	KindUpstreamUnavailable  ErrorKind = "upstream_unavailable"
	KindExecution            ErrorKind = "execution"
)

// OpError wraps an underlying error with operation context and a kind.
type OpError struct {
	Op   string
	Kind ErrorKind
	Path string // Optional: relevant file path or URL
	Err  error
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Path != "" {
		base += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsKind helps callers classify errors without depending on infra packages.
func IsKind(err error, kind ErrorKind) bool {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind == kind
	}
	return false
}

// KindOf returns the kind of the outermost OpError, or KindExecution.
func KindOf(err error) ErrorKind {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind
	}
	return KindExecution
}

// Issue is a non-fatal, per-line or per-identifier problem collected during a batch.
// Order is -1 when the issue is not tied to a request.
type Issue struct {
	Kind       ErrorKind `json:"kind"`
	Order      int       `json:"order"`
	Identifier string    `json:"identifier,omitempty"`
	Line       string    `json:"line,omitempty"`
	Message    string    `json:"message"`
}

func (i Issue) String() string {
	switch {
	case i.Identifier != "":
		return fmt.Sprintf("%s: %s: %s", i.Kind, i.Identifier, i.Message)
	case i.Line != "":
		return fmt.Sprintf("%s: %q: %s", i.Kind, i.Line, i.Message)
	default:
		return fmt.Sprintf("%s: %s", i.Kind, i.Message)
	}
}
