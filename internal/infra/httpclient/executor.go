package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ResponseData captures a buffered response and its duration.
type ResponseData struct {
	Status    int
	Headers   http.Header
	BodyBytes []byte
	Truncated bool
	Duration  time.Duration
}

// StatusError reports a non-2xx answer from the upstream.
type StatusError struct {
	Status int
	URL    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s answered %d %s", e.URL, e.Status, http.StatusText(e.Status))
}

// Executor executes upstream HTTP calls with a per-call timeout.
type Executor struct {
	client       *http.Client
	timeout      time.Duration
	maxBodyBytes int64
}

// ExecutorOption allows configuring an Executor.
type ExecutorOption func(*Executor)

// WithTimeout sets the timeout applied to each call.
func WithTimeout(timeout time.Duration) ExecutorOption {
	return func(e *Executor) { e.timeout = timeout }
}

// WithClient sets a custom HTTP client.
func WithClient(client *http.Client) ExecutorOption {
	return func(e *Executor) { e.client = client }
}

func WithMaxBodyBytes(n int64) ExecutorOption {
	return func(e *Executor) { e.maxBodyBytes = n }
}

// NewExecutor builds an Executor from cfg; options override it.
func NewExecutor(cfg Config, opts ...ExecutorOption) *Executor {
	e := &Executor{
		client:       New(cfg),
		timeout:      cfg.Timeout,
		maxBodyBytes: cfg.MaxBodyBytes,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Do executes req and buffers at most maxBodyBytes of the body.
// Non-2xx answers are returned as *StatusError along with the data.
func (e *Executor) Do(ctx context.Context, req *http.Request) (ResponseData, error) {
	start := time.Now()
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	resp, err := e.client.Do(req.WithContext(ctx))
	if err != nil {
		return ResponseData{Duration: time.Since(start)}, err
	}
	defer resp.Body.Close()

	body, truncated, err := readBounded(resp.Body, e.maxBodyBytes)
	data := ResponseData{
		Status:    resp.StatusCode,
		Headers:   resp.Header.Clone(),
		BodyBytes: body,
		Truncated: truncated,
		Duration:  time.Since(start),
	}
	if err != nil {
		return data, err
	}
	if !ok(resp.StatusCode) {
		return data, &StatusError{Status: resp.StatusCode, URL: req.URL.Redacted()}
	}
	return data, nil
}

// Open executes req and hands back the body unread. The call's timeout
// keeps running until the caller closes the body.
func (e *Executor) Open(ctx context.Context, req *http.Request) (io.ReadCloser, error) {
	ctx, cancel := e.withTimeout(ctx)

	resp, err := e.client.Do(req.WithContext(ctx))
	if err != nil {
		cancel()
		return nil, err
	}
	if !ok(resp.StatusCode) {
		resp.Body.Close()
		cancel()
		return nil, &StatusError{Status: resp.StatusCode, URL: req.URL.Redacted()}
	}
	return &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}, nil
}

func (e *Executor) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.timeout > 0 {
		return context.WithTimeout(ctx, e.timeout)
	}
	return context.WithCancel(ctx)
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}

func ok(status int) bool {
	return status >= 200 && status < 300
}

func readBounded(r io.Reader, maxBytes int64) ([]byte, bool, error) {
	if maxBytes <= 0 {
		b, err := io.ReadAll(r)
		return b, false, err
	}
	b, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, false, err
	}
	if int64(len(b)) > maxBytes {
		return b[:maxBytes], true, nil
	}
	return b, false, nil
}
