// Package upstream talks to a remote sequence store over HTTP: a names
// endpoint that reports how identifiers are stored and a fetch endpoint
// that streams FASTA for a retrieval list.
package upstream

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/aalvaropc/seqyank/internal/domain"
	"github.com/aalvaropc/seqyank/internal/infra/httpclient"
	"github.com/aalvaropc/seqyank/internal/infra/listfile"
	"github.com/aalvaropc/seqyank/internal/ports"
)

type Client struct {
	exec        *httpclient.Executor
	namesURL    string
	fetchURL    string
	format      string
	jsonPath    string
	preferredDB string
}

type Option func(*Client)

func WithExecutor(e *httpclient.Executor) Option {
	return func(c *Client) {
		if e != nil {
			c.exec = e
		}
	}
}

// New builds a client from the upstream section of the workspace config.
func New(cfg domain.UpstreamConfig, preferredDB string, opts ...Option) *Client {
	c := &Client{
		exec:        httpclient.NewExecutor(httpclient.FromUpstream(cfg)),
		namesURL:    cfg.NamesURL,
		fetchURL:    cfg.FetchURL,
		format:      cfg.NamesFormat,
		jsonPath:    cfg.NamesJSONPath,
		preferredDB: preferredDB,
	}
	if c.format == "" {
		c.format = domain.NamesFormatListFile
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var (
	_ ports.AnnotationSource = (*Client)(nil)
	_ ports.SequenceFetcher  = (*Client)(nil)
)

// Annotate posts the names query and parses the report.
func (c *Client) Annotate(ctx context.Context, ids []domain.QualifiedID) ([]domain.AnnotationEntry, error) {
	var (
		p   httpclient.Payload
		err error
	)
	switch c.format {
	case domain.NamesFormatJSON:
		p, err = httpclient.JSONPayload(c.namesURL, namesQuery(ids))
	case domain.NamesFormatListFile:
		p = httpclient.TextPayload(c.namesURL, listfile.EncodeQuery(ids))
	default:
		return nil, &domain.OpError{
			Op:   "upstream.names",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("%w: unknown names format %q", domain.ErrInvalidConfig, c.format),
		}
	}
	if err != nil {
		return nil, err
	}

	req, err := httpclient.BuildRequest(ctx, p)
	if err != nil {
		return nil, err
	}

	resp, err := c.exec.Do(ctx, req)
	if err != nil {
		return nil, unavailable("upstream.names", c.namesURL, err)
	}
	if resp.Truncated {
		return nil, unavailable("upstream.names", c.namesURL, fmt.Errorf("report larger than %d bytes", len(resp.BodyBytes)))
	}

	var entries []domain.AnnotationEntry
	if c.format == domain.NamesFormatJSON {
		entries, err = decodeJSONReport(resp.BodyBytes, c.jsonPath, c.preferredDB)
	} else {
		entries, err = listfile.ParseReport(bytes.NewReader(resp.BodyBytes), c.preferredDB)
	}
	if err != nil {
		return nil, unavailable("upstream.names", c.namesURL, err)
	}
	return entries, nil
}

// Fetch posts the retrieval list and returns the FASTA stream unread.
func (c *Client) Fetch(ctx context.Context, list []domain.ResolvedEntry) (io.ReadCloser, error) {
	req, err := httpclient.BuildRequest(ctx, httpclient.TextPayload(c.fetchURL, listfile.EncodeRetrieval(list)))
	if err != nil {
		return nil, err
	}

	rc, err := c.exec.Open(ctx, req)
	if err != nil {
		return nil, unavailable("upstream.fetch", c.fetchURL, err)
	}
	return rc, nil
}

func unavailable(op, rawURL string, err error) error {
	return &domain.OpError{
		Op:   op,
		Kind: domain.KindUpstreamUnavailable,
		Path: redact(rawURL),
		Err:  fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err),
	}
}

func redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Redacted()
}
