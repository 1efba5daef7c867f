package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aalvaropc/seqyank/internal/domain"
)

const (
	ContentTypeText = "text/plain; charset=utf-8"
	ContentTypeJSON = "application/json"
)

// Payload is one upstream call: always a POST carrying a list.
type Payload struct {
	URL         string
	ContentType string
	Accept      string
	Body        []byte
}

// TextPayload posts a list file.
func TextPayload(url, text string) Payload {
	return Payload{URL: url, ContentType: ContentTypeText, Body: []byte(text)}
}

// JSONPayload posts v encoded as JSON and asks for JSON back.
func JSONPayload(url string, v any) (Payload, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return Payload{}, &domain.OpError{Op: "httpclient.build", Kind: domain.KindInvalidConfig, Err: err}
	}
	return Payload{URL: url, ContentType: ContentTypeJSON, Accept: ContentTypeJSON, Body: b}, nil
}

// BuildRequest builds the HTTP request for p.
func BuildRequest(ctx context.Context, p Payload) (*http.Request, error) {
	if strings.TrimSpace(p.URL) == "" {
		return nil, &domain.OpError{
			Op:   "httpclient.build",
			Kind: domain.KindInvalidConfig,
			Err:  domain.ErrInvalidConfig,
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.URL, bytes.NewReader(p.Body))
	if err != nil {
		return nil, &domain.OpError{
			Op:   "httpclient.build",
			Kind: domain.KindInvalidConfig,
			Path: p.URL,
			Err:  err,
		}
	}

	if p.ContentType != "" {
		req.Header.Set("Content-Type", p.ContentType)
	}
	if p.Accept != "" {
		req.Header.Set("Accept", p.Accept)
	}
	return req, nil
}
