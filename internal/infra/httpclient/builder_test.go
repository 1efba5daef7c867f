package httpclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aalvaropc/seqyank/internal/domain"
)

func TestBuildRequestText(t *testing.T) {
	assert := func(r *http.Request, body []byte) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected method POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != ContentTypeText {
			t.Fatalf("expected text content-type, got %s", ct)
		}
		if string(body) != "..\nGBALL:A\n" {
			t.Fatalf("unexpected body %q", body)
		}
	}

	runRequest(t, "/names", func(url string) Payload { return TextPayload(url, "..\nGBALL:A\n") }, assert)
}

func TestBuildRequestJSON(t *testing.T) {
	assert := func(r *http.Request, body []byte) {
		if ct := r.Header.Get("Content-Type"); ct != ContentTypeJSON {
			t.Fatalf("expected json content-type, got %s", ct)
		}
		if r.Header.Get("Accept") != ContentTypeJSON {
			t.Fatalf("expected json accept header")
		}
		var decoded map[string][]string
		if err := json.Unmarshal(body, &decoded); err != nil {
			t.Fatalf("expected valid json body: %v", err)
		}
		if len(decoded["ids"]) != 1 || decoded["ids"][0] != "GBALL:A" {
			t.Fatalf("unexpected payload %v", decoded)
		}
	}

	runRequest(t, "/names", func(url string) Payload {
		p, err := JSONPayload(url, map[string][]string{"ids": {"GBALL:A"}})
		if err != nil {
			t.Fatalf("payload: %v", err)
		}
		return p
	}, assert)
}

func TestBuildRequestEmptyURL(t *testing.T) {
	_, err := BuildRequest(context.Background(), TextPayload("  ", ""))
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected invalid config, got %v", err)
	}
}

func runRequest(t *testing.T, path string, payload func(url string) Payload, assert func(*http.Request, []byte)) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("failed reading body: %v", err)
		}
		if r.URL.Path != path {
			t.Errorf("expected path %s, got %s", path, r.URL.Path)
		}
		assert(r, body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	req, err := BuildRequest(context.Background(), payload(server.URL+path))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("failed request: %v", err)
	}
	resp.Body.Close()
}
