package httpserver

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aalvaropc/seqyank/internal/infra/batchfile"
	"github.com/aalvaropc/seqyank/internal/infra/catalog"
	"github.com/aalvaropc/seqyank/internal/usecase"
)

func newServer(t *testing.T) *Server {
	t.Helper()
	cat, err := catalog.Read(strings.NewReader(testCatalog), "GB_NEW")
	require.NoError(t, err)
	uc := usecase.NewRetrieveBatch(batchfile.NewLoader(), cat, cat, usecase.WithConfig(testConfig()))
	return NewServer("127.0.0.1:0", NewHandlers(uc), nil)
}

func TestServer_ShutdownBeforeStart(t *testing.T) {
	srv := newServer(t)
	assert.Equal(t, "127.0.0.1:0", srv.Addr())

	require.NoError(t, srv.Shutdown(context.Background()))

	errc := make(chan error, 1)
	go func() { errc <- srv.Start() }()

	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Start kept serving after Shutdown")
	}
}

func TestServer_StartThenShutdown(t *testing.T) {
	srv := newServer(t)

	errc := make(chan error, 1)
	go func() { errc <- srv.Start() }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))

	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after Shutdown")
	}
}
