package cli

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/seqyank/internal/infra/httpserver"
	"github.com/aalvaropc/seqyank/internal/infra/logger"
	"github.com/aalvaropc/seqyank/internal/usecase"
)

func serveCmd() *cobra.Command {
	var workspace string
	var addr string

	c := &cobra.Command{
		Use:   "serve",
		Short: "Serve the retrieval form endpoint over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = ws.cfg.Server.Addr
			}

			log := logger.L()
			uc := usecase.NewRetrieveBatch(ws.batches, ws.names, ws.fetcher,
				usecase.WithLogger(log),
				usecase.WithConfig(ws.cfg),
				usecase.WithUpstreamLabel(ws.upstream),
			)

			opts := []httpserver.Option{httpserver.WithLogger(log)}
			if ws.catalog != nil {
				opts = append(opts, httpserver.WithStore(ws.catalog, ws.cfg.Reconcile.PreferredDB))
			}
			srv := httpserver.NewServer(addr, httpserver.NewHandlers(uc, opts...), log)

			errc := make(chan error, 1)
			go func() { errc <- srv.Start() }()

			cmd.Printf("seqyank listening on %s\n", addr)

			select {
			case err := <-errc:
				return err
			case <-cmd.Context().Done():
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return <-errc
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	c.Flags().StringVar(&addr, "addr", "", "Listen address (defaults to seqyank.server.addr)")
	return c
}
