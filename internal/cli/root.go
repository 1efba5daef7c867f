package cli

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/seqyank/internal/infra/logger"
	"github.com/aalvaropc/seqyank/internal/infra/workspacefinder"
)

// session carries state shared by every command of one invocation.
type session struct {
	debug   bool
	cleanup func() error
}

func (s *session) close() {
	if s.cleanup != nil {
		_ = s.cleanup()
		s.cleanup = nil
	}
}

// setupLogger opens the workspace log when the command runs inside a
// workspace. Outside one, logging stays discarded.
func (s *session) setupLogger(mirror bool) {
	wd, err := os.Getwd()
	if err != nil {
		return
	}
	wd, _ = filepath.Abs(wd)

	root, err := workspacefinder.NewFinder().FindRoot(wd)
	if err != nil || root == "" {
		return
	}

	cfg := logger.Config{Root: root, Debug: s.debug}
	if mirror {
		cfg.Mirror = os.Stderr
	}
	cleanup, err := logger.Setup(cfg)
	if err == nil {
		s.cleanup = cleanup
	}
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	s := &session{}
	err := newRootCmd(s).ExecuteContext(ctx)
	s.close()
	if err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "seqyank",
		Short:        "seqyank: retrieve sequences in request order from a fragmenting sequence store",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			s.setupLogger(cmd.Name() == "serve")
		},
	}

	cmd.PersistentFlags().BoolVar(&s.debug, "debug", false, "enable verbose logging to .seqyank/logs/seqyank.log")

	cmd.AddCommand(
		initCmd(),
		retrieveCmd(),
		validateCmd(),
		batchesCmd(),
		aliasesCmd(),
		serveCmd(),
		versionCmd(),
	)
	return cmd
}
