package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/seqyank/internal/infra/fsworkspace"
	"github.com/aalvaropc/seqyank/internal/infra/logger"
	"github.com/aalvaropc/seqyank/internal/infra/workspacefinder"
	"github.com/aalvaropc/seqyank/internal/usecase"
)

func initCmd() *cobra.Command {
	var path string
	var force bool

	c := &cobra.Command{
		Use:   "init",
		Short: "Create a seqyank workspace with a demo batch and catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := usecase.NewInitWorkspace(fsworkspace.NewInitializer(),
				usecase.WithLocator(workspacefinder.NewFinder()),
				usecase.WithInitLogger(logger.L()),
			)

			res, err := uc.Execute(path, force)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if res.Enclosing != "" && res.Enclosing != res.Root {
				fmt.Fprintf(out, "note: %s is inside the workspace at %s\n", res.Root, res.Enclosing)
			}
			fmt.Fprintf(out, "Workspace ready at %s\n", res.Root)
			fmt.Fprintln(out, "Try: seqyank retrieve demo --format pretty")
			return nil
		},
	}

	c.Flags().StringVar(&path, "path", ".", "Directory to initialize")
	c.Flags().BoolVar(&force, "force", false, "Overwrite existing template files")
	return c
}
