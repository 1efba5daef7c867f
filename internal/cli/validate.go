package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/seqyank/internal/usecase"
)

func validateCmd() *cobra.Command {
	var workspace string
	var batches []string

	c := &cobra.Command{
		Use:   "validate [batch...]",
		Short: "Check batch request lines without contacting the upstream",
		RunE: func(cmd *cobra.Command, args []string) error {
			batches = append(batches, args...)
			if len(batches) == 0 {
				return fmt.Errorf("at least one batch is required (use --batch or -b)")
			}

			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}

			uc := usecase.NewValidateBatch(ws.batches, usecase.WithValidateConfig(ws.cfg))
			th := defaultTheme()
			out := cmd.OutOrStdout()

			bad := 0
			for _, b := range batches {
				p, err := resolveBatchPath(ws, b)
				if err != nil {
					return err
				}
				rep, err := uc.Execute(cmd.Context(), p)
				if err != nil {
					return err
				}

				if rep.OK() {
					fmt.Fprintf(out, "%s %s: %d request(s)\n", th.OK.Render("OK"), rep.Batch, len(rep.Requests))
					continue
				}
				bad++
				fmt.Fprintf(out, "%s %s: %d request(s), %d issue(s)\n", th.Fail.Render("FAIL"), rep.Batch, len(rep.Requests), len(rep.Issues))
				for _, is := range rep.Issues {
					fmt.Fprintf(out, "  - line %d: %s\n", is.Order+1, is)
				}
			}

			if bad > 0 {
				return fmt.Errorf("%d batch(es) with malformed lines", bad)
			}
			return nil
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	c.Flags().StringArrayVarP(&batches, "batch", "b", nil, "Batch name or path (repeatable)")
	return c
}
