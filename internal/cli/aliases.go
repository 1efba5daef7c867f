package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func aliasesCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "aliases",
		Short: "Show database aliases",
	}

	c.AddCommand(aliasesListCmd())
	return c
}

func aliasesListCmd() *cobra.Command {
	var workspace string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List aliases and the logical databases they map to",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}

			th := defaultTheme()
			var b strings.Builder
			for _, name := range ws.cfg.Aliases.Names() {
				a := ws.cfg.Aliases[name]
				line := fmt.Sprintf("%-12s -> %s", name, a.DB)
				if a.StripDots {
					line += th.Faint.Render("  (strips dots)")
				}
				b.WriteString(line + "\n")
			}
			b.WriteString(th.Faint.Render(fmt.Sprintf("preferred revision db: %s", ws.cfg.Reconcile.PreferredDB)))

			fmt.Fprintln(cmd.OutOrStdout(), th.Card.Render(b.String()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	return cmd
}
