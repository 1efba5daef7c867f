package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/seqyank/internal/domain"
	"github.com/aalvaropc/seqyank/internal/infra/logger"
	"github.com/aalvaropc/seqyank/internal/usecase"
)

const stdinBatch = "-"

func retrieveCmd() *cobra.Command {
	var workspace string
	var batches []string
	var parallel int
	var noSave bool
	var format string

	c := &cobra.Command{
		Use:   "retrieve [batch...]",
		Short: "Retrieve the sequences of one or more batches, in request order",
		Long: "Retrieve the sequences of one or more batches. A batch is a name, a file\n" +
			"under the batches dir, or a path. \"-\" reads request lines from stdin.",
		RunE: func(cmd *cobra.Command, args []string) error {
			batches = append(batches, args...)
			if len(batches) == 0 {
				return fmt.Errorf("at least one batch is required (use --batch or -b)")
			}
			if err := checkFormat(format); err != nil {
				return err
			}

			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}

			opts := []usecase.RetrieveOption{
				usecase.WithLogger(logger.L()),
				usecase.WithConfig(ws.cfg),
				usecase.WithUpstreamLabel(ws.upstream),
			}
			if !noSave {
				opts = append(opts, usecase.WithArtifactStore(ws.store))
			}
			uc := usecase.NewRetrieveBatch(ws.batches, ws.names, ws.fetcher, opts...)

			var outcomes []usecase.BatchOutcome
			var runErr error
			if len(batches) == 1 && batches[0] == stdinBatch {
				outcomes, runErr = retrieveStdin(cmd, uc, ws, noSave)
			} else {
				paths := make([]string, 0, len(batches))
				for _, b := range batches {
					p, err := resolveBatchPath(ws, b)
					if err != nil {
						return err
					}
					paths = append(paths, p)
				}
				outcomes, runErr = uc.ExecuteAll(cmd.Context(), paths, parallel)
			}

			if err := printOutcomes(cmd.OutOrStdout(), cmd.ErrOrStderr(), outcomes, format); err != nil {
				return err
			}
			return runErr
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	c.Flags().StringArrayVarP(&batches, "batch", "b", nil, "Batch name or path (repeatable)")
	c.Flags().IntVarP(&parallel, "parallel", "p", 1, "Batches run concurrently")
	c.Flags().BoolVar(&noSave, "no-save", false, "Do not save batch artifacts under runs/")
	c.Flags().StringVar(&format, "format", "fasta", "Output format: fasta|pretty|json")
	return c
}

func retrieveStdin(cmd *cobra.Command, uc *usecase.RetrieveBatch, ws *workspaceCtx, noSave bool) ([]usecase.BatchOutcome, error) {
	b, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}

	out := usecase.BatchOutcome{Path: stdinBatch}
	out.Artifact, out.Err = uc.Run(cmd.Context(), domain.BatchSpec{Name: "stdin", Upload: string(b)})
	if out.Err == nil && !noSave && ws.cfg.Artifacts.Save {
		if id, err := ws.store.SaveBatch(out.Artifact); err == nil {
			out.ID = id
		} else {
			out.Err = err
		}
	}
	return []usecase.BatchOutcome{out}, out.Err
}

func checkFormat(format string) error {
	switch format {
	case "fasta", "pretty", "json":
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected fasta|pretty|json)", format)
	}
}

func printOutcomes(w, errW io.Writer, outcomes []usecase.BatchOutcome, format string) error {
	switch format {
	case "json":
		return printJSON(w, outcomes)
	case "pretty":
		th := defaultTheme()
		for _, o := range outcomes {
			printPretty(w, th, o)
		}
		return nil
	case "fasta", "":
		for _, o := range outcomes {
			if o.Err != nil {
				fmt.Fprintf(errW, "%s: %v\n", o.Path, o.Err)
				continue
			}
			if _, err := io.WriteString(w, o.Artifact.Result.Text()); err != nil {
				return err
			}
		}
		return nil
	default:
		return checkFormat(format)
	}
}

type jsonOutcome struct {
	Path  string                `json:"path"`
	ID    string                `json:"id,omitempty"`
	Error string                `json:"error,omitempty"`
	Kind  string                `json:"kind,omitempty"`
	Batch *domain.BatchArtifact `json:"batch,omitempty"`
}

func printJSON(w io.Writer, outcomes []usecase.BatchOutcome) error {
	payload := make([]jsonOutcome, 0, len(outcomes))
	for _, o := range outcomes {
		j := jsonOutcome{Path: o.Path, ID: o.ID}
		if o.Err != nil {
			j.Error = o.Err.Error()
			j.Kind = string(domain.KindOf(o.Err))
		} else {
			a := o.Artifact
			j.Batch = &a
		}
		payload = append(payload, j)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func printPretty(w io.Writer, th theme, o usecase.BatchOutcome) {
	a := o.Artifact
	name := a.BatchName
	if name == "" {
		name = o.Path
	}

	fmt.Fprintln(w, th.Title.Render("Batch: "+name))
	if o.Err != nil {
		fmt.Fprintf(w, "  %s %v\n\n", th.Fail.Render("✗"), o.Err)
		return
	}

	total := a.EndedAt.Sub(a.StartedAt)
	if a.StartedAt.IsZero() || a.EndedAt.IsZero() {
		total = 0
	}
	fmt.Fprintf(w, "  Requests: %d   Found: %d   Missing: %d   Issues: %d\n",
		a.Requests, len(a.Result.Found), len(a.Result.Missing), len(a.Result.Issues))
	fmt.Fprintf(w, "  Upstream: %s   Duration: %s\n", a.Upstream, total.Round(time.Millisecond))
	if o.ID != "" {
		fmt.Fprintf(w, "  Saved:    %s\n", o.ID)
	}
	fmt.Fprintln(w)

	for _, f := range a.Result.Found {
		fmt.Fprintf(w, "  %s [%d] %s  %s\n", th.OK.Render("✓"), f.Order, f.Identifier, th.Faint.Render(fmt.Sprintf("%d residues", residueCount(f.FASTA))))
	}
	for _, id := range a.Result.Missing {
		fmt.Fprintf(w, "  %s %s  %s\n", th.Fail.Render("✗"), id, th.Faint.Render("not found"))
	}
	if len(a.Result.Issues) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "  "+th.Warn.Render("Issues:"))
		for _, is := range a.Result.Issues {
			fmt.Fprintf(w, "    - %s\n", is)
		}
	}
	fmt.Fprintln(w)
}

func residueCount(record string) int {
	n := 0
	for _, line := range strings.Split(record, "\n") {
		if strings.HasPrefix(line, ">") {
			continue
		}
		n += len(strings.TrimSpace(line))
	}
	return n
}
