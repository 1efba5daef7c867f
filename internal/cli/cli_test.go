package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aalvaropc/seqyank/internal/domain"
	"github.com/aalvaropc/seqyank/internal/infra/fsworkspace"
	"github.com/aalvaropc/seqyank/internal/usecase"
)

// --- helpers ---

func TestLooksLikePath(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"demo", false},
		{"demo.yaml", false},
		{"./demo.yaml", true},
		{"batches/demo.yaml", true},
		{"/abs/path/demo.yaml", true},
	}
	for _, c := range cases {
		if got := looksLikePath(c.input); got != c.want {
			t.Errorf("looksLikePath(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestHasYAMLExt(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"demo.yaml", true},
		{"demo.yml", true},
		{"DEMO.YAML", true},
		{"demo.json", false},
		{"demo", false},
		{"", false},
	}
	for _, c := range cases {
		if got := hasYAMLExt(c.input); got != c.want {
			t.Errorf("hasYAMLExt(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestFileExists(t *testing.T) {
	tmp := t.TempDir()
	p := filepath.Join(tmp, "exists.txt")
	if err := os.WriteFile(p, []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}
	if !fileExists(p) {
		t.Errorf("expected fileExists=true for %s", p)
	}
	if fileExists(filepath.Join(tmp, "not_there.txt")) {
		t.Error("expected fileExists=false for non-existent file")
	}
}

func TestResidueCount(t *testing.T) {
	if got := residueCount(">A desc\nACGT\nAC\n"); got != 6 {
		t.Fatalf("residueCount = %d, want 6", got)
	}
	if got := residueCount(""); got != 0 {
		t.Fatalf("residueCount(empty) = %d", got)
	}
}

// --- output ---

func sampleOutcome() usecase.BatchOutcome {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return usecase.BatchOutcome{
		Path: "batches/demo.yaml",
		ID:   "20260102T030405Z_demo",
		Artifact: domain.BatchArtifact{
			BatchName: "demo",
			Upstream:  "catalog:catalog/demo.fasta",
			StartedAt: start,
			EndedAt:   start.Add(40 * time.Millisecond),
			Requests:  2,
			Result: domain.ResultSet{
				Found:   []domain.FoundSequence{{Order: 0, Identifier: "AC1", FASTA: ">AC1\nACGT\n"}},
				Missing: []string{"ZZ9"},
				Issues: []domain.Issue{{
					Kind: domain.KindUnresolvedIdentifier, Order: 1, Identifier: "ZZ9", Message: "not present in the annotation report",
				}},
			},
		},
	}
}

func TestPrintOutcomes_FASTA(t *testing.T) {
	var out, errOut bytes.Buffer
	failed := usecase.BatchOutcome{Path: "bad.yaml", Err: errors.New("boom")}

	if err := printOutcomes(&out, &errOut, []usecase.BatchOutcome{sampleOutcome(), failed}, "fasta"); err != nil {
		t.Fatalf("printOutcomes error: %v", err)
	}
	want := "*****\nFailed to find these sequences:\nZZ9\n*****\n>AC1\nACGT\n"
	if out.String() != want {
		t.Fatalf("unexpected output:\n%q\nwant\n%q", out.String(), want)
	}
	if !strings.Contains(errOut.String(), "bad.yaml: boom") {
		t.Fatalf("expected failure on stderr, got %q", errOut.String())
	}
}

func TestPrintOutcomes_JSON(t *testing.T) {
	var out bytes.Buffer
	failed := usecase.BatchOutcome{Path: "bad.yaml", Err: &domain.OpError{Op: "upstream.names", Kind: domain.KindUpstreamUnavailable}}

	if err := printOutcomes(&out, &out, []usecase.BatchOutcome{sampleOutcome(), failed}, "json"); err != nil {
		t.Fatalf("printOutcomes error: %v", err)
	}

	var got []jsonOutcome
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out.String())
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(got))
	}
	if got[0].ID != "20260102T030405Z_demo" || got[0].Batch == nil || got[0].Batch.BatchName != "demo" {
		t.Fatalf("unexpected first outcome: %+v", got[0])
	}
	if got[1].Kind != string(domain.KindUpstreamUnavailable) || got[1].Batch != nil {
		t.Fatalf("unexpected second outcome: %+v", got[1])
	}
}

func TestPrintOutcomes_Pretty(t *testing.T) {
	var out bytes.Buffer
	if err := printOutcomes(&out, &out, []usecase.BatchOutcome{sampleOutcome()}, "pretty"); err != nil {
		t.Fatalf("printOutcomes error: %v", err)
	}
	s := out.String()
	for _, want := range []string{"Batch: demo", "Found: 1", "Missing: 1", "AC1", "4 residues", "ZZ9", "not found", "Saved:    20260102T030405Z_demo"} {
		if !strings.Contains(s, want) {
			t.Errorf("expected %q in pretty output:\n%s", want, s)
		}
	}
}

func TestPrintOutcomes_UnknownFormat(t *testing.T) {
	var out bytes.Buffer
	if err := printOutcomes(&out, &out, nil, "xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

// --- command structure ---

func TestRootCmd_RegistersSubcommands(t *testing.T) {
	cmd := newRootCmd(&session{})
	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, expected := range []string{"init", "retrieve", "validate", "batches", "aliases", "serve", "version"} {
		if !names[expected] {
			t.Errorf("expected subcommand %q to be registered", expected)
		}
	}
}

func TestRetrieveCmd_Flags(t *testing.T) {
	cmd := retrieveCmd()
	for _, flag := range []string{"workspace", "batch", "parallel", "no-save", "format"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("expected --%s flag on retrieve command", flag)
		}
	}
}

func TestInitCmd_Flags(t *testing.T) {
	cmd := initCmd()
	if cmd.Flags().Lookup("path") == nil || cmd.Flags().Lookup("force") == nil {
		t.Error("expected --path and --force flags on init command")
	}
}

// --- resolveWorkspaceRoot ---

func TestResolveWorkspaceRoot_ExplicitPath(t *testing.T) {
	tmp := t.TempDir()
	got, err := resolveWorkspaceRoot(tmp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != tmp {
		t.Errorf("expected %q, got %q", tmp, got)
	}
}

func TestResolveWorkspaceRoot_RelativePath(t *testing.T) {
	got, err := resolveWorkspaceRoot(".")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("expected absolute path, got %q", got)
	}
}

// --- end to end against the demo workspace ---

func demoWorkspace(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	if err := fsworkspace.NewInitializer().Init(domain.WorkspaceSpec{Root: root}, false); err != nil {
		t.Fatalf("init: %v", err)
	}
	return root
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(&session{})
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRetrieve_DemoBatch(t *testing.T) {
	root := demoWorkspace(t)

	out, err := run(t, "", "retrieve", "-w", root, "demo", "--no-save")
	if err != nil {
		t.Fatalf("retrieve error: %v", err)
	}

	wants := []string{
		"*****\nFailed to find these sequences:\nMISSING1\n*****\n",
		">AC134402 Mus musculus BAC clone RP23-1A1\nACGTTGCAAGGCTTACGATCGATCGGATCCATGCAAGTC\n",
		">NT_039170 Mus musculus chromosome 7 genomic contig\nAACCCCGGGGTT\n",
		">BC002390 Homo sapiens cDNA clone\nGCCTTGCA\n",
	}
	for _, w := range wants {
		if !strings.Contains(out, w) {
			t.Errorf("expected %q in output:\n%s", w, out)
		}
	}
	if strings.Index(out, ">AC134402") > strings.Index(out, ">NT_039170") || strings.Index(out, ">NT_039170") > strings.Index(out, ">BC002390") {
		t.Errorf("expected request order in output:\n%s", out)
	}

	if _, err := os.Stat(filepath.Join(root, "runs", "index.jsonl")); !os.IsNotExist(err) {
		t.Errorf("expected nothing saved with --no-save, stat err=%v", err)
	}
}

func TestRetrieve_SavesArtifact(t *testing.T) {
	root := demoWorkspace(t)

	if _, err := run(t, "", "retrieve", "-w", root, "-b", "batches/demo.yaml", "--format", "json"); err != nil {
		t.Fatalf("retrieve error: %v", err)
	}

	entries, err := os.ReadDir(filepath.Join(root, "runs"))
	if err != nil {
		t.Fatalf("read runs: %v", err)
	}
	var jsonFiles int
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), "_demo.json") {
			jsonFiles++
		}
	}
	if jsonFiles != 1 {
		t.Fatalf("expected one saved artifact, got %v", entries)
	}
}

func TestRetrieve_Stdin(t *testing.T) {
	root := demoWorkspace(t)

	out, err := run(t, "genbank!BC002390!1!4!1!\n", "retrieve", "-w", root, "-", "--no-save")
	if err != nil {
		t.Fatalf("retrieve error: %v", err)
	}
	if out != ">BC002390 Homo sapiens cDNA clone\nACGT\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRetrieve_UnknownBatch(t *testing.T) {
	root := demoWorkspace(t)
	if _, err := run(t, "", "retrieve", "-w", root, "nope"); !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestValidate_DemoBatch(t *testing.T) {
	root := demoWorkspace(t)

	out, err := run(t, "", "validate", "-w", root, "demo")
	if err != nil {
		t.Fatalf("validate error: %v", err)
	}
	if !strings.Contains(out, "demo: 4 request(s)") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestValidate_ReportsMalformedLines(t *testing.T) {
	root := demoWorkspace(t)
	bad := filepath.Join(root, "batches", "bad.yaml")
	if err := os.WriteFile(bad, []byte("name: bad\nrequests:\n  - genbank!A!9!1!1!\n  - genbank!B!!!1!\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "", "validate", "-w", root, "bad")
	if err == nil {
		t.Fatal("expected error for malformed batch")
	}
	if !strings.Contains(out, "1 request(s), 1 issue(s)") || !strings.Contains(out, "line 1:") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestBatchesAndAliasesList(t *testing.T) {
	root := demoWorkspace(t)

	out, err := run(t, "", "batches", "list", "-w", root)
	if err != nil {
		t.Fatalf("batches list error: %v", err)
	}
	if !strings.Contains(out, "- demo  (batches/demo.yaml)") {
		t.Fatalf("unexpected batches output %q", out)
	}

	out, err = run(t, "", "aliases", "list", "-w", root)
	if err != nil {
		t.Fatalf("aliases list error: %v", err)
	}
	for _, want := range []string{"genbank", "GBALL", "dots", "strips dots", "GB_NEW"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in aliases output:\n%s", want, out)
		}
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	if err != nil {
		t.Fatalf("version error: %v", err)
	}
	if !strings.HasPrefix(out, "seqyank ") {
		t.Fatalf("unexpected version output %q", out)
	}
}
