package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/catalog"
	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/resolver"
	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/steptext"
)

// run executes the root command with fresh flag state and returns stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	configPath = ""
	jsonOutput = false
	resolveConfig = resolver.Config{}
	mergeCurrent = ""
	mergePolicy = "keep-both"
	submissionsLimit = 20

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func stepIDs(steps []catalog.Step) []string {
	ids := make([]string, len(steps))
	for i, s := range steps {
		ids[i] = s.ID
	}
	return ids
}

func TestRootHelp(t *testing.T) {
	out, err := run(t, "", "--help")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	for _, want := range []string{"onboard", "Step Planning:", "resolve", "serve"} {
		if !strings.Contains(out, want) {
			t.Errorf("help lacks %q:\n%s", want, out)
		}
	}
}

func TestInvalidCommand(t *testing.T) {
	if _, err := run(t, "", "invalid-command"); err == nil {
		t.Error("expected error for invalid command")
	}
}

func TestResolveCommand(t *testing.T) {
	out, err := run(t, "", "resolve", "--json", "--language", "  javascript ", "--ide", "vs code")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	var steps []catalog.Step
	if err := json.Unmarshal([]byte(out), &steps); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	want := []string{"verify-sso-ping", "request-local-admin", "install-nodejs", "install-vscode"}
	if got := stepIDs(steps); !reflect.DeepEqual(got, want) {
		t.Errorf("steps = %v, want %v", got, want)
	}

	out, err = run(t, "", "resolve")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !strings.Contains(out, "1 step") {
		t.Errorf("empty config output = %q", out)
	}
}

func TestParseCommand(t *testing.T) {
	out, err := run(t, "1. Install the CLI\n\n- Log in with SSO\n", "parse", "--json")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var steps []catalog.Step
	if err := json.Unmarshal([]byte(out), &steps); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(steps) != 2 || steps[0].Description != "Install the CLI" || steps[1].Description != "Log in with SSO" {
		t.Errorf("steps = %+v", steps)
	}
	if steps[0].ID == steps[1].ID || steps[0].Category != catalog.CategoryCustom {
		t.Errorf("steps = %+v", steps)
	}

	if _, err := run(t, " \n - \n", "parse"); !errors.Is(err, steptext.ErrNoSteps) {
		t.Errorf("error = %v, want ErrNoSteps", err)
	}
}

func TestCatalogCommand(t *testing.T) {
	out, err := run(t, "", "catalog", "--json")
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	var steps []catalog.Step
	if err := json.Unmarshal([]byte(out), &steps); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(steps) != catalog.Default().Len() {
		t.Errorf("listed %d steps, want %d", len(steps), catalog.Default().Len())
	}

	step, _ := catalog.Default().Get("verify-sso-ping")
	out, err = run(t, "", "catalog", "verify-sso-ping")
	if err != nil {
		t.Fatalf("catalog step: %v", err)
	}
	if !strings.Contains(out, step.Title) {
		t.Errorf("output lacks title %q:\n%s", step.Title, out)
	}

	if _, err := run(t, "", "catalog", "no-such-step"); err == nil {
		t.Error("expected error for unknown step")
	}
}

func TestMergeCommand(t *testing.T) {
	dir := t.TempDir()
	draft := writeFile(t, dir, "draft.yaml", `
useCaseName: Copilot rollout
businessUnit: Global Technology
codingLanguage: javascript
ide: vs code
shouldAutoGenerateSteps: true
`)
	current := writeFile(t, dir, "fields.json", `{"useCaseName": "Old name", "tags": ["pilot"]}`)

	out, err := run(t, "", "merge", draft, "--current", current, "--policy", "overwrite", "--json")
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	var res struct {
		Fields struct {
			UseCaseName   string   `json:"useCaseName"`
			ForDevelopers bool     `json:"forDevelopers"`
			Tags          []string `json:"tags"`
		} `json:"fields"`
		Conflicts   []string       `json:"conflicts"`
		Regenerated bool           `json:"regenerated"`
		Steps       []catalog.Step `json:"steps"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if res.Fields.UseCaseName != "Copilot rollout" || !res.Fields.ForDevelopers {
		t.Errorf("fields = %+v", res.Fields)
	}
	if !reflect.DeepEqual(res.Fields.Tags, []string{"pilot"}) {
		t.Errorf("tags = %v", res.Fields.Tags)
	}
	if !reflect.DeepEqual(res.Conflicts, []string{"useCaseName"}) {
		t.Errorf("conflicts = %v", res.Conflicts)
	}
	if !res.Regenerated || len(res.Steps) == 0 || res.Steps[0].ID != "verify-sso-ping" {
		t.Errorf("regenerated = %v, steps = %v", res.Regenerated, stepIDs(res.Steps))
	}

	if _, err := run(t, "", "merge", draft, "--policy", "replace"); err == nil {
		t.Error("expected error for unknown policy")
	}
}

func TestMergeCommandCancel(t *testing.T) {
	dir := t.TempDir()
	draft := writeFile(t, dir, "draft.json", `{"useCaseName": "New", "shouldAutoGenerateSteps": true, "businessUnit": "Global Technology"}`)

	out, err := run(t, "", "merge", draft, "--policy", "cancel")
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if strings.Contains(out, "New") || strings.Contains(out, "Regenerated plan") {
		t.Errorf("cancel applied the draft:\n%s", out)
	}
}

func TestSubmissionsCommandEmpty(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "config.yaml", "memory:\n  path: "+filepath.Join(dir, "onboard.db")+"\n")

	out, err := run(t, "", "submissions", "--config", cfg)
	if err != nil {
		t.Fatalf("submissions: %v", err)
	}
	if !strings.Contains(out, "No submissions yet") {
		t.Errorf("output = %q", out)
	}
}

func TestVersionCommand(t *testing.T) {
	SetVersion("1.2.3")
	out, err := run(t, "", "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if strings.TrimSpace(out) != "1.2.3" {
		t.Errorf("version = %q", out)
	}
}
