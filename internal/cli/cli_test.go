package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/HendryAvila/phaseplan/internal/planner"
	"github.com/HendryAvila/phaseplan/internal/server"
	"github.com/HendryAvila/phaseplan/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const smallProjectYAML = `file_count: 10
module_depth: 2
business_rules: 5
branch_count: 8
integration_count: 1
auth_types: 1
expected_users: 50
data_gb: 0.5
spec_completeness: 0.9
clarity_score: 0.9
legacy_files: 0
total_files: 10
deprecated_deps: 0
total_deps: 5
`

// workspace is an isolated project directory for one test.
type workspace struct {
	dir      string
	stateDir string
}

func newWorkspace(t *testing.T) *workspace {
	t.Helper()
	dir := t.TempDir()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(orig) })
	t.Setenv("HOME", dir)
	return &workspace{dir: dir, stateDir: filepath.Join(dir, "state")}
}

func (w *workspace) file(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(w.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// run executes the CLI and returns stdout.
func (w *workspace) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--state-dir", w.stateDir}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (w *workspace) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := w.run(t, args...)
	require.NoError(t, err, "phaseplan %s", strings.Join(args, " "))
	return out
}

// --- version ---

func TestVersionCommand(t *testing.T) {
	w := newWorkspace(t)
	out := w.mustRun(t, "version")
	assert.Equal(t, "phaseplan v"+server.Version+"\n", out)
}

// --- assess ---

func TestAssess_JSON(t *testing.T) {
	w := newWorkspace(t)
	sig := w.file(t, "signals.yaml", smallProjectYAML)

	out := w.mustRun(t, "assess", "-s", sig, "-o", "json")

	var got planner.Assessment
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "TRIVIAL", string(got.Category))
	assert.Equal(t, 3, got.PhaseCount)
	assert.Equal(t, 4.0, got.TotalHours)
	assert.InDelta(t, 0.192873, got.Score, 1e-6)
}

func TestAssess_Table(t *testing.T) {
	w := newWorkspace(t)
	sig := w.file(t, "signals.yaml", smallProjectYAML)

	out := w.mustRun(t, "assess", "-s", sig)
	assert.Contains(t, out, "Overall score: 0.193 (TRIVIAL)")
	assert.Contains(t, out, "technical_debt")
	assert.Contains(t, out, "Recommended phases: 3")
}

func TestAssess_JSONSignalsFileWithDomains(t *testing.T) {
	w := newWorkspace(t)
	sig := w.file(t, "signals.json", `{"file_count": 10, "expected_users": 50, "total_files": 10,
		"domains": {"backend": 45}}`)

	out := w.mustRun(t, "assess", "-s", sig, "--domain", "frontend=40")
	assert.Contains(t, out, "Domains: backend 45%, frontend 40% (major: backend, frontend)")
}

func TestAssess_RejectsUnknownField(t *testing.T) {
	w := newWorkspace(t)
	sig := w.file(t, "signals.yaml", smallProjectYAML+"bogus: 1\n")

	_, err := w.run(t, "assess", "-s", sig)
	assert.Error(t, err)
}

func TestAssess_InvalidSignals(t *testing.T) {
	w := newWorkspace(t)
	sig := w.file(t, "signals.yaml", strings.Replace(smallProjectYAML, "auth_types: 1", "auth_types: 9", 1))

	_, err := w.run(t, "assess", "-s", sig)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth_types")
}

func TestAssess_BadDomainFlag(t *testing.T) {
	w := newWorkspace(t)
	sig := w.file(t, "signals.yaml", smallProjectYAML)

	_, err := w.run(t, "assess", "-s", sig, "--domain", "backend=lots")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a number")
}

func TestAssess_RequiresSignals(t *testing.T) {
	w := newWorkspace(t)
	_, err := w.run(t, "assess")
	assert.Error(t, err)
}

// --- create / show / list ---

func TestCreateShowList(t *testing.T) {
	w := newWorkspace(t)
	sig := w.file(t, "signals.yaml", smallProjectYAML)

	out := w.mustRun(t, "create", "-s", sig, "--id", "small")
	assert.Contains(t, out, "Plan small")
	assert.Contains(t, out, "Foundation")
	assert.Contains(t, out, "P1-G1")

	out = w.mustRun(t, "show", "-o", "json")
	plan, err := state.Decode([]byte(out), state.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "small", plan.ID)
	assert.Equal(t, 3, plan.PhaseCount)

	out = w.mustRun(t, "show", "small", "-o", "yaml")
	fromYAML, err := state.Decode([]byte(out), state.FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, plan, fromYAML)

	w.mustRun(t, "create", "-s", sig, "--id", "second")
	out = w.mustRun(t, "list", "-o", "yaml")
	var list []state.Summary
	require.NoError(t, yaml.Unmarshal([]byte(out), &list))
	require.Len(t, list, 2)
	ids := []string{list[0].ID, list[1].ID}
	assert.ElementsMatch(t, []string{"small", "second"}, ids)
	for _, s := range list {
		assert.Equal(t, s.ID == "second", s.Current, "current flag for %s", s.ID)
	}

	out = w.mustRun(t, "list")
	assert.Contains(t, out, "small")
	assert.Contains(t, out, "phase 1")
}

func TestCreate_SQLiteBackend(t *testing.T) {
	w := newWorkspace(t)
	sig := w.file(t, "signals.yaml", smallProjectYAML)

	w.mustRun(t, "--backend", "sqlite", "create", "-s", sig, "--id", "db-plan")
	out := w.mustRun(t, "--backend", "sqlite", "show", "-o", "json")
	assert.Contains(t, out, `"id": "db-plan"`)

	_, err := os.Stat(filepath.Join(w.stateDir, "state.db"))
	assert.NoError(t, err)
}

func TestCreate_FromConfigFile(t *testing.T) {
	w := newWorkspace(t)
	sig := w.file(t, "signals.yaml", smallProjectYAML)
	w.file(t, ".phaseplan.yaml", "output:\n  format: json\n")

	out := w.mustRun(t, "create", "-s", sig, "--id", "cfg")
	_, err := state.Decode([]byte(out), state.FormatJSON)
	assert.NoError(t, err, "config file should switch output to JSON")
}

func TestShow_NoPlan(t *testing.T) {
	w := newWorkspace(t)
	_, err := w.run(t, "show")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no current plan")
}

func TestList_Empty(t *testing.T) {
	w := newWorkspace(t)
	out := w.mustRun(t, "list")
	assert.Contains(t, out, "No plans yet")
}

// --- gate ---

func TestGate_Lifecycle(t *testing.T) {
	w := newWorkspace(t)
	sig := w.file(t, "signals.yaml", smallProjectYAML)
	w.mustRun(t, "create", "-s", sig, "--id", "g")

	out := w.mustRun(t, "gate", "P1-G1", "in_progress")
	assert.Contains(t, out, "Gate P1-G1: pending -> in_progress")

	_, err := w.run(t, "gate", "P2-G1", "in_progress")
	require.Error(t, err)
	assert.ErrorIs(t, err, planner.ErrPhaseBlocked)

	_, err = w.run(t, "gate", "P1-G2", "passed")
	require.Error(t, err)
	assert.ErrorIs(t, err, planner.ErrInvalidTransition)

	out = w.mustRun(t, "gate", "P1-G1", "failed", "-o", "json")
	var res map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, true, res["blocked"])
	assert.Equal(t, "in_progress", res["previous_status"])

	out = w.mustRun(t, "gate", "P1-G1", "--reset", "--plan", "g")
	assert.Contains(t, out, "failed -> pending")
	assert.Contains(t, out, "Progress: phase 1 of 3")
}

func TestGate_ArgumentErrors(t *testing.T) {
	w := newWorkspace(t)
	sig := w.file(t, "signals.yaml", smallProjectYAML)
	w.mustRun(t, "create", "-s", sig, "--id", "g")

	_, err := w.run(t, "gate", "P1-G1")
	assert.Error(t, err)

	_, err = w.run(t, "gate", "P1-G1", "passed", "--reset")
	assert.Error(t, err)

	_, err = w.run(t, "gate", "P9-G1", "in_progress")
	assert.ErrorIs(t, err, planner.ErrGateNotFound)
}

// --- config ---

func TestRoot_InvalidOutputFormat(t *testing.T) {
	w := newWorkspace(t)
	_, err := w.run(t, "list", "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output.format")
}
