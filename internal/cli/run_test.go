package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var scenariosDir = filepath.Join("..", "harness", "testdata", "scenarios")

const failingScenario = `
name: failing
description: "Expects a row that was never added"
properties:
  - {name: n, type: int64}
batches:
  - changes:
      - {add: a, values: [1]}
assertions:
  - {type: rows, count: 2}
`

const passingScenario = `
name: passing
description: "Two rows and their sum"
properties:
  - {name: n, type: int64}
batches:
  - changes:
      - {add: a, values: [1]}
      - {add: b, values: [3]}
queries:
  - name: total
    aggregate: {func: sum, prop: n}
assertions:
  - {type: rows, count: 2}
  - {type: aggregate, query: total, value: 4}
`

func writeScenario(t *testing.T, dir, name, doc string) string {
	t.Helper()
	path := filepath.Join(dir, name+".yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func TestRun_AllScenariosPass(t *testing.T) {
	out, _, err := executeCommand(t, NewRunCommand(&RootOptions{Format: "text"}), scenariosDir)
	require.NoError(t, err)

	assert.Contains(t, out, "✓ people_basics [memory]")
	assert.Contains(t, out, "✓ people_basics [sqlite]")
	assert.Contains(t, out, "✓ batch_semantics [sqlite]")
	assert.Contains(t, out, "6 passed, 0 failed, 6 total")
}

func TestRun_JSON(t *testing.T) {
	out, _, err := executeCommand(t, NewRunCommand(&RootOptions{Format: "json"}), scenariosDir, "--backend", "memory")
	require.NoError(t, err)

	var resp struct {
		Status string    `json:"status"`
		Data   RunResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 3, resp.Data.Total)
	assert.Equal(t, 3, resp.Data.Passed)
	for _, sr := range resp.Data.Scenarios {
		assert.Equal(t, "memory", sr.Backend)
	}
}

func TestRun_Filter(t *testing.T) {
	out, _, err := executeCommand(t, NewRunCommand(&RootOptions{Format: "text"}), scenariosDir, "--filter", "people*")
	require.NoError(t, err)
	assert.Contains(t, out, "2 passed, 0 failed, 2 total")
	assert.NotContains(t, out, "batch_semantics")
}

func TestRun_FailureExitsWithOne(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "failing", failingScenario)

	out, _, err := executeCommand(t, NewRunCommand(&RootOptions{Format: "text"}), dir, "--backend", "sqlite")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeFailed)
	assert.Contains(t, out, "✗ failing [sqlite]")
	assert.Contains(t, out, "0 passed, 1 failed, 1 total")
}

func TestRun_LoadErrorIsReported(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "broken", "name: broken\nbogus: true\n")

	out, _, err := executeCommand(t, NewRunCommand(&RootOptions{Format: "text"}), dir)
	require.Error(t, err)
	assert.Contains(t, out, "✗ broken.yaml")
	assert.Contains(t, out, "[E006] failed to load scenario")
}

func TestRun_JSONCarriesScenarioCodes(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "broken", "name: broken\nbogus: true\n")
	writeScenario(t, dir, "failing", failingScenario)

	out, _, err := executeCommand(t, NewRunCommand(&RootOptions{Format: "json"}), dir, "--backend", "memory")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string    `json:"status"`
		Data   RunResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)

	codes := map[string]string{}
	for _, sr := range resp.Data.Scenarios {
		codes[sr.Name] = sr.Code
	}
	assert.Equal(t, map[string]string{"broken.yaml": ErrCodeScenario, "failing": ErrCodeFailed}, codes)
}

func TestRun_UnknownBackend(t *testing.T) {
	_, _, err := executeCommand(t, NewRunCommand(&RootOptions{Format: "text"}), scenariosDir, "--backend", "postgres")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "postgres")
}

func TestRun_DirectoryNotFound(t *testing.T) {
	out, _, err := executeCommand(t, NewRunCommand(&RootOptions{Format: "text"}), "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E005]")
}

func TestRun_NoScenarios(t *testing.T) {
	out, _, err := executeCommand(t, NewRunCommand(&RootOptions{Format: "text"}), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "No scenarios found.\n", out)
}

func TestRun_DatabaseFiles(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "passing", passingScenario)
	dbDir := filepath.Join(t.TempDir(), "dbs")

	_, _, err := executeCommand(t, NewRunCommand(&RootOptions{Format: "text"}), dir, "--backend", "sqlite", "--db", dbDir)
	require.NoError(t, err)

	files, err := filepath.Glob(filepath.Join(dbDir, "*.db"))
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestRun_GoldenUpdateAndCompare(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "passing", passingScenario)
	goldenPath := filepath.Join(dir, "golden", "passing.golden")

	_, _, err := executeCommand(t, NewRunCommand(&RootOptions{Format: "text"}), dir, "--update")
	require.NoError(t, err)

	golden, err := os.ReadFile(goldenPath)
	require.NoError(t, err)
	assert.Contains(t, string(golden), "passing")

	_, _, err = executeCommand(t, NewRunCommand(&RootOptions{Format: "text"}), dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(goldenPath, []byte("stale\n"), 0o644))
	out, _, err := executeCommand(t, NewRunCommand(&RootOptions{Format: "text"}), dir)
	require.Error(t, err)
	assert.Contains(t, out, "report does not match golden file")
	assert.Contains(t, out, "0 passed, 2 failed, 2 total")
}
