package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var peopleSchema = filepath.Join("..", "schema", "testdata", "people.cue")

func TestSchema_Text(t *testing.T) {
	out, _, err := executeCommand(t, NewSchemaCommand(&RootOptions{Format: "text"}), peopleSchema)
	require.NoError(t, err)

	assert.Contains(t, out, "✓ "+peopleSchema+": 3 properties")
	assert.Contains(t, out, "$0 age")
	assert.Contains(t, out, "int32 (not null)\n")
	assert.Contains(t, out, "$1 active")
	assert.Contains(t, out, "bool\n")
	assert.Contains(t, out, "string (unique)\n")
}

func TestSchema_JSON(t *testing.T) {
	out, _, err := executeCommand(t, NewSchemaCommand(&RootOptions{Format: "json"}), peopleSchema)
	require.NoError(t, err)

	var resp struct {
		Status string       `json:"status"`
		Data   SchemaResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, []PropertyInfo{
		{Pos: 0, Name: "age", Type: "int32", NotNull: true},
		{Pos: 1, Name: "active", Type: "bool"},
		{Pos: 2, Name: "name", Type: "string", Unique: true},
	}, resp.Data.Properties)
}

func TestSchema_Rejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.cue")
	require.NoError(t, os.WriteFile(path, []byte(`properties: [{name: "x", type: "decimal"}]`), 0o644))

	out, _, err := executeCommand(t, NewSchemaCommand(&RootOptions{Format: "text"}), path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [E004]")
	assert.Contains(t, out, "decimal")
}

func TestSchema_NotFound(t *testing.T) {
	out, _, err := executeCommand(t, NewSchemaCommand(&RootOptions{Format: "text"}), "/nonexistent/schema.cue")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeNotFound)
	assert.Contains(t, out, "not found")
}
