package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCast_Text(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"widen", []string{"int32", "7", "--to", "double"}, "float64 7.000000\n"},
		{"truncate", []string{"float64", "3.9", "--to", "int64"}, "int64 3\n"},
		{"from string", []string{"string", "42", "--to", "int64"}, "int64 42\n"},
		{"to string", []string{"int64", "42", "--to", "string"}, "string \"42\"\n"},
		{"to bool", []string{"int32", "2", "--to", "bool"}, "bool true\n"},
		{"same kind", []string{"bool", "0", "--to", "bool"}, "bool false\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := executeCommand(t, NewCastCommand(&RootOptions{Format: "text"}), tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestCast_JSONIncludesSourceKind(t *testing.T) {
	out, _, err := executeCommand(t, NewCastCommand(&RootOptions{Format: "json"}), "int", "7", "--to", "long")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, map[string]any{"kind": "int64", "value": "7", "from": "int32"}, resp.Data)
}

func TestCast_Refused(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		reason string
	}{
		{"string does not parse", []string{"string", "abc", "--to", "int64"}, "PARSE_FAILED"},
		{"no conversion", []string{"int64", "5", "--to", "null"}, "UNSUPPORTED_TARGET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := executeCommand(t, NewCastCommand(&RootOptions{Format: "text"}), tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitFailure, GetExitCode(err))
			assert.Contains(t, out, "Error [E003]")
			assert.Contains(t, out, tt.reason)
		})
	}
}

func TestCast_SourceMustParse(t *testing.T) {
	out, _, err := executeCommand(t, NewCastCommand(&RootOptions{Format: "text"}), "int32", "x", "--to", "string")
	require.Error(t, err)
	assert.Contains(t, out, "Error [E002]")
}

func TestCast_RequiresTarget(t *testing.T) {
	_, _, err := executeCommand(t, NewCastCommand(&RootOptions{Format: "text"}), "int32", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"to"`)
}

func TestCast_UnknownTarget(t *testing.T) {
	_, _, err := executeCommand(t, NewCastCommand(&RootOptions{Format: "text"}), "int32", "1", "--to", "decimal")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeBadKind)
}
