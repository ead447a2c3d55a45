package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalScenario = `
name: minimal
description: "One property"
properties:
  - {name: n, type: int32}
assertions:
  - {type: rows, count: 0}
`

func TestParseScenario_Minimal(t *testing.T) {
	s, err := ParseScenario([]byte(minimalScenario))
	require.NoError(t, err)
	assert.Equal(t, "minimal", s.Name)
	require.Len(t, s.Properties, 1)
	assert.Equal(t, "int32", s.Properties[0].Type)
}

func TestParseScenario_RejectsUnknownFields(t *testing.T) {
	_, err := ParseScenario([]byte(minimalScenario + "assertion: []\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParseScenario_Validation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			"missing name",
			"description: d\nproperties: [{type: int32}]\nassertions: [{type: rows}]\n",
			"name is required",
		},
		{
			"both spec and properties",
			"name: x\ndescription: d\nspec: a.cue\nproperties: [{type: int32}]\nassertions: [{type: rows}]\n",
			"exactly one of spec and properties",
		},
		{
			"no assertions",
			"name: x\ndescription: d\nproperties: [{type: int32}]\n",
			"assertions list is required",
		},
		{
			"add and delete",
			"name: x\ndescription: d\nproperties: [{type: int32}]\nbatches: [{changes: [{add: a, delete: a}]}]\nassertions: [{type: rows}]\n",
			"exactly one of add and delete",
		},
		{
			"empty batch",
			"name: x\ndescription: d\nproperties: [{type: int32}]\nbatches: [{changes: []}]\nassertions: [{type: rows}]\n",
			"changes list must be non-empty",
		},
		{
			"predicate mixed with and",
			"name: x\ndescription: d\nproperties: [{type: int32}]\nqueries: [{name: q, where: {prop: $0, op: '=', and: [{prop: $0, op: '='}]}}]\nassertions: [{type: rows}]\n",
			"mixes a predicate",
		},
		{
			"unknown query in assertion",
			"name: x\ndescription: d\nproperties: [{type: int32}]\nassertions: [{type: query_ids, query: nope}]\n",
			"unknown query",
		},
		{
			"aggregate without value",
			"name: x\ndescription: d\nproperties: [{type: int32}]\nqueries: [{name: q}]\nassertions: [{type: aggregate, query: q}]\n",
			"value is required",
		},
		{
			"unknown assertion",
			"name: x\ndescription: d\nproperties: [{type: int32}]\nassertions: [{type: trace_order}]\n",
			"unknown type",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadScenario_ResolvesSpecPath(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", "people_basics.yaml"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("testdata", "scenarios", "people.cue"), s.SpecPath())
}

func TestLoadScenario_MissingSpec(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "s.yaml")
	doc := "name: x\ndescription: d\nspec: missing.cue\nassertions: [{type: rows}]\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spec file not found")
}
