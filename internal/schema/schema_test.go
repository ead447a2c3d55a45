package schema

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sidx/internal/index"
	"github.com/roach88/sidx/internal/value"
)

func TestLoadSpecFile(t *testing.T) {
	spec, err := LoadSpecFile(filepath.Join("testdata", "people.cue"))
	require.NoError(t, err)

	assert.Equal(t, index.NewSpec(
		index.Property{Name: "age", Type: value.KindInt32, Flags: index.FlagNotNull},
		index.Property{Name: "active", Type: value.KindBool},
		index.Property{Name: "name", Type: value.KindString, Flags: index.FlagUnique},
	), spec)
}

func TestLoadSpecFile_Missing(t *testing.T) {
	_, err := LoadSpecFile(filepath.Join(t.TempDir(), "nope.cue"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadSpecBytes_Aliases(t *testing.T) {
	spec, err := LoadSpecBytes("alias.cue", []byte(`properties: [{type: "double"}, {type: "long"}, {type: "uint"}]`))
	require.NoError(t, err)
	assert.Equal(t, []value.Kind{value.KindFloat64, value.KindInt64, value.KindUInt64}, spec.Kinds())
	assert.Equal(t, "$0", spec.PropertyName(0))
}

func TestLoadSpecBytes_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"syntax", `properties: [`, "cue"},
		{"empty list", `properties: []`, "cue"},
		{"no properties", `other: 1`, "cue"},
		{"missing type", `properties: [{name: "a"}]`, "cue"},
		{"unknown field", `properties: [{type: "int32", indexed: true}]`, "cue"},
		{"flag not bool", `properties: [{type: "int32", unique: "yes"}]`, "cue"},
		{"unknown kind", `properties: [{type: "decimal"}]`, "type"},
		{"sentinel kind", `properties: [{type: "null"}]`, "properties"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSpecBytes("bad.cue", []byte(tt.doc))
			require.Error(t, err)

			var se *Error
			require.True(t, errors.As(err, &se), "got %T: %v", err, err)
			assert.Equal(t, tt.want, se.Field)
		})
	}
}

func TestLoadSpecBytes_ErrorPosition(t *testing.T) {
	_, err := LoadSpecBytes("pos.cue", []byte("properties: [\n\t{type: \"int32\"\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pos.cue:")
}

func TestCompileSpec_FromValue(t *testing.T) {
	v := cuecontext.New().CompileString(`properties: [{name: "when", type: "time", not_null: true, unique: true}]`)
	spec, err := CompileSpec(v)
	require.NoError(t, err)
	require.Equal(t, 1, spec.Len())
	assert.True(t, spec.Properties[0].Has(index.FlagNotNull|index.FlagUnique))
	assert.Equal(t, value.KindTime, spec.Properties[0].Type)
}
