package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/sidx/internal/index"
	"github.com/roach88/sidx/internal/schema"
)

// PropertyInfo describes one compiled property.
type PropertyInfo struct {
	Pos     int    `json:"pos"`
	Name    string `json:"name,omitempty"`
	Type    string `json:"type"`
	NotNull bool   `json:"not_null,omitempty"`
	Unique  bool   `json:"unique,omitempty"`
}

// SchemaResult is the output of the schema command.
type SchemaResult struct {
	File       string         `json:"file"`
	Properties []PropertyInfo `json:"properties"`
}

// NewSchemaCommand creates the schema command.
func NewSchemaCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema <file.cue>",
		Short: "Check an index schema",
		Long: `Compile a CUE index schema and list its properties.

The document must hold a non-empty properties list:

  properties: [
    {name: "name", type: "string", unique: true},
    {name: "age", type: "int64", not_null: true},
  ]`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchema(rootOpts.formatter(cmd), args[0])
		},
	}
	return cmd
}

func runSchema(f *OutputFormatter, path string) error {
	spec, err := schema.LoadSpecFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return f.Fail(ExitCommandError, ErrCodeNotFound, fmt.Errorf("schema file not found: %s", path))
		}
		return f.Fail(ExitFailure, ErrCodeSchema, err)
	}

	result := SchemaResult{File: path, Properties: describeSpec(spec)}
	if f.Format == "json" {
		return f.Success(result)
	}

	fmt.Fprintf(f.Writer, "✓ %s: %d properties\n", path, len(result.Properties))
	for _, p := range result.Properties {
		fmt.Fprintf(f.Writer, "  $%d %-12s %s%s\n", p.Pos, p.Name, p.Type, flagText(p))
	}
	return nil
}

func describeSpec(spec index.Spec) []PropertyInfo {
	props := make([]PropertyInfo, 0, spec.Len())
	for i, p := range spec.Properties {
		props = append(props, PropertyInfo{
			Pos:     i,
			Name:    p.Name,
			Type:    p.Type.String(),
			NotNull: p.Has(index.FlagNotNull),
			Unique:  p.Has(index.FlagUnique),
		})
	}
	return props
}

func flagText(p PropertyInfo) string {
	var flags []string
	if p.NotNull {
		flags = append(flags, "not null")
	}
	if p.Unique {
		flags = append(flags, "unique")
	}
	if len(flags) == 0 {
		return ""
	}
	return " (" + strings.Join(flags, ", ") + ")"
}
