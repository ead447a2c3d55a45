package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/sidx/internal/value"
)

// ValueResult is the output of parse and cast.
type ValueResult struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
	From  string `json:"from,omitempty"` // source kind, cast only
}

// NewParseCommand creates the parse command.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <kind> <text>",
		Short: "Parse text as a typed value",
		Long: `Parse text as a value of the given kind and print its canonical form.

Kinds: int32 (int), int64 (long), uint64 (uint), float32 (float),
float64 (double), bool, time, string.

Examples:
  sidx parse int64 -- -42
  sidx parse double 2.5e3
  sidx parse bool TRUE --format json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(rootOpts.formatter(cmd), args[0], args[1])
		},
	}
	return cmd
}

func runParse(f *OutputFormatter, kindName, text string) error {
	kind, err := value.ParseKind(kindName)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeBadKind, err)
	}

	v, err := value.ParseString(kind, text)
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeParse, err)
	}
	defer value.Release(v)

	f.VerboseLog("parsed %q as %s", text, kind)
	return outputValue(f, ValueResult{Kind: kind.String(), Value: value.Format(v)})
}

func outputValue(f *OutputFormatter, r ValueResult) error {
	if f.Format == "json" {
		return f.Success(r)
	}
	fmt.Fprintf(f.Writer, "%s %s\n", r.Kind, r.Value)
	return nil
}
