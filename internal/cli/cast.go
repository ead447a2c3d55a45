package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/sidx/internal/value"
)

// CastOptions holds flags for the cast command.
type CastOptions struct {
	*RootOptions
	To string // target kind
}

// NewCastCommand creates the cast command.
func NewCastCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CastOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "cast <kind> <text> --to <kind>",
		Short: "Convert a value between kinds",
		Long: `Parse text as a value of the source kind, then cast it to the target kind.

Numeric kinds convert into each other with Go conversion semantics,
strings parse as the target kind, and any kind formats into a string.

Examples:
  sidx cast int32 7 --to double
  sidx cast string 42 --to int64
  sidx cast double 3.5 --to string`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCast(opts, rootOpts.formatter(cmd), args[0], args[1])
		},
	}

	cmd.Flags().StringVar(&opts.To, "to", "", "target kind")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func runCast(opts *CastOptions, f *OutputFormatter, kindName, text string) error {
	from, err := value.ParseKind(kindName)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeBadKind, err)
	}
	to, err := value.ParseKind(opts.To)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeBadKind, err)
	}

	v, err := value.ParseString(from, text)
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeParse, err)
	}
	if err := value.CastTo(&v, to); err != nil {
		value.Release(v)
		return f.Fail(ExitFailure, ErrCodeCast, err)
	}
	defer value.Release(v)

	f.VerboseLog("cast %s to %s", from, to)
	return outputValue(f, ValueResult{Kind: v.Kind().String(), Value: value.Format(v), From: from.String()})
}
