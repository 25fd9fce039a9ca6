package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gonejack/send-eml/flagdef"
	"github.com/gonejack/send-eml/sendeml"
)

const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

type RunFunc func(ctx context.Context, opt sendeml.Options) error

// New builds the root command. run is only reached once every required flag
// has been supplied.
func New(run RunFunc) (*cobra.Command, error) {
	set, err := sendeml.NewFlags()
	if err != nil {
		return nil, err
	}

	prog := &cobra.Command{
		Use:           "send-eml [options]",
		Short:         "Command line tool for relaying an .eml file to one recipient over smtp.",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(c *cobra.Command, args []string) error {
			if err := set.Check(c.Flags()); err != nil {
				return err
			}
			r, err := set.Collect(c.Flags(), args)
			if err != nil {
				return err
			}
			return run(c.Context(), sendeml.FromResult(r))
		},
	}
	prog.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &flagdef.UsageError{Err: err}
	})

	set.Bind(prog.Flags())

	return prog, nil
}

// Execute runs prog with args and reports the exit status. Usage errors print
// the usage text to stderr.
func Execute(ctx context.Context, prog *cobra.Command, args []string, stderr io.Writer) (code int, err error) {
	prog.SetArgs(args)
	prog.SetErr(stderr)

	c, err := prog.ExecuteContextC(ctx)
	switch {
	case err == nil:
		return ExitOK, nil
	case flagdef.IsUsage(err):
		_, _ = fmt.Fprintf(stderr, "%s\nError: %s\n", c.UsageString(), err)
		return ExitUsage, err
	default:
		return ExitError, err
	}
}
