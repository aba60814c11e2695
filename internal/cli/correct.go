package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewBindCommand assigns a bib to a previously unidentified arrival.
func NewBindCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bind <result-id> <bib>",
		Short: "Assign a bib to an unidentified arrival",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			st, err := openStore(opts)
			if err != nil {
				return err
			}
			defer st.Close()

			svc := newService(st, cmd.ErrOrStderr())
			result, err := svc.BindBib(cmd.Context(), args[0], args[1])
			if err != nil {
				return NewExitError(ExitFailure, err)
			}

			if opts.Format == "json" {
				return printJSON(cmd.OutOrStdout(), result)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "bib %d bound: race time %s\n", result.Bib, result.ElapsedText)
			return nil
		},
	}
	return cmd
}

// NewPenaltyCommand applies a time penalty to a result.
func NewPenaltyCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "penalty <result-id> <seconds>",
		Short: "Set the time penalty on a result",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			seconds, err := strconv.Atoi(args[1])
			if err != nil {
				return NewExitError(ExitCommandError, fmt.Errorf("invalid penalty %q: %w", args[1], err))
			}

			st, err := openStore(opts)
			if err != nil {
				return err
			}
			defer st.Close()

			svc := newService(st, cmd.ErrOrStderr())
			result, err := svc.SetPenalty(cmd.Context(), args[0], seconds)
			if err != nil {
				return NewExitError(ExitFailure, err)
			}

			if opts.Format == "json" {
				return printJSON(cmd.OutOrStdout(), result)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "penalty %ds: race time now %s\n", result.PenaltySeconds, result.ElapsedText)
			return nil
		},
	}
	return cmd
}
