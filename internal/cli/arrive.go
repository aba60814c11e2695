package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opencourse/opencourse/internal/race"
)

// ArriveOptions holds options for the arrive command.
type ArriveOptions struct {
	*RootOptions
	Elapsed string
}

// NewArriveCommand records a finish-line crossing. Without a bib the
// arrival is recorded unidentified and can be bound later; with
// --elapsed the finish is derived from a hand-clocked race time instead
// of the wall clock.
func NewArriveCommand(opts *RootOptions) *cobra.Command {
	arriveOpts := &ArriveOptions{RootOptions: opts}

	cmd := &cobra.Command{
		Use:   "arrive <course> [bib]",
		Short: "Record an arrival on a launched course",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			bib := ""
			if len(args) == 2 {
				bib = args[1]
			}
			if arriveOpts.Elapsed != "" && bib == "" {
				return NewExitError(ExitCommandError, fmt.Errorf("--elapsed requires a bib"))
			}

			st, err := openStore(opts)
			if err != nil {
				return err
			}
			defer st.Close()

			ctx := cmd.Context()
			course, err := resolveCourse(ctx, st, args[0])
			if err != nil {
				return NewExitError(ExitFailure, err)
			}

			svc := newService(st, cmd.ErrOrStderr())
			if err := seedOrdinals(ctx, st, svc, course.ID); err != nil {
				return NewExitError(ExitFailure, err)
			}

			var result *race.Result
			if arriveOpts.Elapsed != "" {
				result, err = svc.SetManualElapsed(ctx, course.ID, bib, arriveOpts.Elapsed)
			} else {
				result, err = svc.RecordArrival(ctx, course.ID, bib)
			}
			if err != nil {
				return NewExitError(ExitFailure, err)
			}

			remaining, err := svc.Remaining(ctx, course.ID)
			if err != nil {
				return NewExitError(ExitFailure, err)
			}

			if opts.Format == "json" {
				return printJSON(cmd.OutOrStdout(), result)
			}
			if result.Resolved() {
				fmt.Fprintf(cmd.OutOrStdout(), "arrival #%d: bib %d in %s\n", result.ArrivalOrdinal, result.Bib, result.ElapsedText)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "arrival #%d: bib pending\n", result.ArrivalOrdinal)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d still on course\n", remaining)
			return nil
		},
	}

	cmd.Flags().StringVar(&arriveOpts.Elapsed, "elapsed", "", "hand-clocked race time (HH:MM:SS) instead of wall clock")

	return cmd
}
