package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opencourse/opencourse/internal/race"
	"github.com/opencourse/opencourse/internal/render"
)

// NewRankCommand recomputes scratch, category and sex rankings.
func NewRankCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rank <course>",
		Short: "Recompute rankings for a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

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
			if err := svc.ComputeRankings(ctx, course.ID); err != nil {
				var partial *race.PartialBatchError
				if errors.As(err, &partial) {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: %d results not saved, rerun rank\n", len(partial.FailedIDs))
				} else {
					return NewExitError(ExitFailure, err)
				}
			}

			results, err := st.ResultsByCourse(ctx, course.ID)
			if err != nil {
				return NewExitError(ExitFailure, err)
			}

			if opts.Format == "json" {
				return printJSON(cmd.OutOrStdout(), results)
			}
			fmt.Fprint(cmd.OutOrStdout(), render.ResultsTable(course, results))
			return nil
		},
	}
	return cmd
}
