package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opencourse/opencourse/internal/render"
)

// NewLaunchCommand starts a course, assigning staggered start times.
func NewLaunchCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "launch <course>",
		Short: "Launch a course and assign staggered start times",
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
			launched, err := svc.Launch(ctx, course.ID)
			if err != nil {
				return NewExitError(ExitFailure, err)
			}

			if opts.Format == "json" {
				return printJSON(cmd.OutOrStdout(), launched)
			}
			fmt.Fprint(cmd.OutOrStdout(), render.StartList(launched))
			return nil
		},
	}
	return cmd
}
