package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opencourse/opencourse/internal/plan"
)

// NewPlanCommand loads a race plan file into the database.
func NewPlanCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan <file>",
		Short: "Load categories, participants and courses from a plan file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			p, err := plan.Load(args[0])
			if err != nil {
				return NewExitError(ExitCommandError, err)
			}

			st, err := openStore(opts)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := plan.Apply(cmd.Context(), st, p); err != nil {
				return NewExitError(ExitFailure, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "applied plan: %d categories, %d participants, %d courses\n",
				len(p.Categories), len(p.Participants), len(p.Courses))
			return nil
		},
	}
	return cmd
}
