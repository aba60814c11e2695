package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opencourse/opencourse/internal/render"
)

// NewResultsCommand prints the results table for a course.
func NewResultsCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "results <course>",
		Short: "Show results for a course",
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

// NewStartListCommand prints the start list for a course.
func NewStartListCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "startlist <course>",
		Short: "Show the start list for a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			st, err := openStore(opts)
			if err != nil {
				return err
			}
			defer st.Close()

			course, err := resolveCourse(cmd.Context(), st, args[0])
			if err != nil {
				return NewExitError(ExitFailure, err)
			}

			if opts.Format == "json" {
				return printJSON(cmd.OutOrStdout(), course)
			}
			fmt.Fprint(cmd.OutOrStdout(), render.StartList(course))
			return nil
		},
	}
	return cmd
}

// NewParticipantsCommand prints the registered participants.
func NewParticipantsCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "participants",
		Short: "List registered participants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			st, err := openStore(opts)
			if err != nil {
				return err
			}
			defer st.Close()

			participants, err := st.Participants(cmd.Context())
			if err != nil {
				return NewExitError(ExitFailure, err)
			}

			if opts.Format == "json" {
				return printJSON(cmd.OutOrStdout(), participants)
			}
			fmt.Fprint(cmd.OutOrStdout(), render.ParticipantIndex(participants))
			return nil
		},
	}
	return cmd
}
