package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/opencourse/opencourse/internal/backup"
)

// NewBackupCommand groups the export and import subcommands.
func NewBackupCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export or import categories and participants",
	}
	cmd.AddCommand(newBackupExportCommand(opts))
	cmd.AddCommand(newBackupImportCommand(opts))
	return cmd
}

func newBackupExportCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Export categories and participants as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			st, err := openStore(opts)
			if err != nil {
				return err
			}
			defer st.Close()

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				f, err := os.Create(args[0])
				if err != nil {
					return NewExitError(ExitFailure, err)
				}
				defer f.Close()
				out = f
			}

			if err := backup.Export(cmd.Context(), st, out); err != nil {
				return NewExitError(ExitFailure, err)
			}
			return nil
		},
	}
}

func newBackupImportCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import categories and participants from a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			f, err := os.Open(args[0])
			if err != nil {
				return NewExitError(ExitCommandError, err)
			}
			defer f.Close()

			st, err := openStore(opts)
			if err != nil {
				return err
			}
			defer st.Close()

			categories, participants, err := backup.Import(cmd.Context(), st, f)
			if err != nil {
				return NewExitError(ExitFailure, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "imported %d categories, %d participants\n", categories, participants)
			return nil
		},
	}
}
