// Package cli implements the opencourse command tree: race-day setup,
// launching, finish-line recording, corrections, classification, printable
// outputs, backup and the HTTP surface.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	Database string
	Format   string // "text" | "json"
	Verbose  bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the opencourse CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "opencourse",
		Short: "Race timing for foot and canicross races",
		Long: `opencourse times staggered-start races: prepare categories,
participants and course rosters from a plan file, launch a course,
record arrivals as runners cross the line, correct them afterwards,
and compute scratch, category and sex rankings.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if opts.Verbose {
				slog.SetLogLoggerLevel(slog.LevelDebug)
			}
			return nil
		},
	}

	defaultDB := os.Getenv("OPENCOURSE_DB")
	if defaultDB == "" {
		defaultDB = "opencourse.db"
	}

	cmd.PersistentFlags().StringVar(&opts.Database, "db", defaultDB, "path to SQLite database")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewPlanCommand(opts))
	cmd.AddCommand(NewLaunchCommand(opts))
	cmd.AddCommand(NewArriveCommand(opts))
	cmd.AddCommand(NewBindCommand(opts))
	cmd.AddCommand(NewPenaltyCommand(opts))
	cmd.AddCommand(NewRankCommand(opts))
	cmd.AddCommand(NewResultsCommand(opts))
	cmd.AddCommand(NewStartListCommand(opts))
	cmd.AddCommand(NewParticipantsCommand(opts))
	cmd.AddCommand(NewBackupCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
