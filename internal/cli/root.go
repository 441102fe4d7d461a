package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/cfmtlint/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root cfmtlint command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "cfmtlint",
		Short: "Bracket checks, heuristics and reindenting for C-like source",
		Long: `cfmtlint scans C-like source with a lexical context tracker that knows
which characters sit inside comments, strings, character literals and
preprocessor lines. On top of that scanner it reports unbalanced brackets,
flags common C mistakes, and reindents files by brace depth.

Every check is heuristic: cfmtlint does not parse C. It is meant for quick
feedback in editors and CI, not as a compiler front end.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		Annotations:   map[string]string{annotationExitCodes: exitCodeTable},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	// Add subcommands.
	rootCmd.AddCommand(newLintCommand(info.Version))
	rootCmd.AddCommand(newFmtCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newStatsCommand())
	rootCmd.AddCommand(newRulesCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return withExitCode(ExitInvalidUsage, err)
	})

	// Apply styled help formatting.
	helpFormatter := NewHelpFormatter(color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}
