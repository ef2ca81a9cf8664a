// Package cli implements the relog command line interface.
package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	clierrors "github.com/ariel-frischer/relog/internal/errors"
	"github.com/ariel-frischer/relog/internal/git"
)

var rootCmd = &cobra.Command{
	Use:   "relog",
	Short: "Generate changelogs from conventional commit history",
	Long: `relog turns a repository's tags and conventional commits into a
grouped, linked changelog document.

Commits are classified by ordered regular expression rules where the first
match wins, grouped per release, and rendered with pull request references
linked against the repository URL. The document goes to stdout unless
--output names a file.`,
	Example: `  relog                          # print the changelog to stdout
  relog --output CHANGELOG.md    # write the changelog to a file
  relog --unreleased             # include commits made after the last tag
  relog --watch -o CHANGELOG.md  # regenerate whenever history changes`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
			color.NoColor = true
		}
		if debug, _ := cmd.Flags().GetBool("debug"); debug {
			git.SetDebugLogger(func(format string, args ...any) {
				fmt.Fprintf(os.Stderr, format+"\n", args...)
			})
		}
	},
	RunE: runGenerate,
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to the config file (default: discover .relog.yml in the repo root)")
	rootCmd.PersistentFlags().StringP("repo-path", "r", "", "Path to the git repository (default: current directory)")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress status messages")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging to stderr")

	rootCmd.Flags().StringP("output", "o", "", "Write the changelog to this file instead of stdout")
	rootCmd.Flags().BoolP("unreleased", "u", false, "Include a section for commits made after the latest tag")
	rootCmd.Flags().BoolP("watch", "w", false, "Keep running and regenerate when history changes (requires --output)")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return clierrors.NewArgumentErrorWithUsage(err.Error(), cmd.UseLine())
	})
}

// Execute runs the relog CLI and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		cliErr := asCLIError(err)
		clierrors.PrintError(cliErr)
		return exitCode(cliErr)
	}
	return ExitSuccess
}

// asCLIError converts any error into a categorized CLIError. Cobra's own
// unknown-command errors count as argument errors.
func asCLIError(err error) *clierrors.CLIError {
	var cliErr *clierrors.CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}
	if strings.HasPrefix(err.Error(), "unknown command") {
		return clierrors.NewArgumentErrorWithUsage(err.Error(), rootCmd.UseLine(),
			"Run 'relog --help' to list available commands")
	}
	return clierrors.Wrap(err, clierrors.Runtime)
}

func exitCode(err *clierrors.CLIError) int {
	switch err.Category {
	case clierrors.Argument:
		return ExitInvalidArguments
	case clierrors.Configuration:
		return ExitConfigError
	default:
		return ExitRuntimeError
	}
}
