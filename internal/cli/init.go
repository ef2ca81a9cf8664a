package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/relog/internal/config"
	clierrors "github.com/ariel-frischer/relog/internal/errors"
	"github.com/ariel-frischer/relog/internal/git"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter configuration file",
	Long: `Create .relog.yml in the repository root with the default groups
and classification rules, ready to edit.

Examples:
  relog init           # create .relog.yml
  relog init --force   # overwrite an existing config`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolP("force", "f", false, "Overwrite an existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")

	dir := configDir(cmd)

	if existing := config.Discover(dir); existing != "" && !force {
		return clierrors.NewArgumentError(
			fmt.Sprintf("config file already exists at %s", existing),
			"Re-run with --force to overwrite it",
			"Or edit the existing file directly",
		)
	}

	path := filepath.Join(dir, ".relog.yml")
	if err := os.WriteFile(path, []byte(config.GetDefaultConfigTemplate()), 0o644); err != nil {
		return clierrors.OutputNotWritable(path, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Created %s\n", path)
	fmt.Fprintf(out, "\nNext steps:\n")
	fmt.Fprintf(out, "  - Adjust groups and group_rules to taste\n")
	fmt.Fprintf(out, "  - Run 'relog check' to validate changes\n")
	fmt.Fprintf(out, "  - Run 'relog' to print the changelog\n")
	return nil
}

// configDir picks where config files live: the repository root when one
// can be opened, otherwise the --repo-path value or the current directory.
func configDir(cmd *cobra.Command) string {
	repoPath, _ := cmd.Flags().GetString("repo-path")

	dir := repoPath
	if dir == "" {
		dir = "."
	}
	if repo, err := git.Open(repoPath); err == nil {
		if root, err := repo.Root(); err == nil {
			dir = root
		}
	}
	return dir
}
