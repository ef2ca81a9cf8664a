package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configuration without generating anything",
	Long: `Validate the configuration file and report what would be used.

Checks YAML or JSON syntax, field values, and the classification rule
list, including that the final rule is a catch-all. Exit code 0 means
the configuration is usable.

Example:
  relog check
  relog check --config ./relog.yml`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, configDir(cmd))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if cfg.Source == "" {
		fmt.Fprintf(out, "✓ no config file found, built-in defaults are in effect\n")
	} else {
		fmt.Fprintf(out, "✓ %s is valid\n", cfg.Source)
	}
	fmt.Fprintf(out, "  %d group rules, %d groups, sort order %s\n",
		len(cfg.GroupRules), len(cfg.Groups), cfg.SortOrder)
	return nil
}
