package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// SourceURL is the canonical home of the relog source code.
const SourceURL = "https://github.com/ariel-frischer/relog"

var sauceCmd = &cobra.Command{
	Use:   "sauce",
	Short: "Print the source repository URL",
	Long:  `Print the URL of the relog source repository. The sauce is open.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), SourceURL)
	},
}

func init() {
	rootCmd.AddCommand(sauceCmd)
}
