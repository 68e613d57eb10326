package cmd

import (
	"fmt"

	"github.com/gitdock/gitdock/internal/repoctx"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse <identifier>",
	Short: "Parse a repository identifier",
	Long: `Parse a repository identifier and print its owner/repo breakdown.

Accepted forms:
  owner/repo
  https://github.com/owner/repo
  git@github.com:owner/repo.git
  ssh://git@github.com/owner/repo`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	ref := repoctx.ParseIdentifier(args[0])
	if ref == nil {
		return fmt.Errorf("%q is not a recognizable repository identifier", args[0])
	}
	cmd.Printf("Owner:     %s\n", ref.Owner)
	cmd.Printf("Repo:      %s\n", ref.Repo)
	cmd.Printf("Full name: %s\n", ref.FullName)
	return nil
}
