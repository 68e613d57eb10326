package cmd

import (
	"fmt"

	"github.com/gitdock/gitdock/internal/repoctx"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [path]",
	Short: "Show what the context factory detects for a repository",
	Long: `Build a repository context for the given path (default: the current
directory) and print everything the factory detected: the resolved
repository root, the remote URL and hosting provider, the default
branch, and the owner/repo reference when the remote is recognized.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, closeLogger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLogger()

	path := "."
	if len(args) == 1 {
		path = args[0]
	}

	factory := repoctx.NewFactory(cfg.Git.RemoteName, logger)
	ctx, err := factory.CreateLocal(path)
	if err != nil {
		return fmt.Errorf("failed to inspect %s: %w", path, err)
	}

	cmd.Printf("Name:           %s\n", ctx.Name)
	cmd.Printf("Root:           %s\n", ctx.Path())
	cmd.Printf("Provider:       %s\n", ctx.Metadata.Provider)
	cmd.Printf("Default branch: %s\n", ctx.Metadata.DefaultBranch)
	if branch, ok := ctx.Local.Handle.CurrentBranch(); ok {
		cmd.Printf("Current branch: %s\n", branch)
	}
	if ctx.Metadata.RemoteURL != "" {
		cmd.Printf("Remote URL:     %s\n", ctx.Metadata.RemoteURL)
	} else {
		cmd.Printf("Remote URL:     (none)\n")
	}
	if ctx.Remote != nil {
		cmd.Printf("Repository:     %s\n", ctx.Remote.FullName)
	}
	return nil
}
