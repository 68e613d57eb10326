package cmd

import (
	"fmt"

	"github.com/gitdock/gitdock/internal/registry"
	"github.com/gitdock/gitdock/internal/repoctx"
	"github.com/gitdock/gitdock/internal/util"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status [path...]",
	Short: "Open repositories and show the registry state",
	Long: `Open each given path as a repository context and print the resulting
registry: one row per tracked repository, the active one marked with *.
The last path opened becomes the active repository. With no arguments
the current directory is opened.

Opening the same repository twice (or a subdirectory of an already
opened repository) reuses the existing context rather than creating a
second one.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, closeLogger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLogger()

	factory := repoctx.NewFactory(cfg.Git.RemoteName, logger)
	manager := registry.NewManager(registry.Config{
		MaxOpen: cfg.Registry.MaxOpenRepositories,
		Factory: factory,
		Logger:  logger,
	})

	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}
	for _, path := range paths {
		if _, err := manager.Open(path, true); err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
	}

	printSummaries(cmd, manager.Summaries())
	cmd.Printf("\n%d repositories tracked (capacity %d), epoch %d\n",
		manager.Len(), cfg.Registry.MaxOpenRepositories, manager.Epoch())
	return nil
}

// printSummaries renders one row per tracked repository, most recently
// accessed first, the active repository marked with *.
func printSummaries(cmd *cobra.Command, summaries []registry.Summary) {
	cmd.Printf("%-2s %-10s %-20s %-10s %-7s %s\n", "", "ID", "NAME", "PROVIDER", "KIND", "PATH")
	for _, s := range summaries {
		marker := ""
		if s.Active {
			marker = "*"
		}
		location := s.Path
		if location == "" && s.Remote != nil {
			location = s.Remote.FullName
		}
		cmd.Printf("%-2s %-10s %-20s %-10s %-7s %s\n",
			marker,
			s.ID,
			util.TruncateString(s.Name, 20),
			string(s.Provider),
			string(s.Kind),
			util.TruncateString(location, 60))
	}
}
