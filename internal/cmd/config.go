package cmd

import (
	"os"

	"github.com/gitdock/gitdock/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View gitdock configuration",
	Long: `View the resolved gitdock configuration.

Without arguments, displays the current configuration and where it
came from. Use 'config init' to create a config file with defaults.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a config file at ~/.config/gitdock/config.yaml with the current settings.`,
	RunE:  runConfigInit,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	source := viper.ConfigFileUsed()
	if source == "" {
		source = "(defaults, no config file found)"
	}
	cmd.Printf("Config file: %s\n\n", source)

	cmd.Printf("registry.max_open_repositories: %d\n", cfg.Registry.MaxOpenRepositories)
	cmd.Printf("git.remote_name:                %s\n", cfg.Git.RemoteName)
	cmd.Printf("logging.level:                  %s\n", cfg.Logging.Level)
	cmd.Printf("logging.format:                 %s\n", cfg.Logging.Format)
	if cfg.Logging.File != "" {
		cmd.Printf("logging.file:                   %s\n", cfg.Logging.File)
		cmd.Printf("logging.max_size_mb:            %d\n", cfg.Logging.MaxSizeMB)
		cmd.Printf("logging.max_backups:            %d\n", cfg.Logging.MaxBackups)
		cmd.Printf("logging.compress:               %t\n", cfg.Logging.Compress)
	} else {
		cmd.Printf("logging.file:                   (stderr)\n")
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(config.ConfigFile()); err == nil {
		cmd.Printf("Config file already exists: %s\n", config.ConfigFile())
		return nil
	}

	// Validate before persisting so a broken environment never becomes a
	// broken config file.
	if _, err := loadConfig(); err != nil {
		return err
	}
	if err := config.Save(viper.GetViper()); err != nil {
		return err
	}
	cmd.Printf("Created config file: %s\n", config.ConfigFile())
	return nil
}
