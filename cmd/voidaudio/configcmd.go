package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/voidaudio/internal/config"
)

var configOpts struct {
	force bool
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	Long: `Write a configuration file with default values.

The file is written to --config, or ~/.config/voidaudio/config.toml.
An existing file is kept unless --force is given.`,
	Args: cobra.NoArgs,
	Annotations: map[string]string{
		"skipConfig": "true",
	},
	RunE: runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Args:  cobra.NoArgs,
	Annotations: map[string]string{
		"skipConfig": "true",
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), configFilePath())
		return err
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)

	configInitCmd.Flags().BoolVar(&configOpts.force, "force", false,
		"Overwrite an existing config file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configFilePath()

	if _, err := os.Stat(path); err == nil && !configOpts.force {
		return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if err := config.DefaultConfig().Save(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	logger.Info("wrote config", "path", path)
	_, err := fmt.Fprintln(cmd.OutOrStdout(), path)
	return err
}

// configFilePath returns --config or the default location.
func configFilePath() string {
	if globalOpts.configPath != "" {
		return globalOpts.configPath
	}
	return config.ConfigPath()
}
