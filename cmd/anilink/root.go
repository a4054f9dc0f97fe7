package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/anilink/internal/cli"
	"github.com/aretw0/anilink/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "anilink",
	Short: "Anilink tracks subjects through a dormant, idle and active lifecycle",
	Long: `Anilink keeps a registry of subjects, each with its own action label.
A subject moves between dormant, idle and its action, and must always pass through idle.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", config.DefaultPath, "Path to the anilink YAML config")
	rootCmd.PersistentFlags().String("log-level", "", "Override the configured log level (debug, info, warn, error)")
}

// loadConfig reads the config file named by --config and builds the logger.
func loadConfig(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, nil, err
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Log.Level = level
	}

	// Logs always go to Stderr so they never mix with Stdout output (or MCP JSON-RPC).
	logger, err := cli.NewLogger(cfg.Log, os.Stderr)
	if err != nil {
		return cfg, nil, err
	}
	slog.SetDefault(logger)
	return cfg, logger, nil
}
