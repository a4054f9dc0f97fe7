package main

import (
	"fmt"

	"github.com/aretw0/anilink/internal/config"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [config]",
	Short: "Check the config file for consistency",
	Long:  `Parses the config file and reports unknown backends, missing action labels or duplicate subject IDs.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		if len(args) > 0 {
			path = args[0]
		}

		cfg, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Config is valid! ✅ (%s backend, %d subjects)\n", cfg.Store.Backend, len(cfg.Subjects))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
