package main

import (
	"fmt"

	"github.com/aretw0/anilink"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of anilink",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "anilink version %s\n", anilink.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
