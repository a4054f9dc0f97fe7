package main

import (
	"fmt"

	"github.com/aretw0/anilink/internal/presentation/graph"
	"github.com/aretw0/anilink/internal/presentation/tui"
	"github.com/aretw0/anilink/pkg/domain"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <action>",
	Short: "Export the lifecycle visualization",
	Long:  `Outputs a Mermaid diagram of the lifecycle for a subject with the given action label.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		current, _ := cmd.Flags().GetString("current")

		var overlay *graph.GraphOverlay
		if current != "" {
			if _, ok := domain.Classify(domain.Resolve(current, args[0]), args[0]); !ok {
				return fmt.Errorf("%w: %q", domain.ErrInvalidState, current)
			}
			overlay = &graph.GraphOverlay{CurrentState: current}
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(args[0], overlay))
		return nil
	},
}

// tableCmd represents the table command
var tableCmd = &cobra.Command{
	Use:   "table <action>",
	Short: "Print the transition table",
	Long:  `Renders the table of legal transitions for a subject with the given action label.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		md := tui.TransitionTable(args[0])
		if raw, _ := cmd.Flags().GetBool("raw"); raw {
			fmt.Fprint(cmd.OutOrStdout(), md)
			return nil
		}

		out, err := tui.NewRenderer()(md)
		if err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(tableCmd)

	graphCmd.Flags().String("current", "", "Highlight this state value")
	tableCmd.Flags().Bool("raw", false, "Print markdown without terminal styling")
}
