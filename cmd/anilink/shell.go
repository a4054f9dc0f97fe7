package main

import (
	"context"
	"os"

	"github.com/aretw0/anilink/internal/cli"
	"github.com/aretw0/anilink/internal/presentation/tui"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Drive the registry interactively",
	Long: `Starts a line-oriented shell over the registry. Commands are read from Stdin,
so a script can be piped in: echo "connect dog barks" | anilink shell`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()

		link, err := cli.NewLink(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer link.Close()

		opts := []cli.ShellOption{cli.WithShellLogger(logger)}
		if cli.IsTerminal(os.Stdin) {
			tui.PrintBanner(os.Stdout)
			opts = append(opts,
				cli.WithPrompt(true),
				cli.WithStyler(tui.NewStateStyler(termenv.ColorProfile())),
				cli.WithMarkdownRenderer(tui.NewRenderer()),
			)
		}

		in := cli.NewInterruptibleReader(os.Stdin, ctx.Done())
		sh := cli.NewShell(link, in, os.Stdout, opts...)
		return cli.HandleExecutionError(sh.Run(ctx))
	},
}

func init() {
	rootCmd.AddCommand(shellCmd)
}
