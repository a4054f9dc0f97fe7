package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/anilink"
	"github.com/aretw0/anilink/internal/cli"
	httpAdapter "github.com/aretw0/anilink/pkg/adapters/http"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Starts the subject registry in server mode, exposing a JSON API over HTTP with Prometheus metrics and SSE transition streams.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.HTTP.Addr = addr
		}

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()

		streams := httpAdapter.NewStreamManager()
		link, err := cli.NewLink(ctx, cfg, logger, anilink.WithLifecycleHooks(streams.Hooks()))
		if err != nil {
			return err
		}
		defer link.Close()

		opts := []httpAdapter.HandlerOption{httpAdapter.WithStreams(streams)}
		if g := link.Gatherer(); g != nil {
			opts = append(opts, httpAdapter.WithGatherer(g))
		}

		srv := &http.Server{
			Addr:    cfg.HTTP.Addr,
			Handler: httpAdapter.NewHandler(link, opts...),
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			logger.Info("Starting Anilink Server", "addr", srv.Addr, "backend", cfg.Store.Backend)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case <-ctx.Done():
			logger.Info("Start shutdown...", "signal", ctx.Signal())

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("Graceful shutdown did not complete", "timeout", 5*time.Second, "error", err)
				if err := srv.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			logger.Info("Anilink Server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Address to listen on (overrides http.addr)")
}
