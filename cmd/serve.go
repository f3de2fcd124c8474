package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/davidbz/atelier/internal/config"
	"github.com/davidbz/atelier/internal/history/sqlite"
	"github.com/davidbz/atelier/internal/httpserver"
	"github.com/davidbz/atelier/internal/observability"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the generation HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			container, err := buildContainer()
			if err != nil {
				return err
			}

			return container.Invoke(func(
				server *httpserver.Server,
				history *sqlite.Store,
				cfg *config.ServerConfig,
			) error {
				defer history.Close()

				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()

				errCh := make(chan error, 1)
				go func() {
					errCh <- server.Start(ctx)
				}()

				select {
				case err := <-errCh:
					return err
				case <-ctx.Done():
				}

				shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx),
					time.Duration(cfg.ShutdownTimeout)*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return err
				}
				if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
					return fmt.Errorf("server stopped: %w", err)
				}

				observability.FromContext(ctx).Info("server stopped")
				return nil
			})
		},
	}
}
