package root

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, websocket feed and day scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, cleanup, err := BuildApp(ctx, ConfigPath(configPath))
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			defer cleanup()

			cfg := app.Config
			app.Logger.Info("starting lifesystem server",
				"environment", cfg.Environment,
				"profile", cfg.Profile,
				"address", cfg.Server.Address,
				"storage_adapter", cfg.Storage.Adapter,
				"timezone", cfg.Engine.Timezone)

			app.Scheduler.Start()
			defer app.Scheduler.Stop()

			srvErr := make(chan error, 1)
			go func() {
				app.Logger.Info("server listening", "address", cfg.Server.Address)
				if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					srvErr <- err
				}
				close(srvErr)
			}()

			select {
			case err := <-srvErr:
				if err != nil {
					return fmt.Errorf("server: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			app.Logger.Info("shutting down server", "timeout", cfg.Server.ShutdownTimeout)
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()

			if err := app.Server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			app.Logger.Info("server stopped")
			return nil
		},
	}
}
