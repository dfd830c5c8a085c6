package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SMUK0/RandomForest/pkg/api"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the slot-prediction HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := app.scoringModel()
			if err != nil {
				return err
			}

			if addr == "" {
				addr = app.cfg.HTTPAddr
			}
			if addr == "" {
				addr = ":8080"
			}

			server := api.NewServer(addr, model, app.slotConfig(), app.logger)

			errCh := make(chan error, 1)
			go func() {
				app.logger.Info("HTTP server listening", zap.String("addr", addr))
				errCh <- server.ListenAndServe()
			}()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

			select {
			case err := <-errCh:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("server failed: %w", err)
				}
				return nil
			case sig := <-stop:
				app.logger.Info("Shutting down", zap.String("signal", sig.String()))
			}

			ctx, cancel := context.WithTimeout(app.ctx, shutdownTimeout)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("failed to shut down cleanly: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, else :8080)")

	return cmd
}
