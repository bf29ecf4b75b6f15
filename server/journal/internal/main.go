package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ienikesergey/Outage-Dispatch-System/server/journal/internal/config"
	"github.com/ienikesergey/Outage-Dispatch-System/server/journal/internal/database"
	"github.com/ienikesergey/Outage-Dispatch-System/server/journal/internal/routers"
)

func main() {
	root := &cobra.Command{
		Use:   "journal",
		Short: "Outage dispatch journal service",
	}
	root.AddCommand(serveCmd(), seedCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger, err := newLogger(cfg.Debug)
			if err != nil {
				return err
			}
			defer logger.Sync()

			db, err := database.Open(cfg.DBPath)
			if err != nil {
				logger.Error("failed to open database", zap.Error(err))
				return err
			}

			srv := &http.Server{
				Addr:    ":" + cfg.Port,
				Handler: routers.Setup(db, cfg, logger),
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("starting server", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				logger.Error("server failed", zap.Error(err))
				return err
			case sig := <-quit:
				logger.Info("shutting down", zap.String("signal", sig.String()))
			}

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("forced shutdown", zap.Error(err))
				return err
			}
			logger.Info("server stopped")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Populate users, the reason taxonomy and demo topology",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger, err := newLogger(cfg.Debug)
			if err != nil {
				return err
			}
			defer logger.Sync()

			db, err := database.Open(cfg.DBPath)
			if err != nil {
				logger.Error("failed to open database", zap.Error(err))
				return err
			}
			return database.Seed(db, logger)
		},
	}
}
