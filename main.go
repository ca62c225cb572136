package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"feira/internal/app"
	"feira/internal/config"
	"feira/internal/logging"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "feira",
	Short:         "Feira online: storefronts and orders for street-market vendors",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

// setup loads configuration and the process logger shared by every command.
func setup() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)
	return cfg, log, nil
}

// feira serve: start the HTTP server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := app.New(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer func() {
			if err := a.Close(); err != nil {
				log.Error("error while releasing resources", "error", err)
			}
		}()

		go func() {
			log.Info("starting order event consumer")
			if err := a.StartConsumers(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("order event consumer stopped", "error", err)
			}
		}()

		serverErr := make(chan error, 1)
		go func() {
			log.Info("starting server", "port", cfg.AppPort, "store", cfg.StoreDriver)
			serverErr <- a.Fiber.Listen(cfg.AppPort)
		}()

		select {
		case err := <-serverErr:
			return fmt.Errorf("server failed: %w", err)
		case <-ctx.Done():
		}

		log.Info("shutting down server")
		if err := a.Fiber.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error("error during fiber shutdown", "error", err)
		}
		log.Info("server gracefully stopped")
		return nil
	},
}

// feira migrate: create tables or indexes for the configured store.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the schema (SQL tables or Mongo indexes) of the configured store",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		stores, err := app.OpenStores(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		log.Info("schema is up to date", "store", cfg.StoreDriver)
		return stores.Close()
	},
}

// feira seed: create a demo vendor with a few products.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create a demo vendor and catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		stores, err := app.OpenStores(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer stores.Close()
		return seedDemoStore(cmd.Context(), cfg, stores, log)
	},
}
