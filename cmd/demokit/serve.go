package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vango-dev/demokit/internal/demo"
	"github.com/vango-dev/demokit/internal/errs"
)

// serveConfig is read from the environment; flags override it.
type serveConfig struct {
	Addr            string        `env:"DEMOKIT_ADDR" envDefault:":8080"`
	ReadTimeout     time.Duration `env:"DEMOKIT_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"DEMOKIT_WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"DEMOKIT_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	LogLevel        string        `env:"DEMOKIT_LOG_LEVEL" envDefault:"info"`
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the demo server",
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg serveConfig
			if err := env.Parse(&cfg); err != nil {
				return fmt.Errorf("parse config: %w", err)
			}
			if addr != "" {
				cfg.Addr = addr
			}
			return runServe(cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides DEMOKIT_ADDR)")
	return cmd
}

func runServe(cfg serveConfig) error {
	log := newLogger(cfg.LogLevel)

	server := demo.NewServer(log, prometheus.DefaultRegisterer)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      server.Router(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("demo server listening", slog.String("addr", cfg.Addr))
		errCh <- httpServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errs.Wrap(err, "D001", errs.CategoryRuntime, "demo server failed")
		}
		return nil
	case sig := <-stop:
		log.Info("shutting down", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
