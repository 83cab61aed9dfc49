package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"pointscalc/internal/configuration"
	"pointscalc/internal/eligibility"
	"pointscalc/internal/metrics"
	"pointscalc/internal/score"
	"pointscalc/internal/server"
	"pointscalc/internal/session"

	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the calculator HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Configuration file (defaults and environment only when empty)")
	return cmd
}

// loadCalculator builds the calculator over the rules file configured in
// engine.rules, or over the built-in table when none is configured.
func loadCalculator(rulesPath string) (*score.Calculator, error) {
	if rulesPath == "" {
		return score.NewDefaultCalculator()
	}

	rules, err := score.LoadFromFile(rulesPath)
	if err != nil {
		return nil, fmt.Errorf("load rules %s: %w", rulesPath, err)
	}
	return score.NewCalculator(rules), nil
}

func runServe(configPath string) error {
	config, err := configuration.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("unable to load configuration: %w", err)
	}
	closeLog := prepareLogger(config.Logger)
	defer closeLog()

	appCtx, appCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer appCancel()

	calculator, err := loadCalculator(config.Engine.Rules)
	if err != nil {
		slog.Error("Unable to load rules", "error", err)
		return err
	}

	sessions := session.NewRepository(config.Sessions.Ttl, config.Sessions.History)
	go sessions.Serve()
	defer sessions.Stop()

	var m *metrics.Metrics
	if config.Metrics.Enabled {
		m = metrics.New(sessions.Len)
	}

	router := server.NewApiV1Router(
		eligibility.NewEngine(calculator),
		calculator.Catalog(),
		sessions,
		m,
		server.Options{
			Static:      config.Server.Static,
			TokenCookie: config.Server.Cookie,
			MetricsPath: config.Metrics.Path,
			DefaultGoal: config.Engine.DefaultGoal,
		},
	)
	srv := server.NewServer(config.Server.Address, router)

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()
	slog.Info("Server listening " + config.Server.Address)

	select {
	case <-appCtx.Done():
	case err := <-serveErr:
		if err != nil {
			slog.Error("Server failed", "error", err)
			return err
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second*10)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown", "error", err)
	}
	slog.Info("Server stopped")
	return nil
}
