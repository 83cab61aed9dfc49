package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"pointscalc/internal/configuration"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

var version = "0.1.0"

// prepareLogger sets up the global slog logger.
// The level is one of "debug", "info", "warn", "error"; unknown levels fall
// back to info. Output is JSON, written to stdout or, when a log file is
// configured, to a lumberjack rotating file. The returned function releases
// the file and is a no-op for stdout.
func prepareLogger(config configuration.LoggerConfig) func() error {
	var logLevel slog.Level

	switch strings.ToLower(config.Level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn", "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	var out io.Writer = os.Stdout
	closer := func() error { return nil }
	if config.File != "" {
		file := &lumberjack.Logger{
			Filename:   config.File,
			MaxSize:    config.MaxSize,
			MaxBackups: config.MaxBackups,
			Compress:   true,
		}
		out, closer = file, file.Close
	}

	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: logLevel,
	})

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return closer
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "pointscalc",
		Short:         "Estimate a skilled migration points score",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newEvalCmd())
	return root
}

// On errors while loading the configuration, reading the rules or
// initializing components the application exits with code 1.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
