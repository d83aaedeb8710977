/*
Copyright © 2025 Sysconf Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/sysconf-dev/sysconf/pkg/errors"
	"github.com/sysconf-dev/sysconf/pkg/logging"
)

const (
	name           = "sysconfctl"
	versionDefault = "dev"
)

// Exit statuses by error class, so pipelines can tell bad configuration
// apart from operational failures.
const (
	exitFailure       = 1
	exitInvalidConfig = 2
	exitNotFound      = 3
	exitUnavailable   = 4
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Execute runs the root command with signal-aware cancellation. It is
// called by main.main().
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle SIGINT/SIGTERM for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down gracefully...")
		cancel()
	}()

	if err := rootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitStatus(errors.CodeOf(err)))
	}
}

// exitStatus maps a structured error code to the process exit status.
func exitStatus(code errors.ErrorCode) int {
	switch code {
	case errors.ErrCodeInvalidConfig:
		return exitInvalidConfig
	case errors.ErrCodeNotFound:
		return exitNotFound
	case errors.ErrCodeUnavailable, errors.ErrCodeTimeout:
		return exitUnavailable
	default:
		return exitFailure
	}
}

func rootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Usage:                 "Validate, render, and apply host sysconfig options",
		Version:               fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logLevel := cmd.String("log-level")
			logging.SetDefaultStructuredLoggerWithLevel(name, version, logLevel)
			slog.Debug("starting",
				"name", name,
				"version", version,
				"commit", commit,
				"date", date,
				"logLevel", logLevel)
			return ctx, nil
		},
		Commands: []*cli.Command{
			validateCmd(),
			renderCmd(),
			applyCmd(),
			removeCmd(),
			optionsCmd(),
			statusCmd(),
		},
	}
}
