package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/wrlog/internal/shared"
	"github.com/desertthunder/wrlog/internal/supervisor"
	"github.com/urfave/cli/v3"
)

// Supervise re-runs `update` in a child process until interrupted.
func (r *Runner) Supervise(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Supervisor

	updater := cmd.String("updater")
	if updater == "" {
		exe, err := os.Executable()
		if err != nil {
			return fmt.Errorf("failed to locate executable: %w", err)
		}
		updater = exe
	}
	args := []string{"--config", r.configPath, "update"}

	if cfg.HealthchecksURL == "" {
		r.logger.Warnf("%s is not set, healthchecks reporting disabled", shared.HealthchecksEnv)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := supervisor.New(
		supervisor.CommandRun(updater, args, cfg.ClientShutdownGrace.Duration, r.logger),
		supervisor.Opts{
			UpdatePeriod:      cfg.UpdatePeriod.Duration,
			MaxUpdateDuration: cfg.MaxUpdateDuration.Duration,
			Healthchecks:      supervisor.NewHealthchecks(cfg.HealthchecksURL, nil),
			Client: supervisor.NewClientProcess(
				cfg.ClientCommand,
				cfg.ClientRestartPeriod.Duration,
				cfg.ClientShutdownGrace.Duration,
				shared.WithLogger(r.logger, "component", "client"),
			),
		},
		r.logger,
	)

	r.logger.Info("supervising updates",
		"updater", updater,
		"period", cfg.UpdatePeriod.Duration,
		"max_duration", cfg.MaxUpdateDuration.Duration,
	)
	return s.Loop(ctx)
}
