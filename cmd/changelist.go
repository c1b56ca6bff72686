package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/wrlog/internal/formatter"
	"github.com/desertthunder/wrlog/internal/models"
	"github.com/desertthunder/wrlog/internal/repositories"
	"github.com/desertthunder/wrlog/internal/shared"
	"github.com/urfave/cli/v3"
)

func (r *Runner) loadChangelist() (models.Changelist, error) {
	store, err := r.openStore()
	if err != nil {
		return nil, err
	}
	defer r.closeStore()

	changelist, err := store.LoadChangelist()
	if repositories.IsNotFound(err) {
		r.logger.Info("no changelist saved yet")
		return models.Changelist{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load changelist: %w", err)
	}
	return changelist, nil
}

// ChangelistList prints the most recent changes, newest first.
func (r *Runner) ChangelistList(ctx context.Context, cmd *cli.Command) error {
	limit := int(cmd.Int("limit"))
	if limit < 0 {
		return fmt.Errorf("%w: --limit must not be negative", shared.ErrInvalidFlag)
	}

	since := cmd.Duration("since")
	if since < 0 {
		return fmt.Errorf("%w: --since must not be negative", shared.ErrInvalidFlag)
	}

	changelist, err := r.loadChangelist()
	if err != nil {
		return err
	}
	total := len(changelist)
	if since > 0 {
		changelist = changelist.Since(time.Now().Add(-since))
	}
	recent := changelist.Recent(limit)

	if cmd.Bool("json") {
		return r.writeJSON(recent, cmd.Bool("pretty"))
	}

	if len(recent) == 0 {
		return r.writePlain("No world record changes recorded yet.\n")
	}

	r.writePlainHeader(fmt.Sprintf("Recent Changes (%d of %d)", len(recent), total))
	for _, e := range recent {
		line := fmt.Sprintf("[%s] %s: %s by %s", e.Mode, e.MapName, e.RecordNew, e.NewRecordholder)
		if e.RecordOld != nil {
			line += fmt.Sprintf(" (was %s)", *e.RecordOld)
		}
		if err := r.writePlain("%s\n    %s\n", line, e.FetchTime); err != nil {
			return err
		}
	}
	return nil
}

// ChangelistExport writes the changelist, newest first, in the requested format.
func (r *Runner) ChangelistExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	limit := int(cmd.Int("limit"))
	if limit < 0 {
		return fmt.Errorf("%w: --limit must not be negative", shared.ErrInvalidFlag)
	}

	changelist, err := r.loadChangelist()
	if err != nil {
		return err
	}

	path, err := formatter.WriteExport(changelist.Recent(limit), format, cmd.String("output"))
	if err != nil {
		return err
	}

	r.logger.Info("changelist exported", "format", format, "path", path)
	return r.writePlain("✓ Exported %d entries to %s\n", len(changelist.Recent(limit)), path)
}
