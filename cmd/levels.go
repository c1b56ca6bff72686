package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/wrlog/internal/distance"
	"github.com/desertthunder/wrlog/internal/models"
	"github.com/desertthunder/wrlog/internal/shared"
	"github.com/urfave/cli/v3"
)

// levelRow is one official level with its leaderboard key.
type levelRow struct {
	Name            string      `json:"name"`
	Mode            models.Mode `json:"mode"`
	LeaderboardName string      `json:"leaderboard_name"`
}

// Levels prints the official level table.
func (r *Runner) Levels(ctx context.Context, cmd *cli.Command) error {
	var filter models.Mode
	if name := cmd.String("mode"); name != "" {
		mode, err := models.ParseMode(name)
		if err != nil {
			return fmt.Errorf("%w: %w", shared.ErrInvalidFlag, err)
		}
		filter = mode
	}

	rows := []levelRow{}
	for _, level := range distance.OfficialLevels() {
		if filter != 0 && level.Mode != filter {
			continue
		}
		key, err := distance.LeaderboardName(level.Name, level.Mode, 0)
		if err != nil {
			return fmt.Errorf("official level %q: %w", level.Name, err)
		}
		rows = append(rows, levelRow{Name: level.Name, Mode: level.Mode, LeaderboardName: key})
	}

	if cmd.Bool("json") {
		return r.writeJSON(rows, true)
	}

	r.writePlainHeader(fmt.Sprintf("Official Levels (%d)", len(rows)))
	for _, row := range rows {
		r.writePlain("%-10s %-28s %s\n", row.Mode, row.Name, row.LeaderboardName)
	}
	return nil
}
