package tasks

import (
	"context"
	"fmt"
	"iter"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/wrlog/internal/distance"
	"github.com/desertthunder/wrlog/internal/models"
	"github.com/desertthunder/wrlog/internal/services"
)

// LevelTarget is one level/mode leaderboard to fetch.
type LevelTarget struct {
	Name            string
	Mode            models.Mode
	LeaderboardName string
	Workshop        *models.WorkshopItem // nil for official levels
}

// Official reports whether the target is an official level.
func (t LevelTarget) Official() bool {
	return t.Workshop == nil
}

// LevelCatalog enumerates official levels and discovers community levels.
type LevelCatalog struct {
	svc      services.LeaderboardService
	official []distance.OfficialLevel
	logger   *log.Logger
}

// NewLevelCatalog creates a catalog over the compiled-in official level table.
func NewLevelCatalog(svc services.LeaderboardService, logger *log.Logger) *LevelCatalog {
	return &LevelCatalog{svc: svc, official: distance.OfficialLevels(), logger: logger}
}

// WithOfficialLevels replaces the official level table.
func (c *LevelCatalog) WithOfficialLevels(levels []distance.OfficialLevel) *LevelCatalog {
	c.official = levels
	return c
}

// Official returns a target for every official level/mode pair.
//
// The official table is trusted, so a level whose key cannot be built is a configuration error.
func (c *LevelCatalog) Official() ([]LevelTarget, error) {
	targets := make([]LevelTarget, 0, len(c.official))
	for _, level := range c.official {
		key, err := distance.LeaderboardName(level.Name, level.Mode, 0)
		if err != nil {
			return nil, fmt.Errorf("official level %q (%v): %w", level.Name, level.Mode, err)
		}
		targets = append(targets, LevelTarget{Name: level.Name, Mode: level.Mode, LeaderboardName: key})
	}
	return targets, nil
}

// Community lazily yields a target for every mode each ready-to-use workshop item is tagged with.
//
// Items without a file name are skipped, as are item/mode pairs whose key cannot be built. A catalog
// query error is yielded once and ends the sequence.
func (c *LevelCatalog) Community(ctx context.Context) iter.Seq2[LevelTarget, error] {
	tags := make([]string, len(models.Modes))
	for i, m := range models.Modes {
		tags[i] = m.String()
	}

	return func(yield func(LevelTarget, error) bool) {
		for item, err := range c.svc.ReadyItems(ctx, tags) {
			if err != nil {
				yield(LevelTarget{}, err)
				return
			}
			if item.FileName == "" {
				continue
			}

			stem := distance.LevelFileStem(item.FileName)
			for _, mode := range models.ModesFromTags(item.Tags) {
				key, err := distance.LeaderboardName(stem, mode, item.SteamIDOwner)
				if err != nil {
					c.logger.Debug("skipping community level", "item", item.PublishedFileID, "mode", mode, "err", err)
					continue
				}

				workshop := item
				target := LevelTarget{Name: item.Title, Mode: mode, LeaderboardName: key, Workshop: &workshop}
				if !yield(target, nil) {
					return
				}
			}
		}
	}
}
