// package services defines interface LeaderboardService for reading leaderboards and the workshop catalog
package services

import (
	"context"
	"iter"

	"github.com/desertthunder/wrlog/internal/models"
)

// LeaderboardService is the read-only view of the leaderboard backend that the pipeline depends on.
type LeaderboardService interface {
	// LeaderboardRange returns the entries ranked start through end (inclusive), best first.
	LeaderboardRange(ctx context.Context, name string, start, end int) ([]models.LeaderboardEntry, error)

	// ReadyItems lazily yields every ready-to-use workshop item tagged with any of tags.
	// Iteration stops after the first error is yielded.
	ReadyItems(ctx context.Context, tags []string) iter.Seq2[models.WorkshopItem, error]

	// DisplayName resolves a player's display name. It is best-effort.
	DisplayName(ctx context.Context, steamID uint64) (string, error)

	// Name returns the name of the backend (e.g., "Gateway")
	Name() string
}
