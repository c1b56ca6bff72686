package tasks

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/wrlog/internal/models"
	"github.com/desertthunder/wrlog/internal/shared"
)

var testTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func discardLogger() *log.Logger {
	return shared.NewLogger(io.Discard)
}

func entry(id uint64, score int32) models.LeaderboardEntry {
	return models.LeaderboardEntry{SteamID: id, GlobalRank: 1, Score: score, PlayerName: "player"}
}

func snapshot(key string, mode models.Mode, entries ...models.LeaderboardEntry) models.LevelSnapshot {
	return models.LevelSnapshot{
		Name:            key,
		Mode:            mode,
		LeaderboardName: key,
		Leaderboard:     models.Leaderboard{Entries: entries},
		Timestamp:       testTime,
	}
}
