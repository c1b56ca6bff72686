package distance

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/desertthunder/wrlog/internal/models"
	"github.com/desertthunder/wrlog/internal/shared"
)

// ModeID returns the numeric id the game embeds in leaderboard names.
func ModeID(m models.Mode) (int, bool) {
	switch m {
	case models.Sprint:
		return 1, true
	case models.Stunt:
		return 5, true
	case models.Challenge:
		return 8, true
	default:
		return 0, false
	}
}

// LeaderboardName builds the leaderboard key for a level and mode.
//
// owner is the workshop owner id for community levels and 0 for official ones.
func LeaderboardName(level string, mode models.Mode, owner uint64) (string, error) {
	if strings.TrimSpace(level) == "" {
		return "", fmt.Errorf("%w: empty level name", shared.ErrLeaderboardKey)
	}
	if strings.IndexFunc(level, unicode.IsControl) >= 0 {
		return "", fmt.Errorf("%w: level name %q contains control characters", shared.ErrLeaderboardKey, level)
	}
	id, ok := ModeID(mode)
	if !ok {
		return "", fmt.Errorf("%w: unknown mode %v", shared.ErrLeaderboardKey, mode)
	}

	if owner == 0 {
		return fmt.Sprintf("%s_%d_stable", level, id), nil
	}
	return fmt.Sprintf("%s_%d_%d_stable", level, id, owner), nil
}

// LevelFileStem returns the base name of a workshop file with its extension removed.
//
// Workshop file names may carry a directory ("levels/My Level.bytes"), which is not part of the key.
// A leading dot does not start an extension, so ".bytes" keeps its whole name.
func LevelFileStem(fileName string) string {
	base := filepath.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if base == "." || base == ".." || base == "/" {
		return ""
	}
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		return base[:i]
	}
	return base
}

// FormatScore renders a raw score for the given mode.
//
// Time modes are milliseconds shown as M:SS.hh (H:MM:SS.hh from one hour on), truncated to hundredths.
// Stunt scores are shown as "<n> eV".
func FormatScore(score int32, mode models.Mode) (string, error) {
	switch {
	case mode == models.Stunt:
		return fmt.Sprintf("%d eV", score), nil
	case mode.TimeBased():
		if score < 0 {
			return "", fmt.Errorf("%w: negative time %d", shared.ErrInvalidScore, score)
		}
		return formatTime(int64(score)), nil
	default:
		return "", fmt.Errorf("%w: unknown mode %v", shared.ErrInvalidScore, mode)
	}
}

func formatTime(ms int64) string {
	hundredths := (ms / 10) % 100
	seconds := (ms / 1000) % 60
	minutes := (ms / 60_000) % 60
	hours := ms / 3_600_000

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d.%02d", hours, minutes, seconds, hundredths)
	}
	return fmt.Sprintf("%d:%02d.%02d", minutes, seconds, hundredths)
}
