package models

import (
	"cmp"
	"slices"
	"time"
)

// LevelSnapshot is one level/mode observation.
//
// Workshop is nil for official levels.
type LevelSnapshot struct {
	Name            string        `json:"name"`
	Mode            Mode          `json:"mode"`
	LeaderboardName string        `json:"leaderboard_name"`
	Workshop        *WorkshopItem `json:"workshop_response"`
	Leaderboard     Leaderboard   `json:"leaderboard_response"`
	Timestamp       time.Time     `json:"timestamp"`
}

// ItemID returns the workshop item id, or 0 for official levels.
func (s LevelSnapshot) ItemID() uint64 {
	if s.Workshop == nil {
		return 0
	}
	return s.Workshop.PublishedFileID
}

// Snapshots is the collection of level snapshots keyed by leaderboard name.
type Snapshots []LevelSnapshot

// SortByKey sorts the collection in place by leaderboard name. The sort is stable.
func (s Snapshots) SortByKey() {
	slices.SortStableFunc(s, func(a, b LevelSnapshot) int {
		return cmp.Compare(a.LeaderboardName, b.LeaderboardName)
	})
}

// Index maps each leaderboard name to its snapshot. The first occurrence of a key wins.
func (s Snapshots) Index() map[string]LevelSnapshot {
	idx := make(map[string]LevelSnapshot, len(s))
	for _, snap := range s {
		if _, ok := idx[snap.LeaderboardName]; !ok {
			idx[snap.LeaderboardName] = snap
		}
	}
	return idx
}
