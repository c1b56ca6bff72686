package tasks

import (
	"strings"

	"github.com/desertthunder/wrlog/internal/models"
)

// Reconcile merges freshly fetched snapshots with the previous run's snapshots.
//
// Both sides are sorted by leaderboard name and walked together. A key on one side only keeps that
// side's snapshot. A key on both sides keeps the fresh snapshot unless it came back empty while the
// previous one had entries, in which case the previous snapshot carries forward. The result holds
// exactly one snapshot per key, sorted by key. If a side repeats a key, its first occurrence wins.
func Reconcile(fresh, previous models.Snapshots) models.Snapshots {
	newSide := uniqueByKey(fresh)
	oldSide := uniqueByKey(previous)

	merged := make(models.Snapshots, 0, max(len(newSide), len(oldSide)))
	i, j := 0, 0
	for i < len(newSide) && j < len(oldSide) {
		n, o := newSide[i], oldSide[j]
		switch c := strings.Compare(n.LeaderboardName, o.LeaderboardName); {
		case c < 0:
			merged = append(merged, n)
			i++
		case c > 0:
			merged = append(merged, o)
			j++
		default:
			if n.Leaderboard.Empty() && !o.Leaderboard.Empty() {
				merged = append(merged, o)
			} else {
				merged = append(merged, n)
			}
			i++
			j++
		}
	}
	merged = append(merged, newSide[i:]...)
	merged = append(merged, oldSide[j:]...)
	return merged
}

// uniqueByKey returns a sorted copy of s without repeated keys.
func uniqueByKey(s models.Snapshots) models.Snapshots {
	sorted := append(models.Snapshots(nil), s...)
	sorted.SortByKey()

	out := sorted[:0]
	for _, snap := range sorted {
		if len(out) > 0 && snap.LeaderboardName == out[len(out)-1].LeaderboardName {
			continue
		}
		out = append(out, snap)
	}
	return out
}
