package tasks

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/wrlog/internal/distance"
	"github.com/desertthunder/wrlog/internal/models"
)

// ChangelistEngine turns snapshot differences into changelist entries.
type ChangelistEngine struct {
	logger *log.Logger
}

// NewChangelistEngine creates a changelist engine.
func NewChangelistEngine(logger *log.Logger) *ChangelistEngine {
	return &ChangelistEngine{logger: logger}
}

// Diff builds one entry for every level whose rank-1 score strictly improved on the previous snapshot.
//
// Levels without a current holder, or without a previous snapshot that had one, produce nothing.
// Entries are ordered by workshop item id (0 for official levels), then by leaderboard name, and the
// whole batch is reversed.
func (e *ChangelistEngine) Diff(current, previous models.Snapshots) models.Changelist {
	baseline := previous.Index()

	ordered := append(models.Snapshots(nil), current...)
	slices.SortStableFunc(ordered, func(a, b models.LevelSnapshot) int {
		if c := cmp.Compare(a.ItemID(), b.ItemID()); c != 0 {
			return c
		}
		return cmp.Compare(a.LeaderboardName, b.LeaderboardName)
	})

	var entries models.Changelist
	for _, snap := range ordered {
		first, ok := snap.Leaderboard.First()
		if !ok {
			continue
		}

		prev, ok := baseline[snap.LeaderboardName]
		if !ok {
			continue
		}
		prevFirst, ok := prev.Leaderboard.First()
		if !ok {
			continue
		}

		if !snap.Mode.Better(first.Score, prevFirst.Score) {
			continue
		}

		entry, err := buildEntry(snap, first, prevFirst)
		if err != nil {
			e.logger.Warn("skipping record with unformattable score", "leaderboard", snap.LeaderboardName, "err", err)
			continue
		}
		entries = append(entries, entry)
	}

	slices.Reverse(entries)
	return entries
}

// Update appends to history every entry from [ChangelistEngine.Diff] not already present in it, and
// returns the extended history along with the appended entries. history itself is not modified.
func (e *ChangelistEngine) Update(history models.Changelist, current, previous models.Snapshots) (models.Changelist, models.Changelist) {
	seen := history.Keys()

	var appended models.Changelist
	for _, entry := range e.Diff(current, previous) {
		key := entry.DedupKey()
		if _, dup := seen[key]; dup {
			e.logger.Debug("suppressing duplicate record", "map", entry.MapName, "mode", entry.Mode, "record", entry.RecordNew)
			continue
		}
		seen[key] = struct{}{}
		appended = append(appended, entry)
	}

	updated := make(models.Changelist, 0, len(history)+len(appended))
	updated = append(updated, history...)
	updated = append(updated, appended...)
	return updated, appended
}

func buildEntry(snap models.LevelSnapshot, first, prevFirst models.LeaderboardEntry) (models.ChangelistEntry, error) {
	recordNew, err := distance.FormatScore(first.Score, snap.Mode)
	if err != nil {
		return models.ChangelistEntry{}, err
	}
	recordOld, err := distance.FormatScore(prevFirst.Score, snap.Mode)
	if err != nil {
		return models.ChangelistEntry{}, err
	}

	entry := models.ChangelistEntry{
		MapName:                snap.Name,
		Mode:                   snap.Mode.String(),
		NewRecordholder:        first.PlayerName,
		OldRecordholder:        models.StringPtr(prevFirst.PlayerName),
		RecordNew:              recordNew,
		RecordOld:              models.StringPtr(recordOld),
		SteamIDNewRecordholder: strconv.FormatUint(first.SteamID, 10),
		SteamIDOldRecordholder: models.StringPtr(strconv.FormatUint(prevFirst.SteamID, 10)),
		FetchTime:              snap.Timestamp.Format(models.FetchTimeLayout),
	}
	if w := snap.Workshop; w != nil {
		entry.MapAuthor = models.StringPtr(w.AuthorName)
		entry.MapPreview = models.StringPtr(w.PreviewURL)
		entry.WorkshopItemID = models.StringPtr(strconv.FormatUint(w.PublishedFileID, 10))
		entry.SteamIDAuthor = models.StringPtr(strconv.FormatUint(w.SteamIDOwner, 10))
	}
	return entry, nil
}
