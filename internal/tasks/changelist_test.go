package tasks

import (
	"testing"

	"github.com/desertthunder/wrlog/internal/models"
	"github.com/google/go-cmp/cmp"
)

func TestChangelistEngine(t *testing.T) {
	engine := NewChangelistEngine(discardLogger())
	const key = "sprint/level-x"

	t.Run("scenario A: faster time is a record", func(t *testing.T) {
		previous := models.Snapshots{snapshot(key, models.Sprint, entry(1, 12000))}
		current := models.Snapshots{snapshot(key, models.Sprint, entry(2, 11000))}

		got := engine.Diff(current, previous)
		if len(got) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(got))
		}

		want := models.ChangelistEntry{
			MapName:                key,
			Mode:                   "Sprint",
			NewRecordholder:        "player",
			OldRecordholder:        models.StringPtr("player"),
			RecordNew:              "0:11.00",
			RecordOld:              models.StringPtr("0:12.00"),
			SteamIDNewRecordholder: "2",
			SteamIDOldRecordholder: models.StringPtr("1"),
			FetchTime:              "Wed, 01 May 2024 12:00:00 +0000",
		}
		if diff := cmp.Diff(want, got[0]); diff != "" {
			t.Errorf("entry mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("scenario B: slower time is not a record", func(t *testing.T) {
		previous := models.Snapshots{snapshot(key, models.Sprint, entry(1, 12000))}
		current := models.Snapshots{snapshot(key, models.Sprint, entry(2, 12500))}

		if got := engine.Diff(current, previous); len(got) != 0 {
			t.Errorf("expected no entries, got %+v", got)
		}
	})

	t.Run("scenario C: stunt points", func(t *testing.T) {
		previous := models.Snapshots{snapshot("stunt", models.Stunt, entry(1, 500))}

		better := models.Snapshots{snapshot("stunt", models.Stunt, entry(2, 600))}
		got := engine.Diff(better, previous)
		if len(got) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(got))
		}
		if got[0].RecordNew != "600 eV" || models.Deref(got[0].RecordOld) != "500 eV" {
			t.Errorf("unexpected records %q / %q", got[0].RecordNew, models.Deref(got[0].RecordOld))
		}

		tie := models.Snapshots{snapshot("stunt", models.Stunt, entry(2, 500))}
		if got := engine.Diff(tie, previous); len(got) != 0 {
			t.Errorf("tie should not be a record, got %+v", got)
		}
	})

	t.Run("first observation never produces an entry", func(t *testing.T) {
		current := models.Snapshots{snapshot(key, models.Sprint, entry(2, 1))}

		tc := []struct {
			name     string
			previous models.Snapshots
		}{
			{name: "no previous snapshots"},
			{name: "different key", previous: models.Snapshots{snapshot("other", models.Sprint, entry(1, 99999))}},
			{name: "previous snapshot empty", previous: models.Snapshots{snapshot(key, models.Sprint)}},
		}
		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				if got := engine.Diff(current, tt.previous); len(got) != 0 {
					t.Errorf("expected no entries, got %+v", got)
				}
			})
		}
	})

	t.Run("empty current snapshot is skipped", func(t *testing.T) {
		previous := models.Snapshots{snapshot(key, models.Sprint, entry(1, 12000))}
		current := models.Snapshots{snapshot(key, models.Sprint)}
		if got := engine.Diff(current, previous); len(got) != 0 {
			t.Errorf("expected no entries, got %+v", got)
		}
	})

	t.Run("community metadata is copied", func(t *testing.T) {
		workshop := &models.WorkshopItem{PublishedFileID: 55, SteamIDOwner: 77, AuthorName: "author", PreviewURL: "preview"}
		prev := snapshot("c", models.Challenge, entry(1, 5000))
		prev.Workshop = workshop
		cur := snapshot("c", models.Challenge, entry(2, 4000))
		cur.Workshop = workshop
		cur.Name = "Community"

		got := engine.Diff(models.Snapshots{cur}, models.Snapshots{prev})
		if len(got) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(got))
		}
		e := got[0]
		if e.MapName != "Community" || models.Deref(e.MapAuthor) != "author" || models.Deref(e.MapPreview) != "preview" {
			t.Errorf("metadata not copied: %+v", e)
		}
		if models.Deref(e.WorkshopItemID) != "55" || models.Deref(e.SteamIDAuthor) != "77" {
			t.Errorf("ids not copied: %+v", e)
		}
	})

	t.Run("unformattable score is skipped", func(t *testing.T) {
		previous := models.Snapshots{snapshot(key, models.Sprint, entry(1, 100))}
		current := models.Snapshots{snapshot(key, models.Sprint, entry(2, -5))}
		if got := engine.Diff(current, previous); len(got) != 0 {
			t.Errorf("expected negative time to be skipped, got %+v", got)
		}
	})

	t.Run("batch order", func(t *testing.T) {
		community := func(key string, item uint64, score int32) models.LevelSnapshot {
			s := snapshot(key, models.Sprint, entry(2, score))
			s.Workshop = &models.WorkshopItem{PublishedFileID: item}
			return s
		}
		previous := models.Snapshots{
			snapshot("official-b", models.Sprint, entry(1, 1000)),
			snapshot("official-a", models.Sprint, entry(1, 1000)),
			community("community-5", 5, 1000),
			community("community-3", 3, 1000),
		}
		current := models.Snapshots{
			community("community-5", 5, 900),
			snapshot("official-b", models.Sprint, entry(2, 900)),
			community("community-3", 3, 900),
			snapshot("official-a", models.Sprint, entry(2, 900)),
		}

		var got []string
		for _, e := range engine.Diff(current, previous) {
			got = append(got, e.MapName)
		}
		want := []string{"community-5", "community-3", "official-b", "official-a"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("order mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestChangelistEngineUpdate(t *testing.T) {
	engine := NewChangelistEngine(discardLogger())
	const key = "L"

	previous := models.Snapshots{snapshot(key, models.Sprint, entry(1, 12000))}
	current := models.Snapshots{snapshot(key, models.Sprint, entry(2, 11000))}

	t.Run("appends to history", func(t *testing.T) {
		history := models.Changelist{{MapName: "older", Mode: "Stunt"}}
		updated, appended := engine.Update(history, current, previous)

		if len(appended) != 1 || len(updated) != 2 {
			t.Fatalf("expected 1 appended and 2 total, got %d and %d", len(appended), len(updated))
		}
		if updated[0].MapName != "older" || updated[1].MapName != key {
			t.Errorf("new entries must follow history: %+v", updated)
		}
		if len(history) != 1 {
			t.Error("history should not be modified")
		}
	})

	t.Run("second identical run appends nothing", func(t *testing.T) {
		first, _ := engine.Update(nil, current, previous)
		second, appended := engine.Update(first, current, previous)

		if len(appended) != 0 {
			t.Errorf("expected no new entries, got %+v", appended)
		}
		if len(second) != len(first) {
			t.Errorf("changelist grew from %d to %d", len(first), len(second))
		}
	})

	t.Run("duplicate with different timestamp is suppressed", func(t *testing.T) {
		history := models.Changelist{{
			MapName:                key,
			Mode:                   "Sprint",
			RecordNew:              "0:11.00",
			SteamIDNewRecordholder: "2",
			FetchTime:              "Mon, 01 Jan 2024 00:00:00 +0000",
		}}

		updated, appended := engine.Update(history, current, previous)
		if len(appended) != 0 {
			t.Errorf("expected duplicate to be suppressed, got %+v", appended)
		}
		if len(updated) != 1 {
			t.Errorf("expected changelist length 1, got %d", len(updated))
		}
	})

	t.Run("dedup checks the whole history", func(t *testing.T) {
		dup, _ := engine.Update(nil, current, previous)
		history := append(dup, make(models.Changelist, 10)...)

		_, appended := engine.Update(history, current, previous)
		if len(appended) != 0 {
			t.Errorf("expected entry deep in history to suppress the duplicate, got %+v", appended)
		}
	})
}
