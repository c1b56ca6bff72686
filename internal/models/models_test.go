package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestModeBetter(t *testing.T) {
	tc := []struct {
		name string
		mode Mode
		a, b int32
		want bool
	}{
		{name: "sprint lower wins", mode: Sprint, a: 11000, b: 12000, want: true},
		{name: "sprint higher loses", mode: Sprint, a: 12500, b: 12000, want: false},
		{name: "challenge lower wins", mode: Challenge, a: 1, b: 2, want: true},
		{name: "stunt higher wins", mode: Stunt, a: 600, b: 500, want: true},
		{name: "stunt lower loses", mode: Stunt, a: 400, b: 500, want: false},
		{name: "negative scores compare", mode: Stunt, a: -1, b: -2, want: true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.mode.Better(tt.a, tt.b); got != tt.want {
				t.Errorf("%v.Better(%d, %d) = %v, want %v", tt.mode, tt.a, tt.b, got, tt.want)
			}
		})
	}

	t.Run("ties are never better", func(t *testing.T) {
		for _, m := range Modes {
			for _, score := range []int32{-5, 0, 500, 12000} {
				if m.Better(score, score) {
					t.Errorf("%v.Better(%d, %d) = true", m, score, score)
				}
			}
		}
	})

	t.Run("comparator law", func(t *testing.T) {
		scores := []int32{-100, 0, 1, 499, 500, 501, 1 << 20}
		for _, m := range Modes {
			for _, a := range scores {
				for _, b := range scores {
					want := a > b
					if m.TimeBased() {
						want = a < b
					}
					if got := m.Better(a, b); got != want {
						t.Errorf("%v.Better(%d, %d) = %v, want %v", m, a, b, got, want)
					}
				}
			}
		}
	})
}

func TestModeText(t *testing.T) {
	for _, m := range Modes {
		text, err := m.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v) error = %v", m, err)
		}

		var parsed Mode
		if err := parsed.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%s) error = %v", text, err)
		}
		if parsed != m {
			t.Errorf("round trip %v -> %s -> %v", m, text, parsed)
		}
	}

	if _, err := Mode(42).MarshalText(); err == nil {
		t.Error("expected error encoding unknown mode")
	}

	if m, err := ParseMode("stunt"); err != nil || m != Stunt {
		t.Errorf("ParseMode(stunt) = %v, %v", m, err)
	}

	if _, err := ParseMode("Reverse Tag"); err == nil {
		t.Error("expected error for unknown label")
	}
}

func TestModesFromTags(t *testing.T) {
	got := ModesFromTags([]string{"Stunt", "Level", "Sprint", "Sprint"})
	want := []Mode{Sprint, Stunt}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ModesFromTags() mismatch (-want +got):\n%s", diff)
	}

	if got := ModesFromTags([]string{"sprint"}); len(got) != 0 {
		t.Errorf("tags are case-sensitive, got %v", got)
	}
}

func TestLevelSnapshotJSON(t *testing.T) {
	snap := LevelSnapshot{
		Name:            "Broken Symmetry",
		Mode:            Sprint,
		LeaderboardName: "Broken Symmetry_1_stable",
		Timestamp:       time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	for _, field := range []string{`"mode":"Sprint"`, `"workshop_response":null`, `"leaderboard_response":{"entries":[]}`} {
		if !strings.Contains(string(data), field) {
			t.Errorf("expected %s in %s", field, data)
		}
	}

	var decoded LevelSnapshot
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if diff := cmp.Diff(snap, decoded, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("decoded snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestSnapshots(t *testing.T) {
	s := Snapshots{
		{LeaderboardName: "b", Name: "first b"},
		{LeaderboardName: "a"},
		{LeaderboardName: "b", Name: "second b"},
	}

	s.SortByKey()
	if s[0].LeaderboardName != "a" || s[1].Name != "first b" || s[2].Name != "second b" {
		t.Errorf("SortByKey() not stable: %+v", s)
	}

	idx := s.Index()
	if len(idx) != 2 {
		t.Fatalf("Index() has %d keys, want 2", len(idx))
	}
	if idx["b"].Name != "first b" {
		t.Errorf("Index() should keep first occurrence, got %q", idx["b"].Name)
	}

	if (LevelSnapshot{}).ItemID() != 0 {
		t.Error("official snapshot should have item id 0")
	}
	if (LevelSnapshot{Workshop: &WorkshopItem{PublishedFileID: 9}}).ItemID() != 9 {
		t.Error("community snapshot should report its item id")
	}
}

func TestChangelistEntryDedup(t *testing.T) {
	base := ChangelistEntry{
		MapName:                "L",
		Mode:                   "Sprint",
		NewRecordholder:        "runner",
		RecordNew:              "0:11.00",
		SteamIDNewRecordholder: "2",
		FetchTime:              "Wed, 01 May 2024 12:00:00 +0000",
	}

	t.Run("timestamp and names are ignored", func(t *testing.T) {
		other := base
		other.FetchTime = "Thu, 02 May 2024 12:00:00 +0000"
		other.NewRecordholder = "renamed"
		other.OldRecordholder = StringPtr("someone")
		if base.DedupKey() != other.DedupKey() {
			t.Error("entries differing only in non-key fields should be duplicates")
		}
	})

	t.Run("nil and empty item id differ", func(t *testing.T) {
		other := base
		other.WorkshopItemID = StringPtr("")
		if base.DedupKey() == other.DedupKey() {
			t.Error("absent item id should not match an empty one")
		}
	})

	tc := []struct {
		name   string
		mutate func(e *ChangelistEntry)
	}{
		{name: "map", mutate: func(e *ChangelistEntry) { e.MapName = "M" }},
		{name: "mode", mutate: func(e *ChangelistEntry) { e.Mode = "Challenge" }},
		{name: "record", mutate: func(e *ChangelistEntry) { e.RecordNew = "0:10.99" }},
		{name: "item", mutate: func(e *ChangelistEntry) { e.WorkshopItemID = StringPtr("7") }},
		{name: "author", mutate: func(e *ChangelistEntry) { e.SteamIDAuthor = StringPtr("8") }},
		{name: "holder", mutate: func(e *ChangelistEntry) { e.SteamIDNewRecordholder = "3" }},
	}
	for _, tt := range tc {
		t.Run("differs by "+tt.name, func(t *testing.T) {
			other := base
			tt.mutate(&other)
			if base.DedupKey() == other.DedupKey() {
				t.Errorf("entries differing by %s should not be duplicates", tt.name)
			}
		})
	}

	t.Run("Keys", func(t *testing.T) {
		keys := Changelist{base, base}.Keys()
		if len(keys) != 1 {
			t.Errorf("expected 1 key, got %d", len(keys))
		}
	})
}

func TestChangelistRecent(t *testing.T) {
	c := Changelist{{MapName: "1"}, {MapName: "2"}, {MapName: "3"}}

	got := c.Recent(2)
	if len(got) != 2 || got[0].MapName != "3" || got[1].MapName != "2" {
		t.Errorf("Recent(2) = %+v", got)
	}

	if all := c.Recent(0); len(all) != 3 || all[2].MapName != "1" {
		t.Errorf("Recent(0) = %+v", all)
	}
}

func TestChangelistSince(t *testing.T) {
	c := Changelist{
		{MapName: "old", FetchTime: "Wed, 01 May 2024 12:00:00 +0000"},
		{MapName: "garbled", FetchTime: "yesterday"},
		{MapName: "edge", FetchTime: "Thu, 02 May 2024 14:00:00 +0200"},
		{MapName: "new", FetchTime: "Fri, 03 May 2024 09:30:00 +0000"},
	}

	got := c.Since(time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC))
	var names []string
	for _, e := range got {
		names = append(names, e.MapName)
	}
	if diff := cmp.Diff([]string{"edge", "new"}, names); diff != "" {
		t.Errorf("Since() mismatch (-want +got):\n%s", diff)
	}

	if all := c.Since(time.Time{}); len(all) != 3 {
		t.Errorf("Since(zero) kept %d entries, want the 3 parseable ones", len(all))
	}
}

func TestFetchedAt(t *testing.T) {
	e := ChangelistEntry{FetchTime: "Wed, 01 May 2024 12:00:00 +0000"}
	got, err := e.FetchedAt()
	if err != nil {
		t.Fatalf("FetchedAt() error = %v", err)
	}
	if !got.Equal(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("FetchedAt() = %v", got)
	}
}
