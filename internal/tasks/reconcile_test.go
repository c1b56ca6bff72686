package tasks

import (
	"testing"

	"github.com/desertthunder/wrlog/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func keys(s models.Snapshots) []string {
	out := make([]string, len(s))
	for i, snap := range s {
		out[i] = snap.LeaderboardName
	}
	return out
}

func TestReconcile(t *testing.T) {
	t.Run("key set is the union", func(t *testing.T) {
		tc := []struct {
			name     string
			fresh    []string
			previous []string
			want     []string
		}{
			{name: "both empty", want: []string{}},
			{name: "fresh only", fresh: []string{"b", "a"}, want: []string{"a", "b"}},
			{name: "previous only", previous: []string{"c", "a"}, want: []string{"a", "c"}},
			{name: "overlap", fresh: []string{"d", "b", "a"}, previous: []string{"c", "b", "e"}, want: []string{"a", "b", "c", "d", "e"}},
			{name: "disjoint", fresh: []string{"x"}, previous: []string{"y"}, want: []string{"x", "y"}},
			{name: "duplicates inside one side", fresh: []string{"a", "a", "b"}, previous: []string{"b", "b"}, want: []string{"a", "b"}},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				var fresh, previous models.Snapshots
				for _, k := range tt.fresh {
					fresh = append(fresh, snapshot(k, models.Sprint, entry(1, 100)))
				}
				for _, k := range tt.previous {
					previous = append(previous, snapshot(k, models.Sprint, entry(2, 200)))
				}

				got := keys(Reconcile(fresh, previous))
				if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
					t.Errorf("keys mismatch (-want +got):\n%s", diff)
				}
			})
		}
	})

	t.Run("fallback rules", func(t *testing.T) {
		fresh := models.Snapshots{
			snapshot("empty-new", models.Sprint),
			snapshot("both-full", models.Sprint, entry(1, 100)),
			snapshot("both-empty", models.Sprint),
			snapshot("new-only-empty", models.Sprint),
		}
		previous := models.Snapshots{
			snapshot("empty-new", models.Sprint, entry(9, 900)),
			snapshot("both-full", models.Sprint, entry(9, 900)),
			snapshot("both-empty", models.Sprint),
			snapshot("old-only", models.Sprint, entry(9, 900)),
		}

		got := Reconcile(fresh, previous).Index()

		if e, _ := got["empty-new"].Leaderboard.First(); e.SteamID != 9 {
			t.Errorf("empty fresh fetch should fall back to previous, got %+v", got["empty-new"])
		}
		if e, _ := got["both-full"].Leaderboard.First(); e.SteamID != 1 {
			t.Errorf("non-empty fresh fetch should win, got %+v", got["both-full"])
		}
		if !got["both-empty"].Leaderboard.Empty() {
			t.Errorf("both empty should stay empty, got %+v", got["both-empty"])
		}
		if _, ok := got["new-only-empty"]; !ok {
			t.Error("fresh-only key should be kept even when empty")
		}
		if e, _ := got["old-only"].Leaderboard.First(); e.SteamID != 9 {
			t.Errorf("previous-only key should carry forward, got %+v", got["old-only"])
		}
	})

	t.Run("inputs are not modified", func(t *testing.T) {
		fresh := models.Snapshots{snapshot("b", models.Sprint), snapshot("a", models.Sprint)}
		Reconcile(fresh, nil)
		if fresh[0].LeaderboardName != "b" {
			t.Error("Reconcile should not reorder its input")
		}
	})

	t.Run("first occurrence wins", func(t *testing.T) {
		fresh := models.Snapshots{
			snapshot("a", models.Sprint, entry(1, 100)),
			snapshot("a", models.Sprint, entry(2, 200)),
		}
		got := Reconcile(fresh, nil)
		if len(got) != 1 {
			t.Fatalf("expected 1 snapshot, got %d", len(got))
		}
		if e, _ := got[0].Leaderboard.First(); e.SteamID != 1 {
			t.Errorf("expected first occurrence, got %+v", e)
		}
	})
}
