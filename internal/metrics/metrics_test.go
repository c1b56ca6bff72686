package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/wrlog/internal/models"
	"github.com/desertthunder/wrlog/internal/tasks"
)

func TestRecorder(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		r := NewRecorder()
		r.ObserveSuccess(&tasks.UpdateResult{
			Fetch:          &tasks.FetchResult{Official: 10, Community: 4, Dropped: 2, Truncated: true},
			Appended:       models.Changelist{{}, {}},
			ChangelistSize: 42,
			Duration:       1500 * time.Millisecond,
		}, time.Unix(1700000000, 0))

		path := filepath.Join(t.TempDir(), "nested", "wrlog.prom")
		if err := r.WriteTextfile(path); err != nil {
			t.Fatalf("WriteTextfile() error = %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		out := string(data)

		for _, line := range []string{
			`wrlog_levels_fetched{kind="official"} 10`,
			`wrlog_levels_fetched{kind="community"} 4`,
			`wrlog_community_fetches_dropped 2`,
			`wrlog_fetch_truncated 1`,
			`wrlog_changelist_appended 2`,
			`wrlog_changelist_size 42`,
			`wrlog_run_duration_seconds 1.5`,
			`wrlog_last_success_timestamp_seconds 1.7e+09`,
			`wrlog_run_success 1`,
		} {
			if !strings.Contains(out, line) {
				t.Errorf("expected %q in output:\n%s", line, out)
			}
		}
	})

	t.Run("failure", func(t *testing.T) {
		r := NewRecorder()
		r.ObserveFailure(3 * time.Second)

		path := filepath.Join(t.TempDir(), "wrlog.prom")
		if err := r.WriteTextfile(path); err != nil {
			t.Fatalf("WriteTextfile() error = %v", err)
		}

		data, _ := os.ReadFile(path)
		out := string(data)
		if !strings.Contains(out, "wrlog_run_success 0") {
			t.Errorf("expected run_success 0 in output:\n%s", out)
		}
		if strings.Contains(out, "wrlog_last_success_timestamp_seconds") {
			t.Errorf("failed run should not report a success timestamp:\n%s", out)
		}
	})
}
