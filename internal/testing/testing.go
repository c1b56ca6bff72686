// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"iter"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/wrlog/internal/models"
)

// FakeLeaderboard is a deterministic test double for [services.LeaderboardService].
//
// Leaderboards without an entry in Boards or Errors return no entries. Delays hold a request until
// the delay passes or its context ends; Block holds it until the context ends.
type FakeLeaderboard struct {
	Boards   map[string][]models.LeaderboardEntry
	Errors   map[string]error
	Delays   map[string]time.Duration
	Block    map[string]bool
	Items    []models.WorkshopItem
	ItemsErr error
	Names    map[uint64]string

	mu          sync.Mutex
	inFlight    int
	maxInFlight int
	calls       []string
}

func (f *FakeLeaderboard) LeaderboardRange(ctx context.Context, name string, start, end int) ([]models.LeaderboardEntry, error) {
	f.enter(name)
	defer f.leave()

	if f.Block[name] {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if d, ok := f.Delays[name]; ok {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err, ok := f.Errors[name]; ok {
		return nil, err
	}

	entries := f.Boards[name]
	if end > len(entries) {
		end = len(entries)
	}
	if start > end {
		return []models.LeaderboardEntry{}, nil
	}
	return append([]models.LeaderboardEntry{}, entries[start-1:end]...), nil
}

func (f *FakeLeaderboard) ReadyItems(ctx context.Context, tags []string) iter.Seq2[models.WorkshopItem, error] {
	return func(yield func(models.WorkshopItem, error) bool) {
		for _, item := range f.Items {
			if !yield(item, nil) {
				return
			}
		}
		if f.ItemsErr != nil {
			yield(models.WorkshopItem{}, f.ItemsErr)
		}
	}
}

func (f *FakeLeaderboard) DisplayName(ctx context.Context, steamID uint64) (string, error) {
	name, ok := f.Names[steamID]
	if !ok {
		return "", errors.New("name unavailable")
	}
	return name, nil
}

func (f *FakeLeaderboard) Name() string { return "fake" }

func (f *FakeLeaderboard) enter(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
}

func (f *FakeLeaderboard) leave() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight--
}

// MaxInFlight returns the highest number of concurrent LeaderboardRange calls observed.
func (f *FakeLeaderboard) MaxInFlight() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxInFlight
}

// Calls returns the leaderboard names requested so far, in call order.
func (f *FakeLeaderboard) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.calls...)
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func MustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}
