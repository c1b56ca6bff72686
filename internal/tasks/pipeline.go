package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/wrlog/internal/models"
	"github.com/desertthunder/wrlog/internal/repositories"
)

// UpdateResult summarizes one update run.
type UpdateResult struct {
	Fetch          *FetchResult
	Reconciled     int               // Snapshots persisted after reconciliation
	Appended       models.Changelist // Entries added to the changelist this run
	ChangelistSize int               // Changelist length after the run
	FirstRun       bool              // No previous snapshots existed
	Duration       time.Duration
}

// UpdateEngine runs one load, fetch, reconcile, diff and save cycle.
type UpdateEngine struct {
	store   repositories.Store
	fetcher *LeaderboardFetcher
	engine  *ChangelistEngine
	logger  *log.Logger
}

// NewUpdateEngine creates an update engine.
func NewUpdateEngine(store repositories.Store, fetcher *LeaderboardFetcher, engine *ChangelistEngine, logger *log.Logger) *UpdateEngine {
	return &UpdateEngine{store: store, fetcher: fetcher, engine: engine, logger: logger}
}

// Run performs one update.
//
// Collections that were never saved load as empty. The changelist is saved before the snapshots so
// that a failure between the two writes can only cause a later run to see a transition again, which
// deduplication suppresses.
func (u *UpdateEngine) Run(ctx context.Context, progress chan<- ProgressUpdate) (*UpdateResult, error) {
	start := time.Now()
	result := &UpdateResult{}

	previous, err := u.store.LoadSnapshots()
	switch {
	case repositories.IsNotFound(err):
		u.logger.Warn("No previous query results found")
		result.FirstRun = true
	case err != nil:
		return nil, fmt.Errorf("error loading query results: %w", err)
	default:
		u.logger.Info("Loaded previous query results", "snapshots", len(previous))
	}

	history, err := u.store.LoadChangelist()
	switch {
	case repositories.IsNotFound(err):
		u.logger.Warn("No existing changelist found")
		history = models.Changelist{}
	case err != nil:
		return nil, fmt.Errorf("error loading changelist: %w", err)
	default:
		u.logger.Info("Loaded changelist", "entries", len(history))
	}
	sendProgress(progress, loadStateUpdate(len(previous), len(history)))

	fetched, err := u.fetcher.Fetch(ctx, progress)
	if err != nil {
		return nil, fmt.Errorf("error fetching levels: %w", err)
	}
	result.Fetch = fetched
	u.logger.Info("Finished fetching level information",
		"official", fetched.Official, "community", fetched.Community,
		"dropped", fetched.Dropped, "truncated", fetched.Truncated)

	current := Reconcile(fetched.Snapshots, previous)
	result.Reconciled = len(current)
	sendProgress(progress, reconcileUpdate(len(fetched.Snapshots), len(current)))

	u.logger.Info("Computing changelist")
	updated, appended := u.engine.Update(history, current, previous)
	result.Appended = appended
	result.ChangelistSize = len(updated)
	sendProgress(progress, diffUpdate(appended))

	u.logger.Info("Saving changelist", "new", len(appended), "total", len(updated))
	sendProgress(progress, saveUpdate(1, "changelist"))
	if err := u.store.SaveChangelist(updated); err != nil {
		return nil, fmt.Errorf("error saving changelist: %w", err)
	}

	u.logger.Info("Saving level info", "snapshots", len(current))
	sendProgress(progress, saveUpdate(2, "level info"))
	if err := u.store.SaveSnapshots(current); err != nil {
		return nil, fmt.Errorf("error saving level info: %w", err)
	}

	result.Duration = time.Since(start)
	return result, nil
}
