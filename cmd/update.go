package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/wrlog/internal/metrics"
	"github.com/desertthunder/wrlog/internal/shared"
	"github.com/desertthunder/wrlog/internal/tasks"
	"github.com/urfave/cli/v3"
)

// updateSummary is the JSON form of an update run.
type updateSummary struct {
	RunID          string `json:"run_id"`
	Official       int    `json:"official"`
	Community      int    `json:"community"`
	Dropped        int    `json:"dropped"`
	Truncated      bool   `json:"truncated"`
	Snapshots      int    `json:"snapshots"`
	Appended       int    `json:"appended"`
	ChangelistSize int    `json:"changelist_size"`
	FirstRun       bool   `json:"first_run"`
	DurationMS     int64  `json:"duration_ms"`
}

// Update runs one poll, diff and save cycle.
func (r *Runner) Update(ctx context.Context, cmd *cli.Command) error {
	runID := shared.GenerateID()
	logger := shared.WithLogger(r.logger, "run", runID)

	store, err := r.openStore()
	if err != nil {
		return err
	}
	defer r.closeStore()

	engine := r.updateEngine(ctx, store, logger)

	var progress chan tasks.ProgressUpdate
	var wg sync.WaitGroup
	if cmd.Bool("progress") {
		progress = make(chan tasks.ProgressUpdate, 64)
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.printProgress(progress)
		}()
	}

	logger.Info("starting update", "driver", r.config.Storage.Driver, "policy", r.config.Fetch.TimeoutPolicy)
	start := time.Now()
	result, runErr := engine.Run(ctx, progress)
	if progress != nil {
		close(progress)
		wg.Wait()
	}

	r.writeMetrics(logger, result, runErr, time.Since(start))

	if runErr != nil {
		return fmt.Errorf("update %s failed: %w", runID, runErr)
	}

	if cmd.Bool("json") {
		return r.writeJSON(summarize(runID, result), true)
	}

	r.writePlainHeader("Update Complete")
	r.writePlain("Official levels: %d\n", result.Fetch.Official)
	r.writePlain("Community levels: %d\n", result.Fetch.Community)
	if result.Fetch.Dropped > 0 {
		r.writePlain("Dropped fetches: %d\n", result.Fetch.Dropped)
	}
	if result.Fetch.Truncated {
		r.writePlain("Fetch truncated by the step timeout\n")
	}
	r.writePlain("Snapshots: %d\n", result.Reconciled)
	r.writePlain("Changelist: %d entries (+%d)\n", result.ChangelistSize, len(result.Appended))
	if result.FirstRun {
		r.writePlainln("First run: baseline recorded, changes are logged from the next update on")
	}

	if len(result.Appended) > 0 {
		r.writePlainln("New records:")
		for _, e := range result.Appended {
			r.writePlain("  • [%s] %s: %s by %s\n", e.Mode, e.MapName, e.RecordNew, e.NewRecordholder)
		}
	}
	return nil
}

func (r *Runner) printProgress(updates <-chan tasks.ProgressUpdate) {
	for update := range updates {
		switch update.Phase {
		case tasks.LoadState:
			r.writePlain("📂 %s\n", update.Message)
		case tasks.FetchLevels:
			r.writePlain("   [%d] %s\n", update.Step, update.Message)
		case tasks.ReconcileSnapshots, tasks.DiffChangelist:
			r.writePlain("\n🔀 %s\n", update.Message)
		case tasks.SaveState:
			r.writePlain("💾 %s\n", update.Message)
		}
	}
}

func (r *Runner) writeMetrics(logger *log.Logger, result *tasks.UpdateResult, runErr error, elapsed time.Duration) {
	path := r.config.Metrics.TextfilePath
	if path == "" {
		return
	}

	recorder := metrics.NewRecorder()
	if runErr != nil {
		recorder.ObserveFailure(elapsed)
	} else {
		recorder.ObserveSuccess(result, time.Now())
	}

	if err := recorder.WriteTextfile(path); err != nil {
		logger.Warn("failed to write metrics", "path", path, "error", err)
		return
	}
	logger.Debug("metrics written", "path", path)
}

func summarize(runID string, result *tasks.UpdateResult) updateSummary {
	s := updateSummary{
		RunID:          runID,
		Snapshots:      result.Reconciled,
		Appended:       len(result.Appended),
		ChangelistSize: result.ChangelistSize,
		FirstRun:       result.FirstRun,
		DurationMS:     result.Duration.Milliseconds(),
	}
	if f := result.Fetch; f != nil {
		s.Official, s.Community, s.Dropped, s.Truncated = f.Official, f.Community, f.Dropped, f.Truncated
	}
	return s
}
