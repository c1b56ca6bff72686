package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/wrlog/internal/models"
	"github.com/desertthunder/wrlog/internal/services"
	"github.com/desertthunder/wrlog/internal/shared"
)

const (
	defaultMaxInFlight = 512
	defaultStepTimeout = 60 * time.Second
	// Ranks requested for every leaderboard: the holder and the runner-up.
	firstRank, lastRank = 1, 2
)

// FetchOpts contains configuration for a [LeaderboardFetcher].
type FetchOpts struct {
	MaxInFlight int           // Requests in flight across official and community levels (default: 512)
	StepTimeout time.Duration // Ceiling on the wait for each successive snapshot (default: 60s)
	Policy      string        // shared.PolicyFailFast (default) or shared.PolicyIsolate
}

// FetchResult is the best-effort snapshot collection from one fetch.
type FetchResult struct {
	Snapshots models.Snapshots
	Official  int  // Official snapshots fetched
	Community int  // Community snapshots fetched
	Dropped   int  // Community fetches that failed, plus timed-out requests under the isolate policy
	Truncated bool // The step timeout abandoned the rest of the fetch
}

type fetchOutcome struct {
	target   LevelTarget
	snapshot models.LevelSnapshot
	err      error
	fatal    bool
}

// LeaderboardFetcher retrieves the top two entries of every catalog level with bounded concurrency.
type LeaderboardFetcher struct {
	svc     services.LeaderboardService
	catalog *LevelCatalog
	opts    FetchOpts
	logger  *log.Logger
	now     func() time.Time
}

// NewLeaderboardFetcher creates a fetcher, filling unset options with defaults.
func NewLeaderboardFetcher(svc services.LeaderboardService, catalog *LevelCatalog, opts FetchOpts, logger *log.Logger) *LeaderboardFetcher {
	if opts.MaxInFlight <= 0 {
		opts.MaxInFlight = defaultMaxInFlight
	}
	if opts.StepTimeout <= 0 {
		opts.StepTimeout = defaultStepTimeout
	}
	if opts.Policy == "" {
		opts.Policy = shared.PolicyFailFast
	}
	return &LeaderboardFetcher{svc: svc, catalog: catalog, opts: opts, logger: logger, now: time.Now}
}

// Fetch requests every official level, then every community level, and collects snapshots as they
// complete.
//
// Under the fail-fast policy the first step that produces no snapshot within the step timeout stops
// the fetch; whatever was collected so far is returned with Truncated set. Under the isolate policy
// each request has its own deadline and a timed-out request is dropped.
//
// An official level that fails to fetch, or a catalog query error, fails the whole fetch. A failed
// community level is dropped.
func (f *LeaderboardFetcher) Fetch(ctx context.Context, progress chan<- ProgressUpdate) (*FetchResult, error) {
	official, err := f.catalog.Official()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	outcomes := make(chan fetchOutcome)
	go f.produce(ctx, official, outcomes)

	var timeout <-chan time.Time
	var timer *time.Timer
	if f.opts.Policy == shared.PolicyFailFast {
		timer = time.NewTimer(f.opts.StepTimeout)
		defer timer.Stop()
		timeout = timer.C
	}

	result := &FetchResult{}
	for {
		select {
		case o, ok := <-outcomes:
			if !ok {
				return result, nil
			}
			if o.err != nil {
				if o.fatal {
					return nil, o.err
				}
				result.Dropped++
				f.logger.Debug("dropped level", "leaderboard", o.target.LeaderboardName, "err", o.err)
				continue
			}

			result.Snapshots = append(result.Snapshots, o.snapshot)
			if o.target.Official() {
				result.Official++
			} else {
				result.Community++
			}
			sendProgress(progress, fetchedLevelUpdate(len(result.Snapshots), &o.snapshot))

			if timer != nil {
				timer.Reset(f.opts.StepTimeout)
			}
		case <-timeout:
			f.logger.Warn("Skipping some levels that took too long to fetch", "fetched", len(result.Snapshots))
			sendProgress(progress, truncatedUpdate(len(result.Snapshots)))
			result.Truncated = true
			return result, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// produce dispatches official targets, then community targets, never holding more than MaxInFlight
// requests at once. out is closed once every dispatched request has reported.
func (f *LeaderboardFetcher) produce(ctx context.Context, official []LevelTarget, out chan<- fetchOutcome) {
	sem := make(chan struct{}, f.opts.MaxInFlight)
	var wg sync.WaitGroup
	defer func() {
		wg.Wait()
		close(out)
	}()

	report := func(o fetchOutcome) bool {
		select {
		case out <- o:
			return true
		case <-ctx.Done():
			return false
		}
	}

	dispatch := func(t LevelTarget) bool {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			return false
		}
		if ctx.Err() != nil {
			<-sem
			return false
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			o := f.fetchOne(ctx, t)
			<-sem
			report(o)
		}()
		return true
	}

	for _, t := range official {
		if !dispatch(t) {
			return
		}
	}

	for t, err := range f.catalog.Community(ctx) {
		if err != nil {
			report(fetchOutcome{err: fmt.Errorf("community catalog: %w", err), fatal: true})
			return
		}
		if !dispatch(t) {
			return
		}
	}
}

func (f *LeaderboardFetcher) fetchOne(ctx context.Context, t LevelTarget) fetchOutcome {
	reqCtx := ctx
	if f.opts.Policy == shared.PolicyIsolate {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, f.opts.StepTimeout)
		defer cancel()
	}

	entries, err := f.svc.LeaderboardRange(reqCtx, t.LeaderboardName, firstRank, lastRank)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return fetchOutcome{target: t, err: fmt.Errorf("%w: %s", shared.ErrTimeout, t.LeaderboardName)}
		}
		wrapped := fmt.Errorf("%w: %s (%v): %w", shared.ErrFetchFailed, t.Name, t.Mode, err)
		return fetchOutcome{target: t, err: wrapped, fatal: t.Official()}
	}

	f.resolveNames(reqCtx, entries, t.Workshop)

	return fetchOutcome{
		target: t,
		snapshot: models.LevelSnapshot{
			Name:            t.Name,
			Mode:            t.Mode,
			LeaderboardName: t.LeaderboardName,
			Workshop:        t.Workshop,
			Leaderboard:     models.Leaderboard{Entries: entries},
			Timestamp:       f.now().UTC(),
		},
	}
}

// resolveNames fills in missing player and author names. Lookup failures leave the name empty.
func (f *LeaderboardFetcher) resolveNames(ctx context.Context, entries []models.LeaderboardEntry, workshop *models.WorkshopItem) {
	for i := range entries {
		if entries[i].PlayerName != "" {
			continue
		}
		if name, err := f.svc.DisplayName(ctx, entries[i].SteamID); err == nil {
			entries[i].PlayerName = name
		}
	}

	if workshop != nil && workshop.AuthorName == "" {
		if name, err := f.svc.DisplayName(ctx, workshop.SteamIDOwner); err == nil {
			workshop.AuthorName = name
		}
	}
}
