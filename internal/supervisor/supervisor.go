package supervisor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/wrlog/internal/shared"
)

// State is the supervisor's position in the restart cycle.
type State int

const (
	Idle State = iota
	Running
	CoolingDown
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case CoolingDown:
		return "cooling-down"
	default:
		return ""
	}
}

// Outcome is how a single run ended.
type Outcome int

const (
	Success Outcome = iota
	Failure
	Timeout
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Failure:
		return "failure"
	case Timeout:
		return "timeout"
	default:
		return ""
	}
}

// RunFunc performs one update run. Returning an error wrapping [shared.ErrSpawn] stops the supervisor.
type RunFunc func(ctx context.Context) error

// Opts contains configuration for a [Supervisor].
type Opts struct {
	UpdatePeriod      time.Duration   // Minimum time between the starts of successful runs
	MaxUpdateDuration time.Duration   // A run exceeding this is cancelled
	Healthchecks      *Healthchecks   // Optional
	Client            *ClientProcess  // Optional
	Backoff           backoff.BackOff // Delay source after failures (default: NewBackoff)
	Sleep             func(ctx context.Context, d time.Duration) error
	Now               func() time.Time
}

// Supervisor re-runs the updater forever.
type Supervisor struct {
	run    RunFunc
	opts   Opts
	logger *log.Logger

	mu    sync.Mutex
	state State
}

// NewBackoff returns the exponential backoff used after failed runs: 500ms initial interval growing
// by 1.5x with 50% jitter up to 60s, with no limit on total elapsed time.
func NewBackoff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.Multiplier = 1.5
	b.RandomizationFactor = 0.5
	b.MaxInterval = 60 * time.Second
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

// New creates a supervisor for run.
func New(run RunFunc, opts Opts, logger *log.Logger) *Supervisor {
	if opts.Backoff == nil {
		opts.Backoff = NewBackoff()
	}
	if opts.Sleep == nil {
		opts.Sleep = sleep
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Supervisor{run: run, opts: opts, logger: logger}
}

// State returns the current state.
func (s *Supervisor) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Supervisor) setState(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

// Next returns the delay before the next run given how the last one ended and how long it took.
func (s *Supervisor) Next(outcome Outcome, elapsed time.Duration) time.Duration {
	switch outcome {
	case Success:
		s.opts.Backoff.Reset()
		return max(s.opts.UpdatePeriod-elapsed, 0)
	case Timeout:
		s.opts.Backoff.Reset()
		return 0
	default:
		d := s.opts.Backoff.NextBackOff()
		if d == backoff.Stop {
			d = s.opts.UpdatePeriod
		}
		return d
	}
}

// Loop runs until ctx is cancelled or a run cannot be started.
func (s *Supervisor) Loop(ctx context.Context) error {
	defer s.setState(Idle)

	if s.opts.Client != nil {
		if err := s.opts.Client.Start(); err != nil {
			return s.fatal(ctx, err)
		}
		defer s.opts.Client.Stop()
	}

	for {
		if s.opts.Client != nil {
			if err := s.opts.Client.MaybeRestart(); err != nil {
				return s.fatal(ctx, err)
			}
		}

		s.setState(Running)
		start := s.opts.Now()
		outcome, err := s.runOnce(ctx)
		elapsed := s.opts.Now().Sub(start)

		if ctx.Err() != nil {
			return nil
		}
		if errors.Is(err, shared.ErrSpawn) {
			return s.fatal(ctx, err)
		}

		switch outcome {
		case Success:
			s.logger.Info("update finished", "elapsed", elapsed)
			if err := s.opts.Healthchecks.Ping(ctx); err != nil {
				s.logger.Warn("healthchecks ping failed", "err", err)
			}
		case Failure:
			s.logger.Error("updater did not run successfully", "err", err)
		case Timeout:
			s.logger.Error("updater ran for too long", "limit", s.opts.MaxUpdateDuration)
		}

		delay := s.Next(outcome, elapsed)
		s.setState(CoolingDown)
		s.logger.Debug("cooling down", "outcome", outcome, "delay", delay)
		if err := s.opts.Sleep(ctx, delay); err != nil {
			return nil
		}
		s.setState(Idle)
	}
}

func (s *Supervisor) runOnce(ctx context.Context) (Outcome, error) {
	runCtx, cancel := context.WithTimeout(ctx, s.opts.MaxUpdateDuration)
	defer cancel()

	err := s.run(runCtx)
	switch {
	case errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil:
		return Timeout, err
	case err != nil:
		return Failure, err
	default:
		return Success, nil
	}
}

func (s *Supervisor) fatal(ctx context.Context, err error) error {
	if hcErr := s.opts.Healthchecks.Fail(ctx, err); hcErr != nil {
		s.logger.Warn("healthchecks fail signal failed", "err", hcErr)
	}
	return fmt.Errorf("supervisor stopped: %w", err)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
