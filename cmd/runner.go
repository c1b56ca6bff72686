package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/wrlog/internal/repositories"
	"github.com/desertthunder/wrlog/internal/services"
	"github.com/desertthunder/wrlog/internal/shared"
	"github.com/desertthunder/wrlog/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	service    services.LeaderboardService
	store      repositories.Store
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Service and Store are normally built from the config; tests inject them.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Service    services.LeaderboardService
	Store      repositories.Store
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		service:    opts.Service,
		store:      opts.Store,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		updateCommand, superviseCommand, changelistCommand, levelsCommand, setupCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Configure loads the config file named by --config and applies the log level.
//
// A missing file is not an error: commands then run on the embedded defaults.
func (r *Runner) Configure(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	r.configPath = cmd.String("config")

	if _, err := os.Stat(r.configPath); err == nil {
		config, err := shared.LoadConfig(r.configPath)
		if err != nil {
			return ctx, err
		}
		r.config = config
	} else if errors.Is(err, os.ErrNotExist) {
		r.logger.Debug("config file not found, using defaults", "path", r.configPath)
	} else {
		return ctx, fmt.Errorf("failed to stat config: %w", err)
	}

	level, err := shared.ParseLogLevel(r.config.Log.Level)
	if err != nil {
		return ctx, err
	}
	if cmd.Bool("verbose") {
		level = log.DebugLevel
	}
	shared.SetLogLevel(r.logger, level)
	return ctx, nil
}

// SetLogger replaces the runner's logger, e.g. to keep log output away from the TUI.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) openStore() (repositories.Store, error) {
	if r.store != nil {
		return r.store, nil
	}
	store, err := repositories.NewStore(r.config.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", r.config.Storage.Driver, err)
	}
	r.store = store
	return store, nil
}

func (r *Runner) closeStore() {
	if r.store == nil {
		return
	}
	if err := r.store.Close(); err != nil {
		r.logger.Warn("failed to close store", "error", err)
	}
	r.store = nil
}

func (r *Runner) leaderboardService(ctx context.Context) services.LeaderboardService {
	if r.service != nil {
		return r.service
	}
	gw := r.config.Gateway
	r.service = services.NewGatewayService(ctx, services.GatewayOpts{
		BaseURL:           gw.BaseURL,
		TokenURL:          gw.TokenURL,
		ClientID:          gw.ClientID,
		ClientSecret:      gw.ClientSecret,
		RequestsPerSecond: gw.RequestsPerSecond,
		RequestTimeout:    gw.RequestTimeout.Duration,
	})
	return r.service
}

// updateEngine wires the catalog, fetcher and changelist engine over store.
func (r *Runner) updateEngine(ctx context.Context, store repositories.Store, logger *log.Logger) *tasks.UpdateEngine {
	svc := r.leaderboardService(ctx)
	catalog := tasks.NewLevelCatalog(svc, logger)
	fetcher := tasks.NewLeaderboardFetcher(svc, catalog, tasks.FetchOpts{
		MaxInFlight: r.config.Fetch.MaxInFlight,
		StepTimeout: r.config.Fetch.StepTimeout.Duration,
		Policy:      r.config.Fetch.TimeoutPolicy,
	}, logger)
	return tasks.NewUpdateEngine(store, fetcher, tasks.NewChangelistEngine(logger), logger)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
