package shared

import (
	_ "embed"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// HealthchecksEnv overrides [SupervisorConfig.HealthchecksURL] when set.
const HealthchecksEnv = "HEALTHCHECKS_URL"

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Storage    StorageConfig    `toml:"storage"`
	Gateway    GatewayConfig    `toml:"gateway"`
	Fetch      FetchConfig      `toml:"fetch"`
	Supervisor SupervisorConfig `toml:"supervisor"`
	Metrics    MetricsConfig    `toml:"metrics"`
	Log        LogConfig        `toml:"log"`
}

// StorageConfig selects where snapshots and the changelist live.
type StorageConfig struct {
	Driver         string `toml:"driver"`
	SnapshotsPath  string `toml:"snapshots_path"`
	ChangelistPath string `toml:"changelist_path"`
	DatabasePath   string `toml:"database_path"`
	MaxOpenConns   int    `toml:"max_open_conns"`
	MaxIdleConns   int    `toml:"max_idle_conns"`
}

// GatewayConfig contains the leaderboard gateway endpoint and credentials.
//
// When TokenURL is empty the gateway is called without authentication.
type GatewayConfig struct {
	BaseURL           string   `toml:"base_url"`
	TokenURL          string   `toml:"token_url"`
	ClientID          string   `toml:"client_id"`
	ClientSecret      string   `toml:"client_secret"`
	RequestsPerSecond float64  `toml:"requests_per_second"`
	RequestTimeout    Duration `toml:"request_timeout"`
}

// FetchConfig tunes the leaderboard fetch stage.
type FetchConfig struct {
	MaxInFlight   int      `toml:"max_in_flight"`
	StepTimeout   Duration `toml:"step_timeout"`
	TimeoutPolicy string   `toml:"timeout_policy"`
}

// SupervisorConfig contains the settings for the long-running supervise command.
type SupervisorConfig struct {
	UpdatePeriod        Duration `toml:"update_period"`
	MaxUpdateDuration   Duration `toml:"max_update_duration"`
	ClientCommand       []string `toml:"client_command"`
	ClientRestartPeriod Duration `toml:"client_restart_period"`
	ClientShutdownGrace Duration `toml:"client_shutdown_grace"`
	HealthchecksURL     string   `toml:"healthchecks_url"`
}

// MetricsConfig controls the Prometheus textfile written after each run.
type MetricsConfig struct {
	TextfilePath string `toml:"textfile_path"`
}

// LogConfig sets the default log level.
type LogConfig struct {
	Level string `toml:"level"`
}

// Duration wraps [time.Duration] so it can be written as "5m" or "60s" in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("%w: duration %q", ErrInvalidConfig, string(text))
	}
	d.Duration = parsed
	return nil
}

// MarshalText formats the duration as a Go duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Storage drivers
const (
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
)

// Fetch timeout policies
const (
	PolicyFailFast = "fail-fast"
	PolicyIsolate  = "isolate"
)

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Values missing from the file fall back to [DefaultConfig], and the result is validated.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.applyEnv()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.applyEnv()
	return &config
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(HealthchecksEnv)); v != "" {
		c.Supervisor.HealthchecksURL = v
	}
}

// Validate reports the first invalid setting wrapped in [ErrInvalidConfig].
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverJSON:
		if c.Storage.SnapshotsPath == "" || c.Storage.ChangelistPath == "" {
			return fmt.Errorf("%w: storage.snapshots_path and storage.changelist_path are required", ErrInvalidConfig)
		}
	case DriverSQLite:
		if c.Storage.DatabasePath == "" {
			return fmt.Errorf("%w: storage.database_path is required", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown storage.driver %q", ErrInvalidConfig, c.Storage.Driver)
	}

	if _, err := url.ParseRequestURI(c.Gateway.BaseURL); err != nil {
		return fmt.Errorf("%w: gateway.base_url: %v", ErrInvalidConfig, err)
	}
	if c.Gateway.TokenURL != "" && c.Gateway.ClientID == "" {
		return fmt.Errorf("%w: gateway.client_id is required with gateway.token_url", ErrInvalidConfig)
	}
	if c.Gateway.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: gateway.requests_per_second must not be negative", ErrInvalidConfig)
	}

	if c.Fetch.MaxInFlight < 1 {
		return fmt.Errorf("%w: fetch.max_in_flight must be at least 1", ErrInvalidConfig)
	}
	if c.Fetch.StepTimeout.Duration <= 0 {
		return fmt.Errorf("%w: fetch.step_timeout must be positive", ErrInvalidConfig)
	}
	switch c.Fetch.TimeoutPolicy {
	case PolicyFailFast, PolicyIsolate:
	default:
		return fmt.Errorf("%w: unknown fetch.timeout_policy %q", ErrInvalidConfig, c.Fetch.TimeoutPolicy)
	}

	if c.Supervisor.UpdatePeriod.Duration <= 0 || c.Supervisor.MaxUpdateDuration.Duration <= 0 {
		return fmt.Errorf("%w: supervisor periods must be positive", ErrInvalidConfig)
	}

	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
