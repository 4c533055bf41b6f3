package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/hansard-cli/internal/connectors/hansard"
	"github.com/custodia-labs/hansard-cli/internal/core/domain"
	"github.com/custodia-labs/hansard-cli/internal/core/services"
)

// FileName is the configuration file name inside the config directory.
const FileName = "config.toml"

// Duration is a time.Duration written as a Go duration string ("1s", "500ms").
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Config is the decoded configuration document.
type Config struct {
	Upstream  UpstreamConfig  `toml:"upstream"`
	Pipeline  PipelineConfig  `toml:"pipeline"`
	Reconcile ReconcileConfig `toml:"reconcile"`
	Storage   StorageConfig   `toml:"storage"`
	Watch     WatchConfig     `toml:"watch"`
	Metrics   MetricsConfig   `toml:"metrics"`
}

// UpstreamConfig configures the records and members services.
type UpstreamConfig struct {
	BaseURL           string   `toml:"base_url"`
	MembersURL        string   `toml:"members_url"`
	RetryDelay        Duration `toml:"retry_delay"`
	RequestsPerSecond float64  `toml:"requests_per_second"`
	Burst             int      `toml:"burst"`
}

// PipelineConfig configures crawling and enrichment batches.
type PipelineConfig struct {
	BatchSize  int      `toml:"batch_size"`
	BatchDelay Duration `toml:"batch_delay"`
	RewindDays int      `toml:"rewind_days"`
}

// ReconcileConfig configures the speaker reconciliation pass.
type ReconcileConfig struct {
	Delay          Duration `toml:"delay"`
	SearchTake     int      `toml:"search_take"`
	CandidatesFile string   `toml:"candidates_file"`
}

// StorageConfig configures local persistence.
type StorageConfig struct {
	// DataDir holds the database. Empty means ~/.hansard/data.
	DataDir string `toml:"data_dir"`

	// Redis, when Addr is set, replaces the database as the sitting-date cache.
	Redis RedisConfig `toml:"redis"`
}

// RedisConfig locates a shared Redis server.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// WatchConfig configures the watch command.
type WatchConfig struct {
	Schedule string `toml:"schedule"`
}

// MetricsConfig configures metrics export. Both outputs are off when empty.
type MetricsConfig struct {
	// Textfile is rewritten after every command, for a node_exporter textfile collector.
	Textfile string `toml:"textfile"`
	// ListenAddr serves /metrics while the watch command runs.
	ListenAddr string `toml:"listen_addr"`
}

// DefaultWatchSchedule runs at 18:00 on weekdays.
const DefaultWatchSchedule = "0 18 * * 1-5"

// Default returns the built-in configuration.
func Default() Config {
	pipeline := services.DefaultPipelineConfig()
	reconcile := services.DefaultReconcilerConfig()
	return Config{
		Upstream: UpstreamConfig{
			BaseURL:           hansard.DefaultBaseURL,
			MembersURL:        hansard.DefaultMembersURL,
			RetryDelay:        Duration(hansard.RetryDelay),
			RequestsPerSecond: hansard.DefaultRateLimit.RequestsPerSecond,
			Burst:             hansard.DefaultRateLimit.BurstSize,
		},
		Pipeline: PipelineConfig{
			BatchSize:  pipeline.BatchSize,
			BatchDelay: Duration(pipeline.BatchDelay),
			RewindDays: pipeline.RewindDays,
		},
		Reconcile: ReconcileConfig{
			Delay:      Duration(reconcile.Delay),
			SearchTake: reconcile.SearchTake,
		},
		Watch: WatchConfig{Schedule: DefaultWatchSchedule},
	}
}

// DefaultDir returns ~/.hansard.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".hansard"), nil
}

// Load reads FileName from configDir on top of Default.
// If configDir is empty, DefaultDir is used. A missing file is not an error.
func Load(configDir string) (Config, error) {
	cfg := Default()

	if configDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return cfg, err
		}
		configDir = dir
	}

	data, err := os.ReadFile(filepath.Join(configDir, FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: config: %v", domain.ErrInvalidInput, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes cfg as FileName in configDir with restricted permissions.
func Save(configDir string, cfg Config) error {
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(filepath.Join(configDir, FileName), data, 0600)
}

// Validate rejects values no component can run with.
func (c Config) Validate() error {
	if err := c.HansardConfig().Validate(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	switch {
	case c.Upstream.RetryDelay < 0:
		return fmt.Errorf("%w: upstream.retry_delay must not be negative", domain.ErrInvalidInput)
	case c.Pipeline.BatchSize < 1:
		return fmt.Errorf("%w: pipeline.batch_size must be at least 1", domain.ErrInvalidInput)
	case c.Pipeline.RewindDays < 1:
		return fmt.Errorf("%w: pipeline.rewind_days must be at least 1", domain.ErrInvalidInput)
	case c.Reconcile.SearchTake < 1:
		return fmt.Errorf("%w: reconcile.search_take must be at least 1", domain.ErrInvalidInput)
	case c.Storage.Redis.DB < 0:
		return fmt.Errorf("%w: storage.redis.db must not be negative", domain.ErrInvalidInput)
	}
	if c.Watch.Schedule != "" {
		if _, err := services.ParseSchedule(c.Watch.Schedule); err != nil {
			return fmt.Errorf("%w: watch.schedule: %v", domain.ErrInvalidInput, err)
		}
	}
	return nil
}

// HansardConfig returns the upstream endpoint roots.
func (c Config) HansardConfig() hansard.Config {
	return hansard.Config{BaseURL: c.Upstream.BaseURL, MembersURL: c.Upstream.MembersURL}
}

// RateLimit returns the client throttle settings.
func (c Config) RateLimit() hansard.RateLimitConfig {
	return hansard.RateLimitConfig{
		RequestsPerSecond: c.Upstream.RequestsPerSecond,
		BurstSize:         c.Upstream.Burst,
	}
}

// PipelineSettings returns the crawler and enricher batching settings.
func (c Config) PipelineSettings() services.PipelineConfig {
	return services.PipelineConfig{
		BatchSize:  c.Pipeline.BatchSize,
		BatchDelay: time.Duration(c.Pipeline.BatchDelay),
		RewindDays: c.Pipeline.RewindDays,
	}
}

// ReconcilerSettings returns the reconciliation pass settings.
func (c Config) ReconcilerSettings() services.ReconcilerConfig {
	return services.ReconcilerConfig{
		Delay:      time.Duration(c.Reconcile.Delay),
		SearchTake: c.Reconcile.SearchTake,
	}
}
