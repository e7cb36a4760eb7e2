// Package config loads listmembers configuration.
//
// Values are resolved in order: built-in defaults, the YAML file
// (~/.listmembers/config.yaml unless overridden), a .env file in the working
// directory, environment variables, then CLI flags applied by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/rshade/listmembers/internal/pagination"
	"github.com/rshade/listmembers/internal/source/cache"
)

const (
	configDirName  = ".listmembers"
	configFileName = "config.yaml"
	homeEnvVar     = "LISTMEMBERS_HOME"
	dotEnvFile     = ".env"
)

// Validation errors.
var (
	ErrInvalidLogLevel  = errors.New("invalid log level")
	ErrInvalidLogFormat = errors.New("invalid log format")
	ErrInvalidPageSize  = errors.New("invalid page size")
	ErrInvalidThreshold = errors.New("invalid prefetch threshold")
	ErrInvalidMaxPages  = errors.New("invalid max pages")
	ErrInvalidCacheTTL  = errors.New("invalid cache ttl")
	ErrMissingDatabase  = errors.New("source database path is required")
	ErrInvalidBuffer    = errors.New("invalid analytics buffer")
)

//nolint:gochecknoglobals // Lookup tables.
var (
	validLevels  = []string{"trace", "debug", "info", "warn", "error"}
	validFormats = []string{"json", "console"}
)

// Config is the full listmembers configuration.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"   envPrefix:"LISTMEMBERS_LOG_"`
	Source    SourceConfig    `yaml:"source"    envPrefix:"LISTMEMBERS_SOURCE_"`
	Cache     CacheConfig     `yaml:"cache"     envPrefix:"LISTMEMBERS_CACHE_"`
	Session   SessionConfig   `yaml:"session"   envPrefix:"LISTMEMBERS_SESSION_"`
	Analytics AnalyticsConfig `yaml:"analytics" envPrefix:"LISTMEMBERS_ANALYTICS_"`
	UI        UIConfig        `yaml:"ui"        envPrefix:"LISTMEMBERS_UI_"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `yaml:"level"          env:"LEVEL"`
	Format string `yaml:"format"         env:"FORMAT"`
	File   string `yaml:"file,omitempty" env:"FILE"`
}

// SourceConfig controls where list pages come from.
type SourceConfig struct {
	// Database is the SQLite file holding lists.
	Database string `yaml:"database"             env:"DATABASE"`
	PageSize int    `yaml:"page_size"            env:"PAGE_SIZE"`

	// FailEvery makes every nth fetch fail. Zero disables fault injection.
	FailEvery int `yaml:"fail_every,omitempty" env:"FAIL_EVERY"`
}

// CacheConfig controls the on-disk page cache.
type CacheConfig struct {
	Enabled    bool   `yaml:"enabled"     env:"ENABLED"`
	Directory  string `yaml:"directory"   env:"DIRECTORY"`
	TTLSeconds int    `yaml:"ttl_seconds" env:"TTL_SECONDS"`
	MaxSizeMB  int    `yaml:"max_size_mb" env:"MAX_SIZE_MB"`
}

// SessionConfig holds the signed-in viewer. An empty ViewerID means signed out.
type SessionConfig struct {
	ViewerID     string `yaml:"viewer_id,omitempty"     env:"VIEWER_ID"`
	ViewerHandle string `yaml:"viewer_handle,omitempty" env:"VIEWER_HANDLE"`
}

// AnalyticsConfig controls interaction event tracking.
type AnalyticsConfig struct {
	Enabled bool `yaml:"enabled" env:"ENABLED"`
	Buffer  int  `yaml:"buffer"  env:"BUFFER"`
}

// UIConfig controls list behavior.
type UIConfig struct {
	// PrefetchThreshold is how many rows from the end the list requests more.
	PrefetchThreshold int `yaml:"prefetch_threshold" env:"PREFETCH_THRESHOLD"`

	// MaxPages bounds how many pages plain output loads.
	MaxPages int `yaml:"max_pages" env:"MAX_PAGES"`
}

// New returns a Config populated with defaults rooted at the config directory.
func New() *Config {
	dir, err := GetConfigDir()
	if err != nil {
		dir = configDirName
	}
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Source: SourceConfig{
			Database: filepath.Join(dir, "lists.db"),
			PageSize: pagination.DefaultPageSize,
		},
		Cache: CacheConfig{
			Enabled:    true,
			Directory:  filepath.Join(dir, "cache"),
			TTLSeconds: cache.DefaultTTLSeconds,
			MaxSizeMB:  cache.DefaultMaxSizeMB,
		},
		Analytics: AnalyticsConfig{
			Buffer: 64,
		},
		UI: UIConfig{
			PrefetchThreshold: pagination.DefaultPrefetchThreshold,
			MaxPages:          pagination.DefaultMaxPages,
		},
	}
}

// Load builds the configuration. An empty path uses the default config file;
// a missing default file is not an error, a missing explicit path is.
func Load(path string) (*Config, error) {
	cfg := New()

	explicit := path != ""
	if !explicit {
		p, err := DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if _, err := os.Stat(path); err == nil || explicit {
		if mergeErr := ShallowMergeYAML(cfg, path); mergeErr != nil {
			return nil, mergeErr
		}
	}

	if err := loadDotEnv(dotEnvFile); err != nil {
		return nil, err
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadDotEnv loads path into the environment when it exists. Variables already
// set take precedence.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if !slices.Contains(validLevels, strings.ToLower(c.Logging.Level)) {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level)
	}
	if !slices.Contains(validFormats, strings.ToLower(c.Logging.Format)) {
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Logging.Format)
	}
	if strings.TrimSpace(c.Source.Database) == "" {
		return ErrMissingDatabase
	}
	if c.Source.PageSize < pagination.MinPageSize || c.Source.PageSize > pagination.MaxPageSize {
		return fmt.Errorf("%w: %d (must be %d-%d)", ErrInvalidPageSize,
			c.Source.PageSize, pagination.MinPageSize, pagination.MaxPageSize)
	}
	if c.UI.PrefetchThreshold < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidThreshold, c.UI.PrefetchThreshold)
	}
	if c.UI.MaxPages < pagination.MinMaxPages || c.UI.MaxPages > pagination.MaxMaxPages {
		return fmt.Errorf("%w: %d", ErrInvalidMaxPages, c.UI.MaxPages)
	}
	if c.Cache.Enabled {
		if _, err := cache.TTLFromSeconds(c.Cache.TTLSeconds); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidCacheTTL, err)
		}
	}
	if c.Analytics.Enabled && c.Analytics.Buffer <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBuffer, c.Analytics.Buffer)
	}
	return nil
}

// PaginationParams returns the pagination parameters implied by the config.
func (c *Config) PaginationParams() pagination.Params {
	return pagination.Params{
		PageSize:          c.Source.PageSize,
		MaxPages:          c.UI.MaxPages,
		PrefetchThreshold: c.UI.PrefetchThreshold,
	}
}

// GetConfigDir returns the configuration directory, honoring LISTMEMBERS_HOME.
func GetConfigDir() (string, error) {
	if home := os.Getenv(homeEnvVar); home != "" {
		return home, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, configDirName), nil
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// EnsureDirs creates the directories the configured database, cache and log
// file live in.
func (c *Config) EnsureDirs() error {
	dirs := []string{filepath.Dir(c.Source.Database)}
	if c.Cache.Enabled {
		dirs = append(dirs, c.Cache.Directory)
	}
	if c.Logging.File != "" {
		dirs = append(dirs, filepath.Dir(c.Logging.File))
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o700); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", d, err)
		}
	}
	return nil
}
