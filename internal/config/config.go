// Package config loads the arcforge configuration file.
//
// The file is TOML with one table per concern:
//
//	[layout]
//	row_spacing = 160
//
//	[curvature]
//	unit = 70
//
//	[dataset]
//	path = "items.toml"
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
//	[server]
//	addr = ":8080"
//
// Missing keys keep their defaults; unknown keys are an error.
package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/arcforge/pkg/cache"
	"github.com/matzehuels/arcforge/pkg/craft"
	"github.com/matzehuels/arcforge/pkg/craft/layout"
	"github.com/matzehuels/arcforge/pkg/dataset"
	"github.com/matzehuels/arcforge/pkg/errors"
)

// Config holds arcforge configuration.
type Config struct {
	Layout    layout.Config   `toml:"layout"`
	Curvature CurvatureConfig `toml:"curvature"`
	Dataset   DatasetConfig   `toml:"dataset"`
	Cache     CacheConfig     `toml:"cache"`
	Server    ServerConfig    `toml:"server"`
}

// CurvatureConfig controls edge bowing.
type CurvatureConfig struct {
	Unit float64 `toml:"unit"`
}

// DatasetConfig selects the item source. A non-empty MongoURI wins over
// Path.
type DatasetConfig struct {
	Path            string `toml:"path"`
	Format          string `toml:"format"`
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// CacheConfig selects and tunes the artifact cache.
type CacheConfig struct {
	Backend  string        `toml:"backend"`
	Dir      string        `toml:"dir"`
	RedisURL string        `toml:"redis_url"`
	Prefix   string        `toml:"prefix"`
	TTL      time.Duration `toml:"ttl"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `toml:"addr"`
	Metrics         bool          `toml:"metrics"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Layout:    layout.DefaultConfig(),
		Curvature: CurvatureConfig{Unit: craft.DefaultCurvatureUnit},
		Dataset:   DatasetConfig{Path: "items.toml"},
		Cache:     CacheConfig{Backend: CacheFile, TTL: cache.DefaultTTL},
		Server:    ServerConfig{Addr: ":8080", Metrics: true, ShutdownTimeout: 10 * time.Second},
	}
}

// Dir returns the arcforge config directory ($XDG_CONFIG_HOME/arcforge).
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "arcforge")
}

// DefaultPath returns the config file used when none is given.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads path over the defaults. An empty path reads DefaultPath and
// tolerates its absence; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
	}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch {
	case c.Layout.RowSpacing <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "layout.row_spacing must be positive")
	case c.Layout.ColumnOffset <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "layout.column_offset must be positive")
	case c.Curvature.Unit < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "curvature.unit must not be negative")
	case c.Cache.TTL < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_url is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	if c.Dataset.Path == "" && c.Dataset.MongoURI == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "dataset.path or dataset.mongo_uri is required")
	}
	return nil
}

// Source returns the configured dataset source.
func (c DatasetConfig) Source() dataset.Source {
	if c.MongoURI != "" {
		return dataset.MongoSource{URI: c.MongoURI, Database: c.MongoDatabase, Collection: c.MongoCollection}
	}
	return dataset.FileSource{Path: c.Path, Format: c.Format}
}

// Open creates the configured cache backend and its keyer.
func (c CacheConfig) Open(ctx context.Context) (cache.Cache, cache.Keyer, error) {
	keyer := cache.NewDefaultKeyer()
	if c.Prefix != "" {
		keyer = cache.NewScopedKeyer(keyer, c.Prefix)
	}

	switch c.Backend {
	case CacheNone:
		return cache.NewNullCache(), keyer, nil
	case CacheRedis:
		rc, err := cache.NewRedisCache(ctx, c.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return rc, keyer, nil
	default:
		dir := c.Dir
		if dir == "" {
			d, err := cache.DefaultDir()
			if err != nil {
				return nil, nil, err
			}
			dir = d
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, nil, err
		}
		return fc, keyer, nil
	}
}

// Save writes cfg to path, creating parent directories.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}
