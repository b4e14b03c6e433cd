package config

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/iTrooz/snapshot-cache/internal/cache"
)

// Config represents the application configuration
type Config struct {
	Cache CacheConfig `yaml:"cache"`
	Log   LogConfig   `yaml:"log"`
}

// CacheConfig contains cache-related configuration
type CacheConfig struct {
	// Folder holding the snapshot files. Empty disables caching
	Folder      string `yaml:"folder"`
	Compression string `yaml:"compression"` // fastest, default, better or best
	Extension   string `yaml:"extension"`
}

// LogConfig contains logging configuration
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// Load loads configuration from a YAML file
func Load(path string) (*Config, error) {
	var config Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	config.setDefaults()
	return &config, nil
}

func (c *Config) setDefaults() {
	if c.Cache.Compression == "" {
		c.Cache.Compression = "default"
	}
	if c.Cache.Extension == "" {
		c.Cache.Extension = cache.DefaultExtension
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := cache.ParseLevel(c.Cache.Compression); err != nil {
		return fmt.Errorf("invalid cache compression: %w", err)
	}

	if c.Cache.Folder != "" {
		info, err := os.Stat(c.Cache.Folder)
		if err != nil {
			return fmt.Errorf("cache folder: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("cache folder is not a directory: %s", c.Cache.Folder)
		}
	}

	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	return nil
}

// CacheOptions translates the cache section into cache options
func (c *Config) CacheOptions(logger logrus.FieldLogger) ([]cache.Option, error) {
	level, err := cache.ParseLevel(c.Cache.Compression)
	if err != nil {
		return nil, fmt.Errorf("invalid cache compression: %w", err)
	}
	return []cache.Option{
		cache.WithCodec(cache.NewCodec(level)),
		cache.WithExtension(c.Cache.Extension),
		cache.WithLogger(logger),
	}, nil
}
