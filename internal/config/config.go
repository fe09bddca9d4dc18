// Package config manages runtime configuration for the clustering engine
// using Viper, following the layout of
// graph-clustering-algorithm/pkg/louvain/config.go.
package config

import (
	"os"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Config wraps a Viper instance with the settings the clustering engine
// and its CLI care about.
type Config struct {
	v *viper.Viper
}

// New creates a configuration populated with defaults.
func New() *Config {
	v := viper.New()

	v.SetDefault("algorithm.min_k", 0)
	v.SetDefault("algorithm.modularity_variant", "simplified")

	v.SetDefault("performance.parallel", true)
	v.SetDefault("performance.num_workers", runtime.NumCPU())

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.quiet", false)

	v.SetDefault("io.format", "csv")

	return &Config{v: v}
}

// LoadFromFile merges in a config file (TOML/YAML/JSON, per Viper's
// extension sniffing).
func (c *Config) LoadFromFile(path string) error {
	c.v.SetConfigFile(path)
	return c.v.ReadInConfig()
}

// MinK returns the minimum k-core threshold clusters must satisfy.
func (c *Config) MinK() int { return c.v.GetInt("algorithm.min_k") }

// ModularityVariant returns which validity.ModularityFunc name to use:
// "simplified" or "real".
func (c *Config) ModularityVariant() string { return c.v.GetString("algorithm.modularity_variant") }

// Parallel reports whether component processing should fan out across a
// worker pool.
func (c *Config) Parallel() bool { return c.v.GetBool("performance.parallel") }

// NumWorkers returns the worker pool size to use when Parallel is true.
func (c *Config) NumWorkers() int { return c.v.GetInt("performance.num_workers") }

// LogLevel returns the configured zerolog level name.
func (c *Config) LogLevel() string { return c.v.GetString("logging.level") }

// Quiet reports whether progress logging should be suppressed.
func (c *Config) Quiet() bool { return c.v.GetBool("logging.quiet") }

// OutputFormat returns the configured output writer name: "csv" or "tsv".
func (c *Config) OutputFormat() string { return c.v.GetString("io.format") }

// Set allows programmatic overrides, e.g. from CLI flags.
func (c *Config) Set(key string, value interface{}) {
	c.v.Set(key, value)
}

// CreateLogger builds a zerolog logger from the current configuration.
func (c *Config) CreateLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}
	if c.Quiet() {
		level = zerolog.WarnLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
	}).Level(level).With().Timestamp().Str("service", "ikc").Logger()
}
