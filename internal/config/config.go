// Package config loads service settings from environment variables.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"

	"github.com/aeriscope/cloudcatalog/internal/domain"
	"github.com/aeriscope/cloudcatalog/internal/grid"
	"github.com/aeriscope/cloudcatalog/internal/scan"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	// Input enumeration.
	Roots         []string `env:"ROOTS" envSeparator:","`
	StormRoots    []string `env:"STORM_ROOTS" envSeparator:","`
	PretrainRoots []string `env:"PRETRAIN_ROOTS" envSeparator:","`
	Limit         string   `env:"LIMIT"`

	// Run behavior.
	Workers       int    `env:"WORKERS" envDefault:"8"`
	FailurePolicy string `env:"FAILURE_POLICY" envDefault:"abort"`
	SplitTimezone string `env:"SPLIT_TIMEZONE" envDefault:"UTC"`
	GridLevel     int    `env:"GRID_LEVEL" envDefault:"3"`

	// Output.
	OutputPath   string `env:"OUTPUT_PATH" envDefault:"catalog.json"`
	CollectionID string `env:"COLLECTION_ID" envDefault:"cloud-profile-patches"`

	// Service surface.
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"json"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Optional Kafka publication of built records.
	KafkaEnabled bool     `env:"KAFKA_ENABLED" envDefault:"false"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	KafkaTopic   string   `env:"KAFKA_TOPIC" envDefault:"catalog-records"`

	// Optional elevation enrichment.
	ElevationEnabled   bool          `env:"ELEVATION_ENABLED" envDefault:"false"`
	ElevationBaseURL   string        `env:"ELEVATION_BASE_URL" envDefault:"https://api.open-meteo.com/v1/elevation"`
	ElevationTimeout   time.Duration `env:"ELEVATION_TIMEOUT" envDefault:"5s"`
	ElevationCacheSize int           `env:"ELEVATION_CACHE_SIZE" envDefault:"1000"`
}

// Load reads configuration from environment variables, applying defaults
// where unset, and validates the result.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints and value ranges.
func (c *Config) Validate() error {
	if len(c.Roots) == 0 && len(c.StormRoots) == 0 && len(c.PretrainRoots) == 0 {
		return errors.New("at least one of ROOTS, STORM_ROOTS or PRETRAIN_ROOTS is required")
	}
	if c.Workers < 1 {
		return fmt.Errorf("WORKERS must be at least 1, got %d", c.Workers)
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT must be positive")
	}
	if c.OutputPath == "" {
		return errors.New("OUTPUT_PATH is required")
	}

	switch domain.FailurePolicy(c.FailurePolicy) {
	case domain.PolicyAbort, domain.PolicySkip:
	default:
		return fmt.Errorf("FAILURE_POLICY must be %q or %q, got %q",
			domain.PolicyAbort, domain.PolicySkip, c.FailurePolicy)
	}

	if _, err := c.SplitLocation(); err != nil {
		return fmt.Errorf("SPLIT_TIMEZONE: %w", err)
	}
	if _, err := scan.ParseLimit(c.Limit); err != nil {
		return fmt.Errorf("LIMIT: %w", err)
	}
	if c.GridLevel < grid.MinLevel || c.GridLevel > grid.MaxLevel {
		return fmt.Errorf("GRID_LEVEL %d outside [%d, %d]", c.GridLevel, grid.MinLevel, grid.MaxLevel)
	}

	if c.KafkaEnabled {
		if len(c.KafkaBrokers) == 0 {
			return errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
		}
		if c.KafkaTopic == "" {
			return errors.New("KAFKA_ENABLED is true but KAFKA_TOPIC is empty")
		}
	}
	if c.ElevationEnabled {
		if c.ElevationBaseURL == "" {
			return errors.New("ELEVATION_ENABLED is true but ELEVATION_BASE_URL is empty")
		}
		if c.ElevationTimeout <= 0 {
			return errors.New("ELEVATION_TIMEOUT must be positive")
		}
		if c.ElevationCacheSize < 1 {
			return errors.New("ELEVATION_CACHE_SIZE must be at least 1")
		}
	}
	return nil
}

// Policy returns the parsed failure policy. Call Validate first.
func (c *Config) Policy() domain.FailurePolicy {
	return domain.FailurePolicy(c.FailurePolicy)
}

// SplitLocation resolves the timezone whose calendar day drives split
// assignment.
func (c *Config) SplitLocation() (*time.Location, error) {
	if c.SplitTimezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.SplitTimezone)
}

// ParsedLimit returns the parsed enumeration limit. Call Validate first.
func (c *Config) ParsedLimit() (scan.Limit, error) {
	return scan.ParseLimit(c.Limit)
}
