package config

import (
	"fmt"
	"time"

	"github.com/tinkerpop/blueprints-sub007/logger"
	"github.com/tinkerpop/blueprints-sub007/validation"
)

// Default values applied by ApplyDefaults.
const (
	DefaultChannelCapacity = 16
	DefaultPollInterval    = 100 * time.Millisecond
	DefaultMergeQueueSize  = 64
	DefaultEndpoint        = "localhost:4318"
)

// Config is the top-level configuration of the pipes binary.
//
// Example config.yml:
//
//	name: pipes
//	environment: development
//	logging:
//	  level: debug
//	pipex:
//	  channel_capacity: 8
//	  poll_interval: 50ms
type Config struct {
	Name          string              `yaml:"name" mapstructure:"name" validate:"required"`
	Environment   string              `yaml:"environment" mapstructure:"environment" validate:"oneof=development staging production"`
	Logging       logger.Config       `yaml:"logging" mapstructure:"logging"`
	Pipex         PipexConfig         `yaml:"pipex" mapstructure:"pipex"`
	Merge         MergeConfig         `yaml:"merge" mapstructure:"merge"`
	Observability ObservabilityConfig `yaml:"observability" mapstructure:"observability"`
	Graph         GraphConfig         `yaml:"graph" mapstructure:"graph"`
}

// PipexConfig configures concurrent serial compositions.
type PipexConfig struct {
	// ChannelCapacity is the size of every intermediate channel.
	ChannelCapacity int `yaml:"channel_capacity" mapstructure:"channel_capacity" validate:"gt=0"`
	// PollInterval is how often a blocked channel write wakes to record a stall.
	PollInterval time.Duration `yaml:"poll_interval" mapstructure:"poll_interval" validate:"gt=0"`
	// MaxConcurrentStages bounds the executor; 0 runs every stage on its own goroutine.
	MaxConcurrentStages int `yaml:"max_concurrent_stages" mapstructure:"max_concurrent_stages" validate:"gte=0"`
}

// MergeConfig configures the ready merge behind the binary's merge mode.
type MergeConfig struct {
	QueueSize int `yaml:"queue_size" mapstructure:"queue_size" validate:"gt=0"`
}

// ObservabilityConfig toggles OpenTelemetry export.
type ObservabilityConfig struct {
	TracingEnabled bool    `yaml:"tracing_enabled" mapstructure:"tracing_enabled"`
	MetricsEnabled bool    `yaml:"metrics_enabled" mapstructure:"metrics_enabled"`
	Endpoint       string  `yaml:"endpoint" mapstructure:"endpoint" validate:"required_if=TracingEnabled true"`
	Insecure       bool    `yaml:"insecure" mapstructure:"insecure"`
	SampleRate     float64 `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gte=0,lte=1"`
}

// GraphConfig points at the JSON graph the binary traverses.
type GraphConfig struct {
	File string `yaml:"file" mapstructure:"file"`
}

// ApplyDefaults applies default values to every section.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "pipes"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	c.Logging.ApplyDefaults()
	if c.Pipex.ChannelCapacity == 0 {
		c.Pipex.ChannelCapacity = DefaultChannelCapacity
	}
	if c.Pipex.PollInterval == 0 {
		c.Pipex.PollInterval = DefaultPollInterval
	}
	if c.Merge.QueueSize == 0 {
		c.Merge.QueueSize = DefaultMergeQueueSize
	}
	if c.Observability.Endpoint == "" {
		c.Observability.Endpoint = DefaultEndpoint
	}
	if c.Observability.SampleRate == 0 {
		c.Observability.SampleRate = 1.0
	}
}

// Validate validates struct tags and the logging section.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	return nil
}

// Load resolves, loads, defaults and validates the configuration for name.
func Load(name string, opts ...LoaderOption) (*Config, error) {
	var cfg Config
	if err := LoadConfig(name, &cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
