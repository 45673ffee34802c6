package worker

import (
	"time"

	"go.uber.org/zap"
)

// Config represents worker runtime configuration
type Config struct {
	// ID identifies the worker in snapshots and logs
	ID int `json:"-" yaml:"-" mapstructure:"-"`

	// Capacity is the number of tasks executed concurrently
	Capacity int `json:"capacity" yaml:"capacity" mapstructure:"capacity"`

	// ReplenishInterval is how often every resource grows by one
	ReplenishInterval time.Duration `json:"replenishInterval" yaml:"replenishInterval" mapstructure:"replenishInterval"`

	// StatusInterval is how often a snapshot is sent without a request
	StatusInterval time.Duration `json:"statusInterval" yaml:"statusInterval" mapstructure:"statusInterval"`

	// IdleTimeout closes a worker with nothing running or queued
	IdleTimeout time.Duration `json:"idleTimeout" yaml:"idleTimeout" mapstructure:"idleTimeout"`

	// BusyPause is the loop pause after a message was handled
	BusyPause time.Duration `json:"busyPause" yaml:"busyPause" mapstructure:"busyPause"`

	// IdlePause is the loop pause when no message arrived
	IdlePause time.Duration `json:"idlePause" yaml:"idlePause" mapstructure:"idlePause"`
}

// DefaultConfig returns the default worker configuration
func DefaultConfig() Config {
	return Config{
		Capacity:          5,
		ReplenishInterval: 5 * time.Second,
		StatusInterval:    10 * time.Second,
		IdleTimeout:       30 * time.Second,
		BusyPause:         10 * time.Millisecond,
		IdlePause:         100 * time.Millisecond,
	}
}

// MaxQueue returns the bound of the pending queue
func (c *Config) MaxQueue() int {
	return 2 * c.Capacity
}

// Sleeper suspends the calling goroutine, replaceable in tests.
type Sleeper func(time.Duration)

// Option represents worker option
type Option func(*Service)

// WithConfig sets the configuration for the worker
func WithConfig(config Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithID sets the worker identifier
func WithID(id int) Option {
	return func(s *Service) {
		s.config.ID = id
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithSleeper overrides how task executions wait for the task duration
func WithSleeper(sleeper Sleeper) Option {
	return func(s *Service) {
		s.sleep = sleeper
	}
}

// WithInventory sets a custom inventory
func WithInventory(inventory *Inventory) Option {
	return func(s *Service) {
		s.inventory = inventory
	}
}
