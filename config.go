package brigade

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"github.com/viant/brigade/internal/logger"
	"github.com/viant/brigade/service/console"
	"github.com/viant/brigade/service/orchestrator"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Isolation values
const (
	IsolationProcess = "process"
	IsolationRoutine = "routine"
)

// EnvPrefix prefixes environment overrides, e.g. BRIGADE_LOGGER_LEVEL
const EnvPrefix = "BRIGADE"

// Config is a serialisable representation of the whole application
// configuration. It can be populated from YAML, JSON or environment variables.
type Config struct {
	// Isolation selects how workers are started: process or routine
	Isolation string `json:"isolation" yaml:"isolation" mapstructure:"isolation"`
	// TraceFile enables OpenTelemetry spans written to that file
	TraceFile    string              `json:"traceFile,omitempty" yaml:"traceFile,omitempty" mapstructure:"traceFile"`
	Orchestrator orchestrator.Config `json:"orchestrator" yaml:"orchestrator" mapstructure:"orchestrator"`
	Console      console.Config      `json:"console" yaml:"console" mapstructure:"console"`
	Logger       logger.Config       `json:"logger" yaml:"logger" mapstructure:"logger"`
}

// DefaultConfig returns a Config populated with the package defaults
func DefaultConfig() *Config {
	return &Config{
		Isolation:    IsolationProcess,
		Orchestrator: orchestrator.DefaultConfig(),
		Console:      console.DefaultConfig(),
		Logger:       logger.DefaultConfig(),
	}
}

// Validate returns aggregated error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Console.Multiplier <= 0 {
		errs = append(errs, fmt.Errorf("console.multiplier must be > 0"))
	}
	if c.Orchestrator.Worker.Capacity <= 0 {
		errs = append(errs, fmt.Errorf("orchestrator.worker.capacity must be > 0"))
	}
	if c.Orchestrator.Worker.ReplenishInterval <= 0 {
		errs = append(errs, fmt.Errorf("orchestrator.worker.replenishInterval must be > 0"))
	}
	if c.Orchestrator.StatusPollAttempts <= 0 {
		errs = append(errs, fmt.Errorf("orchestrator.statusPollAttempts must be > 0"))
	}
	switch c.Isolation {
	case IsolationProcess, IsolationRoutine:
	default:
		errs = append(errs, fmt.Errorf("unsupported isolation: %q", c.Isolation))
	}
	if _, err := zapcore.ParseLevel(c.Logger.Level); err != nil {
		errs = append(errs, fmt.Errorf("logger.level: %w", err))
	}
	return errors.Join(errs...)
}

// YAML returns the configuration encoded as YAML
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// LoadConfig reads the configuration from path, when not empty, and applies
// BRIGADE_ prefixed environment overrides on top of the defaults. When path
// is set the file is watched and logger.level changes are applied live.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %v: %w", path, err)
		}
	}
	ret := &Config{}
	if err := v.Unmarshal(ret); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if path != "" {
		v.OnConfigChange(func(event fsnotify.Event) {
			if event.Op&fsnotify.Create != 0 {
				return
			}
			_ = logger.SetLevel(v.GetString("logger.level"))
		})
		v.WatchConfig()
	}
	return ret, nil
}

// setDefaults registers every key so that AutomaticEnv can resolve it
func setDefaults(v *viper.Viper, config *Config) {
	worker := config.Orchestrator.Worker
	defaults := map[string]interface{}{
		"isolation":                             config.Isolation,
		"traceFile":                             config.TraceFile,
		"orchestrator.settleDelay":              config.Orchestrator.SettleDelay,
		"orchestrator.statusPollAttempts":       config.Orchestrator.StatusPollAttempts,
		"orchestrator.statusPollInterval":       config.Orchestrator.StatusPollInterval,
		"orchestrator.gracePeriod":              config.Orchestrator.GracePeriod,
		"orchestrator.janitorInterval":          config.Orchestrator.JanitorInterval,
		"orchestrator.worker.capacity":          worker.Capacity,
		"orchestrator.worker.replenishInterval": worker.ReplenishInterval,
		"orchestrator.worker.statusInterval":    worker.StatusInterval,
		"orchestrator.worker.idleTimeout":       worker.IdleTimeout,
		"orchestrator.worker.busyPause":         worker.BusyPause,
		"orchestrator.worker.idlePause":         worker.IdlePause,
		"console.multiplier":                    config.Console.Multiplier,
		"console.closeIdleEvery":                config.Console.CloseIdleEvery,
		"console.orderPause":                    config.Console.OrderPause,
		"logger.level":                          config.Logger.Level,
		"logger.encoding":                       config.Logger.Encoding,
		"logger.file":                           config.Logger.File,
		"logger.workerFile":                     config.Logger.WorkerFile,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}
