// Package logger builds the zap logger shared by brigade components.
package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config represents logger settings
type Config struct {
	Level    string `json:"level" yaml:"level" mapstructure:"level"`
	Encoding string `json:"encoding" yaml:"encoding" mapstructure:"encoding"`
	// File receives every entry. When empty entries below error go to stdout
	// and the rest to stderr, mixed with the console output.
	File string `json:"file,omitempty" yaml:"file,omitempty" mapstructure:"file"`
	// WorkerFile is a fmt pattern with one %d verb used by process workers.
	// Process workers do not log when it is empty.
	WorkerFile string `json:"workerFile,omitempty" yaml:"workerFile,omitempty" mapstructure:"workerFile"`
}

// Default log files
const (
	DefaultFile       = "brigade.log"
	DefaultWorkerFile = "worker_%d.log"
)

// DefaultConfig returns the default logger configuration
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Encoding:   "console",
		File:       DefaultFile,
		WorkerFile: DefaultWorkerFile,
	}
}

// atomicLevel is shared by every logger built in the process
var atomicLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeDuration = zapcore.StringDurationEncoder
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	cfg.EncodeName = func(s string, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString("[" + s + "]")
	}
	return cfg
}

// Build creates a logger. Entries below error go to stdout, the rest to
// stderr, unless File is set.
func Build(config *Config) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(config.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to parse log level %q: %w", config.Level, err)
	}
	atomicLevel.SetLevel(level.Level())

	encoder := zapcore.NewJSONEncoder(encoderConfig())
	if config.Encoding == "console" {
		encoder = zapcore.NewConsoleEncoder(encoderConfig())
	}

	if config.File != "" {
		file, err := os.OpenFile(config.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %v: %w", config.File, err)
		}
		core := zapcore.NewCore(encoder, zapcore.AddSync(file), atomicLevel)
		return zap.New(core, zap.AddCaller()), nil
	}

	highPriority := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= zapcore.ErrorLevel
	})
	lowPriority := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return atomicLevel.Enabled(lvl) && lvl < zapcore.ErrorLevel
	})
	infoCore := zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), lowPriority)
	errorCore := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), highPriority)
	return zap.New(zapcore.NewTee(infoCore, errorCore), zap.AddCaller()), nil
}

// ForWorker builds the logger used inside a worker process.
func ForWorker(config *Config, workerID int) (*zap.Logger, error) {
	if config.WorkerFile == "" {
		return zap.NewNop(), nil
	}
	workerConfig := *config
	workerConfig.File = fmt.Sprintf(config.WorkerFile, workerID)
	ret, err := Build(&workerConfig)
	if err != nil {
		return nil, err
	}
	return ret.With(zap.Int("worker", workerID)), nil
}

// SetLevel changes the level of every logger built by this package
func SetLevel(level string) error {
	l, err := zapcore.ParseLevel(level)
	if err != nil {
		return err
	}
	atomicLevel.SetLevel(l)
	return nil
}

// Level returns the current level
func Level() zapcore.Level {
	return atomicLevel.Level()
}
