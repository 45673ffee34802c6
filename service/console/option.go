package console

import (
	"io"
	"time"

	"github.com/viant/afs"
	"go.uber.org/zap"
)

// Config represents console configuration
type Config struct {
	// Multiplier scales every task duration
	Multiplier float64 `json:"multiplier" yaml:"multiplier" mapstructure:"multiplier"`

	// CloseIdleEvery closes idle workers after that many commands, 0 disables it
	CloseIdleEvery int `json:"closeIdleEvery" yaml:"closeIdleEvery" mapstructure:"closeIdleEvery"`

	// OrderPause is waited after an order line was submitted
	OrderPause time.Duration `json:"orderPause" yaml:"orderPause" mapstructure:"orderPause"`
}

// DefaultConfig returns the default console configuration
func DefaultConfig() Config {
	return Config{
		Multiplier:     1,
		CloseIdleEvery: 10,
		OrderPause:     200 * time.Millisecond,
	}
}

// Option represents console option
type Option func(*Service)

// WithConfig sets the configuration
func WithConfig(config Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithIO overrides the input and output streams
func WithIO(in io.Reader, out io.Writer) Option {
	return func(s *Service) {
		if in != nil {
			s.in = in
		}
		if out != nil {
			s.out = out
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithFileService sets the storage used to load scripts
func WithFileService(fs afs.Service) Option {
	return func(s *Service) {
		s.fs = fs
	}
}

// WithSettings sets the value dumped by the config command
func WithSettings(settings interface{}) Option {
	return func(s *Service) {
		s.settings = settings
	}
}

// WithPrompt forces the prompt on or off; by default it is shown only when
// the input is a terminal.
func WithPrompt(prompt bool) Option {
	return func(s *Service) {
		s.prompt = &prompt
	}
}

// WithSessionID sets the identifier attached to console log entries
func WithSessionID(sessionID string) Option {
	return func(s *Service) {
		s.sessionID = sessionID
	}
}
