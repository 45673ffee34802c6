package brigade

import (
	"io"

	"github.com/viant/brigade/service/orchestrator"
	"github.com/viant/brigade/service/spawn"
	"github.com/viant/brigade/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

// Option represents brigade service option
type Option func(s *Service)

// WithConfig sets the application configuration
func WithConfig(config *Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithLogger sets the logger; by default one is built from Config.Logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithSpawner overrides the spawner selected by Config.Isolation
func WithSpawner(spawner spawn.Spawner) Option {
	return func(s *Service) {
		s.spawner = spawner
	}
}

// WithListener adds a listener notified of every task outcome
func WithListener(listener orchestrator.Listener) Option {
	return func(s *Service) {
		s.listeners = append(s.listeners, listener)
	}
}

// WithIO overrides the console input and output streams
func WithIO(in io.Reader, out io.Writer) Option {
	return func(s *Service) {
		s.in = in
		s.out = out
	}
}

// WithTracingExporter configures OpenTelemetry tracing using a custom SpanExporter. The first
// successful initialisation wins.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
