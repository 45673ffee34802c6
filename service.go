package brigade

import (
	"context"
	"fmt"
	"io"

	"github.com/viant/brigade/internal/idgen"
	"github.com/viant/brigade/internal/logger"
	"github.com/viant/brigade/progress"
	"github.com/viant/brigade/service/console"
	"github.com/viant/brigade/service/orchestrator"
	"github.com/viant/brigade/service/spawn"
	"github.com/viant/brigade/service/spawn/process"
	"github.com/viant/brigade/service/spawn/routine"
	"github.com/viant/brigade/tracing"
	"go.uber.org/zap"
)

// Name is reported as the tracing service name
const Name = "brigade"

// Version is reported as the tracing service version
const Version = "0.1.0"

// Service wires the orchestrator, its spawner and the console
type Service struct {
	config       *Config
	logger       *zap.Logger
	spawner      spawn.Spawner
	listeners    []orchestrator.Listener
	in           io.Reader
	out          io.Writer
	sessionID    string
	progress     *progress.Progress
	orchestrator *orchestrator.Service
	console      *console.Service
}

// New creates a brigade service
func New(options ...Option) (*Service, error) {
	ret := &Service{}
	for _, opt := range options {
		opt(ret)
	}
	if err := ret.init(); err != nil {
		return nil, err
	}
	return ret, nil
}

func (s *Service) init() (err error) {
	if s.config == nil {
		s.config = DefaultConfig()
	}
	if err = s.config.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if s.logger == nil {
		if s.logger, err = logger.Build(&s.config.Logger); err != nil {
			return err
		}
	}
	if s.config.TraceFile != "" {
		if err = tracing.Init(Name, Version, s.config.TraceFile); err != nil {
			return fmt.Errorf("failed to init tracing: %w", err)
		}
	}
	if s.spawner == nil {
		if s.spawner, err = s.newSpawner(); err != nil {
			return err
		}
	}
	s.sessionID = idgen.New()
	s.progress = progress.New(s.sessionID)
	s.progress.OnChange(func(snapshot progress.Progress) {
		s.logger.Debug("progress",
			zap.Int("pending", snapshot.PendingTasks),
			zap.Int("completed", snapshot.CompletedTasks),
			zap.Int("failed", snapshot.FailedTasks),
			zap.Int("workers", snapshot.WorkersSpawned-snapshot.WorkersClosed))
	})
	s.orchestrator, err = orchestrator.New(
		orchestrator.WithConfig(s.config.Orchestrator),
		orchestrator.WithSpawner(s.spawner),
		orchestrator.WithLogger(s.logger),
		orchestrator.WithProgress(s.progress),
		orchestrator.WithListener(s.notify),
	)
	if err != nil {
		return err
	}
	consoleOptions := []console.Option{
		console.WithConfig(s.config.Console),
		console.WithLogger(s.logger),
		console.WithSettings(s.config),
		console.WithSessionID(s.sessionID),
	}
	if s.in != nil || s.out != nil {
		consoleOptions = append(consoleOptions, console.WithIO(s.in, s.out))
	}
	s.console = console.New(s.orchestrator, consoleOptions...)
	return nil
}

func (s *Service) newSpawner() (spawn.Spawner, error) {
	switch s.config.Isolation {
	case IsolationRoutine:
		return routine.New(routine.WithLogger(s.logger)), nil
	default:
		return process.New(process.WithLogConfig(s.config.Logger), process.WithLogger(s.logger))
	}
}

// notify logs a task outcome and forwards it to the registered listeners
func (s *Service) notify(event *orchestrator.Event) {
	if event.Err != nil {
		s.logger.Warn("task failed", zap.Int("worker", event.WorkerID), zap.String("task", event.Task.Name()), zap.Error(event.Err))
	} else {
		s.logger.Info("task completed", zap.Int("worker", event.WorkerID), zap.String("task", event.Task.Name()))
	}
	for _, listener := range s.listeners {
		listener(event)
	}
}

// Config returns the effective configuration
func (s *Service) Config() *Config {
	return s.config
}

// Logger returns the service logger
func (s *Service) Logger() *zap.Logger {
	return s.logger
}

// Orchestrator returns the worker pool
func (s *Service) Orchestrator() *orchestrator.Service {
	return s.orchestrator
}

// Console returns the command loop
func (s *Service) Console() *console.Service {
	return s.console
}

// Progress returns the session counters
func (s *Service) Progress() *progress.Progress {
	return s.progress
}

// Run starts the janitor, executes the optional script then reads console
// commands until quit. Every worker is terminated before Run returns.
func (s *Service) Run(ctx context.Context, scriptURL string) error {
	defer s.Shutdown(context.WithoutCancel(ctx))
	go func() {
		if err := s.orchestrator.Start(ctx); err != nil && ctx.Err() == nil {
			s.logger.Warn("janitor stopped", zap.Error(err))
		}
	}()
	if scriptURL != "" {
		quit, err := s.console.RunScript(ctx, scriptURL)
		if err != nil || quit {
			return err
		}
	}
	return s.console.Run(ctx)
}

// Shutdown terminates every worker and flushes the logger
func (s *Service) Shutdown(ctx context.Context) {
	s.orchestrator.Cleanup(ctx)
	snapshot := s.progress.Snapshot()
	s.logger.Info("session closed",
		zap.String("session", snapshot.SessionID),
		zap.Int("tasks", snapshot.TotalTasks),
		zap.Int("completed", snapshot.CompletedTasks),
		zap.Int("failed", snapshot.FailedTasks),
		zap.Int("workers", snapshot.WorkersSpawned))
	if s.config.TraceFile != "" {
		if err := tracing.Shutdown(ctx); err != nil {
			s.logger.Warn("failed to flush traces", zap.Error(err))
		}
	}
	_ = s.logger.Sync()
}
