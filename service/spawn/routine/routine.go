// Package routine starts workers as goroutines of the current process.
package routine

import (
	"context"
	"fmt"
	"time"

	"github.com/viant/brigade/service/spawn"
	"github.com/viant/brigade/service/worker"
	"github.com/viant/brigade/transport"
	"github.com/viant/brigade/transport/memory"
	"go.uber.org/zap"
)

// Spawner starts in-process workers
type Spawner struct {
	logger    *zap.Logger
	transport memory.Config
	options   []worker.Option
}

// Option represents spawner option
type Option func(*Spawner)

// WithLogger sets the logger passed to every worker
func WithLogger(logger *zap.Logger) Option {
	return func(s *Spawner) {
		s.logger = logger
	}
}

// WithTransportConfig sets the memory transport configuration
func WithTransportConfig(config memory.Config) Option {
	return func(s *Spawner) {
		s.transport = config
	}
}

// WithWorkerOptions adds options applied to every worker
func WithWorkerOptions(options ...worker.Option) Option {
	return func(s *Spawner) {
		s.options = append(s.options, options...)
	}
}

// New creates a goroutine spawner
func New(options ...Option) *Spawner {
	ret := &Spawner{logger: zap.NewNop(), transport: memory.DefaultConfig()}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

// Spawn starts a worker goroutine
func (s *Spawner) Spawn(ctx context.Context, request *spawn.Request) (transport.Transport, spawn.Handle, error) {
	parent, child := memory.NewPair(s.transport)
	options := append([]worker.Option{
		worker.WithConfig(request.Worker),
		worker.WithID(request.ID),
		worker.WithLogger(s.logger.With(zap.Int("worker", request.ID))),
	}, s.options...)
	srv, err := worker.New(child, options...)
	if err != nil {
		_ = parent.Close()
		return nil, nil, fmt.Errorf("failed to create worker %d: %w", request.ID, err)
	}
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	handle := &Handle{done: make(spawn.Done), cancel: cancel, worker: srv}
	go func() {
		defer close(handle.done)
		_ = srv.Run(runCtx)
	}()
	return parent, handle, nil
}

// Handle controls a worker goroutine
type Handle struct {
	done   spawn.Done
	cancel context.CancelFunc
	worker *worker.Service
}

// Worker returns the underlying runtime
func (h *Handle) Worker() *worker.Service {
	return h.worker
}

// Exited reports whether the worker loop returned
func (h *Handle) Exited() bool {
	return h.done.Exited()
}

// Terminate cancels the worker loop
func (h *Handle) Terminate() error {
	h.cancel()
	return nil
}

// Kill cancels the worker loop; goroutines cannot be stopped forcibly, so
// in-flight task executions are abandoned rather than interrupted.
func (h *Handle) Kill() error {
	h.cancel()
	return nil
}

// Wait blocks up to timeout for the worker loop to return
func (h *Handle) Wait(timeout time.Duration) bool {
	return h.done.Wait(timeout)
}
