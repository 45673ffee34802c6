package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/viant/brigade/internal/clock"
	"github.com/viant/brigade/model"
	"github.com/viant/brigade/progress"
	"github.com/viant/brigade/protocol"
	"github.com/viant/brigade/service/dao"
	"github.com/viant/brigade/service/dao/snapshot"
	"github.com/viant/brigade/service/spawn"
	"github.com/viant/brigade/service/spawn/routine"
	"github.com/viant/brigade/tracing"
	"github.com/viant/brigade/transport"
	"go.uber.org/zap"
)

// handle is the orchestrator side record of one worker
type handle struct {
	id           int
	endpoint     transport.Transport
	process      spawn.Handle
	pending      int
	active       bool
	lastActivity time.Time
}

// Service distributes tasks across a pool of workers
type Service struct {
	config    Config
	spawner   spawn.Spawner
	logger    *zap.Logger
	listener  Listener
	snapshots dao.Service[int, model.Snapshot]
	progress  *progress.Progress

	mu      sync.Mutex
	workers []*handle
	nextID  int

	shutdownCh   chan struct{}
	shutdownOnce sync.Once
}

// New creates an orchestrator
func New(options ...Option) (*Service, error) {
	s := &Service{
		config:     DefaultConfig(),
		shutdownCh: make(chan struct{}),
	}
	for _, opt := range options {
		opt(s)
	}
	if s.config.Worker.Capacity <= 0 {
		return nil, fmt.Errorf("worker capacity must be > 0")
	}
	if s.config.Worker.ReplenishInterval <= 0 {
		return nil, fmt.Errorf("worker replenish interval must be > 0")
	}
	if s.config.StatusPollAttempts <= 0 {
		return nil, fmt.Errorf("status poll attempts must be > 0")
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.spawner == nil {
		s.spawner = routine.New(routine.WithLogger(s.logger))
	}
	if s.snapshots == nil {
		s.snapshots = snapshot.New()
	}
	if s.progress == nil {
		s.progress = progress.New("")
	}
	return s, nil
}

// Config returns the orchestrator configuration
func (s *Service) Config() Config {
	return s.config
}

// Progress returns the task and worker counters
func (s *Service) Progress() *progress.Progress {
	return s.progress
}

// WorkerCount returns the number of workers in the pool
func (s *Service) WorkerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.workers)
}

// SubmitOrder dispatches one task. It returns false with a *model.Error when
// spawning fails, when even a freshly spawned worker cannot accept the task
// or when the task cannot be sent.
func (s *Service) SubmitOrder(ctx context.Context, task *model.Task) (ok bool, err error) {
	ctx, span := tracing.StartSpan(ctx, "orchestrator.SubmitOrder", tracing.KindProducer)
	span.WithTask(task)
	defer func() { tracing.EndSpan(span, err) }()

	s.mu.Lock()
	events := s.collectLocked(ctx)
	s.reapLocked(ctx)
	var target *handle
	if target, err = s.selectLocked(ctx); err == nil {
		err = s.dispatchLocked(ctx, target, task)
	}
	s.mu.Unlock()
	s.notify(events)

	if err != nil {
		s.logger.Warn("failed to submit task", zap.String("task", task.Name()), zap.Error(err))
		return false, err
	}
	s.logger.Debug("task submitted", zap.String("task", task.Name()), zap.Int("worker", target.id))
	return true, nil
}

func (s *Service) selectLocked(ctx context.Context) (*handle, error) {
	if target := s.findBestWorker(); target != nil {
		return target, nil
	}
	if _, err := s.spawnLocked(ctx); err != nil {
		return nil, err
	}
	if target := s.findBestWorker(); target != nil {
		return target, nil
	}
	return nil, model.Errorf(model.ErrorKindCapacity, "submit", "no available worker")
}

// findBestWorker returns the live worker with the fewest pending tasks that
// can still accept one, or nil. pending counts every task sent and not yet
// acknowledged, running or queued.
func (s *Service) findBestWorker() *handle {
	maxQueue := s.config.Worker.MaxQueue()
	var best *handle
	for _, candidate := range s.workers {
		if !candidate.active || candidate.process.Exited() {
			continue
		}
		if candidate.pending >= maxQueue {
			continue
		}
		if best == nil || candidate.pending < best.pending {
			best = candidate
			if best.pending == 0 {
				break
			}
		}
	}
	return best
}

func (s *Service) dispatchLocked(ctx context.Context, target *handle, task *model.Task) error {
	if span, ok := tracing.SpanFromContext(ctx); ok {
		span.WithInt("worker", target.id)
	}
	if err := transport.SendMessage(target.endpoint, &protocol.TaskMessage{Task: *task}); err != nil {
		target.active = false
		return err
	}
	target.pending++
	target.lastActivity = clock.Now()
	s.progress.Update(progress.Delta{Total: 1, Pending: 1})
	return nil
}

func (s *Service) spawnLocked(ctx context.Context) (*handle, error) {
	ctx, span := tracing.StartSpan(ctx, "orchestrator.spawn", tracing.KindClient)
	s.nextID++
	id := s.nextID
	span.WithInt("worker", id)

	endpoint, process, err := s.spawner.Spawn(ctx, &spawn.Request{ID: id, Worker: s.config.Worker})
	if err != nil {
		var typed *model.Error
		if !errors.As(err, &typed) {
			err = model.NewError(model.ErrorKindSpawn, fmt.Sprintf("spawn worker %d", id), err)
		}
		tracing.EndSpan(span, err)
		return nil, err
	}
	ret := &handle{
		id:           id,
		endpoint:     endpoint,
		process:      process,
		active:       true,
		lastActivity: clock.Now(),
	}
	s.workers = append(s.workers, ret)
	s.progress.Update(progress.Delta{Spawned: 1})
	s.logger.Info("worker spawned", zap.Int("worker", id), zap.Int("pool", len(s.workers)))
	tracing.EndSpan(span, nil)
	if s.config.SettleDelay > 0 {
		time.Sleep(s.config.SettleDelay)
	}
	return ret, nil
}

// collectLocked drains every frame already received from the pool
func (s *Service) collectLocked(ctx context.Context) []*Event {
	var events []*Event
	for _, h := range s.workers {
		drained, _ := s.drainLocked(ctx, h)
		events = append(events, drained...)
	}
	return events
}

// drainLocked consumes the frames available on one worker and returns the
// task outcomes together with the last status seen, if any.
func (s *Service) drainLocked(ctx context.Context, h *handle) (events []*Event, status *model.Snapshot) {
	for {
		msg, raw, err := transport.ReceiveMessage(h.endpoint)
		if err != nil {
			if errors.Is(err, transport.ErrClosed) {
				if h.active {
					s.logger.Debug("worker transport closed", zap.Int("worker", h.id))
				}
				h.active = false
				return events, status
			}
			s.logger.Warn("ignoring malformed message", zap.Int("worker", h.id), zap.ByteString("payload", raw), zap.Error(err))
			continue
		}
		if msg == nil {
			return events, status
		}
		switch actual := msg.(type) {
		case *protocol.CompletedMessage:
			s.release(h)
			s.progress.Update(progress.Delta{Completed: 1, Pending: -1})
			events = append(events, &Event{WorkerID: h.id, Task: actual.Task})
		case *protocol.FailedMessage:
			s.release(h)
			s.progress.Update(progress.Delta{Failed: 1, Pending: -1})
			cause := model.Errorf(actual.Reason.ErrorKind(), "execute", "worker %d dropped %v: %s", h.id, actual.Task.Name(), actual.Reason)
			events = append(events, &Event{WorkerID: h.id, Task: actual.Task, Err: cause})
		case *protocol.StatusMessage:
			reported := actual.Snapshot
			if err := s.snapshots.Save(ctx, &reported); err != nil {
				s.logger.Warn("failed to save snapshot", zap.Int("worker", h.id), zap.Error(err))
			}
			status = &reported
		default:
			s.logger.Debug("ignoring unexpected message", zap.Int("worker", h.id), zap.String("tag", msg.Tag()))
		}
	}
}

func (s *Service) release(h *handle) {
	if h.pending > 0 {
		h.pending--
	}
}

// reapLocked drops workers whose process exited or whose transport closed
func (s *Service) reapLocked(ctx context.Context) {
	kept := s.workers[:0]
	for _, h := range s.workers {
		if h.active && !h.process.Exited() {
			kept = append(kept, h)
			continue
		}
		s.removeLocked(ctx, h)
	}
	clear(s.workers[len(kept):])
	s.workers = kept
}

func (s *Service) removeLocked(ctx context.Context, h *handle) {
	if !h.process.Exited() {
		_ = h.process.Terminate()
	}
	if err := h.endpoint.Close(); err != nil {
		s.logger.Debug("failed to close transport", zap.Int("worker", h.id), zap.Error(err))
	}
	_ = s.snapshots.Delete(ctx, h.id)
	delta := progress.Delta{Closed: 1}
	if h.pending > 0 {
		s.logger.Warn("worker removed with unacknowledged tasks", zap.Int("worker", h.id), zap.Int("pending", h.pending))
		delta.Failed = h.pending
		delta.Pending = -h.pending
	}
	s.progress.Update(delta)
	s.logger.Info("worker removed", zap.Int("worker", h.id))
}

// terminateLocked stops a worker: graceful first, forced after GracePeriod
func (s *Service) terminateLocked(ctx context.Context, h *handle) {
	if err := h.process.Terminate(); err != nil {
		s.logger.Debug("failed to terminate worker", zap.Int("worker", h.id), zap.Error(err))
	}
	if !h.process.Wait(s.config.GracePeriod) {
		s.logger.Warn("worker did not stop in time, killing", zap.Int("worker", h.id))
		if err := h.process.Kill(); err != nil {
			s.logger.Warn("failed to kill worker", zap.Int("worker", h.id), zap.Error(err))
		}
		h.process.Wait(s.config.GracePeriod)
	}
	s.removeLocked(ctx, h)
}

func (s *Service) isIdleLocked(ctx context.Context, h *handle) bool {
	if h.pending > 0 || clock.Since(h.lastActivity) <= s.config.Worker.IdleTimeout {
		return false
	}
	reported, err := s.snapshots.Load(ctx, h.id)
	if err != nil || reported == nil {
		return true
	}
	return reported.IsIdle()
}

// CloseIdleWorkers removes exited workers and terminates idle ones. It
// returns the number of workers terminated.
func (s *Service) CloseIdleWorkers(ctx context.Context) int {
	s.mu.Lock()
	events := s.collectLocked(ctx)
	s.reapLocked(ctx)
	closed := 0
	kept := s.workers[:0]
	for _, h := range s.workers {
		if !s.isIdleLocked(ctx, h) {
			kept = append(kept, h)
			continue
		}
		s.logger.Info("closing idle worker", zap.Int("worker", h.id))
		s.terminateLocked(ctx, h)
		closed++
	}
	clear(s.workers[len(kept):])
	s.workers = kept
	s.mu.Unlock()
	s.notify(events)
	return closed
}

// Statuses requests a fresh snapshot from every live worker. A worker that
// does not answer within StatusPollAttempts x StatusPollInterval is reported
// with a fallback snapshot.
func (s *Service) Statuses(ctx context.Context) []*model.Snapshot {
	ctx, span := tracing.StartSpan(ctx, "orchestrator.Statuses", tracing.KindInternal)
	defer tracing.EndSpan(span, nil)

	s.mu.Lock()
	events := s.collectLocked(ctx)
	s.reapLocked(ctx)
	result := make([]*model.Snapshot, 0, len(s.workers))
	for _, h := range s.workers {
		if !h.active {
			continue
		}
		reported, drained := s.requestStatusLocked(ctx, h)
		events = append(events, drained...)
		result = append(result, reported)
	}
	s.mu.Unlock()
	s.notify(events)
	span.WithInt("workers", len(result))
	return result
}

func (s *Service) requestStatusLocked(ctx context.Context, h *handle) (*model.Snapshot, []*Event) {
	var events []*Event
	if err := transport.SendMessage(h.endpoint, protocol.StatusRequest{}); err != nil {
		s.logger.Warn("failed to request status", zap.Int("worker", h.id), zap.Error(err))
		return s.fallbackLocked(ctx, h), events
	}
	for i := 0; i < s.config.StatusPollAttempts; i++ {
		drained, status := s.drainLocked(ctx, h)
		events = append(events, drained...)
		if status != nil {
			return status, events
		}
		time.Sleep(s.config.StatusPollInterval)
	}
	s.logger.Warn("no status response, using fallback", zap.Int("worker", h.id))
	return s.fallbackLocked(ctx, h), events
}

// fallbackLocked stores and returns the snapshot of a worker that did not answer
func (s *Service) fallbackLocked(ctx context.Context, h *handle) *model.Snapshot {
	ret := model.FallbackSnapshot(h.id, s.config.Worker.Capacity)
	if err := s.snapshots.Save(ctx, ret); err != nil {
		s.logger.Warn("failed to save snapshot", zap.Int("worker", h.id), zap.Error(err))
	}
	return ret
}

// Snapshots returns the last snapshot known for every worker, narrowed by
// criteria parameters.
func (s *Service) Snapshots(ctx context.Context, parameters ...*dao.Parameter) ([]*model.Snapshot, error) {
	return s.snapshots.List(ctx, parameters...)
}

// DisplayStatus refreshes every worker status and writes a human readable
// report of the workers matching parameters.
func (s *Service) DisplayStatus(ctx context.Context, w io.Writer, parameters ...*dao.Parameter) error {
	snapshots := s.Statuses(ctx)
	if len(parameters) > 0 {
		var err error
		if snapshots, err = s.Snapshots(ctx, parameters...); err != nil {
			return err
		}
	}
	return RenderStatus(w, snapshots)
}

// Cleanup terminates every worker and stops the janitor. It is safe to call more than once.
func (s *Service) Cleanup(ctx context.Context) {
	s.Shutdown()
	s.mu.Lock()
	events := s.collectLocked(ctx)
	for _, h := range s.workers {
		s.terminateLocked(ctx, h)
	}
	s.workers = nil
	s.mu.Unlock()
	s.notify(events)
}

// Start runs the janitor loop until ctx is done or Shutdown is called
func (s *Service) Start(ctx context.Context) error {
	if s.config.JanitorInterval <= 0 {
		return nil
	}
	ticker := time.NewTicker(s.config.JanitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.shutdownCh:
			return nil
		case <-ticker.C:
			if closed := s.CloseIdleWorkers(ctx); closed > 0 {
				s.logger.Debug("janitor closed idle workers", zap.Int("closed", closed))
			}
		}
	}
}

// Shutdown stops the janitor loop
func (s *Service) Shutdown() {
	s.shutdownOnce.Do(func() { close(s.shutdownCh) })
}

func (s *Service) notify(events []*Event) {
	if s.listener == nil {
		return
	}
	for _, event := range events {
		s.listener(event)
	}
}
