package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/viant/brigade/internal/clock"
	"github.com/viant/brigade/model"
	"github.com/viant/brigade/protocol"
	"github.com/viant/brigade/transport"
	"go.uber.org/zap"
)

// State represents the worker lifecycle state
type State int32

const (
	StateStarting State = iota
	StateRunning
	StateClosing
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateClosing:
		return "closing"
	case StateTerminated:
		return "terminated"
	}
	return "unknown"
}

// Service runs one worker
type Service struct {
	config    Config
	transport transport.Transport
	logger    *zap.Logger
	sleep     Sleeper
	inventory *Inventory
	queue     *Queue

	state        atomic.Int32
	active       atomic.Int32
	lastActivity atomic.Int64
	lastStatus   time.Time

	executions sync.WaitGroup
	replenish  sync.WaitGroup
	shutdownCh chan struct{}
}

// New creates a worker bound to the supplied transport endpoint
func New(endpoint transport.Transport, options ...Option) (*Service, error) {
	s := &Service{
		config:     DefaultConfig(),
		transport:  endpoint,
		sleep:      time.Sleep,
		shutdownCh: make(chan struct{}),
	}
	for _, opt := range options {
		opt(s)
	}
	if s.transport == nil {
		return nil, fmt.Errorf("transport is required")
	}
	if s.config.Capacity <= 0 {
		return nil, fmt.Errorf("capacity must be > 0")
	}
	if s.config.ReplenishInterval <= 0 {
		return nil, fmt.Errorf("replenish interval must be > 0")
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.inventory == nil {
		s.inventory = NewInventory()
	}
	s.queue = NewQueue(s.config.MaxQueue())
	return s, nil
}

// ID returns the worker identifier
func (s *Service) ID() int {
	return s.config.ID
}

// State returns the current lifecycle state
func (s *Service) State() State {
	return State(s.state.Load())
}

// Inventory returns the worker inventory
func (s *Service) Inventory() *Inventory {
	return s.inventory
}

// ActiveCount returns the number of running task executions
func (s *Service) ActiveCount() int {
	return int(s.active.Load())
}

// Snapshot returns the current worker status
func (s *Service) Snapshot() *model.Snapshot {
	return &model.Snapshot{
		WorkerID:      s.config.ID,
		ActiveCount:   s.ActiveCount(),
		TotalCapacity: s.config.Capacity,
		QueueLength:   s.queue.Len(),
		MaxCapacity:   s.config.MaxQueue(),
		Stock:         s.inventory.Stock(),
	}
}

// Run executes the dispatch loop until the worker goes idle, the
// orchestrator closes the transport or ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if !s.state.CompareAndSwap(int32(StateStarting), int32(StateRunning)) {
		return fmt.Errorf("worker %d: already started", s.config.ID)
	}
	s.touch()
	s.lastStatus = clock.Now()
	s.replenish.Add(1)
	go s.replenishLoop()
	s.logger.Info("worker started", zap.Int("capacity", s.config.Capacity))

	reason := s.loop(ctx)

	s.state.Store(int32(StateClosing))
	s.logger.Info("worker closing", zap.String("reason", reason))
	close(s.shutdownCh)
	s.replenish.Wait()
	if err := s.transport.Close(); err != nil {
		s.logger.Warn("failed to close transport", zap.Error(err))
	}
	s.state.Store(int32(StateTerminated))
	return nil
}

// Wait blocks until every admitted task execution has returned.
func (s *Service) Wait() {
	s.executions.Wait()
}

func (s *Service) loop(ctx context.Context) string {
	for {
		select {
		case <-ctx.Done():
			return "cancelled"
		default:
		}

		handled, err := s.dispatch()
		if err != nil {
			return err.Error()
		}
		s.admit()

		if clock.Since(s.lastStatus) >= s.config.StatusInterval {
			s.sendStatus()
		}
		if s.isIdle() {
			return "idle"
		}
		if handled {
			time.Sleep(s.config.BusyPause)
		} else {
			time.Sleep(s.config.IdlePause)
		}
	}
}

// dispatch handles at most one inbound message
func (s *Service) dispatch() (bool, error) {
	msg, raw, err := transport.ReceiveMessage(s.transport)
	if err != nil {
		if errors.Is(err, transport.ErrClosed) {
			return false, errors.New("transport closed")
		}
		s.logger.Debug("ignoring malformed message", zap.ByteString("payload", raw), zap.Error(err))
		return true, nil
	}
	if msg == nil {
		return false, nil
	}
	switch actual := msg.(type) {
	case *protocol.TaskMessage:
		task := actual.Task
		s.touch()
		if !s.queue.Push(&task) {
			s.logger.Warn("queue full, rejecting task", zap.String("task", task.Name()))
			s.send(&protocol.FailedMessage{Task: task, Reason: protocol.ReasonRejected})
			return true, nil
		}
		s.logger.Debug("task queued", zap.String("task", task.Name()), zap.Int("queue", s.queue.Len()))
	case protocol.StatusRequest:
		s.touch()
		s.sendStatus()
	default:
		s.logger.Debug("ignoring unexpected message", zap.String("tag", msg.Tag()))
	}
	return true, nil
}

// admit starts queued tasks while execution slots are free
func (s *Service) admit() {
	for int(s.active.Load()) < s.config.Capacity {
		task := s.queue.Pop()
		if task == nil {
			return
		}
		s.active.Add(1)
		s.executions.Add(1)
		go s.execute(task)
	}
}

func (s *Service) execute(task *model.Task) {
	defer s.executions.Done()
	s.touch()
	if !s.inventory.Reserve(task.Kind.Resources()) {
		stock := s.inventory.Stock()
		s.logger.Warn("resources depleted, dropping task",
			zap.String("task", task.Name()),
			zap.Stringers("missing", stock.Missing(task.Kind.Resources())))
		s.send(&protocol.FailedMessage{Task: *task, Reason: protocol.ReasonStarved})
		s.active.Add(-1)
		s.touch()
		return
	}
	s.logger.Debug("task started", zap.String("task", task.Name()), zap.Int("durationMs", task.DurationMillis))
	s.sleep(task.Duration())
	task.Completed = true
	s.send(&protocol.CompletedMessage{Task: *task})
	s.logger.Info("task completed", zap.String("task", task.Name()))
	s.active.Add(-1)
	s.touch()
}

func (s *Service) replenishLoop() {
	defer s.replenish.Done()
	ticker := time.NewTicker(s.config.ReplenishInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.shutdownCh:
			return
		case <-ticker.C:
			s.inventory.Replenish()
		}
	}
}

func (s *Service) sendStatus() {
	s.lastStatus = clock.Now()
	s.send(&protocol.StatusMessage{Snapshot: *s.Snapshot()})
}

// send is best effort; a closing orchestrator may already be gone
func (s *Service) send(msg protocol.Message) {
	if err := transport.SendMessage(s.transport, msg); err != nil {
		s.logger.Warn("failed to send message", zap.String("tag", msg.Tag()), zap.Error(err))
	}
}

func (s *Service) touch() {
	s.lastActivity.Store(clock.Stamp())
}

func (s *Service) isIdle() bool {
	return s.active.Load() == 0 &&
		s.queue.Len() == 0 &&
		clock.SinceStamp(s.lastActivity.Load()) > s.config.IdleTimeout
}
