// Package process starts workers as child processes of the current binary.
//
// The child is the same executable invoked with the worker sub-command; the
// two pipe ends it owns are inherited as descriptors 3 (inbound) and 4
// (outbound).
package process

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/viant/brigade/internal/logger"
	"github.com/viant/brigade/model"
	"github.com/viant/brigade/service/spawn"
	"github.com/viant/brigade/transport"
	"github.com/viant/brigade/transport/pipe"
	"go.uber.org/zap"
)

// Command is the sub-command that switches the binary into worker mode.
const Command = "worker"

// Spawner starts worker processes
type Spawner struct {
	executable string
	env        []string
	logConfig  logger.Config
	logger     *zap.Logger
}

// Option represents spawner option
type Option func(*Spawner)

// WithExecutable overrides the binary started for every worker
func WithExecutable(path string) Option {
	return func(s *Spawner) {
		s.executable = path
	}
}

// WithEnv adds environment variables to the worker processes
func WithEnv(env ...string) Option {
	return func(s *Spawner) {
		s.env = append(s.env, env...)
	}
}

// WithLogConfig sets the logger configuration forwarded to workers
func WithLogConfig(config logger.Config) Option {
	return func(s *Spawner) {
		s.logConfig = config
	}
}

// WithLogger sets the orchestrator side logger
func WithLogger(log *zap.Logger) Option {
	return func(s *Spawner) {
		s.logger = log
	}
}

// New creates a process spawner that re-executes the running binary by default
func New(options ...Option) (*Spawner, error) {
	ret := &Spawner{logConfig: logger.DefaultConfig(), logger: zap.NewNop()}
	for _, opt := range options {
		opt(ret)
	}
	if ret.executable == "" {
		executable, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve executable: %w", err)
		}
		ret.executable = executable
	}
	return ret, nil
}

// Spawn starts a worker process
func (s *Spawner) Spawn(_ context.Context, request *spawn.Request) (transport.Transport, spawn.Handle, error) {
	pair, err := pipe.NewPair()
	if err != nil {
		return nil, nil, model.NewError(model.ErrorKindTransport, "pipe", err)
	}
	cmd := exec.Command(s.executable, Args(request, &s.logConfig)...)
	cmd.ExtraFiles = pair.ChildFiles()
	if len(s.env) > 0 {
		cmd.Env = append(os.Environ(), s.env...)
	}
	if err = cmd.Start(); err != nil {
		_ = pair.Parent.Close()
		_ = pair.ReleaseChild()
		return nil, nil, model.NewError(model.ErrorKindSpawn, fmt.Sprintf("start worker %d", request.ID), err)
	}
	if err = pair.ReleaseChild(); err != nil {
		s.logger.Warn("failed to release child descriptors", zap.Int("worker", request.ID), zap.Error(err))
	}
	handle := &Handle{cmd: cmd, done: make(spawn.Done)}
	go handle.wait(s.logger.With(zap.Int("worker", request.ID), zap.Int("pid", cmd.Process.Pid)))
	return pair.Parent, handle, nil
}

// Args returns the command line that starts a worker
func Args(request *spawn.Request, logConfig *logger.Config) []string {
	config := request.Worker
	return []string{
		Command,
		"-id", fmt.Sprint(request.ID),
		"-capacity", fmt.Sprint(config.Capacity),
		"-replenish", config.ReplenishInterval.String(),
		"-status", config.StatusInterval.String(),
		"-idle", config.IdleTimeout.String(),
		"-busy-pause", config.BusyPause.String(),
		"-idle-pause", config.IdlePause.String(),
		"-log-level", logConfig.Level,
		"-log-encoding", logConfig.Encoding,
		"-log-file", logConfig.WorkerFile,
	}
}

// Handle controls a worker process
type Handle struct {
	cmd     *exec.Cmd
	done    spawn.Done
	mu      sync.Mutex
	exitErr error
}

func (h *Handle) wait(log *zap.Logger) {
	err := h.cmd.Wait()
	h.mu.Lock()
	h.exitErr = err
	h.mu.Unlock()
	if err != nil {
		log.Debug("worker process exited", zap.Error(err))
	} else {
		log.Debug("worker process exited")
	}
	close(h.done)
}

// Pid returns the worker process id
func (h *Handle) Pid() int {
	return h.cmd.Process.Pid
}

// ExitErr returns the process exit error once it terminated
func (h *Handle) ExitErr() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.exitErr
}

// Exited reports whether the process was reaped
func (h *Handle) Exited() bool {
	return h.done.Exited()
}

// Terminate sends SIGTERM
func (h *Handle) Terminate() error {
	if h.Exited() {
		return nil
	}
	return h.cmd.Process.Signal(syscall.SIGTERM)
}

// Kill sends SIGKILL
func (h *Handle) Kill() error {
	if h.Exited() {
		return nil
	}
	return h.cmd.Process.Kill()
}

// Wait blocks up to timeout for the process to exit
func (h *Handle) Wait(timeout time.Duration) bool {
	return h.done.Wait(timeout)
}
