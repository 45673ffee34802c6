package orchestrator

import (
	"time"

	"github.com/viant/brigade/model"
	"github.com/viant/brigade/progress"
	"github.com/viant/brigade/service/dao"
	"github.com/viant/brigade/service/spawn"
	"github.com/viant/brigade/service/worker"
	"go.uber.org/zap"
)

// Config represents orchestrator configuration
type Config struct {
	// Worker is forwarded to every spawned worker
	Worker worker.Config `json:"worker" yaml:"worker" mapstructure:"worker"`

	// SettleDelay is waited after spawning before the first dispatch
	SettleDelay time.Duration `json:"settleDelay" yaml:"settleDelay" mapstructure:"settleDelay"`

	// StatusPollAttempts bounds how many times a status answer is polled
	StatusPollAttempts int `json:"statusPollAttempts" yaml:"statusPollAttempts" mapstructure:"statusPollAttempts"`

	// StatusPollInterval is the pause between two status polls
	StatusPollInterval time.Duration `json:"statusPollInterval" yaml:"statusPollInterval" mapstructure:"statusPollInterval"`

	// GracePeriod is how long a terminated worker may take before it is killed
	GracePeriod time.Duration `json:"gracePeriod" yaml:"gracePeriod" mapstructure:"gracePeriod"`

	// JanitorInterval is how often the janitor collects messages and closes idle workers
	JanitorInterval time.Duration `json:"janitorInterval" yaml:"janitorInterval" mapstructure:"janitorInterval"`
}

// DefaultConfig returns the default orchestrator configuration
func DefaultConfig() Config {
	return Config{
		Worker:             worker.DefaultConfig(),
		SettleDelay:        100 * time.Millisecond,
		StatusPollAttempts: 50,
		StatusPollInterval: 10 * time.Millisecond,
		GracePeriod:        time.Second,
		JanitorInterval:    time.Second,
	}
}

// Event reports a task outcome received from a worker. Err is nil for a
// completed task and a *model.Error otherwise.
type Event struct {
	WorkerID int
	Task     model.Task
	Err      error
}

// Listener is invoked for every task outcome, outside of the pool lock.
type Listener func(event *Event)

// Option represents orchestrator option
type Option func(*Service)

// WithConfig sets the configuration
func WithConfig(config Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithSpawner sets how workers are started
func WithSpawner(spawner spawn.Spawner) Option {
	return func(s *Service) {
		s.spawner = spawner
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithListener sets the task outcome listener
func WithListener(listener Listener) Option {
	return func(s *Service) {
		s.listener = listener
	}
}

// WithSnapshotDAO sets the store of last reported snapshots
func WithSnapshotDAO(snapshots dao.Service[int, model.Snapshot]) Option {
	return func(s *Service) {
		s.snapshots = snapshots
	}
}

// WithProgress sets the progress tracker
func WithProgress(tracker *progress.Progress) Option {
	return func(s *Service) {
		s.progress = tracker
	}
}
