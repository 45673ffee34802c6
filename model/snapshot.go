package model

// Snapshot is a point-in-time report of a worker load and stock.
type Snapshot struct {
	WorkerID      int   `json:"workerId" yaml:"workerId"`
	ActiveCount   int   `json:"activeCount" yaml:"activeCount"`
	TotalCapacity int   `json:"totalCapacity" yaml:"totalCapacity"`
	QueueLength   int   `json:"queueLength" yaml:"queueLength"`
	MaxCapacity   int   `json:"maxCapacity" yaml:"maxCapacity"`
	Stock         Stock `json:"stock" yaml:"stock"`
	// Fallback is set when the snapshot was synthesized locally because the
	// worker did not answer in time.
	Fallback bool `json:"fallback,omitempty" yaml:"fallback,omitempty"`
}

// FallbackSnapshot returns the unknown-but-alive snapshot used when a worker
// does not answer a status request.
func FallbackSnapshot(workerID, capacity int) *Snapshot {
	return &Snapshot{
		WorkerID:      workerID,
		TotalCapacity: capacity,
		MaxCapacity:   MaxQueueCapacity(capacity),
		Stock:         FullStock(),
		Fallback:      true,
	}
}

// MaxQueueCapacity returns the queue bound for the supplied capacity.
func MaxQueueCapacity(capacity int) int {
	return 2 * capacity
}

// IsIdle returns true when nothing is running or queued.
func (s *Snapshot) IsIdle() bool {
	return s.ActiveCount == 0 && s.QueueLength == 0
}

// Load returns the number of running plus queued tasks.
func (s *Snapshot) Load() int {
	return s.ActiveCount + s.QueueLength
}
