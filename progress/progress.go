package progress

import (
	"sync"
	"time"

	"github.com/viant/brigade/internal/clock"
)

// Delta represents an incremental counter change emitted by the orchestrator.
// The fields are signed and therefore can be either positive (increment) or
// negative (decrement).
type Delta struct {
	Total     int
	Completed int
	Failed    int
	Pending   int
	Spawned   int
	Closed    int
}

// Progress keeps aggregated counters for one orchestrator session. It is
// safe for concurrent use.
type Progress struct {
	SessionID string
	StartedAt time.Time

	TotalTasks     int
	CompletedTasks int
	FailedTasks    int
	PendingTasks   int
	WorkersSpawned int
	WorkersClosed  int

	sync.Mutex
	onChange func(Progress)
}

// New creates a tracker for the supplied session
func New(sessionID string) *Progress {
	return &Progress{SessionID: sessionID, StartedAt: clock.Now()}
}

// Update applies the supplied delta.  The onChange callback, if any, runs
// outside the critical section with a copy of the updated counters.
func (p *Progress) Update(d Delta) {
	if p == nil {
		return
	}

	p.Lock()
	p.TotalTasks += d.Total
	p.CompletedTasks += d.Completed
	p.FailedTasks += d.Failed
	p.PendingTasks += d.Pending
	p.WorkersSpawned += d.Spawned
	p.WorkersClosed += d.Closed
	snapshot := p.copy()
	cb := p.onChange
	p.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns a copy of the tracker suitable for read-only inspection.
func (p *Progress) Snapshot() Progress {
	if p == nil {
		return Progress{}
	}
	p.Lock()
	defer p.Unlock()
	return p.copy()
}

// ActiveWorkers returns spawned minus closed workers.
func (p *Progress) ActiveWorkers() int {
	snapshot := p.Snapshot()
	return snapshot.WorkersSpawned - snapshot.WorkersClosed
}

// OnChange registers a callback invoked after every Update. Passing nil
// disables it.
func (p *Progress) OnChange(cb func(Progress)) {
	if p == nil {
		return
	}
	p.Lock()
	p.onChange = cb
	p.Unlock()
}

func (p *Progress) copy() Progress {
	return Progress{
		SessionID:      p.SessionID,
		StartedAt:      p.StartedAt,
		TotalTasks:     p.TotalTasks,
		CompletedTasks: p.CompletedTasks,
		FailedTasks:    p.FailedTasks,
		PendingTasks:   p.PendingTasks,
		WorkersSpawned: p.WorkersSpawned,
		WorkersClosed:  p.WorkersClosed,
	}
}
