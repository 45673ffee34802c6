// Package spawn defines how the orchestrator starts an isolated worker.
//
// Two isolation strategies are provided: process re-executes the current
// binary in worker mode and talks to it over OS pipes, routine runs the
// worker in a goroutine connected by an in-memory transport.  The
// orchestrator only ever sees the returned transport endpoint and Handle.
package spawn

import (
	"context"
	"time"

	"github.com/viant/brigade/service/worker"
	"github.com/viant/brigade/transport"
)

// Request describes the worker to start
type Request struct {
	ID     int
	Worker worker.Config
}

// Handle controls a started worker
type Handle interface {
	// Exited reports, without blocking, whether the worker has terminated.
	Exited() bool

	// Terminate asks the worker to stop.
	Terminate() error

	// Kill stops the worker without waiting for it to cooperate.
	Kill() error

	// Wait blocks up to timeout for the worker to exit and reports whether it did.
	Wait(timeout time.Duration) bool
}

// Spawner starts workers
type Spawner interface {
	Spawn(ctx context.Context, request *Request) (transport.Transport, Handle, error)
}

// Done is a Handle helper backed by a channel closed on exit.
type Done chan struct{}

// Exited reports whether the channel was closed
func (d Done) Exited() bool {
	select {
	case <-d:
		return true
	default:
		return false
	}
}

// Wait blocks up to timeout for the channel to close
func (d Done) Wait(timeout time.Duration) bool {
	if timeout <= 0 {
		return d.Exited()
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-d:
		return true
	case <-timer.C:
		return false
	}
}
