// Package worker implements the runtime executed by every isolated worker.
//
// A worker owns a private resource inventory and a bounded queue of pending
// tasks.  Its dispatch loop reads at most one message per iteration from the
// transport, admits queued tasks while fewer than Capacity are running, emits
// periodic status snapshots and closes itself once it has been idle for
// IdleTimeout.  Each admitted task runs in its own goroutine: it reserves the
// task resources in a single critical section, sleeps for the task duration
// and reports completion back over the transport.
//
// The runtime is identical whether the worker lives in a child process
// (pipe transport) or in a goroutine of the orchestrator process (memory
// transport).
package worker
