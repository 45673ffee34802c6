// Package orchestrator owns the worker pool.
//
// SubmitOrder picks the least loaded worker able to accept a task, spawning
// a new worker when every existing one is saturated.  Statuses polls each
// worker for a fresh snapshot with a bounded wait and falls back to a
// locally synthesized snapshot when a worker does not answer.  Idle and dead
// workers are reaped on every submission and by the janitor loop started
// with Start.  All pool mutations are serialized by a single mutex.
package orchestrator
