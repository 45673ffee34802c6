// Package progress keeps aggregated counters for the tasks and workers
// handled by one orchestrator.  Components apply signed deltas and observers
// can subscribe to every change.
package progress
