// Package model contains the in-memory representation of orders, tasks,
// worker resources and status snapshots shared by the orchestrator, the
// worker runtime and the wire protocol.
//
// Product kinds and sizes carry the integer values used on the wire, so a
// Kind or Size can be written to a frame without any extra mapping.  All
// types are plain values; none of them holds a lock or a goroutine.
package model
