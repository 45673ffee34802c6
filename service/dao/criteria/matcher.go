// Package criteria evaluates dao.Parameter filters against stored snapshots.
package criteria

import (
	"slices"

	"github.com/viant/brigade/model"
	"github.com/viant/brigade/service/dao"
)

const (
	// Idle selects snapshots with nothing running or queued
	Idle = "Idle"
	// Fallback selects locally synthesized snapshots
	Fallback = "Fallback"
	// WorkerID selects one or more workers
	WorkerID = "WorkerID"
)

// MatchSnapshot returns true when the snapshot satisfies every parameter.
// Unknown parameter names are ignored.
func MatchSnapshot(snapshot *model.Snapshot, parameters []*dao.Parameter) bool {
	for _, parameter := range parameters {
		switch parameter.Name {
		case Idle:
			if expect, ok := parameter.Value.(bool); ok && snapshot.IsIdle() != expect {
				return false
			}
		case Fallback:
			if expect, ok := parameter.Value.(bool); ok && snapshot.Fallback != expect {
				return false
			}
		case WorkerID:
			switch actual := parameter.Value.(type) {
			case int:
				if snapshot.WorkerID != actual {
					return false
				}
			case []int:
				if !slices.Contains(actual, snapshot.WorkerID) {
					return false
				}
			}
		}
	}
	return true
}
