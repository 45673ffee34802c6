// Package snapshot stores the last status snapshot reported by every worker.
package snapshot

import (
	"github.com/viant/brigade/model"
	"github.com/viant/brigade/service/dao"
	"github.com/viant/brigade/service/dao/criteria"
	"github.com/viant/brigade/service/dao/store"
)

// Service is a memory backed snapshot store keyed by worker id
type Service struct {
	*store.MemoryStore[int, model.Snapshot]
}

// New creates an empty snapshot store
func New() *Service {
	return &Service{
		MemoryStore: store.NewMemoryStore[int, model.Snapshot](
			func(s *model.Snapshot) int { return s.WorkerID },
			criteria.MatchSnapshot,
		),
	}
}

var _ dao.Service[int, model.Snapshot] = (*Service)(nil)
