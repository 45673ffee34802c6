package progress

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgress_Update(t *testing.T) {
	tracker := New("session-1")
	var changes []Progress
	var mu sync.Mutex
	tracker.OnChange(func(p Progress) {
		mu.Lock()
		changes = append(changes, p)
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.Update(Delta{Total: 1, Pending: 1})
		}()
	}
	wg.Wait()
	tracker.Update(Delta{Completed: 4, Failed: 1, Pending: -5})
	tracker.Update(Delta{Spawned: 3, Closed: 1})

	snapshot := tracker.Snapshot()
	assert.Equal(t, "session-1", snapshot.SessionID)
	assert.Equal(t, 10, snapshot.TotalTasks)
	assert.Equal(t, 4, snapshot.CompletedTasks)
	assert.Equal(t, 1, snapshot.FailedTasks)
	assert.Equal(t, 5, snapshot.PendingTasks)
	assert.Equal(t, 2, tracker.ActiveWorkers())
	assert.Len(t, changes, 12)

	var nilTracker *Progress
	nilTracker.Update(Delta{Total: 1})
	assert.Equal(t, 0, nilTracker.Snapshot().TotalTasks)
}
