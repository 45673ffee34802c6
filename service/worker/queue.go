package worker

import (
	"sync"

	"github.com/viant/brigade/model"
)

// Queue is a bounded FIFO of tasks waiting for a free execution slot.
type Queue struct {
	mu    sync.Mutex
	tasks []*model.Task
	limit int
}

// NewQueue creates a queue holding at most limit tasks
func NewQueue(limit int) *Queue {
	return &Queue{limit: limit, tasks: make([]*model.Task, 0, limit)}
}

// Push appends a task; it returns false when the queue is full
func (q *Queue) Push(task *model.Task) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.tasks) >= q.limit {
		return false
	}
	q.tasks = append(q.tasks, task)
	return true
}

// Pop removes and returns the head task, or nil
func (q *Queue) Pop() *model.Task {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.tasks) == 0 {
		return nil
	}
	head := q.tasks[0]
	q.tasks[0] = nil
	q.tasks = q.tasks[1:]
	return head
}

// Len returns the number of waiting tasks
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}
