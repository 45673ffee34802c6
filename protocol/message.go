package protocol

import "github.com/viant/brigade/model"

// Wire tags
const (
	TagTask          = "TASK:"
	TagStatusRequest = "STATUS_REQUEST"
	TagStatus        = "STATUS:"
	TagCompleted     = "DONE:"
	TagFailed        = "FAILED:"
)

// Message represents a protocol message
type Message interface {
	// Tag returns the wire tag used for the message
	Tag() string
}

// TaskMessage asks a worker to execute a task.
type TaskMessage struct {
	Task model.Task
}

func (m *TaskMessage) Tag() string { return TagTask }

// StatusRequest asks a worker for a fresh snapshot.
type StatusRequest struct{}

func (StatusRequest) Tag() string { return TagStatusRequest }

// StatusMessage carries a worker snapshot.
type StatusMessage struct {
	Snapshot model.Snapshot
}

func (m *StatusMessage) Tag() string { return TagStatus }

// CompletedMessage reports a finished task.
type CompletedMessage struct {
	Task model.Task
}

func (m *CompletedMessage) Tag() string { return TagCompleted }

// FailureReason explains why a worker could not execute a task.
type FailureReason string

const (
	// ReasonStarved means a required resource was depleted at execution time.
	ReasonStarved FailureReason = "starved"
	// ReasonRejected means the worker queue was full when the task arrived.
	ReasonRejected FailureReason = "rejected"
)

// IsValid returns true for a known reason
func (r FailureReason) IsValid() bool {
	return r == ReasonStarved || r == ReasonRejected
}

// ErrorKind maps the reason onto the error taxonomy.
func (r FailureReason) ErrorKind() model.ErrorKind {
	if r == ReasonStarved {
		return model.ErrorKindStarvation
	}
	return model.ErrorKindCapacity
}

// FailedMessage reports a task the worker dropped.
type FailedMessage struct {
	Task   model.Task
	Reason FailureReason
}

func (m *FailedMessage) Tag() string { return TagFailed }
