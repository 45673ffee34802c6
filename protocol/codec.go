package protocol

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/viant/brigade/model"
)

var (
	// ErrUnknownMessage is returned when the payload tag is not recognised.
	ErrUnknownMessage = errors.New("protocol: unknown message")
	// ErrMalformed is returned when a known message has invalid fields.
	ErrMalformed = errors.New("protocol: malformed message")
)

const (
	fieldSeparator = "|"
	listSeparator  = ","
)

// Encode renders a message as a wire payload (without frame header).
func Encode(msg Message) ([]byte, error) {
	switch actual := msg.(type) {
	case *TaskMessage:
		return encodeTask(TagTask, &actual.Task, actual.Task.Completed), nil
	case *CompletedMessage:
		return encodeTask(TagCompleted, &actual.Task, true), nil
	case *FailedMessage:
		if !actual.Reason.IsValid() {
			return nil, fmt.Errorf("%w: invalid failure reason %q", ErrMalformed, actual.Reason)
		}
		payload := encodeTask(TagFailed, &actual.Task, actual.Task.Completed)
		payload = append(payload, fieldSeparator...)
		return append(payload, actual.Reason...), nil
	case StatusRequest, *StatusRequest:
		return []byte(TagStatusRequest), nil
	case *StatusMessage:
		return encodeStatus(&actual.Snapshot), nil
	case nil:
		return nil, fmt.Errorf("%w: nil message", ErrUnknownMessage)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownMessage, msg)
	}
}

func encodeTask(tag string, task *model.Task, completed bool) []byte {
	buf := make([]byte, 0, len(tag)+16)
	buf = append(buf, tag...)
	buf = strconv.AppendInt(buf, int64(task.Kind), 10)
	buf = append(buf, fieldSeparator...)
	buf = strconv.AppendInt(buf, int64(task.Size), 10)
	buf = append(buf, fieldSeparator...)
	buf = strconv.AppendInt(buf, int64(task.DurationMillis), 10)
	buf = append(buf, fieldSeparator...)
	if completed {
		return append(buf, '1')
	}
	return append(buf, '0')
}

func encodeStatus(snapshot *model.Snapshot) []byte {
	buf := make([]byte, 0, 64)
	buf = append(buf, TagStatus...)
	for _, v := range []int{snapshot.WorkerID, snapshot.ActiveCount, snapshot.TotalCapacity, snapshot.QueueLength, snapshot.MaxCapacity} {
		buf = strconv.AppendInt(buf, int64(v), 10)
		buf = append(buf, fieldSeparator...)
	}
	for i, count := range snapshot.Stock {
		if i > 0 {
			buf = append(buf, listSeparator...)
		}
		buf = strconv.AppendInt(buf, int64(count), 10)
	}
	return buf
}

// Decode parses a wire payload (without frame header) into a message.
func Decode(payload []byte) (Message, error) {
	switch {
	case bytes.Equal(payload, []byte(TagStatusRequest)):
		return StatusRequest{}, nil
	case bytes.HasPrefix(payload, []byte(TagTask)):
		task, rest, err := decodeTask(string(payload[len(TagTask):]), 4)
		if err != nil {
			return nil, err
		}
		if len(rest) != 0 {
			return nil, fmt.Errorf("%w: unexpected fields %v", ErrMalformed, rest)
		}
		return &TaskMessage{Task: *task}, nil
	case bytes.HasPrefix(payload, []byte(TagCompleted)):
		task, _, err := decodeTask(string(payload[len(TagCompleted):]), 4)
		if err != nil {
			return nil, err
		}
		if !task.Completed {
			return nil, fmt.Errorf("%w: completion without completed flag", ErrMalformed)
		}
		return &CompletedMessage{Task: *task}, nil
	case bytes.HasPrefix(payload, []byte(TagFailed)):
		task, rest, err := decodeTask(string(payload[len(TagFailed):]), 5)
		if err != nil {
			return nil, err
		}
		reason := FailureReason(rest[0])
		if !reason.IsValid() {
			return nil, fmt.Errorf("%w: invalid failure reason %q", ErrMalformed, rest[0])
		}
		return &FailedMessage{Task: *task, Reason: reason}, nil
	case bytes.HasPrefix(payload, []byte(TagStatus)):
		snapshot, err := decodeStatus(string(payload[len(TagStatus):]))
		if err != nil {
			return nil, err
		}
		return &StatusMessage{Snapshot: *snapshot}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, truncate(payload, 32))
}

func decodeTask(body string, expectFields int) (*model.Task, []string, error) {
	fields := strings.Split(body, fieldSeparator)
	if len(fields) != expectFields {
		return nil, nil, fmt.Errorf("%w: expected %d fields, got %d", ErrMalformed, expectFields, len(fields))
	}
	values, err := parseInts(fields[:4])
	if err != nil {
		return nil, nil, err
	}
	task := &model.Task{
		Kind:           model.Kind(values[0]),
		Size:           model.Size(values[1]),
		DurationMillis: values[2],
	}
	if !task.Kind.IsValid() {
		return nil, nil, fmt.Errorf("%w: invalid kind %d", ErrMalformed, values[0])
	}
	if !task.Size.IsValid() {
		return nil, nil, fmt.Errorf("%w: invalid size %d", ErrMalformed, values[1])
	}
	if task.DurationMillis < 0 {
		return nil, nil, fmt.Errorf("%w: negative duration %d", ErrMalformed, values[2])
	}
	switch values[3] {
	case 0:
	case 1:
		task.Completed = true
	default:
		return nil, nil, fmt.Errorf("%w: invalid completed flag %d", ErrMalformed, values[3])
	}
	return task, fields[4:], nil
}

func decodeStatus(body string) (*model.Snapshot, error) {
	fields := strings.Split(body, fieldSeparator)
	if len(fields) != 6 {
		return nil, fmt.Errorf("%w: expected 6 status fields, got %d", ErrMalformed, len(fields))
	}
	values, err := parseInts(fields[:5])
	if err != nil {
		return nil, err
	}
	counts, err := parseInts(strings.Split(fields[5], listSeparator))
	if err != nil {
		return nil, err
	}
	if len(counts) != model.ResourceCount {
		return nil, fmt.Errorf("%w: expected %d stock counts, got %d", ErrMalformed, model.ResourceCount, len(counts))
	}
	snapshot := &model.Snapshot{
		WorkerID:      values[0],
		ActiveCount:   values[1],
		TotalCapacity: values[2],
		QueueLength:   values[3],
		MaxCapacity:   values[4],
	}
	copy(snapshot.Stock[:], counts)
	return snapshot, nil
}

// parseInts accepts only canonical base-10 integers so that decoding then
// encoding reproduces the input bytes.
func parseInts(fields []string) ([]int, error) {
	ret := make([]int, len(fields))
	for i, field := range fields {
		v, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid integer %q", ErrMalformed, field)
		}
		if strconv.Itoa(v) != field {
			return nil, fmt.Errorf("%w: non canonical integer %q", ErrMalformed, field)
		}
		ret[i] = v
	}
	return ret, nil
}

func truncate(data []byte, limit int) string {
	if len(data) <= limit {
		return string(data)
	}
	return string(data[:limit]) + "..."
}
