package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/brigade/model"
)

func TestEncode(t *testing.T) {
	testCases := []struct {
		name     string
		message  Message
		expected string
	}{
		{
			name:     "task",
			message:  &TaskMessage{Task: model.Task{Kind: model.Regina, Size: model.XXL, DurationMillis: 2000}},
			expected: "TASK:1|16|2000|0",
		},
		{
			name:     "completed forces flag",
			message:  &CompletedMessage{Task: model.Task{Kind: model.Fantasia, Size: model.M, DurationMillis: 4000}},
			expected: "DONE:8|2|4000|1",
		},
		{
			name:     "failed",
			message:  &FailedMessage{Task: model.Task{Kind: model.Americana, Size: model.L, DurationMillis: 1500}, Reason: ReasonStarved},
			expected: "FAILED:4|4|1500|0|starved",
		},
		{
			name:     "status request",
			message:  StatusRequest{},
			expected: "STATUS_REQUEST",
		},
		{
			name: "status",
			message: &StatusMessage{Snapshot: model.Snapshot{
				WorkerID: 3, ActiveCount: 1, TotalCapacity: 2, QueueLength: 4, MaxCapacity: 4,
				Stock: model.Stock{5, 4, 3, 2, 1, 0, 10, 9, 8},
			}},
			expected: "STATUS:3|1|2|4|4|5,4,3,2,1,0,10,9,8",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			actual, err := Encode(tc.message)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, string(actual))
		})
	}
}

func TestRoundTrip(t *testing.T) {
	var messages []Message
	for _, kind := range model.Kinds() {
		for _, size := range model.Sizes() {
			for _, quantity := range []int{model.MinQuantity, model.MaxQuantity} {
				order, err := model.NewOrder(kind, size, quantity)
				require.NoError(t, err)
				task := order.Tasks(1.0)[quantity-1]
				messages = append(messages, &TaskMessage{Task: *task})
				done := *task
				done.Completed = true
				messages = append(messages, &CompletedMessage{Task: done})
				messages = append(messages, &FailedMessage{Task: *task, Reason: ReasonRejected})
			}
		}
	}
	messages = append(messages,
		StatusRequest{},
		&StatusMessage{Snapshot: model.Snapshot{WorkerID: 1, TotalCapacity: 5, MaxCapacity: 10, Stock: model.FullStock()}},
		&StatusMessage{Snapshot: model.Snapshot{WorkerID: 99, ActiveCount: 5, TotalCapacity: 5, QueueLength: 10, MaxCapacity: 10}},
	)

	for _, message := range messages {
		encoded, err := Encode(message)
		require.NoError(t, err)
		decoded, err := Decode(encoded)
		require.NoError(t, err, string(encoded))
		assert.EqualValues(t, message, decoded)
		again, err := Encode(decoded)
		require.NoError(t, err)
		assert.Equal(t, string(encoded), string(again))
	}
}

func TestDecode_Invalid(t *testing.T) {
	testCases := []struct {
		name    string
		payload string
	}{
		{name: "empty", payload: ""},
		{name: "unknown tag", payload: "PIZZA:1|1|1000|0"},
		{name: "missing field", payload: "TASK:1|1|1000"},
		{name: "extra field", payload: "TASK:1|1|1000|0|1"},
		{name: "bad kind", payload: "TASK:3|1|1000|0"},
		{name: "bad size", payload: "TASK:1|32|1000|0"},
		{name: "negative duration", payload: "TASK:1|1|-5|0"},
		{name: "bad flag", payload: "TASK:1|1|1000|2"},
		{name: "non canonical", payload: "TASK:01|1|1000|0"},
		{name: "plus sign", payload: "TASK:+1|1|1000|0"},
		{name: "completed without flag", payload: "DONE:1|1|1000|0"},
		{name: "failed bad reason", payload: "FAILED:1|1|1000|0|burnt"},
		{name: "status short stock", payload: "STATUS:1|0|2|0|4|5,5,5"},
		{name: "status missing fields", payload: "STATUS:1|0|2"},
		{name: "status request suffix", payload: "STATUS_REQUESTX"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			msg, err := Decode([]byte(tc.payload))
			assert.Error(t, err)
			assert.Nil(t, msg)
		})
	}
}
