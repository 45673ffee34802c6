package routine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/brigade/protocol"
	"github.com/viant/brigade/service/spawn"
	"github.com/viant/brigade/service/worker"
	"github.com/viant/brigade/transport"
)

func TestSpawner_Spawn(t *testing.T) {
	config := worker.DefaultConfig()
	config.Capacity = 2
	config.IdlePause = 5 * time.Millisecond

	spawner := New()
	endpoint, handle, err := spawner.Spawn(context.Background(), &spawn.Request{ID: 2, Worker: config})
	require.NoError(t, err)
	assert.False(t, handle.Exited())
	assert.Equal(t, 2, handle.(*Handle).Worker().ID())

	require.NoError(t, transport.SendMessage(endpoint, protocol.StatusRequest{}))
	var status *protocol.StatusMessage
	deadline := time.Now().Add(time.Second)
	for status == nil && time.Now().Before(deadline) {
		msg, _, err := transport.ReceiveMessage(endpoint)
		require.NoError(t, err)
		if actual, ok := msg.(*protocol.StatusMessage); ok {
			status = actual
		}
		time.Sleep(2 * time.Millisecond)
	}
	require.NotNil(t, status)
	assert.Equal(t, 2, status.Snapshot.WorkerID)
	assert.Equal(t, 4, status.Snapshot.MaxCapacity)

	require.NoError(t, handle.Terminate())
	assert.True(t, handle.Wait(time.Second))
	assert.True(t, handle.Exited())
	assert.False(t, endpoint.IsReady())
}

func TestSpawner_InvalidConfig(t *testing.T) {
	_, _, err := New().Spawn(context.Background(), &spawn.Request{ID: 1})
	assert.Error(t, err)
}
