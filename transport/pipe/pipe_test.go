package pipe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/brigade/transport"
)

func receiveWithin(t *testing.T, endpoint transport.Transport, timeout time.Duration) []byte {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		payload, err := endpoint.Receive()
		require.NoError(t, err)
		if payload != nil {
			return payload
		}
		time.Sleep(5 * time.Millisecond)
	}
	return nil
}

func TestPair(t *testing.T) {
	pair, err := NewPair()
	require.NoError(t, err)
	child := New(pair.ChildIn, pair.ChildOut)
	defer child.Close()
	defer pair.Parent.Close()

	assert.True(t, pair.Parent.IsReady())
	assert.True(t, child.IsReady())

	payload, err := pair.Parent.Receive()
	assert.NoError(t, err)
	assert.Nil(t, payload, "receive must not block when nothing was sent")

	require.NoError(t, pair.Parent.Send([]byte("STATUS_REQUEST")))
	assert.Equal(t, "STATUS_REQUEST", string(receiveWithin(t, child, time.Second)))

	require.NoError(t, child.Send([]byte("DONE:1|1|2000|1")))
	require.NoError(t, child.Send([]byte("STATUS:1|0|2|0|4|5,5,5,5,5,5,5,5,5")))
	assert.Equal(t, "DONE:1|1|2000|1", string(receiveWithin(t, pair.Parent, time.Second)))
	assert.Equal(t, "STATUS:1|0|2|0|4|5,5,5,5,5,5,5,5,5", string(receiveWithin(t, pair.Parent, time.Second)))
}

func TestEndpoint_PeerClose(t *testing.T) {
	pair, err := NewPair()
	require.NoError(t, err)
	child := New(pair.ChildIn, pair.ChildOut)
	defer pair.Parent.Close()

	require.NoError(t, child.Send([]byte("DONE:2|1|1000|1")))
	require.NoError(t, child.Close())
	require.NoError(t, child.Close(), "close is idempotent")
	assert.False(t, child.IsReady())
	assert.ErrorIs(t, child.Send([]byte("x")), transport.ErrClosed)

	assert.Equal(t, "DONE:2|1|1000|1", string(receiveWithin(t, pair.Parent, time.Second)))

	deadline := time.Now().Add(time.Second)
	for pair.Parent.IsReady() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	assert.False(t, pair.Parent.IsReady())
	_, err = pair.Parent.Receive()
	assert.ErrorIs(t, err, transport.ErrClosed)
}

func TestEndpoint_CloseWithUndrainedFrames(t *testing.T) {
	pair, err := NewPair()
	require.NoError(t, err)
	child := New(pair.ChildIn, pair.ChildOut)
	defer child.Close()

	for i := 0; i < defaultBuffer+2; i++ {
		require.NoError(t, child.Send([]byte("STATUS_REQUEST")))
	}
	require.Eventually(t, func() bool {
		return len(pair.Parent.frames) == defaultBuffer
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, pair.Parent.Close())
	select {
	case <-pair.Parent.stopped:
	case <-time.After(time.Second):
		t.Fatal("reader still blocked after close")
	}
}
