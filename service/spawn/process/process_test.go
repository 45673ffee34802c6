package process

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/brigade/internal/logger"
	"github.com/viant/brigade/model"
	"github.com/viant/brigade/protocol"
	"github.com/viant/brigade/service/spawn"
	"github.com/viant/brigade/service/worker"
	"github.com/viant/brigade/transport"
)

const workerEnv = "BRIGADE_PROCESS_TEST_WORKER"

// TestMain lets the test binary act as a worker process when re-executed by the spawner.
func TestMain(m *testing.M) {
	if os.Getenv(workerEnv) == "1" && len(os.Args) > 1 && os.Args[1] == Command {
		if err := RunWorker(context.Background(), os.Args[2:]); err != nil {
			os.Exit(84)
		}
		os.Exit(0)
	}
	os.Exit(m.Run())
}

func testConfig() worker.Config {
	config := worker.DefaultConfig()
	config.Capacity = 1
	config.IdleTimeout = time.Minute
	config.BusyPause = time.Millisecond
	config.IdlePause = 5 * time.Millisecond
	return config
}

func await(t *testing.T, endpoint transport.Transport, match func(protocol.Message) bool) protocol.Message {
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		msg, _, err := transport.ReceiveMessage(endpoint)
		require.NoError(t, err)
		if msg != nil && match(msg) {
			return msg
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("no matching message from worker process")
	return nil
}

func TestSpawner_Spawn(t *testing.T) {
	spawner, err := New(WithExecutable(os.Args[0]), WithEnv(workerEnv+"=1"))
	require.NoError(t, err)
	endpoint, handle, err := spawner.Spawn(context.Background(), &spawn.Request{ID: 3, Worker: testConfig()})
	require.NoError(t, err)
	defer endpoint.Close()
	assert.False(t, handle.Exited())

	require.NoError(t, transport.SendMessage(endpoint, protocol.StatusRequest{}))
	msg := await(t, endpoint, func(msg protocol.Message) bool {
		_, ok := msg.(*protocol.StatusMessage)
		return ok
	})
	snapshot := msg.(*protocol.StatusMessage).Snapshot
	assert.Equal(t, 3, snapshot.WorkerID)
	assert.Equal(t, 1, snapshot.TotalCapacity)
	assert.Equal(t, model.FullStock(), snapshot.Stock)

	task := model.Task{Kind: model.Margarita, Size: model.S, DurationMillis: 10}
	require.NoError(t, transport.SendMessage(endpoint, &protocol.TaskMessage{Task: task}))
	done := await(t, endpoint, func(msg protocol.Message) bool {
		_, ok := msg.(*protocol.CompletedMessage)
		return ok
	}).(*protocol.CompletedMessage)
	assert.Equal(t, model.Margarita, done.Task.Kind)

	require.NoError(t, handle.Terminate())
	assert.True(t, handle.Wait(5*time.Second))
	assert.True(t, handle.Exited())
	assert.NoError(t, handle.Kill(), "kill after exit is a no-op")
}

func TestSpawner_InvalidExecutable(t *testing.T) {
	spawner, err := New(WithExecutable("/nonexistent/brigade-worker"))
	require.NoError(t, err)
	_, _, err = spawner.Spawn(context.Background(), &spawn.Request{ID: 1, Worker: testConfig()})
	assert.True(t, model.IsKind(err, model.ErrorKindSpawn))
}

func TestParseArgs(t *testing.T) {
	request := &spawn.Request{ID: 4, Worker: testConfig()}
	logConfig := logger.Config{Level: "debug", Encoding: "json", WorkerFile: "worker_%d.log"}
	args := Args(request, &logConfig)
	require.Equal(t, Command, args[0])

	parsedRequest, parsedLog, err := ParseArgs(args[1:])
	require.NoError(t, err)
	assert.Equal(t, request, parsedRequest)
	assert.Equal(t, logConfig.Level, parsedLog.Level)
	assert.Equal(t, logConfig.Encoding, parsedLog.Encoding)
	assert.Equal(t, logConfig.WorkerFile, parsedLog.WorkerFile)

	_, _, err = ParseArgs([]string{"-capacity", "2"})
	assert.Error(t, err)
	_, _, err = ParseArgs([]string{"-id", "1", "-unknown"})
	assert.Error(t, err)
}
