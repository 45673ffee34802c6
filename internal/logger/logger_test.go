package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestBuild(t *testing.T) {
	testCases := []struct {
		name        string
		config      Config
		expectError bool
	}{
		{name: "console", config: Config{Level: "debug", Encoding: "console"}},
		{name: "json", config: Config{Level: "warn", Encoding: "json"}},
		{name: "invalid level", config: Config{Level: "loud"}, expectError: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			log, err := Build(&tc.config)
			if tc.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, log)
		})
	}
}

func TestBuild_File(t *testing.T) {
	config := DefaultConfig()
	assert.Equal(t, DefaultFile, config.File)
	assert.Equal(t, DefaultWorkerFile, config.WorkerFile)

	config.File = filepath.Join(t.TempDir(), "brigade.log")
	log, err := Build(&config)
	require.NoError(t, err)
	log.Info("worker spawned")
	log.Error("failed to kill worker")
	_ = log.Sync()

	data, err := os.ReadFile(config.File)
	require.NoError(t, err)
	assert.Contains(t, string(data), "worker spawned")
	assert.Contains(t, string(data), "failed to kill worker")
}

func TestForWorker(t *testing.T) {
	dir := t.TempDir()
	config := DefaultConfig()
	config.WorkerFile = filepath.Join(dir, "worker_%d.log")

	log, err := ForWorker(&config, 7)
	require.NoError(t, err)
	log.Info("started")
	_ = log.Sync()

	data, err := os.ReadFile(filepath.Join(dir, "worker_7.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "started")

	config.WorkerFile = ""
	nop, err := ForWorker(&config, 8)
	require.NoError(t, err)
	assert.NotNil(t, nop)
}

func TestSetLevel(t *testing.T) {
	require.NoError(t, SetLevel("error"))
	assert.Equal(t, zapcore.ErrorLevel, Level())
	assert.Error(t, SetLevel("unknown"))
	require.NoError(t, SetLevel("info"))
}
