package process

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/viant/brigade/internal/logger"
	"github.com/viant/brigade/service/spawn"
	"github.com/viant/brigade/service/worker"
	"github.com/viant/brigade/transport/pipe"
	"go.uber.org/zap"
)

// ParseArgs reads the worker command line produced by Args (without the sub-command).
func ParseArgs(args []string) (*spawn.Request, *logger.Config, error) {
	request := &spawn.Request{Worker: worker.DefaultConfig()}
	logConfig := logger.DefaultConfig()
	flags := flag.NewFlagSet(Command, flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	flags.IntVar(&request.ID, "id", 0, "worker id")
	flags.IntVar(&request.Worker.Capacity, "capacity", request.Worker.Capacity, "concurrent tasks")
	flags.DurationVar(&request.Worker.ReplenishInterval, "replenish", request.Worker.ReplenishInterval, "replenish interval")
	flags.DurationVar(&request.Worker.StatusInterval, "status", request.Worker.StatusInterval, "status interval")
	flags.DurationVar(&request.Worker.IdleTimeout, "idle", request.Worker.IdleTimeout, "idle timeout")
	flags.DurationVar(&request.Worker.BusyPause, "busy-pause", request.Worker.BusyPause, "pause after a message")
	flags.DurationVar(&request.Worker.IdlePause, "idle-pause", request.Worker.IdlePause, "pause without a message")
	flags.StringVar(&logConfig.Level, "log-level", logConfig.Level, "log level")
	flags.StringVar(&logConfig.Encoding, "log-encoding", logConfig.Encoding, "log encoding")
	flags.StringVar(&logConfig.WorkerFile, "log-file", "", "log file pattern")
	if err := flags.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("invalid worker arguments: %w", err)
	}
	if request.ID <= 0 {
		return nil, nil, fmt.Errorf("invalid worker id: %d", request.ID)
	}
	return request, &logConfig, nil
}

// RunWorker is the entry point of a worker process. It returns once the
// worker closed itself or a termination signal arrived.
func RunWorker(ctx context.Context, args []string) error {
	request, logConfig, err := ParseArgs(args)
	if err != nil {
		return err
	}
	log, err := logger.ForWorker(logConfig, request.ID)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	endpoint, err := pipe.Open()
	if err != nil {
		return err
	}
	srv, err := worker.New(endpoint,
		worker.WithConfig(request.Worker),
		worker.WithID(request.ID),
		worker.WithLogger(log))
	if err != nil {
		_ = endpoint.Close()
		return err
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer stop()
	if err = srv.Run(ctx); err != nil {
		log.Error("worker failed", zap.Error(err))
		return err
	}
	return nil
}
