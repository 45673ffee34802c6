package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/viant/brigade"
	"github.com/viant/brigade/service/spawn/process"
	"github.com/viant/toolbox"
)

// exitFailure is returned for usage and runtime errors
const exitFailure = 84

const usage = `Usage: brigade [flags] <multiplier> <capacity> <replenishMs>

  multiplier   task duration multiplier, > 0 (e.g. 0.5 halves every duration)
  capacity     concurrent tasks per worker, integer > 0
  replenishMs  stock replenishment interval in milliseconds, integer > 0

Flags:
`

// options holds the parsed command line
type options struct {
	configPath string
	scriptURL  string
	isolation  string
	traceFile  string
	multiplier float64
	capacity   int
	replenish  time.Duration
}

func parseArgs(args []string, errOut io.Writer) (*options, error) {
	ret := &options{}
	flags := flag.NewFlagSet("brigade", flag.ContinueOnError)
	flags.SetOutput(errOut)
	flags.StringVar(&ret.configPath, "config", "", "YAML configuration file, watched for logger.level changes")
	flags.StringVar(&ret.scriptURL, "script", "", "URL of a command script run before the console, e.g. file:///tmp/orders.txt")
	flags.StringVar(&ret.isolation, "isolation", "", "worker isolation: process or routine")
	flags.StringVar(&ret.traceFile, "trace", "", "write OpenTelemetry spans to this file")
	flags.Usage = func() {
		fmt.Fprint(errOut, usage)
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	positional := flags.Args()
	if len(positional) != 3 {
		flags.Usage()
		return nil, fmt.Errorf("expected 3 arguments, got %d", len(positional))
	}
	var err error
	if ret.multiplier, err = toolbox.ToFloat(positional[0]); err != nil || ret.multiplier <= 0 {
		flags.Usage()
		return nil, fmt.Errorf("invalid multiplier: %q", positional[0])
	}
	if ret.capacity, err = toolbox.ToInt(positional[1]); err != nil || ret.capacity <= 0 {
		flags.Usage()
		return nil, fmt.Errorf("invalid capacity: %q", positional[1])
	}
	replenishMs, err := toolbox.ToInt(positional[2])
	if err != nil || replenishMs <= 0 {
		flags.Usage()
		return nil, fmt.Errorf("invalid replenishment interval: %q", positional[2])
	}
	ret.replenish = time.Duration(replenishMs) * time.Millisecond
	return ret, nil
}

// apply overlays the command line on the loaded configuration
func (o *options) apply(config *brigade.Config) {
	config.Console.Multiplier = o.multiplier
	config.Orchestrator.Worker.Capacity = o.capacity
	config.Orchestrator.Worker.ReplenishInterval = o.replenish
	if o.isolation != "" {
		config.Isolation = o.isolation
	}
	if o.traceFile != "" {
		config.TraceFile = o.traceFile
	}
}

func run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	if len(args) > 0 && args[0] == process.Command {
		if err := process.RunWorker(ctx, args[1:]); err != nil {
			fmt.Fprintf(errOut, "worker: %v\n", err)
			return exitFailure
		}
		return 0
	}
	opts, err := parseArgs(args, errOut)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(errOut, err)
		return exitFailure
	}
	config, err := brigade.LoadConfig(opts.configPath)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return exitFailure
	}
	opts.apply(config)
	srv, err := brigade.New(brigade.WithConfig(config), brigade.WithIO(in, out))
	if err != nil {
		fmt.Fprintln(errOut, err)
		return exitFailure
	}
	if err = srv.Run(ctx, opts.scriptURL); err != nil && ctx.Err() == nil {
		fmt.Fprintln(errOut, err)
		return exitFailure
	}
	return 0
}
