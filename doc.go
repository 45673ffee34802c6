// Package brigade runs a pool of isolated workers that prepare orders.
//
// An orchestrator accepts tasks, picks the least loaded worker able to take
// one and spawns a new worker when every existing one is saturated.  Workers
// run as child processes (or goroutines) and talk to the orchestrator over a
// length-framed text protocol.  Each worker executes a bounded number of
// tasks concurrently against its own replenishing stock of resources.
//
// The root package wires the pieces together:
//
//	config, _ := brigade.LoadConfig("brigade.yaml")
//	srv, _ := brigade.New(brigade.WithConfig(config))
//	err := srv.Run(ctx, "")
//
// See the service/orchestrator and service/worker packages for details.
package brigade
