// Package tracing wraps OpenTelemetry so that brigade components can open
// spans around order submission, worker spawning and status polling without
// importing the upstream packages directly.  Until Init is called the global
// no-op provider is used and every span is free.
package tracing
