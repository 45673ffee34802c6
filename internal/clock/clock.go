package clock

import "time"

// NowFunc returns current time. Override in tests for determinism.
var NowFunc = time.Now

// Now is a thin wrapper around NowFunc.
func Now() time.Time { return NowFunc() }

// Since returns the time elapsed since t according to NowFunc.
func Since(t time.Time) time.Duration { return NowFunc().Sub(t) }

// Stamp returns the current time as unix nanoseconds, suitable for atomic storage.
func Stamp() int64 { return NowFunc().UnixNano() }

// SinceStamp returns the time elapsed since a Stamp value.
func SinceStamp(stamp int64) time.Duration { return Since(time.Unix(0, stamp)) }
