// Package idgen generates the opaque identifiers attached to console sessions.
package idgen

import "github.com/google/uuid"

// NewFunc returns a new identifier; tests may replace it.
var NewFunc = uuid.NewString

// New returns a new random identifier
func New() string { return NewFunc() }
