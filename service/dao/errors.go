package dao

import "errors"

var (
	// ErrNotFound is returned by Load for an unknown key
	ErrNotFound = errors.New("dao: not found")

	// ErrNilEntity is returned by Save for a nil entity
	ErrNilEntity = errors.New("dao: nil entity")
)
