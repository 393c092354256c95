package shard

import "errors"

var (
	// ErrStoreClosed is returned by store operations after Close
	ErrStoreClosed = errors.New("shard store closed")
	// ErrDocNotFound is returned by Get for an unknown document id
	ErrDocNotFound = errors.New("document not found")
	// ErrAlreadyOpen is returned when opening a shard twice
	ErrAlreadyOpen = errors.New("shard already open")
	// ErrNotOpen is returned when closing a shard that is not open
	ErrNotOpen = errors.New("shard not open")
)
