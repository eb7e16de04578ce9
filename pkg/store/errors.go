package store

import "errors"

var (
	ErrPersistFailed = errors.New("store: failed to persist collection")
	ErrDuplicateID   = errors.New("store: duplicate record id")
)
