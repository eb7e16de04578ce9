package async

import "errors"

var (
	ErrTimeout = errors.New("async: timed out waiting for future")
	ErrPanic   = errors.New("async: task panicked")
)
