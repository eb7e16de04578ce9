package config

import "errors"

var (
	ErrLoadingEnvFile = errors.New("failed to load env file")
	ErrParsingConfig  = errors.New("failed to parse environment variables into config")
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrNilPointer     = errors.New("nil pointer provided to config loader")
)
