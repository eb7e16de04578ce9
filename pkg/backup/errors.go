package backup

import (
	"errors"
	"fmt"
)

// Messages carried by *ValidationError. They are meant to be shown to users.
const (
	MsgParseFailed   = "Failed to parse JSON file"
	MsgInvalidFormat = "Invalid file format"
	MsgReadFailed    = "Failed to read file"
)

var (
	ErrInvalidName             = errors.New("invalid backup name")
	ErrBackupNotFound          = errors.New("backup not found")
	ErrInvalidConfig           = errors.New("invalid backup target configuration")
	ErrFailedToLoadConfig      = errors.New("failed to load AWS config")
	ErrFailedToCreateDirectory = errors.New("failed to create directory")
	ErrFailedToGetAbsolutePath = errors.New("failed to get absolute path")
	ErrFailedToWrite           = errors.New("failed to write backup")
	ErrFailedToRead            = errors.New("failed to read backup")

	ErrBucketNotFound     = errors.New("bucket not found")
	ErrAccessDenied       = errors.New("access denied")
	ErrServiceUnavailable = errors.New("service temporarily unavailable")
	ErrOperationTimeout   = errors.New("operation timed out")
	ErrOperationCanceled  = errors.New("operation canceled")
)

// ValidationError reports why an import was rejected.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidationError reports whether err is or wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
