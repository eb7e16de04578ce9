package expiry

import "errors"

var ErrInvalidDate = errors.New("invalid date")
