package subscription

import "errors"

var (
	ErrInvalidFormData = errors.New("invalid subscription form data")
	ErrUnknownCadence  = errors.New("unknown subscription cadence")
)
