package subscription

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator instance with the subscription-specific
// rules registered: "cadence" (value is a known Cadence) and "notblank"
// (string is not empty after trimming).
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		_ = v.RegisterValidation("cadence", func(fl validator.FieldLevel) bool {
			return Cadence(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		validate = v
	})
	return validate
}

// Validate checks the minimum the tracker needs to render a record:
// a non-blank service name and a known cadence.
// Contact fields and date ordering are not checked.
func (f FormData) Validate() error {
	if err := Validator().Struct(f); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormData, err)
	}
	return nil
}
