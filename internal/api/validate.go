package api

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ErrValidationFailed is returned (wrapped) when a request fails its struct tags.
var ErrValidationFailed = errors.New("validation failed")

var (
	validate     *validator.Validate
	validateOnce sync.Once
	errValidate  error
)

func newValidator() (*validator.Validate, error) {
	vld := validator.New(validator.WithRequiredStructEnabled())

	// decimal.Decimal fields are checked directly; a custom type func returning
	// the same type would loop forever.
	if err := vld.RegisterValidation("positive_decimal", func(fl validator.FieldLevel) bool {
		d, ok := fl.Field().Interface().(decimal.Decimal)
		return ok && d.IsPositive()
	}); err != nil {
		return nil, fmt.Errorf("register positive_decimal: %w", err)
	}
	return vld, nil
}

// validateRequest checks req against its validate tags and reports the first
// failing field.
func validateRequest(req any) error {
	validateOnce.Do(func() {
		validate, errValidate = newValidator()
	})
	if errValidate != nil {
		return errValidate
	}

	if err := validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			if fe.Param() != "" {
				return fmt.Errorf("%w: %s failed %s=%s", ErrValidationFailed, fe.Namespace(), fe.Tag(), fe.Param())
			}
			return fmt.Errorf("%w: %s failed %s", ErrValidationFailed, fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}
	return nil
}
