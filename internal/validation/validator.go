// Package validation wraps go-playground/validator with the catalog's custom
// tags registered.
package validation

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/dharsanguruparan/Pokedex/internal/model"
)

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New()

	// element: the string names one of the fixed element types, any case.
	_ = v.RegisterValidation("element", func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		return model.IsElementType(value)
	})

	return &Validator{v: v}
}

func (v *Validator) Struct(s interface{}) error {
	return v.v.Struct(s)
}

// ValidationErrors unwraps err into field errors, or nil when err is not a
// validation failure.
func (v *Validator) ValidationErrors(err error) validator.ValidationErrors {
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}

// Details flattens field errors into field -> failing tag.
func Details(errs validator.ValidationErrors) map[string]string {
	if len(errs) == 0 {
		return nil
	}
	details := make(map[string]string, len(errs))
	for _, err := range errs {
		details[err.Field()] = err.Tag()
	}
	return details
}
