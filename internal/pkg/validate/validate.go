package validate

import (
	"github.com/go-playground/validator/v10"
)

// Validator wraps a shared validator instance for request structs.
type Validator struct {
	v *validator.Validate
}

// New creates a Validator.
func New() *Validator {
	return &Validator{v: validator.New()}
}

// Struct validates a struct against its `validate` tags.
func (v *Validator) Struct(i interface{}) error {
	return v.v.Struct(i)
}

var defaultValidator = New()

// Struct validates with the package-level validator.
func Struct(i interface{}) error {
	return defaultValidator.Struct(i)
}
