// Package validation holds the request payload contracts for every
// entity and the validator that enforces them at the HTTP boundary,
// before any workflow or repository code runs.
package validation

import (
	"github.com/go-playground/validator/v10"
)

// Validator adapts go-playground/validator to Echo's Validator
// interface. Install it once on the Echo instance; handlers then call
// c.Validate on a bound request struct.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	return &Validator{v: validator.New()}
}

func (v *Validator) Validate(i interface{}) error {
	return v.v.Struct(i)
}
