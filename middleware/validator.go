package middleware

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct runs validator tags on a bound request struct.
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}
