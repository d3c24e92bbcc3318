package val

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var nocPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// IsNOC reports whether code is a National Olympic Committee code: three upper-case letters.
func IsNOC(code string) bool {
	return nocPattern.MatchString(code)
}

func registerCustomValidations(v *validator.Validate) {
	_ = v.RegisterValidation("noc", func(fl validator.FieldLevel) bool {
		return IsNOC(fl.Field().String())
	})
}
