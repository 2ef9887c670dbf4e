package utils

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
	slugPattern     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

var registerOnce sync.Once

// RegisterValidators adds the project rules to v and makes it report json field names.
func RegisterValidators(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
}

// RegisterValidatorsOnce is RegisterValidators for a shared engine such as gin's.
func RegisterValidatorsOnce(v *validator.Validate) {
	registerOnce.Do(func() { RegisterValidators(v) })
}

// NewValidator returns a standalone validator with the project rules.
func NewValidator() *validator.Validate {
	v := validator.New()
	RegisterValidators(v)
	return v
}

// ValidationMessages flattens validator errors into field -> messages.
// Errors of any other kind yield an empty map.
func ValidationMessages(err error) map[string][]string {
	out := map[string][]string{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return out
	}
	for _, fe := range verrs {
		out[fe.Field()] = append(out[fe.Field()], messageFor(fe))
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "max":
		return "Ensure this field has no more than " + fe.Param() + " characters."
	case "username":
		return "Enter a valid username. Letters, digits and @/./+/-/_ only."
	case "slug":
		return "Enter a valid slug of letters, numbers, underscores or hyphens."
	case "hexcolor":
		return "Enter a valid hex color such as #E26C2D."
	default:
		return "Invalid value."
	}
}
