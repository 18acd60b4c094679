package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/campmarket/campmarket-api/internal/perm"
)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidations()
}

func registerCustomValidations() {
	// Role validation against the closed role set
	validate.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return perm.IsValidRole(fl.Field().String())
	})

	// Capability validation against the closed capability set
	validate.RegisterValidation("capability", func(fl validator.FieldLevel) bool {
		return perm.IsValidCapability(fl.Field().String())
	})

	// Clock time in HH:MM form, used by trading-hours configuration
	validate.RegisterValidation("clocktime", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if len(s) != 5 || s[2] != ':' {
			return false
		}
		h := (int(s[0]-'0') * 10) + int(s[1]-'0')
		m := (int(s[3]-'0') * 10) + int(s[4]-'0')
		for _, c := range []byte{s[0], s[1], s[3], s[4]} {
			if c < '0' || c > '9' {
				return false
			}
		}
		return h >= 0 && h < 24 && m >= 0 && m < 60
	})
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	for _, err := range err.(validator.ValidationErrors) {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "min":
			errors[field] = "Value is too short (min: " + err.Param() + ")"
		case "max":
			errors[field] = "Value is too long (max: " + err.Param() + ")"
		case "gt":
			errors[field] = "Value must be greater than " + err.Param()
		case "gte":
			errors[field] = "Value must be at least " + err.Param()
		case "lte":
			errors[field] = "Value must be at most " + err.Param()
		case "role":
			errors[field] = "Invalid role. Must be: participant, point_manager, announcer, or admin"
		case "capability":
			errors[field] = "Unknown capability"
		case "clocktime":
			errors[field] = "Invalid time. Use HH:MM"
		default:
			errors[field] = "Invalid value"
		}
	}

	return errors
}

// ValidateVar validates a single variable
func ValidateVar(field interface{}, tag string) error {
	return validate.Var(field, tag)
}
