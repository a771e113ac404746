package validator

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New()

	// report json names so errors line up with request bodies
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})

	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func (cv *CustomValidator) FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			field := strings.TrimPrefix(e.Namespace(), strings.SplitN(e.Namespace(), ".", 2)[0]+".")
			switch e.Tag() {
			case "required":
				errors[field] = e.Field() + " is required"
			case "phone":
				errors[field] = e.Field() + " must be a phone number of 10 to 15 digits"
			case "oneof":
				errors[field] = e.Field() + " must be one of: " + e.Param()
			case "min":
				errors[field] = e.Field() + " must be at least " + e.Param() + " characters"
			case "max":
				errors[field] = e.Field() + " must be at most " + e.Param() + " characters"
			case "gte":
				errors[field] = e.Field() + " must be greater than or equal to " + e.Param()
			case "lte":
				errors[field] = e.Field() + " must be less than or equal to " + e.Param()
			case "url":
				errors[field] = e.Field() + " must be a valid URL"
			default:
				errors[field] = e.Field() + " is invalid"
			}
		}
	}

	return errors
}
