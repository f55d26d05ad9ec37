package httpserver

import (
	"reflect"
	"strings"

	"moviecatalog/errs"

	"github.com/go-playground/validator/v10"
)

type CustomValidator struct {
	validate *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New()
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
	return &CustomValidator{validate: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validate.Struct(i); err != nil {
		return toValidationError(err)
	}
	return nil
}

func toValidationError(err error) error {
	ferrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errs.Errorf(errs.EINVALID, "validation error")
	}

	verr := &errs.ValidationError{}
	for _, fe := range ferrs {
		field := fe.Field()
		if field == "" {
			field = fe.StructField()
		}
		verr.Add(field, fieldMessage(fe))
	}
	return verr
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "min":
		return "This field must have at least " + fe.Param() + " items."
	case "max":
		return "This field must have at most " + fe.Param() + " items."
	default:
		return "This field failed on the " + fe.Tag() + " rule."
	}
}
