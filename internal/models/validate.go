package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report fields by their wire name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	err := v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	if err != nil {
		panic(fmt.Sprintf("models: registering notblank: %v", err))
	}
	return v
}

var fieldMessages = map[Field]string{
	FieldTitle: "Title is required",
}

// ValidateForm checks f and returns field-keyed error messages, empty when
// the form may be submitted. Only a blank title is rejected.
func ValidateForm(f FormState) map[Field]string {
	errs := map[Field]string{}
	err := validate.Struct(f)
	if err == nil {
		return errs
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs[FieldTitle] = err.Error()
		return errs
	}
	for _, fe := range verrs {
		field := Field(fe.Field())
		if msg, ok := fieldMessages[field]; ok {
			errs[field] = msg
		} else {
			errs[field] = fmt.Sprintf("%s is invalid", fe.Field())
		}
	}
	return errs
}
