package service

import (
	"reflect"
	"strings"

	"github.com/alexanderramin/syllabus/internal/app"
	"github.com/alexanderramin/syllabus/internal/domain"
	"github.com/go-playground/validator/v10"
)

var fieldValidator = newFieldValidator()

// newFieldValidator reports fields under their json names.
func newFieldValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validatePlanFields checks the required free-text fields. Whitespace-only
// input counts as missing.
func validatePlanFields(f domain.PlanFields) []app.FieldError {
	trimmed := domain.PlanFields{
		Objectives: strings.TrimSpace(f.Objectives),
		Methods:    strings.TrimSpace(f.Methods),
		Resources:  strings.TrimSpace(f.Resources),
		Assessment: strings.TrimSpace(f.Assessment),
	}
	return fieldErrors(fieldValidator.Struct(trimmed))
}

func fieldErrors(err error) []app.FieldError {
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []app.FieldError{{Field: "", Message: err.Error()}}
	}
	out := make([]app.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, app.FieldError{Field: fe.Field(), Message: tagMessage(fe)})
	}
	return out
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "datetime":
		return "must be a date in " + fe.Param() + " format"
	case "min":
		return "must be at least " + fe.Param()
	default:
		return "is invalid (" + fe.Tag() + ")"
	}
}
