package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/retail-api/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Los mensajes usan el nombre JSON del campo, no el de Go.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate aplica las etiquetas validate del struct. Devuelve *domain.ValidationError o nil.
func Validate(in interface{}) error {
	verr := &domain.ValidationError{}
	ValidateInto(verr, "", in)
	if verr.HasErrors() {
		return verr
	}
	return nil
}

// ValidateInto acumula en verr los errores de in, anteponiendo prefix a cada campo (lotes: "[2].").
func ValidateInto(verr *domain.ValidationError, prefix string, in interface{}) {
	err := validate.Struct(in)
	if err == nil {
		return
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		verr.Add(prefix+"non_field_errors", err.Error())
		return
	}
	for _, fe := range fieldErrs {
		verr.Add(prefix+fieldPath(fe), fieldMessage(fe))
	}
}

// fieldPath quita el nombre del struct raíz: "CreateCategoryRequest.characteristics[0].name" -> "characteristics[0].name".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
		case reflect.Slice, reflect.Array, reflect.Map:
			return fmt.Sprintf("Ensure this field has at least %s elements.", fe.Param())
		default:
			return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
		}
	case "max":
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
		case reflect.Slice, reflect.Array, reflect.Map:
			return fmt.Sprintf("Ensure this field has no more than %s elements.", fe.Param())
		default:
			return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
		}
	case "oneof":
		return fmt.Sprintf("Must be one of: %s.", fe.Param())
	}
	return "Invalid value."
}
