package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

const nonFieldErrorsKey = "non_field_errors"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// Prices are compared numerically by gte/lt.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if p, ok := field.Interface().(Price); ok {
			return p.InexactFloat64()
		}
		return nil
	}, Price{})

	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("register notblank validator: %v", err))
	}

	return v
}

func validateProduct(req ProductRequest) ValidationErrors {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ValidationErrors{nonFieldErrorsKey: {err.Error()}}
	}

	errs := ValidationErrors{}
	for _, fe := range fieldErrs {
		errs[fe.Field()] = append(errs[fe.Field()], fieldErrorMessage(fe))
	}
	return errs
}

func fieldErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "notblank":
		return "This field may not be blank."
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "gte":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "lt":
		return fmt.Sprintf("Ensure this value is less than %s.", fe.Param())
	case "lte":
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	default:
		return "Invalid value."
	}
}

// decodeErrors turns a readJSON failure into the field error mapping sent to the client.
func decodeErrors(err error) ValidationErrors {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if typeErr.Field == "" {
			return ValidationErrors{nonFieldErrorsKey: {fmt.Sprintf("Invalid data. Expected an object, but got %s.", typeErr.Value)}}
		}
		return ValidationErrors{typeErr.Field: {typeErrorMessage(typeErr.Type)}}
	}

	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return ValidationErrors{nonFieldErrorsKey: {fmt.Sprintf("Request body must not be larger than %d bytes.", maxBytesErr.Limit)}}
	}

	return ValidationErrors{nonFieldErrorsKey: {"JSON parse error - " + err.Error()}}
}

func typeErrorMessage(t reflect.Type) string {
	if t == decimalType {
		return "A valid number is required."
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "A valid integer is required."
	case reflect.String:
		return "Not a valid string."
	default:
		return "Invalid value."
	}
}
