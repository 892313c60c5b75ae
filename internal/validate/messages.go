package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// translate maps validator failures onto messages of the form
// `"customer.email" must be a valid email`, one per failing field.
func translate(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &Errors{Details: []string{err.Error()}}
	}
	details := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, message(fe))
	}
	return &Errors{Details: details}
}

func message(fe validator.FieldError) string {
	field := fieldPath(fe.Namespace())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q is required", field)
	case "email":
		return fmt.Sprintf("%q must be a valid email", field)
	case "jsonstr":
		return fmt.Sprintf("%q must be a string", field)
	case "jsonnum":
		return fmt.Sprintf("%q must be a number", field)
	case "min":
		switch fe.Kind() {
		case reflect.Slice:
			return fmt.Sprintf("%q must contain at least %s items", field, fe.Param())
		case reflect.String:
			return fmt.Sprintf("%q is not allowed to be empty", field)
		}
	case "gte":
		return fmt.Sprintf("%q must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%q must be less than or equal to %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%q must contain at most %s items", field, fe.Param())
	}
	return fmt.Sprintf("%q is invalid", field)
}

// fieldPath drops the root struct name: "rawInvoice.items[0].qty"
// becomes "items[0].qty".
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

func typeMessage(err *json.UnmarshalTypeError) string {
	field := err.Field
	if field == "" {
		field = "value"
	}
	return fmt.Sprintf("%q must be %s", field, expectedType(err.Type))
}

func expectedType(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "a string"
	case reflect.Float32, reflect.Float64, reflect.Int, reflect.Int64:
		return "a number"
	case reflect.Slice:
		return "an array"
	case reflect.Struct:
		return "of type object"
	default:
		return "of type " + t.Kind().String()
	}
}
