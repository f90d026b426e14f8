package api

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// adaptFieldValidationError maps a generic validation error to a human-readable
// message, to be returned in the response.
func adaptFieldValidationError(fe validator.FieldError) string {
	switch fe.ActualTag() {
	case "required":
		return "is required"
	case "oneof":
		opts := strings.Split(fe.Param(), " ")

		return fmt.Sprintf("must be one of %s", strings.Join(opts, ", "))
	case "min":
		return fmt.Sprintf("must have at least %s items", fe.Param())
	case "gt":
		if fe.Param() == "0" {
			return "must not be empty"
		}
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "uuid":
		return "should be a UUID"
	}

	return "is invalid"
}

func adaptValidationErrors(errs validator.ValidationErrors) map[string]string {
	fields := make(map[string]string, len(errs))
	for _, fe := range errs {
		fields[fieldPath(fe)] = adaptFieldValidationError(fe)
	}
	return fields
}

// fieldPath strips the root struct name from the namespace, leaving the path
// to the offending field as the client sees it.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return fe.Field()
}
