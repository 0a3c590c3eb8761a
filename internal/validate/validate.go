// Package validate maps untrusted input structs onto apperr validation errors
// using go-playground/validator tags.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"playlist-hub/internal/apperr"
)

// MaxNameLen bounds owner, playlist and reviewer names.
const MaxNameLen = 200

var safeString = regexp.MustCompile(`^[a-zA-Z0-9\-_\s]+$`)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	if err := validate.RegisterValidation("safestring", func(fl validator.FieldLevel) bool {
		return safeString.MatchString(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("validate: register safestring: %v", err))
	}
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
}

// Struct validates v and returns the first failing field as a validation error.
func Struct(v any) error {
	return translate("", validate.Struct(v))
}

// Name checks an identity or playlist name taken from a path segment.
func Name(field, value string) error {
	return translate(field, validate.Var(value, fmt.Sprintf("required,max=%d,safestring", MaxNameLen)))
}

func translate(field string, err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperr.Validation("invalid input: %v", err)
	}
	fe := verrs[0]
	if field == "" {
		field = fe.Field()
		if ns := fe.Namespace(); strings.Contains(ns, ".") {
			field = ns[strings.Index(ns, ".")+1:]
		}
	}
	return apperr.Validation("%s %s", field, describe(fe))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must have at most %s entries", fe.Param())
		}
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must have at least %s entries", fe.Param())
		}
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "safestring":
		return "may only contain letters, digits, spaces, hyphens and underscores"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "excludesall":
		return fmt.Sprintf("must not contain any of %q", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
