package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/deppfellow/petclinic/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Validatable is implemented by every request struct.
type Validatable interface {
	Validate() error
}

// CustomValidationError is a field error raised by a Validate method
// rather than by a struct tag.
type CustomValidationError struct {
	Field   string
	Message string
}

type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return "Validation failed"
}

var validate = newValidator()

// newValidator reports fields by the name the client used for them.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query", "param"} {
			name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	return v
}

// Struct runs the struct-tag rules on v.
func Struct(v any) error {
	return validate.Struct(v)
}

// BindAndValidate binds the request into payload and validates it. Both
// failures come back as a 400 *errs.HTTPError.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Bind(payload); err != nil {
		return errs.NewBadRequestError(bindMessage(err), false, nil, nil, nil)
	}

	if msg, fieldErrors := validateStruct(payload); fieldErrors != nil {
		return errs.NewBadRequestError(msg, true, nil, fieldErrors, nil)
	}

	return nil
}

func bindMessage(err error) string {
	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		if msg, ok := echoErr.Message.(string); ok && msg != "" {
			return msg
		}
	}
	return "Invalid request payload"
}

func validateStruct(v Validatable) (string, []errs.FieldError) {
	if err := v.Validate(); err != nil {
		return extractValidationError(err)
	}
	return "", nil
}

func extractValidationError(err error) (string, []errs.FieldError) {
	var fieldErrors []errs.FieldError

	var custom CustomValidationErrors
	if errors.As(err, &custom) {
		for _, e := range custom {
			fieldErrors = append(fieldErrors, errs.FieldError{Field: e.Field, Error: e.Message})
		}
		return "Validation failed", fieldErrors
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return "Validation failed", []errs.FieldError{{Field: "request", Error: err.Error()}}
	}

	for _, e := range validationErrors {
		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: e.Field(),
			Error: fieldMessage(e),
		})
	}

	return "Validation failed", fieldErrors
}

func fieldMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "min", "gte":
		if err.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", err.Param())
		}
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max", "lte":
		if err.Kind() == reflect.String {
			return fmt.Sprintf("must not exceed %s characters", err.Param())
		}
		return fmt.Sprintf("must not exceed %s", err.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", err.Param())
	case "email":
		return "must be a valid email address"
	case "numeric":
		return "must contain digits only"
	case "datetime":
		return fmt.Sprintf("must be a date formatted as %s", err.Param())
	case "uuid":
		return "must be a valid UUID"
	case "dive":
		return "some items are invalid"
	}

	if err.Param() != "" {
		return fmt.Sprintf("%s: %s:%s", err.Field(), err.Tag(), err.Param())
	}
	return fmt.Sprintf("%s: %s", err.Field(), err.Tag())
}

// IsValidUUID reports whether s is a canonical 36 character UUID.
func IsValidUUID(s string) bool {
	return uuid.Validate(s) == nil && len(s) == 36
}
