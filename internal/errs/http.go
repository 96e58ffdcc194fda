package errs

import (
	"net/http"
)

func statusCode(status int) string {
	return MakeUpperCaseWithUnderscores(http.StatusText(status))
}

// NewUnauthorizedError returns a 401.
func NewUnauthorizedError(message string, override bool) *HTTPError {
	return &HTTPError{
		Code:     statusCode(http.StatusUnauthorized),
		Message:  message,
		Status:   http.StatusUnauthorized,
		Override: override,
	}
}

// NewForbiddenError returns a 403.
func NewForbiddenError(message string, override bool) *HTTPError {
	return &HTTPError{
		Code:     statusCode(http.StatusForbidden),
		Message:  message,
		Status:   http.StatusForbidden,
		Override: override,
	}
}

// NewBadRequestError builds a 400. A nil code defaults to BAD_REQUEST.
func NewBadRequestError(message string, override bool, code *string, errors []FieldError, action *Action) *HTTPError {
	formattedCode := statusCode(http.StatusBadRequest)
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusBadRequest,
		Override: override,
		Errors:   errors,
		Action:   action,
	}
}

// NewNotFoundError returns a 404. code defaults to NOT_FOUND.
func NewNotFoundError(message string, override bool, code *string) *HTTPError {
	formattedCode := statusCode(http.StatusNotFound)
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusNotFound,
		Override: override,
	}
}

// NewConflictError returns a 409 that names the conflicting field.
func NewConflictError(message string, field string) *HTTPError {
	var fieldErrors []FieldError
	if field != "" {
		fieldErrors = []FieldError{{Field: field, Error: message}}
	}
	return &HTTPError{
		Code:     statusCode(http.StatusConflict),
		Message:  message,
		Status:   http.StatusConflict,
		Override: true,
		Errors:   fieldErrors,
	}
}

// NewInternalServerError never carries the underlying cause; log it instead.
func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Code:    statusCode(http.StatusInternalServerError),
		Message: http.StatusText(http.StatusInternalServerError),
		Status:  http.StatusInternalServerError,
	}
}

// ValidationError wraps err as a 400 with the generic validation message.
func ValidationError(err error) *HTTPError {
	return NewBadRequestError("Validation failed: "+err.Error(), false, nil, nil, nil)
}
