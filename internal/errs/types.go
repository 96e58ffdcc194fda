package errs

import "strings"

// FieldError describes why one request field was rejected.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ActionType tells the client what to do about an error.
type ActionType string

const (
	ActionTypeRedirect ActionType = "redirect"
)

// Action is an optional hint telling the client what to do next.
type Action struct {
	Type    ActionType `json:"type"`
	Message string     `json:"message"`
	Value   string     `json:"value"`
}

// HTTPError is serialized as the body of every failed request. Override
// marks messages that are safe to show to end users as is.
type HTTPError struct {
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Status   int          `json:"status"`
	Override bool         `json:"override"`
	Errors   []FieldError `json:"errors"`
	Action   *Action      `json:"action"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Is matches any *HTTPError regardless of its fields.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}

// WithMessage returns a copy of e carrying message.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	clone := *e
	clone.Message = message
	return &clone
}

// MakeUpperCaseWithUnderscores turns "Bad Request" into "BAD_REQUEST".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
