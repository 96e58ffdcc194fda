package query

import (
	"errors"
	"fmt"
)

// QueryError reports a malformed query specification. It is raised before
// anything is sent to the database and is never worth retrying.
type QueryError struct {
	Op     string
	Reason string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query: %s: %s", e.Op, e.Reason)
}

func newQueryError(op, format string, args ...any) *QueryError {
	return &QueryError{Op: op, Reason: fmt.Sprintf(format, args...)}
}

// IsQueryError reports whether err (or anything it wraps) is a *QueryError.
func IsQueryError(err error) bool {
	var qe *QueryError
	return errors.As(err, &qe)
}
