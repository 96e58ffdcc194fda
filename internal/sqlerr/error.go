package sqlerr

import "fmt"

// Code is a coarse category for a PostgreSQL SQLSTATE.
type Code string

const (
	Other                Code = "other"
	NotNullViolation     Code = "not_null_violation"
	ForeignKeyViolation  Code = "foreign_key_violation"
	UniqueViolation      Code = "unique_violation"
	CheckViolation       Code = "check_violation"
	ExclusionViolation   Code = "exclusion_violation"
	InvalidTextValue     Code = "invalid_text_representation"
	NumericOutOfRange    Code = "numeric_value_out_of_range"
	SerializationFailure Code = "serialization_failure"
	DeadlockDetected     Code = "deadlock_detected"
	UndefinedTable       Code = "undefined_table"
	UndefinedColumn      Code = "undefined_column"
	SyntaxError          Code = "syntax_error"
)

var sqlStates = map[string]Code{
	"23502": NotNullViolation,
	"23503": ForeignKeyViolation,
	"23505": UniqueViolation,
	"23514": CheckViolation,
	"23P01": ExclusionViolation,
	"22P02": InvalidTextValue,
	"22003": NumericOutOfRange,
	"40001": SerializationFailure,
	"40P01": DeadlockDetected,
	"42P01": UndefinedTable,
	"42703": UndefinedColumn,
	"42601": SyntaxError,
}

// MapCode maps a SQLSTATE to its Code. Unknown states map to Other.
func MapCode(sqlState string) Code {
	if c, ok := sqlStates[sqlState]; ok {
		return c
	}
	return Other
}

// Severity is the PostgreSQL error severity.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityFatal   Severity = "FATAL"
	SeverityPanic   Severity = "PANIC"
	SeverityWarning Severity = "WARNING"
	SeverityNotice  Severity = "NOTICE"
	SeverityDebug   Severity = "DEBUG"
	SeverityInfo    Severity = "INFO"
	SeverityLog     Severity = "LOG"
)

// MapSeverity parses a severity, defaulting to ERROR.
func MapSeverity(s string) Severity {
	switch sev := Severity(s); sev {
	case SeverityFatal, SeverityPanic, SeverityWarning, SeverityNotice,
		SeverityDebug, SeverityInfo, SeverityLog:
		return sev
	default:
		return SeverityError
	}
}

// Error is a normalized PostgreSQL error. The driver error stays reachable
// through Unwrap.
type Error struct {
	Code           Code
	Severity       Severity
	DatabaseCode   string
	Message        string
	SchemaName     string
	TableName      string
	ColumnName     string
	DataTypeName   string
	ConstraintName string
	driverErr      error
}

func (e *Error) Error() string {
	if e.TableName != "" {
		return fmt.Sprintf("%s %s on %s: %s", e.Severity, e.DatabaseCode, e.TableName, e.Message)
	}
	return fmt.Sprintf("%s %s: %s", e.Severity, e.DatabaseCode, e.Message)
}

func (e *Error) Unwrap() error {
	return e.driverErr
}
