package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/deppfellow/petclinic/internal/errs"
	"github.com/deppfellow/petclinic/internal/lib/query"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var uniqueKeyPattern = regexp.MustCompile(`_([^_]+)_(?:key|ukey)$`)

// ErrCode reports the Code of the first *Error in err's chain, or Other.
func ErrCode(err error) Code {
	var pgerr *Error
	if errors.As(err, &pgerr) {
		return pgerr.Code
	}
	return Other
}

// ConvertPgError copies the fields of a driver error into an *Error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// generateErrorCode builds a machine readable code such as PET_ALREADY_EXISTS.
func generateErrorCode(tableName string, errType Code) string {
	domain := "RECORD"
	if tableName != "" {
		domain = strings.ToUpper(strings.ReplaceAll(singular(tableName), " ", "_"))
	}

	action := "ERROR"
	switch errType {
	case ForeignKeyViolation:
		action = "NOT_FOUND"
	case UniqueViolation:
		action = "ALREADY_EXISTS"
	case NotNullViolation:
		action = "REQUIRED"
	case CheckViolation:
		action = "INVALID"
	}

	return fmt.Sprintf("%s_%s", domain, action)
}

func formatUserFriendlyMessage(sqlErr *Error) string {
	entityName := getEntityName(sqlErr.TableName, sqlErr.ColumnName)

	switch sqlErr.Code {
	case ForeignKeyViolation:
		return fmt.Sprintf("The referenced %s does not exist", entityName)
	case UniqueViolation:
		return fmt.Sprintf("A %s with this identifier already exists", entityName)
	case NotNullViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName == "" {
			fieldName = "field"
		}
		return fmt.Sprintf("The %s is required", fieldName)
	case CheckViolation:
		if fieldName := humanizeText(sqlErr.ColumnName); fieldName != "" {
			return fmt.Sprintf("The %s value does not meet required conditions", fieldName)
		}
		return "One or more values do not meet required conditions"
	default:
		return "An error occurred while processing your request"
	}
}

// getEntityName prefers a foreign key column ("type_id" gives "Type") and
// falls back to the singular table name.
func getEntityName(tableName, columnName string) string {
	if columnName != "" && strings.HasSuffix(strings.ToLower(columnName), "_id") {
		return humanizeText(strings.TrimSuffix(strings.ToLower(columnName), "_id"))
	}
	if tableName != "" {
		return humanizeText(singular(tableName))
	}
	return "record"
}

func singular(table string) string {
	table = strings.ToLower(table)
	switch {
	case strings.HasSuffix(table, "ies") && len(table) > 3:
		return strings.TrimSuffix(table, "ies") + "y"
	case strings.HasSuffix(table, "s") && len(table) > 1:
		return strings.TrimSuffix(table, "s")
	}
	return table
}

func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

// extractColumnForUniqueViolation reads the column out of constraint names
// shaped like unique_<table>_<column> or <table>_<column>_key.
func extractColumnForUniqueViolation(constraintName string) string {
	if constraintName == "" {
		return ""
	}

	if strings.HasPrefix(constraintName, "unique_") {
		parts := strings.Split(constraintName, "_")
		if len(parts) >= 3 {
			return parts[len(parts)-1]
		}
	}

	if matches := uniqueKeyPattern.FindStringSubmatch(constraintName); len(matches) > 1 {
		return matches[1]
	}

	return ""
}

// notFoundEntity extracts the table from errors wrapped as "table:<name>: ...".
func notFoundEntity(err error) (string, bool) {
	const tablePrefix = "table:"
	_, rest, ok := strings.Cut(err.Error(), tablePrefix)
	if !ok {
		return "", false
	}
	table, _, _ := strings.Cut(rest, ":")
	if table == "" {
		return "", false
	}
	return getEntityName(table, ""), true
}

// HandleError converts a store error into an *errs.HTTPError. HTTP errors
// pass through unchanged.
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	// A malformed query description is a programming error, not bad input.
	if query.IsQueryError(err) {
		return errs.NewInternalServerError()
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		sqlErr := ConvertPgError(pgerr)
		errorCode := generateErrorCode(sqlErr.TableName, sqlErr.Code)
		userMessage := formatUserFriendlyMessage(sqlErr)

		switch sqlErr.Code {
		case ForeignKeyViolation:
			return errs.NewBadRequestError(userMessage, false, &errorCode, nil, nil)

		case UniqueViolation:
			if columnName := extractColumnForUniqueViolation(sqlErr.ConstraintName); columnName != "" {
				userMessage = strings.ReplaceAll(userMessage, "identifier", humanizeText(columnName))
			}
			return errs.NewBadRequestError(userMessage, true, &errorCode, nil, nil)

		case NotNullViolation:
			fieldErrors := []errs.FieldError{{
				Field: strings.ToLower(sqlErr.ColumnName),
				Error: "is required",
			}}
			return errs.NewBadRequestError(userMessage, true, &errorCode, fieldErrors, nil)

		case CheckViolation:
			return errs.NewBadRequestError(userMessage, true, &errorCode, nil, nil)

		default:
			return errs.NewInternalServerError()
		}
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		if entity, ok := notFoundEntity(err); ok {
			return errs.NewNotFoundError(fmt.Sprintf("%s not found", entity), true, nil)
		}
		return errs.NewNotFoundError("Resource not found", false, nil)
	}

	return errs.NewInternalServerError()
}
