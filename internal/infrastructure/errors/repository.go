package errors

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// ClassifyError classifies database errors into repository error codes.
func ClassifyError(err error) ErrorCode {
	if err == nil {
		return ErrCodeUnknown
	}

	// Driver-specific type assertions give the most accurate classification.
	if code := classifySQLiteError(err); code != ErrCodeUnknown {
		return code
	}

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return ErrCodeNotFound
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return ErrCodeTimeout
	}

	// Fall back to message sniffing for errors that lost their type.
	s := strings.ToLower(err.Error())
	switch {
	case strings.Contains(s, "unique constraint"):
		return ErrCodeDuplicate
	case strings.Contains(s, "foreign key constraint"),
		strings.Contains(s, "check constraint"),
		strings.Contains(s, "not null constraint"):
		return ErrCodeConstraint
	case strings.Contains(s, "database is locked"),
		strings.Contains(s, "no such table"),
		strings.Contains(s, "no such column"),
		strings.Contains(s, "connection refused"):
		return ErrCodeConnection
	case strings.Contains(s, "database disk image is malformed"):
		return ErrCodeCorruption
	case strings.Contains(s, "permission denied"), strings.Contains(s, "access denied"):
		return ErrCodePermission
	case strings.Contains(s, "disk full"), strings.Contains(s, "no space left"):
		return ErrCodeDiskSpace
	case strings.Contains(s, "timeout"):
		return ErrCodeTimeout
	case strings.Contains(s, "deadlock"), strings.Contains(s, "serialization failure"):
		return ErrCodeTransaction
	default:
		return ErrCodeUnknown
	}
}

// WrapDatabaseError wraps a database error with repository error context.
func WrapDatabaseError(op string, err error) error {
	if err == nil {
		return nil
	}
	return NewRepositoryError(op, err, ClassifyError(err))
}

// WrapDatabaseErrorWithContext wraps a database error and attaches context.
func WrapDatabaseErrorWithContext(op string, err error, contextMap map[string]string) error {
	if err == nil {
		return nil
	}
	return NewRepositoryErrorWithContext(op, err, ClassifyError(err), contextMap)
}

// HandleNotFound creates a standardized not found error.
func HandleNotFound(op string, resource string, identifier string) error {
	return NewRepositoryErrorWithContext(op, sql.ErrNoRows, ErrCodeNotFound, map[string]string{
		"resource":   resource,
		"identifier": identifier,
	})
}

// HandleValidationError creates a standardized validation error.
func HandleValidationError(op string, field string, value string, reason string) error {
	return NewRepositoryErrorWithContext(op, errors.New("validation failed"), ErrCodeValidation, map[string]string{
		"field":  field,
		"value":  value,
		"reason": reason,
	})
}

// HandleConnectionError creates a standardized connection error.
func HandleConnectionError(op string, details string) error {
	return NewRepositoryErrorWithContext(op, errors.New("connection error"), ErrCodeConnection, map[string]string{
		"details": details,
	})
}

// HandleTimeoutError creates a standardized timeout error.
func HandleTimeoutError(op string, timeout string) error {
	return NewRepositoryErrorWithContext(op, context.DeadlineExceeded, ErrCodeTimeout, map[string]string{
		"timeout": timeout,
	})
}
