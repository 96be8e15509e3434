package errors

import (
	"errors"
	"fmt"
)

// LaunchErrorCode classifies failures of the path launcher command.
type LaunchErrorCode int

const (
	LaunchErrUnknown LaunchErrorCode = iota
	LaunchErrNotFound
	LaunchErrValidation
	LaunchErrPermission
	LaunchErrSpawnFailed
)

func (c LaunchErrorCode) String() string {
	switch c {
	case LaunchErrNotFound:
		return "NOT_FOUND"
	case LaunchErrValidation:
		return "VALIDATION"
	case LaunchErrPermission:
		return "PERMISSION"
	case LaunchErrSpawnFailed:
		return "SPAWN_FAILED"
	default:
		return "UNKNOWN"
	}
}

// LaunchError is returned by the launch commands. Error() is the message the
// frontend shows verbatim, so it stays short and free of Go error chains.
type LaunchError struct {
	Code    LaunchErrorCode
	Target  string
	Message string
	Err     error
}

func (e *LaunchError) Error() string {
	if e == nil {
		return "launch error"
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "launch error"
}

func (e *LaunchError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewLaunchNotFound reports a target path that does not exist. The message
// matches the original shell's wording.
func NewLaunchNotFound(target string) *LaunchError {
	return &LaunchError{
		Code:    LaunchErrNotFound,
		Target:  target,
		Message: "File not found.",
	}
}

// NewLaunchValidation reports an invalid launch request.
func NewLaunchValidation(target string, reason string) *LaunchError {
	return &LaunchError{
		Code:    LaunchErrValidation,
		Target:  target,
		Message: reason,
	}
}

// NewLaunchSpawnFailed reports that the OS refused to start the target.
func NewLaunchSpawnFailed(target string, err error) *LaunchError {
	return &LaunchError{
		Code:    LaunchErrSpawnFailed,
		Target:  target,
		Message: fmt.Sprintf("Failed to launch: %v", err),
		Err:     err,
	}
}

// NewLaunchPermission reports a target the process may not execute.
func NewLaunchPermission(target string, err error) *LaunchError {
	return &LaunchError{
		Code:    LaunchErrPermission,
		Target:  target,
		Message: "Permission denied.",
		Err:     err,
	}
}

func hasLaunchCode(err error, code LaunchErrorCode) bool {
	var le *LaunchError
	if errors.As(err, &le) {
		return le.Code == code
	}
	return false
}

// IsLaunchNotFound checks for the not-found launch error.
func IsLaunchNotFound(err error) bool { return hasLaunchCode(err, LaunchErrNotFound) }

// IsLaunchValidation checks for the validation launch error.
func IsLaunchValidation(err error) bool { return hasLaunchCode(err, LaunchErrValidation) }

// IsLaunchSpawnFailed checks for the spawn-failed launch error.
func IsLaunchSpawnFailed(err error) bool { return hasLaunchCode(err, LaunchErrSpawnFailed) }

// IsLaunchPermission checks for the permission launch error.
func IsLaunchPermission(err error) bool { return hasLaunchCode(err, LaunchErrPermission) }
