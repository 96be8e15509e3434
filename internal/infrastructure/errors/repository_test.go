package errors

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/mattn/go-sqlite3"
)

func TestClassifyError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"nil", nil, ErrCodeUnknown},
		{"no rows", sql.ErrNoRows, ErrCodeNotFound},
		{"deadline", context.DeadlineExceeded, ErrCodeTimeout},
		{"canceled", context.Canceled, ErrCodeTimeout},
		{"unique by message", errors.New("UNIQUE constraint failed: favorites.target_path"), ErrCodeDuplicate},
		{"fk by message", errors.New("FOREIGN KEY constraint failed"), ErrCodeConstraint},
		{"locked by message", errors.New("database is locked"), ErrCodeConnection},
		{"malformed", errors.New("database disk image is malformed"), ErrCodeCorruption},
		{"permission", errors.New("permission denied"), ErrCodePermission},
		{"disk full", errors.New("no space left on device"), ErrCodeDiskSpace},
		{"timeout text", errors.New("query timeout exceeded"), ErrCodeTimeout},
		{"deadlock", errors.New("deadlock detected"), ErrCodeTransaction},
		{"unknown", errors.New("something odd"), ErrCodeUnknown},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := ClassifyError(tc.err); got != tc.want {
				t.Errorf("ClassifyError(%v) = %s, want %s", tc.err, got, tc.want)
			}
		})
	}
}

func TestClassifySQLiteDriverErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{
			"unique constraint",
			sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique},
			ErrCodeDuplicate,
		},
		{
			"foreign key constraint",
			sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintForeignKey},
			ErrCodeConstraint,
		},
		{
			"busy",
			sqlite3.Error{Code: sqlite3.ErrBusy},
			ErrCodeBusy,
		},
		{
			"locked",
			sqlite3.Error{Code: sqlite3.ErrLocked},
			ErrCodeBusy,
		},
		{
			"corrupt",
			sqlite3.Error{Code: sqlite3.ErrCorrupt},
			ErrCodeCorruption,
		},
		{
			"full",
			sqlite3.Error{Code: sqlite3.ErrFull},
			ErrCodeDiskSpace,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := ClassifyError(tc.err); got != tc.want {
				t.Errorf("ClassifyError = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestWrapDatabaseError(t *testing.T) {
	t.Parallel()

	if WrapDatabaseError("op", nil) != nil {
		t.Error("Wrapping nil must return nil")
	}

	err := WrapDatabaseError("GetRecentLaunches", sql.ErrNoRows)
	if !IsNotFound(err) {
		t.Errorf("Expected not-found classification, got %v", err)
	}

	withCtx := WrapDatabaseErrorWithContext("SaveLaunch", errors.New("database is locked"), map[string]string{
		"target_path": "/bin/x",
	})
	var repoErr *RepositoryError
	if !errors.As(withCtx, &repoErr) {
		t.Fatal("Expected a RepositoryError")
	}
	if repoErr.Context["target_path"] != "/bin/x" {
		t.Errorf("Context not attached: %v", repoErr.Context)
	}
}
