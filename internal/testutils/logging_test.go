package testutils

import (
	"testing"
)

type recordingT struct {
	errors int
}

func (r *recordingT) Errorf(format string, args ...any) { r.errors++ }

func TestFieldsToMap(t *testing.T) {
	t.Parallel()

	fields := FieldsToMap(t, []any{"target", "/bin/x", "pid", 42})
	if fields["target"] != "/bin/x" {
		t.Errorf("Expected target field, got %v", fields["target"])
	}
	if fields["pid"] != 42 {
		t.Errorf("Expected pid 42, got %v", fields["pid"])
	}
}

func TestFieldsToMapReportsMalformedSlices(t *testing.T) {
	t.Parallel()

	rec := &recordingT{}
	FieldsToMap(rec, []any{"key"})
	if rec.errors != 1 {
		t.Errorf("Expected 1 reported error for missing value, got %d", rec.errors)
	}

	rec = &recordingT{}
	FieldsToMap(rec, []any{42, "value"})
	if rec.errors != 1 {
		t.Errorf("Expected 1 reported error for non-string key, got %d", rec.errors)
	}
}

func TestCapturingLogger(t *testing.T) {
	t.Parallel()

	logger := NewCapturingLogger()
	logger.Info("Launched target", "pid", 42)
	logger.Error("Spawn failed", "error", "boom")
	logger.Debug("detail")

	entries := logger.Entries()
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}

	errorEntries := logger.EntriesAtLevel("ERROR")
	if len(errorEntries) != 1 {
		t.Fatalf("Expected 1 error entry, got %d", len(errorEntries))
	}
	if errorEntries[0].Message != "Spawn failed" {
		t.Errorf("Unexpected error message: %s", errorEntries[0].Message)
	}

	fields := FieldsToMap(t, errorEntries[0].Fields)
	if fields["error"] != "boom" {
		t.Errorf("Expected error field, got %v", fields)
	}
}
