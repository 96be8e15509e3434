package testutils

import (
	"sync"
)

// TestingT is the minimal slice of testing.T these helpers need.
type TestingT interface {
	Errorf(format string, args ...any)
}

// FieldsToMap converts alternating key/value pairs to a map, reporting
// malformed entries to the test. Used to assert on structured log fields.
func FieldsToMap(t TestingT, fields []any) map[string]any {
	fieldsMap := make(map[string]any)

	for i := 0; i < len(fields); i += 2 {
		if i+1 >= len(fields) {
			t.Errorf("Malformed fields slice: missing value for key at index %d", i)
			continue
		}

		key, ok := fields[i].(string)
		if !ok {
			t.Errorf("Malformed fields slice: key at index %d is not a string, got %T", i, fields[i])
			continue
		}

		fieldsMap[key] = fields[i+1]
	}

	return fieldsMap
}

// LogEntry is one captured log call.
type LogEntry struct {
	Level   string
	Message string
	Fields  []any
}

// CapturingLogger implements logging.Logger and records every call for
// assertions. Safe for concurrent use.
type CapturingLogger struct {
	mutex   sync.Mutex
	entries []LogEntry
}

// NewCapturingLogger creates an empty capturing logger.
func NewCapturingLogger() *CapturingLogger {
	return &CapturingLogger{}
}

func (l *CapturingLogger) record(level, msg string, fields []any) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.entries = append(l.entries, LogEntry{Level: level, Message: msg, Fields: fields})
}

func (l *CapturingLogger) Debug(msg string, fields ...any) { l.record("DEBUG", msg, fields) }
func (l *CapturingLogger) Info(msg string, fields ...any)  { l.record("INFO", msg, fields) }
func (l *CapturingLogger) Warn(msg string, fields ...any)  { l.record("WARN", msg, fields) }
func (l *CapturingLogger) Error(msg string, fields ...any) { l.record("ERROR", msg, fields) }

// Entries returns a copy of everything logged so far.
func (l *CapturingLogger) Entries() []LogEntry {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	out := make([]LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// EntriesAtLevel returns the captured entries for one level.
func (l *CapturingLogger) EntriesAtLevel(level string) []LogEntry {
	var out []LogEntry
	for _, e := range l.Entries() {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}
