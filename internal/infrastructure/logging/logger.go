package logging

import (
	"encoding/json"
	"fmt"
	"log"
	"time"
)

// Logger is the structured logging interface used across the application.
// Fields are alternating key/value pairs: key1, value1, key2, value2, ...
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
}

// DefaultLogger emits one JSON object per entry through the stdlib log sink.
type DefaultLogger struct{}

// NewDefaultLogger creates a new default logger instance
func NewDefaultLogger() Logger {
	return &DefaultLogger{}
}

type entry struct {
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields"`
}

// pairsToMap folds the variadic key/value slice into a map. Non-string keys
// and a trailing unpaired value are kept under positional keys rather than
// dropped, so malformed call sites still leave a trace in the logs.
func pairsToMap(fields []interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(fields)/2)

	for i := 0; i < len(fields); i += 2 {
		if i+1 >= len(fields) {
			out[fmt.Sprintf("field_%d", i/2)] = fields[i]
			break
		}
		key, ok := fields[i].(string)
		if !ok {
			out[fmt.Sprintf("field_%d", i/2)] = fields[i]
			out[fmt.Sprintf("field_%d_value", i/2)] = fields[i+1]
			continue
		}
		out[key] = fields[i+1]
	}

	return out
}

func (l *DefaultLogger) write(level, msg string, fields []interface{}) {
	e := entry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     level,
		Message:   msg,
		Fields:    pairsToMap(fields),
	}

	data, err := json.Marshal(e)
	if err != nil {
		// Some field value is not marshalable; log what we can as text.
		data, err = json.Marshal(entry{
			Timestamp: e.Timestamp,
			Level:     level,
			Message:   msg,
			Fields: map[string]interface{}{
				"original_fields": fmt.Sprintf("%v", fields),
				"marshal_error":   err.Error(),
			},
		})
		if err != nil {
			log.Printf("[%s] %s %v", level, msg, fields)
			return
		}
	}

	log.Println(string(data))
}

func (l *DefaultLogger) Debug(msg string, fields ...interface{}) {
	l.write("DEBUG", msg, fields)
}

func (l *DefaultLogger) Info(msg string, fields ...interface{}) {
	l.write("INFO", msg, fields)
}

func (l *DefaultLogger) Warn(msg string, fields ...interface{}) {
	l.write("WARN", msg, fields)
}

func (l *DefaultLogger) Error(msg string, fields ...interface{}) {
	l.write("ERROR", msg, fields)
}

// ClassifiedError is implemented by the infrastructure error types. Declared
// here rather than imported to avoid a cycle with the errors package.
type ClassifiedError interface {
	Error() string
	GetCode() string
	IsRetryable() bool
	GetContext() map[string]string
	GetTimestamp() time.Time
}

// LogError logs an error with its classification context when available.
func LogError(logger Logger, err error, operation string, context map[string]interface{}) {
	if logger == nil {
		logger = NewDefaultLogger()
	}

	if ce, ok := err.(ClassifiedError); ok {
		fields := []interface{}{
			"operation", operation,
			"error_code", ce.GetCode(),
			"retryable", ce.IsRetryable(),
			"timestamp", ce.GetTimestamp(),
		}
		for k, v := range ce.GetContext() {
			fields = append(fields, k, v)
		}
		for k, v := range context {
			fields = append(fields, k, v)
		}
		logger.Error(fmt.Sprintf("Operation error: %s", err.Error()), fields...)
		return
	}

	fields := []interface{}{
		"operation", operation,
		"error_type", fmt.Sprintf("%T", err),
	}
	for k, v := range context {
		fields = append(fields, k, v)
	}
	logger.Error(fmt.Sprintf("Unexpected error: %s", err.Error()), fields...)
}

// LogOperation logs a completed operation with its duration for monitoring.
func LogOperation(logger Logger, operation string, duration time.Duration, context map[string]interface{}) {
	if logger == nil {
		logger = NewDefaultLogger()
	}

	fields := []interface{}{
		"operation", operation,
		"duration_ms", duration.Milliseconds(),
	}
	for k, v := range context {
		fields = append(fields, k, v)
	}
	logger.Info(fmt.Sprintf("Operation completed: %s", operation), fields...)
}
