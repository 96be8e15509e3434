package repository

import (
	"database/sql"
	"encoding/json"
	"time"

	"launchdock/internal/types"
)

// encodeArgs stores the argv slice as JSON text. An empty or nil slice
// encodes as "[]" so the column is never NULL.
func encodeArgs(args []string) string {
	if len(args) == 0 {
		return "[]"
	}
	data, err := json.Marshal(args)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// decodeArgs is the inverse of encodeArgs; malformed rows decode to nil.
func decodeArgs(raw string) []string {
	if raw == "" || raw == "[]" {
		return nil
	}
	var args []string
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil
	}
	return args
}

// scanLaunchRow scans one launches row. Works for both sql.Row and sql.Rows
// through the scanner interface.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanLaunchRow(s scanner) (types.LaunchRecord, error) {
	var (
		record   types.LaunchRecord
		rawArgs  string
		exitedAt sql.NullTime
		exitCode sql.NullInt64
	)

	err := s.Scan(&record.ID, &record.TargetPath, &rawArgs, &record.Workdir,
		&record.PID, &record.StartedAt, &exitedAt, &exitCode)
	if err != nil {
		return types.LaunchRecord{}, err
	}

	record.Args = decodeArgs(rawArgs)
	if exitedAt.Valid {
		t := exitedAt.Time
		record.ExitedAt = &t
	}
	if exitCode.Valid {
		c := int(exitCode.Int64)
		record.ExitCode = &c
	}

	return record, nil
}

// collectLaunchRows drains a result set of launches rows.
func collectLaunchRows(rows *sql.Rows) ([]types.LaunchRecord, error) {
	defer rows.Close()

	var records []types.LaunchRecord
	for rows.Next() {
		record, err := scanLaunchRow(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// retentionCutoff converts a retention window in days to the oldest
// started_at that survives cleanup.
func retentionCutoff(now time.Time, retentionDays int) time.Time {
	return now.AddDate(0, 0, -retentionDays)
}
