package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	repoerrors "launchdock/internal/infrastructure/errors"
	"launchdock/internal/infrastructure/logging"
	"launchdock/internal/types"
)

// SaveLaunch inserts a history row for a spawned child with retry logic.
func (r *SQLiteRepository) SaveLaunch(ctx context.Context, record *types.LaunchRecord) (int64, error) {
	start := time.Now()

	if record == nil {
		err := repoerrors.NewRepositoryError("SaveLaunch", errors.New("launch record is nil"), repoerrors.ErrCodeValidation)
		logging.LogError(r.logger, err, "SaveLaunch", nil)
		return 0, err
	}
	if record.TargetPath == "" {
		err := repoerrors.HandleValidationError("SaveLaunch", "target_path", "", "target path cannot be empty")
		logging.LogError(r.logger, err, "SaveLaunch", nil)
		return 0, err
	}

	var id int64
	err := repoerrors.WithRetry(ctx, r.retryConfig, func() error {
		res, err := r.db.ExecContext(ctx,
			`INSERT INTO launches (target_path, args, workdir, pid, started_at)
			 VALUES (?, ?, ?, ?, ?)`,
			record.TargetPath, encodeArgs(record.Args), record.Workdir, record.PID, record.StartedAt)
		if err != nil {
			repoErr := repoerrors.NewRepositoryErrorWithContext("SaveLaunch", err, r.classifyError(err), map[string]string{
				"target_path": record.TargetPath,
				"pid":         fmt.Sprintf("%d", record.PID),
			})
			if repoErr.IsRetryable() {
				r.logger.Debug("Retryable error in SaveLaunch", "error", err, "target", record.TargetPath)
			} else {
				logging.LogError(r.logger, repoErr, "SaveLaunch", map[string]interface{}{
					"target_path": record.TargetPath,
				})
			}
			return repoErr
		}

		id, err = res.LastInsertId()
		if err != nil {
			return repoerrors.WrapDatabaseError("SaveLaunch", err)
		}
		return nil
	})

	if err == nil {
		record.ID = id
		logging.LogOperation(r.logger, "SaveLaunch", time.Since(start), map[string]interface{}{
			"target_path": record.TargetPath,
			"pid":         record.PID,
		})
	}

	return id, err
}

// MarkLaunchExited records the exit of a launched child.
func (r *SQLiteRepository) MarkLaunchExited(ctx context.Context, id int64, exitedAt time.Time, exitCode int) error {
	start := time.Now()

	if id <= 0 {
		err := repoerrors.HandleValidationError("MarkLaunchExited", "id", fmt.Sprintf("%d", id), "id must be positive")
		logging.LogError(r.logger, err, "MarkLaunchExited", nil)
		return err
	}

	err := repoerrors.WithRetry(ctx, r.retryConfig, func() error {
		res, err := r.db.ExecContext(ctx,
			`UPDATE launches SET exited_at = ?, exit_code = ? WHERE id = ?`,
			exitedAt, exitCode, id)
		if err != nil {
			repoErr := repoerrors.NewRepositoryErrorWithContext("MarkLaunchExited", err, r.classifyError(err), map[string]string{
				"id": fmt.Sprintf("%d", id),
			})
			if repoErr.IsRetryable() {
				r.logger.Debug("Retryable error in MarkLaunchExited", "error", err, "id", id)
			} else {
				logging.LogError(r.logger, repoErr, "MarkLaunchExited", map[string]interface{}{"id": id})
			}
			return repoErr
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return repoerrors.WrapDatabaseError("MarkLaunchExited", err)
		}
		if affected == 0 {
			// Not retryable: the row simply is not there.
			return repoerrors.HandleNotFound("MarkLaunchExited", "launch", fmt.Sprintf("%d", id))
		}
		return nil
	})

	if err == nil {
		logging.LogOperation(r.logger, "MarkLaunchExited", time.Since(start), map[string]interface{}{
			"id":        id,
			"exit_code": exitCode,
		})
	}

	return err
}

// GetRecentLaunches returns the newest launches, most recent first.
func (r *SQLiteRepository) GetRecentLaunches(ctx context.Context, limit int) ([]types.LaunchRecord, error) {
	start := time.Now()

	if limit <= 0 {
		return nil, repoerrors.HandleValidationError("GetRecentLaunches", "limit", fmt.Sprintf("%d", limit), "limit must be positive")
	}

	var records []types.LaunchRecord
	err := repoerrors.WithRetry(ctx, r.retryConfig, func() error {
		rows, err := r.db.QueryContext(ctx,
			`SELECT id, target_path, args, workdir, pid, started_at, exited_at, exit_code
			 FROM launches ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
		if err != nil {
			repoErr := repoerrors.NewRepositoryErrorWithContext("GetRecentLaunches", err, r.classifyError(err), map[string]string{
				"limit": fmt.Sprintf("%d", limit),
			})
			if repoErr.IsRetryable() {
				r.logger.Debug("Retryable error in GetRecentLaunches", "error", err)
			} else {
				logging.LogError(r.logger, repoErr, "GetRecentLaunches", nil)
			}
			return repoErr
		}

		records, err = collectLaunchRows(rows)
		if err != nil {
			return repoerrors.WrapDatabaseError("GetRecentLaunches", err)
		}
		return nil
	})

	if err == nil {
		logging.LogOperation(r.logger, "GetRecentLaunches", time.Since(start), map[string]interface{}{
			"count": len(records),
		})
	}

	return records, err
}

// GetLaunchesByDateRange returns launches started in [start, end).
func (r *SQLiteRepository) GetLaunchesByDateRange(ctx context.Context, startDate, endDate time.Time) ([]types.LaunchRecord, error) {
	opStart := time.Now()

	if !endDate.After(startDate) {
		return nil, repoerrors.HandleValidationError("GetLaunchesByDateRange", "range",
			fmt.Sprintf("%s..%s", startDate.Format(time.RFC3339), endDate.Format(time.RFC3339)),
			"end must be after start")
	}

	var records []types.LaunchRecord
	err := repoerrors.WithRetry(ctx, r.retryConfig, func() error {
		rows, err := r.db.QueryContext(ctx,
			`SELECT id, target_path, args, workdir, pid, started_at, exited_at, exit_code
			 FROM launches WHERE started_at >= ? AND started_at < ?
			 ORDER BY started_at DESC, id DESC`, startDate, endDate)
		if err != nil {
			repoErr := repoerrors.NewRepositoryErrorWithContext("GetLaunchesByDateRange", err, r.classifyError(err), map[string]string{
				"start": startDate.Format(time.RFC3339),
				"end":   endDate.Format(time.RFC3339),
			})
			if repoErr.IsRetryable() {
				r.logger.Debug("Retryable error in GetLaunchesByDateRange", "error", err)
			} else {
				logging.LogError(r.logger, repoErr, "GetLaunchesByDateRange", nil)
			}
			return repoErr
		}

		records, err = collectLaunchRows(rows)
		if err != nil {
			return repoerrors.WrapDatabaseError("GetLaunchesByDateRange", err)
		}
		return nil
	})

	if err == nil {
		logging.LogOperation(r.logger, "GetLaunchesByDateRange", time.Since(opStart), map[string]interface{}{
			"count": len(records),
		})
	}

	return records, err
}

// GetLaunchByID returns a single history row.
func (r *SQLiteRepository) GetLaunchByID(ctx context.Context, id int64) (*types.LaunchRecord, error) {
	var record types.LaunchRecord

	err := repoerrors.WithRetry(ctx, r.retryConfig, func() error {
		row := r.db.QueryRowContext(ctx,
			`SELECT id, target_path, args, workdir, pid, started_at, exited_at, exit_code
			 FROM launches WHERE id = ?`, id)

		var err error
		record, err = scanLaunchRow(row)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return repoerrors.HandleNotFound("GetLaunchByID", "launch", fmt.Sprintf("%d", id))
			}
			return repoerrors.WrapDatabaseErrorWithContext("GetLaunchByID", err, map[string]string{
				"id": fmt.Sprintf("%d", id),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &record, nil
}
