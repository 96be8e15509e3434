package repository

import (
	"context"
	"fmt"
	"time"

	repoerrors "launchdock/internal/infrastructure/errors"
	"launchdock/internal/infrastructure/logging"
	"launchdock/internal/types"
)

// GetTopTargets returns the most launched targets with their launch counts.
func (r *SQLiteRepository) GetTopTargets(ctx context.Context, limit int) ([]types.TargetCount, error) {
	start := time.Now()

	if limit <= 0 {
		return nil, repoerrors.HandleValidationError("GetTopTargets", "limit", fmt.Sprintf("%d", limit), "limit must be positive")
	}

	var targets []types.TargetCount
	err := repoerrors.WithRetry(ctx, r.retryConfig, func() error {
		rows, err := r.db.QueryContext(ctx,
			`SELECT target_path, COUNT(*) AS launch_count
			 FROM launches GROUP BY target_path
			 ORDER BY launch_count DESC, target_path ASC LIMIT ?`, limit)
		if err != nil {
			repoErr := repoerrors.NewRepositoryErrorWithContext("GetTopTargets", err, r.classifyError(err), map[string]string{
				"limit": fmt.Sprintf("%d", limit),
			})
			if repoErr.IsRetryable() {
				r.logger.Debug("Retryable error in GetTopTargets", "error", err)
			} else {
				logging.LogError(r.logger, repoErr, "GetTopTargets", nil)
			}
			return repoErr
		}
		defer rows.Close()

		targets = targets[:0]
		for rows.Next() {
			var tc types.TargetCount
			if err := rows.Scan(&tc.TargetPath, &tc.Count); err != nil {
				return repoerrors.WrapDatabaseError("GetTopTargets", err)
			}
			targets = append(targets, tc)
		}
		if err := rows.Err(); err != nil {
			return repoerrors.WrapDatabaseError("GetTopTargets", err)
		}
		return nil
	})

	if err == nil {
		logging.LogOperation(r.logger, "GetTopTargets", time.Since(start), map[string]interface{}{
			"count": len(targets),
		})
	}

	return targets, err
}

// CountLaunches returns the total number of history rows.
func (r *SQLiteRepository) CountLaunches(ctx context.Context) (int64, error) {
	var count int64

	err := repoerrors.WithRetry(ctx, r.retryConfig, func() error {
		if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM launches`).Scan(&count); err != nil {
			return repoerrors.WrapDatabaseError("CountLaunches", err)
		}
		return nil
	})

	return count, err
}

// CleanupOldLaunches deletes history rows older than the retention window and
// returns the number of rows removed. A retention of 0 keeps everything.
func (r *SQLiteRepository) CleanupOldLaunches(ctx context.Context, retentionDays int) (int64, error) {
	start := time.Now()

	if retentionDays < 0 {
		return 0, repoerrors.HandleValidationError("CleanupOldLaunches", "retention_days",
			fmt.Sprintf("%d", retentionDays), "retention days cannot be negative")
	}
	if retentionDays == 0 {
		return 0, nil
	}

	cutoff := retentionCutoff(time.Now(), retentionDays)

	var deleted int64
	err := repoerrors.WithRetryContext(ctx, r.retryConfig, func() error {
		res, err := r.db.ExecContext(ctx, `DELETE FROM launches WHERE started_at < ?`, cutoff)
		if err != nil {
			repoErr := repoerrors.NewRepositoryErrorWithContext("CleanupOldLaunches", err, r.classifyError(err), map[string]string{
				"cutoff": cutoff.Format(time.RFC3339),
			})
			if repoErr.IsRetryable() {
				r.logger.Debug("Retryable error in CleanupOldLaunches", "error", err)
			} else {
				logging.LogError(r.logger, repoErr, "CleanupOldLaunches", nil)
			}
			return repoErr
		}

		deleted, err = res.RowsAffected()
		if err != nil {
			return repoerrors.WrapDatabaseError("CleanupOldLaunches", err)
		}
		return nil
	}, "CleanupOldLaunches")

	if err == nil {
		logging.LogOperation(r.logger, "CleanupOldLaunches", time.Since(start), map[string]interface{}{
			"deleted":        deleted,
			"retention_days": retentionDays,
		})
	}

	return deleted, err
}
