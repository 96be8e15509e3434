package repository

import (
	"context"
	"time"

	repoerrors "launchdock/internal/infrastructure/errors"
	"launchdock/internal/infrastructure/logging"
	"launchdock/internal/types"
)

// AddFavorite pins a target. The new favorite is appended after the current
// highest position. Duplicate target paths surface as a duplicate error.
func (r *SQLiteRepository) AddFavorite(ctx context.Context, targetPath, label string) (*types.Favorite, error) {
	start := time.Now()

	if targetPath == "" {
		return nil, repoerrors.HandleValidationError("AddFavorite", "target_path", "", "target path cannot be empty")
	}

	var fav types.Favorite
	err := repoerrors.WithRetry(ctx, r.retryConfig, func() error {
		addedAt := time.Now()
		res, err := r.db.ExecContext(ctx,
			`INSERT INTO favorites (target_path, label, position, added_at)
			 VALUES (?, ?, COALESCE((SELECT MAX(position) + 1 FROM favorites), 0), ?)`,
			targetPath, label, addedAt)
		if err != nil {
			repoErr := repoerrors.NewRepositoryErrorWithContext("AddFavorite", err, r.classifyError(err), map[string]string{
				"target_path": targetPath,
			})
			if repoErr.IsRetryable() {
				r.logger.Debug("Retryable error in AddFavorite", "error", err, "target", targetPath)
			} else {
				logging.LogError(r.logger, repoErr, "AddFavorite", map[string]interface{}{
					"target_path": targetPath,
				})
			}
			return repoErr
		}

		id, err := res.LastInsertId()
		if err != nil {
			return repoerrors.WrapDatabaseError("AddFavorite", err)
		}

		var position int
		if err := r.db.QueryRowContext(ctx, `SELECT position FROM favorites WHERE id = ?`, id).Scan(&position); err != nil {
			return repoerrors.WrapDatabaseError("AddFavorite", err)
		}

		fav = types.Favorite{
			ID:         id,
			TargetPath: targetPath,
			Label:      label,
			Position:   position,
			AddedAt:    addedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.LogOperation(r.logger, "AddFavorite", time.Since(start), map[string]interface{}{
		"target_path": targetPath,
	})
	return &fav, nil
}

// RemoveFavorite unpins a target.
func (r *SQLiteRepository) RemoveFavorite(ctx context.Context, targetPath string) error {
	start := time.Now()

	if targetPath == "" {
		return repoerrors.HandleValidationError("RemoveFavorite", "target_path", "", "target path cannot be empty")
	}

	err := repoerrors.WithRetry(ctx, r.retryConfig, func() error {
		res, err := r.db.ExecContext(ctx, `DELETE FROM favorites WHERE target_path = ?`, targetPath)
		if err != nil {
			return repoerrors.WrapDatabaseErrorWithContext("RemoveFavorite", err, map[string]string{
				"target_path": targetPath,
			})
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return repoerrors.WrapDatabaseError("RemoveFavorite", err)
		}
		if affected == 0 {
			return repoerrors.HandleNotFound("RemoveFavorite", "favorite", targetPath)
		}
		return nil
	})

	if err == nil {
		logging.LogOperation(r.logger, "RemoveFavorite", time.Since(start), map[string]interface{}{
			"target_path": targetPath,
		})
	}

	return err
}

// ListFavorites returns all favorites in dock order.
func (r *SQLiteRepository) ListFavorites(ctx context.Context) ([]types.Favorite, error) {
	start := time.Now()

	var favorites []types.Favorite
	err := repoerrors.WithRetry(ctx, r.retryConfig, func() error {
		rows, err := r.db.QueryContext(ctx,
			`SELECT id, target_path, label, position, added_at
			 FROM favorites ORDER BY position ASC, id ASC`)
		if err != nil {
			repoErr := repoerrors.NewRepositoryErrorWithContext("ListFavorites", err, r.classifyError(err), nil)
			if repoErr.IsRetryable() {
				r.logger.Debug("Retryable error in ListFavorites", "error", err)
			} else {
				logging.LogError(r.logger, repoErr, "ListFavorites", nil)
			}
			return repoErr
		}
		defer rows.Close()

		favorites = favorites[:0]
		for rows.Next() {
			var fav types.Favorite
			if err := rows.Scan(&fav.ID, &fav.TargetPath, &fav.Label, &fav.Position, &fav.AddedAt); err != nil {
				return repoerrors.WrapDatabaseError("ListFavorites", err)
			}
			favorites = append(favorites, fav)
		}
		if err := rows.Err(); err != nil {
			return repoerrors.WrapDatabaseError("ListFavorites", err)
		}
		return nil
	})

	if err == nil {
		logging.LogOperation(r.logger, "ListFavorites", time.Since(start), map[string]interface{}{
			"count": len(favorites),
		})
	}

	return favorites, err
}
