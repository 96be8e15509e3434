package repository

import (
	"context"
	"time"

	"launchdock/internal/types"
)

// LaunchRepository persists launch history and pinned favorites.
type LaunchRepository interface {
	// SaveLaunch inserts a history row for a freshly spawned child and
	// returns its id.
	SaveLaunch(ctx context.Context, record *types.LaunchRecord) (int64, error)

	// MarkLaunchExited records the exit of a launched child.
	MarkLaunchExited(ctx context.Context, id int64, exitedAt time.Time, exitCode int) error

	// GetRecentLaunches returns the newest launches, most recent first.
	GetRecentLaunches(ctx context.Context, limit int) ([]types.LaunchRecord, error)

	// GetLaunchesByDateRange returns launches started in [start, end).
	GetLaunchesByDateRange(ctx context.Context, start, end time.Time) ([]types.LaunchRecord, error)

	// GetTopTargets returns the most launched targets with their counts.
	GetTopTargets(ctx context.Context, limit int) ([]types.TargetCount, error)

	// CountLaunches returns the total number of history rows.
	CountLaunches(ctx context.Context) (int64, error)

	// CleanupOldLaunches deletes history older than the retention window and
	// returns the number of rows removed.
	CleanupOldLaunches(ctx context.Context, retentionDays int) (int64, error)

	// Favorites.
	AddFavorite(ctx context.Context, targetPath, label string) (*types.Favorite, error)
	RemoveFavorite(ctx context.Context, targetPath string) error
	ListFavorites(ctx context.Context) ([]types.Favorite, error)
}
