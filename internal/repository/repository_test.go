package repository

import (
	"context"
	"testing"
	"time"

	"launchdock/internal/database"
	"launchdock/internal/testutils"
	"launchdock/internal/types"
)

// setupTestRepository creates a repository over a fresh in-memory database
// with migrations applied.
func setupTestRepository(t *testing.T) *SQLiteRepository {
	t.Helper()

	logger := testutils.NewCapturingLogger()
	service := database.NewSQLiteService(logger)

	ctx := context.Background()
	if err := service.Connect(ctx, database.TestConfig()); err != nil {
		t.Fatalf("Failed to connect test database: %v", err)
	}
	t.Cleanup(func() {
		service.Close()
	})

	if err := service.Migrate(ctx); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return NewSQLiteRepository(service, logger)
}

// seedLaunch inserts one history row and returns its id.
func seedLaunch(t *testing.T, repo *SQLiteRepository, target string, startedAt time.Time) int64 {
	t.Helper()

	id, err := repo.SaveLaunch(context.Background(), &types.LaunchRecord{
		TargetPath: target,
		Args:       nil,
		Workdir:    "/tmp",
		PID:        1234,
		StartedAt:  startedAt,
	})
	if err != nil {
		t.Fatalf("Failed to seed launch for %s: %v", target, err)
	}
	return id
}
