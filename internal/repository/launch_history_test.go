package repository

import (
	"context"
	"testing"
	"time"

	repoerrors "launchdock/internal/infrastructure/errors"
	"launchdock/internal/types"
)

func TestSaveLaunchAndGetByID(t *testing.T) {
	t.Parallel()
	repo := setupTestRepository(t)
	ctx := context.Background()

	startedAt := time.Now().Truncate(time.Second)
	id, err := repo.SaveLaunch(ctx, &types.LaunchRecord{
		TargetPath: "/usr/bin/editor",
		Args:       []string{"--new-window", "notes.txt"},
		Workdir:    "/usr/bin",
		PID:        4242,
		StartedAt:  startedAt,
	})
	if err != nil {
		t.Fatalf("SaveLaunch failed: %v", err)
	}
	if id <= 0 {
		t.Fatalf("Expected positive id, got %d", id)
	}

	record, err := repo.GetLaunchByID(ctx, id)
	if err != nil {
		t.Fatalf("GetLaunchByID failed: %v", err)
	}
	if record.TargetPath != "/usr/bin/editor" {
		t.Errorf("Expected target /usr/bin/editor, got %s", record.TargetPath)
	}
	if record.PID != 4242 {
		t.Errorf("Expected PID 4242, got %d", record.PID)
	}
	if len(record.Args) != 2 || record.Args[0] != "--new-window" {
		t.Errorf("Args did not round-trip: %v", record.Args)
	}
	if record.ExitedAt != nil || record.ExitCode != nil {
		t.Error("New launch must not carry exit information")
	}
}

func TestSaveLaunchValidation(t *testing.T) {
	t.Parallel()
	repo := setupTestRepository(t)
	ctx := context.Background()

	if _, err := repo.SaveLaunch(ctx, nil); !repoerrors.IsValidation(err) {
		t.Errorf("Expected validation error for nil record, got %v", err)
	}

	_, err := repo.SaveLaunch(ctx, &types.LaunchRecord{TargetPath: "", PID: 1, StartedAt: time.Now()})
	if !repoerrors.IsValidation(err) {
		t.Errorf("Expected validation error for empty target path, got %v", err)
	}
}

func TestMarkLaunchExited(t *testing.T) {
	t.Parallel()
	repo := setupTestRepository(t)
	ctx := context.Background()

	id := seedLaunch(t, repo, "/usr/bin/editor", time.Now())

	exitedAt := time.Now().Truncate(time.Second)
	if err := repo.MarkLaunchExited(ctx, id, exitedAt, 0); err != nil {
		t.Fatalf("MarkLaunchExited failed: %v", err)
	}

	record, err := repo.GetLaunchByID(ctx, id)
	if err != nil {
		t.Fatalf("GetLaunchByID failed: %v", err)
	}
	if record.ExitedAt == nil {
		t.Fatal("Expected exited_at to be set")
	}
	if record.ExitCode == nil || *record.ExitCode != 0 {
		t.Errorf("Expected exit code 0, got %v", record.ExitCode)
	}
}

func TestMarkLaunchExitedNotFound(t *testing.T) {
	t.Parallel()
	repo := setupTestRepository(t)

	err := repo.MarkLaunchExited(context.Background(), 999999, time.Now(), 1)
	if !repoerrors.IsNotFound(err) {
		t.Errorf("Expected not-found error for unknown launch id, got %v", err)
	}
}

func TestMarkLaunchExitedInvalidID(t *testing.T) {
	t.Parallel()
	repo := setupTestRepository(t)

	err := repo.MarkLaunchExited(context.Background(), 0, time.Now(), 1)
	if !repoerrors.IsValidation(err) {
		t.Errorf("Expected validation error for id 0, got %v", err)
	}
}

func TestGetRecentLaunchesOrderAndLimit(t *testing.T) {
	t.Parallel()
	repo := setupTestRepository(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	seedLaunch(t, repo, "/bin/oldest", base)
	seedLaunch(t, repo, "/bin/middle", base.Add(10*time.Minute))
	seedLaunch(t, repo, "/bin/newest", base.Add(20*time.Minute))

	records, err := repo.GetRecentLaunches(ctx, 2)
	if err != nil {
		t.Fatalf("GetRecentLaunches failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0].TargetPath != "/bin/newest" || records[1].TargetPath != "/bin/middle" {
		t.Errorf("Wrong order: %s, %s", records[0].TargetPath, records[1].TargetPath)
	}
}

func TestGetRecentLaunchesInvalidLimit(t *testing.T) {
	t.Parallel()
	repo := setupTestRepository(t)

	if _, err := repo.GetRecentLaunches(context.Background(), 0); !repoerrors.IsValidation(err) {
		t.Errorf("Expected validation error for limit 0, got %v", err)
	}
}

func TestGetLaunchesByDateRange(t *testing.T) {
	t.Parallel()
	repo := setupTestRepository(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
	seedLaunch(t, repo, "/bin/before", base.Add(-48*time.Hour))
	seedLaunch(t, repo, "/bin/inside", base)
	seedLaunch(t, repo, "/bin/after", base.Add(48*time.Hour))

	records, err := repo.GetLaunchesByDateRange(ctx, base.Add(-time.Hour), base.Add(time.Hour))
	if err != nil {
		t.Fatalf("GetLaunchesByDateRange failed: %v", err)
	}
	if len(records) != 1 || records[0].TargetPath != "/bin/inside" {
		t.Errorf("Expected only /bin/inside, got %v", records)
	}
}

func TestGetLaunchesByDateRangeInvalidRange(t *testing.T) {
	t.Parallel()
	repo := setupTestRepository(t)

	now := time.Now()
	_, err := repo.GetLaunchesByDateRange(context.Background(), now, now)
	if !repoerrors.IsValidation(err) {
		t.Errorf("Expected validation error for empty range, got %v", err)
	}
}

func TestGetLaunchByIDNotFound(t *testing.T) {
	t.Parallel()
	repo := setupTestRepository(t)

	_, err := repo.GetLaunchByID(context.Background(), 424242)
	if !repoerrors.IsNotFound(err) {
		t.Errorf("Expected not-found error, got %v", err)
	}
}
