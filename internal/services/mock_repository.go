package services

import (
	"context"
	"sync"
	"time"

	repoerrors "launchdock/internal/infrastructure/errors"
	"launchdock/internal/repository"
	"launchdock/internal/types"
)

// MockLaunchRepository is an in-memory LaunchRepository for service tests.
type MockLaunchRepository struct {
	mutex     sync.Mutex
	nextID    int64
	launches  map[int64]*types.LaunchRecord
	favorites map[string]*types.Favorite

	// Error injection for failure-path tests.
	SaveLaunchErr       error
	MarkLaunchExitedErr error
}

var _ repository.LaunchRepository = (*MockLaunchRepository)(nil)

// NewMockLaunchRepository creates an empty mock repository.
func NewMockLaunchRepository() *MockLaunchRepository {
	return &MockLaunchRepository{
		nextID:    1,
		launches:  make(map[int64]*types.LaunchRecord),
		favorites: make(map[string]*types.Favorite),
	}
}

func (m *MockLaunchRepository) SaveLaunch(ctx context.Context, record *types.LaunchRecord) (int64, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.SaveLaunchErr != nil {
		return 0, m.SaveLaunchErr
	}
	if record == nil {
		return 0, repoerrors.HandleValidationError("SaveLaunch", "record", "nil", "launch record is nil")
	}

	stored := *record
	stored.ID = m.nextID
	m.launches[stored.ID] = &stored
	m.nextID++
	return stored.ID, nil
}

func (m *MockLaunchRepository) MarkLaunchExited(ctx context.Context, id int64, exitedAt time.Time, exitCode int) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.MarkLaunchExitedErr != nil {
		return m.MarkLaunchExitedErr
	}

	record, ok := m.launches[id]
	if !ok {
		return repoerrors.HandleNotFound("MarkLaunchExited", "launch", "unknown id")
	}
	record.ExitedAt = &exitedAt
	record.ExitCode = &exitCode
	return nil
}

func (m *MockLaunchRepository) GetRecentLaunches(ctx context.Context, limit int) ([]types.LaunchRecord, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	records := make([]types.LaunchRecord, 0, len(m.launches))
	for _, r := range m.launches {
		records = append(records, *r)
	}
	// Newest first.
	for i := 0; i < len(records); i++ {
		for j := i + 1; j < len(records); j++ {
			if records[j].StartedAt.After(records[i].StartedAt) {
				records[i], records[j] = records[j], records[i]
			}
		}
	}
	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (m *MockLaunchRepository) GetLaunchesByDateRange(ctx context.Context, start, end time.Time) ([]types.LaunchRecord, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	var records []types.LaunchRecord
	for _, r := range m.launches {
		if !r.StartedAt.Before(start) && r.StartedAt.Before(end) {
			records = append(records, *r)
		}
	}
	return records, nil
}

func (m *MockLaunchRepository) GetTopTargets(ctx context.Context, limit int) ([]types.TargetCount, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	counts := make(map[string]int64)
	for _, r := range m.launches {
		counts[r.TargetPath]++
	}

	targets := make([]types.TargetCount, 0, len(counts))
	for path, count := range counts {
		targets = append(targets, types.TargetCount{TargetPath: path, Count: count})
	}
	for i := 0; i < len(targets); i++ {
		for j := i + 1; j < len(targets); j++ {
			if targets[j].Count > targets[i].Count {
				targets[i], targets[j] = targets[j], targets[i]
			}
		}
	}
	if len(targets) > limit {
		targets = targets[:limit]
	}
	return targets, nil
}

func (m *MockLaunchRepository) CountLaunches(ctx context.Context) (int64, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return int64(len(m.launches)), nil
}

func (m *MockLaunchRepository) CleanupOldLaunches(ctx context.Context, retentionDays int) (int64, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if retentionDays <= 0 {
		return 0, nil
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	var deleted int64
	for id, r := range m.launches {
		if r.StartedAt.Before(cutoff) {
			delete(m.launches, id)
			deleted++
		}
	}
	return deleted, nil
}

func (m *MockLaunchRepository) AddFavorite(ctx context.Context, targetPath, label string) (*types.Favorite, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.favorites[targetPath]; exists {
		return nil, repoerrors.NewRepositoryError("AddFavorite", nil, repoerrors.ErrCodeDuplicate)
	}

	fav := &types.Favorite{
		ID:         m.nextID,
		TargetPath: targetPath,
		Label:      label,
		Position:   len(m.favorites),
		AddedAt:    time.Now(),
	}
	m.nextID++
	m.favorites[targetPath] = fav

	out := *fav
	return &out, nil
}

func (m *MockLaunchRepository) RemoveFavorite(ctx context.Context, targetPath string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.favorites[targetPath]; !exists {
		return repoerrors.HandleNotFound("RemoveFavorite", "favorite", targetPath)
	}
	delete(m.favorites, targetPath)
	return nil
}

func (m *MockLaunchRepository) ListFavorites(ctx context.Context) ([]types.Favorite, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	favorites := make([]types.Favorite, 0, len(m.favorites))
	for _, f := range m.favorites {
		favorites = append(favorites, *f)
	}
	for i := 0; i < len(favorites); i++ {
		for j := i + 1; j < len(favorites); j++ {
			if favorites[j].Position < favorites[i].Position {
				favorites[i], favorites[j] = favorites[j], favorites[i]
			}
		}
	}
	return favorites, nil
}

// GetLaunch returns a stored record for test assertions.
func (m *MockLaunchRepository) GetLaunch(id int64) (*types.LaunchRecord, bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	record, ok := m.launches[id]
	if !ok {
		return nil, false
	}
	out := *record
	return &out, true
}
