package repository

import (
	"database/sql"

	"launchdock/internal/database"
	repoerrors "launchdock/internal/infrastructure/errors"
	"launchdock/internal/infrastructure/logging"
)

// SQLiteRepository implements LaunchRepository on top of the database service.
type SQLiteRepository struct {
	db          *sql.DB
	dbService   database.Service
	retryConfig *repoerrors.RetryConfig
	logger      logging.Logger
}

var _ LaunchRepository = (*SQLiteRepository)(nil)

// NewSQLiteRepository creates a new SQLite repository instance
func NewSQLiteRepository(dbService database.Service, logger logging.Logger) *SQLiteRepository {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	return &SQLiteRepository{
		db:          dbService.DB(),
		dbService:   dbService,
		retryConfig: repoerrors.DefaultRetryConfig(),
		logger:      logger,
	}
}

// NewSQLiteRepositoryWithConfig creates a repository with a custom retry
// configuration.
func NewSQLiteRepositoryWithConfig(dbService database.Service, retryConfig *repoerrors.RetryConfig, logger logging.Logger) *SQLiteRepository {
	if retryConfig == nil {
		retryConfig = repoerrors.DefaultRetryConfig()
	}
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	return &SQLiteRepository{
		db:          dbService.DB(),
		dbService:   dbService,
		retryConfig: retryConfig,
		logger:      logger,
	}
}

func (r *SQLiteRepository) classifyError(err error) repoerrors.ErrorCode {
	return repoerrors.ClassifyError(err)
}
