package app

import (
	"context"
	"fmt"
	"time"

	"launchdock/internal/config"
	"launchdock/internal/database"
	apperrors "launchdock/internal/infrastructure/errors"
	"launchdock/internal/infrastructure/logging"
	"launchdock/internal/repository"
	"launchdock/internal/services"
	"launchdock/internal/types"

	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/runtime"
)

const (
	healthCheckTimeout = 5 * time.Second
	reconnectTimeout   = 10 * time.Second
	shutdownTimeout    = 30 * time.Second

	// secondInstanceEvent carries the forwarded argv of a refused second
	// launch to the frontend.
	secondInstanceEvent = "launchdock:second-instance"
)

// App is the Wails-bound application: lifecycle hooks plus the command
// surface exposed to the frontend.
type App struct {
	ctx        context.Context
	cfg        *config.AppConfig
	launcher   *services.Launcher
	monitor    *services.ProcessMonitor
	dbService  database.Service
	repository repository.LaunchRepository
	logger     logging.Logger
}

// NewApp wires the application. Database trouble is not fatal: the shell can
// still launch things, it just stops recording history.
func NewApp(cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := logging.NewDefaultLogger()

	dbConfig := database.ConfigForEnvironment(cfg.Environment)
	if err := dbConfig.LoadFromEnvironment(); err != nil {
		return nil, err
	}
	if err := dbConfig.Validate(); err != nil {
		return nil, err
	}

	var (
		dbService database.Service
		repo      repository.LaunchRepository
	)

	sqliteService := database.NewSQLiteService(logger)
	if err := sqliteService.Connect(context.Background(), dbConfig); err != nil {
		logger.Error("Database connection failed, continuing without history", "error", err)
	} else if err := sqliteService.Migrate(context.Background()); err != nil {
		logger.Error("Database migration failed, continuing without history", "error", err)
		sqliteService.Close()
	} else {
		dbService = sqliteService
		repo = repository.NewSQLiteRepository(sqliteService, logger)
	}

	launcher := services.NewLauncher(nil, repo, logger)
	if repo == nil {
		launcher.SetPersistenceEnabled(false)
	}

	monitor := services.NewProcessMonitor(launcher, cfg.MonitorInterval, logger)

	return &App{
		cfg:        cfg,
		launcher:   launcher,
		monitor:    monitor,
		dbService:  dbService,
		repository: repo,
		logger:     logger,
	}, nil
}

// Logger returns the application's structured logger.
func (a *App) Logger() logging.Logger {
	return a.logger
}

// Config returns the loaded application configuration.
func (a *App) Config() *config.AppConfig {
	return a.cfg
}

func (a *App) context() context.Context {
	if a.ctx != nil {
		return a.ctx
	}
	return context.Background()
}

// Startup is called at application startup
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx

	if err := a.checkDatabase(ctx); err != nil {
		a.logger.Error("Database unavailable, launch history disabled", "error", err)
		a.launcher.SetPersistenceEnabled(false)
	} else if a.cfg.CleanupOnStart {
		a.cleanupHistory(ctx)
	}

	a.monitor.Start()

	a.logger.Info("Application started", "environment", a.cfg.Environment)
}

// checkDatabase verifies the connection and attempts one reconnect for
// retryable failures.
func (a *App) checkDatabase(ctx context.Context) error {
	if a.dbService == nil {
		return apperrors.HandleConnectionError("startup", "database service not initialized")
	}

	healthCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	err := a.dbService.Health(healthCtx)
	if err == nil {
		return nil
	}
	if !apperrors.IsRetryable(err) {
		return apperrors.NewRepositoryErrorWithContext("startup", err,
			apperrors.ClassifyError(err), map[string]string{"operation": "health_check"})
	}

	a.logger.Warn("Database health check failed, attempting reconnect", "error", err)

	reconnectCtx, reconnectCancel := context.WithTimeout(ctx, reconnectTimeout)
	defer reconnectCancel()

	dbConfig := database.ConfigForEnvironment(a.cfg.Environment)
	if err := a.dbService.Connect(reconnectCtx, dbConfig); err != nil {
		return apperrors.NewRepositoryErrorWithContext("startup", err,
			apperrors.ErrCodeConnection, map[string]string{
				"operation": "reconnect",
				"db_path":   dbConfig.Path,
			})
	}
	if err := a.dbService.Migrate(reconnectCtx); err != nil {
		return apperrors.NewRepositoryErrorWithContext("startup", err,
			apperrors.ErrCodeConnection, map[string]string{"operation": "migrate"})
	}

	a.logger.Info("Database reconnected")
	return nil
}

func (a *App) cleanupHistory(ctx context.Context) {
	if a.repository == nil {
		return
	}

	dbConfig := database.ConfigForEnvironment(a.cfg.Environment)
	if !dbConfig.EnableCleanup || dbConfig.RetentionDays <= 0 {
		return
	}

	deleted, err := a.repository.CleanupOldLaunches(ctx, dbConfig.RetentionDays)
	if err != nil {
		a.logger.Warn("History cleanup failed", "error", err)
		return
	}
	if deleted > 0 {
		a.logger.Info("Removed old launch history", "deleted", deleted)
	}
}

// DomReady is called after front-end resources have been loaded
func (a *App) DomReady(ctx context.Context) {
}

// BeforeClose is called when the application is about to quit
func (a *App) BeforeClose(ctx context.Context) (prevent bool) {
	return false
}

// Shutdown is called at application termination
func (a *App) Shutdown(ctx context.Context) {
	a.logger.Info("Starting application shutdown")

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	a.monitor.Stop()

	if err := a.closeDatabase(shutdownCtx); err != nil {
		a.logger.Error("Error during database closure", "error", err)
	}

	a.logger.Info("Application shutdown completed")
}

// closeDatabase closes the connection without letting a wedged driver hang
// shutdown past the timeout.
func (a *App) closeDatabase(ctx context.Context) error {
	if a.dbService == nil {
		return nil
	}

	done := make(chan error, 1)
	go func() {
		done <- a.dbService.Close()
	}()

	select {
	case err := <-done:
		if err != nil {
			return apperrors.WrapDatabaseErrorWithContext("shutdown", err, map[string]string{
				"operation": "close_connection",
			})
		}
		return nil
	case <-ctx.Done():
		a.logger.Warn("Database close timed out")
		return apperrors.HandleTimeoutError("shutdown", shutdownTimeout.String())
	}
}

// OnSecondInstanceLaunch refocuses the existing window when a second app
// instance was refused, and forwards that instance's argv to the frontend.
func (a *App) OnSecondInstanceLaunch(data options.SecondInstanceData) {
	a.logger.Info("Second instance launch forwarded", "args", data.Args, "workdir", data.WorkingDirectory)

	if a.ctx == nil {
		return
	}

	runtime.WindowUnminimise(a.ctx)
	runtime.Show(a.ctx)

	if len(data.Args) > 0 {
		runtime.EventsEmit(a.ctx, secondInstanceEvent, data.Args)
	}
}

// LaunchPath validates that the path exists and spawns it as a new OS
// process. Returns the original shell's "File not found." error when the
// path does not exist.
func (a *App) LaunchPath(path string) (*types.LaunchResult, error) {
	return a.launcher.LaunchPath(a.context(), path)
}

// LaunchPathWithArgs launches a target with an argv tail.
func (a *App) LaunchPathWithArgs(path string, args []string) (*types.LaunchResult, error) {
	return a.launcher.LaunchPathWithArgs(a.context(), path, args)
}

// OpenWithDefault opens a document or directory with the OS default handler.
func (a *App) OpenWithDefault(path string) error {
	return a.launcher.OpenWithDefault(a.context(), path)
}

// GetRunningProcesses returns the latest sample of children still running.
func (a *App) GetRunningProcesses() []types.ProcessInfo {
	return a.monitor.Snapshot()
}

// GetRecentLaunches returns launch history, most recent first. The limit is
// capped by the configured history limit.
func (a *App) GetRecentLaunches(limit int) ([]types.LaunchRecord, error) {
	if a.repository == nil {
		return nil, apperrors.HandleConnectionError("GetRecentLaunches", "launch history unavailable")
	}
	if limit <= 0 || limit > a.cfg.HistoryLimit {
		limit = a.cfg.HistoryLimit
	}
	return a.repository.GetRecentLaunches(a.context(), limit)
}

// GetLaunchesForDateRange returns launches for an inclusive day range.
func (a *App) GetLaunchesForDateRange(startYear, startMonth, startDay, endYear, endMonth, endDay int) ([]types.LaunchRecord, error) {
	if a.repository == nil {
		return nil, apperrors.HandleConnectionError("GetLaunchesForDateRange", "launch history unavailable")
	}

	startDate := time.Date(startYear, time.Month(startMonth), startDay, 0, 0, 0, 0, time.Local)
	// Start of the next day for an inclusive end date.
	endDate := time.Date(endYear, time.Month(endMonth), endDay+1, 0, 0, 0, 0, time.Local)
	return a.repository.GetLaunchesByDateRange(a.context(), startDate, endDate)
}

// GetTopTargets returns the most launched targets.
func (a *App) GetTopTargets(limit int) ([]types.TargetCount, error) {
	if a.repository == nil {
		return nil, apperrors.HandleConnectionError("GetTopTargets", "launch history unavailable")
	}
	if limit <= 0 {
		limit = 10
	}
	return a.repository.GetTopTargets(a.context(), limit)
}

// GetFavorites returns the pinned targets in dock order.
func (a *App) GetFavorites() ([]types.Favorite, error) {
	if a.repository == nil {
		return nil, apperrors.HandleConnectionError("GetFavorites", "favorites unavailable")
	}
	return a.repository.ListFavorites(a.context())
}

// AddFavorite pins a target.
func (a *App) AddFavorite(path, label string) (*types.Favorite, error) {
	if a.repository == nil {
		return nil, apperrors.HandleConnectionError("AddFavorite", "favorites unavailable")
	}
	return a.repository.AddFavorite(a.context(), path, label)
}

// RemoveFavorite unpins a target.
func (a *App) RemoveFavorite(path string) error {
	if a.repository == nil {
		return apperrors.HandleConnectionError("RemoveFavorite", "favorites unavailable")
	}
	return a.repository.RemoveFavorite(a.context(), path)
}

// CleanupOldHistory removes history older than the given number of days and
// returns how many rows were deleted.
func (a *App) CleanupOldHistory(retentionDays int) (int64, error) {
	if a.repository == nil {
		return 0, apperrors.HandleConnectionError("CleanupOldHistory", "launch history unavailable")
	}
	if retentionDays <= 0 {
		return 0, apperrors.HandleValidationError("CleanupOldHistory", "retention_days",
			fmt.Sprintf("%d", retentionDays), "retention days must be positive")
	}
	return a.repository.CleanupOldLaunches(a.context(), retentionDays)
}
