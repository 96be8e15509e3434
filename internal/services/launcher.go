package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	launcherrors "launchdock/internal/infrastructure/errors"
	"launchdock/internal/infrastructure/logging"
	"launchdock/internal/platform"
	"launchdock/internal/repository"
	"launchdock/internal/types"
)

const exitPersistTimeout = 5 * time.Second

// ChildInfo describes one still-running child of this shell.
type ChildInfo struct {
	LaunchID   int64
	PID        int
	TargetPath string
	StartedAt  time.Time
}

// Launcher validates launch requests, spawns targets as detached children,
// records launch history and reaps exits.
type Launcher struct {
	spawner            platform.Spawner
	repository         repository.LaunchRepository
	logger             logging.Logger
	mutex              sync.RWMutex
	running            map[int]ChildInfo
	persistenceEnabled bool
}

// NewLauncher creates a launcher service with the given repository.
func NewLauncher(spawner platform.Spawner, repo repository.LaunchRepository, logger logging.Logger) *Launcher {
	if spawner == nil {
		spawner = platform.NewSpawner()
	}
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	return &Launcher{
		spawner:            spawner,
		repository:         repo,
		logger:             logger,
		running:            make(map[int]ChildInfo),
		persistenceEnabled: true,
	}
}

// SetPersistenceEnabled toggles history recording; the app disables it when
// the database is unavailable so launching keeps working.
func (l *Launcher) SetPersistenceEnabled(enabled bool) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.persistenceEnabled = enabled
}

func (l *Launcher) persistenceOn() bool {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	return l.persistenceEnabled && l.repository != nil
}

// LaunchPath validates that the path exists and spawns it as a detached
// child process.
func (l *Launcher) LaunchPath(ctx context.Context, path string) (*types.LaunchResult, error) {
	return l.LaunchPathWithArgs(ctx, path, nil)
}

// LaunchPathWithArgs is LaunchPath with an argv tail for the child.
func (l *Launcher) LaunchPathWithArgs(ctx context.Context, path string, args []string) (*types.LaunchResult, error) {
	if path == "" {
		return nil, launcherrors.NewLaunchValidation(path, "Path cannot be empty.")
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			l.logger.Warn("Launch target does not exist", "target", path)
			return nil, launcherrors.NewLaunchNotFound(path)
		}
		if errors.Is(err, os.ErrPermission) {
			return nil, launcherrors.NewLaunchPermission(path, err)
		}
		return nil, launcherrors.NewLaunchSpawnFailed(path, err)
	}

	if info.IsDir() {
		return nil, launcherrors.NewLaunchValidation(path, "Target is a directory; open it instead.")
	}

	startedAt := time.Now()
	child, err := l.spawner.Spawn(platform.LaunchSpec{
		TargetPath: path,
		Args:       args,
		Workdir:    filepath.Dir(path),
	})
	if err != nil {
		l.logger.Error("Failed to spawn target", "target", path, "error", err)
		if errors.Is(err, os.ErrPermission) {
			return nil, launcherrors.NewLaunchPermission(path, err)
		}
		return nil, launcherrors.NewLaunchSpawnFailed(path, err)
	}

	pid := child.Pid()
	l.logger.Info("Launched target", "target", path, "pid", pid)

	launchID := l.recordLaunch(ctx, path, args, pid, startedAt)

	l.mutex.Lock()
	l.running[pid] = ChildInfo{
		LaunchID:   launchID,
		PID:        pid,
		TargetPath: path,
		StartedAt:  startedAt,
	}
	l.mutex.Unlock()

	go l.reap(child, launchID, path)

	return &types.LaunchResult{
		TargetPath: path,
		PID:        pid,
		StartedAt:  startedAt,
	}, nil
}

// OpenWithDefault validates that the path exists and hands it to the OS
// default-open verb. Used for directories and documents; the helper process
// is not tracked.
func (l *Launcher) OpenWithDefault(ctx context.Context, path string) error {
	if path == "" {
		return launcherrors.NewLaunchValidation(path, "Path cannot be empty.")
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			l.logger.Warn("Open target does not exist", "target", path)
			return launcherrors.NewLaunchNotFound(path)
		}
		return launcherrors.NewLaunchSpawnFailed(path, err)
	}

	if err := l.spawner.OpenWithDefault(path); err != nil {
		l.logger.Error("Failed to open target", "target", path, "error", err)
		return launcherrors.NewLaunchSpawnFailed(path, err)
	}

	l.logger.Info("Opened target with default handler", "target", path)
	return nil
}

// recordLaunch writes the history row. History failures never fail the
// launch itself; the child is already running.
func (l *Launcher) recordLaunch(ctx context.Context, path string, args []string, pid int, startedAt time.Time) int64 {
	if !l.persistenceOn() {
		return 0
	}

	id, err := l.repository.SaveLaunch(ctx, &types.LaunchRecord{
		TargetPath: path,
		Args:       args,
		Workdir:    filepath.Dir(path),
		PID:        pid,
		StartedAt:  startedAt,
	})
	if err != nil {
		l.logger.Error("Failed to record launch history", "target", path, "error", err)
		return 0
	}
	return id
}

// reap waits for the child to exit, drops it from the running set and writes
// the exit back to history.
func (l *Launcher) reap(child platform.Process, launchID int64, path string) {
	code, err := child.Wait()
	exitedAt := time.Now()
	if err != nil {
		l.logger.Warn("Child terminated abnormally", "target", path, "pid", child.Pid(), "error", err)
		code = -1
	}

	l.mutex.Lock()
	delete(l.running, child.Pid())
	l.mutex.Unlock()

	l.logger.Info("Child exited", "target", path, "pid", child.Pid(), "exit_code", code)

	if launchID > 0 && l.persistenceOn() {
		ctx, cancel := context.WithTimeout(context.Background(), exitPersistTimeout)
		defer cancel()

		if err := l.repository.MarkLaunchExited(ctx, launchID, exitedAt, code); err != nil {
			l.logger.Error("Failed to record child exit", "launch_id", launchID, "error", err)
		}
	}
}

// RunningChildren returns a snapshot of the children still alive.
func (l *Launcher) RunningChildren() []ChildInfo {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	children := make([]ChildInfo, 0, len(l.running))
	for _, info := range l.running {
		children = append(children, info)
	}
	return children
}
