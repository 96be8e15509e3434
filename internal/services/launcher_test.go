package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	launcherrors "launchdock/internal/infrastructure/errors"
	"launchdock/internal/platform"
	"launchdock/internal/testutils"
)

// fakeProcess is a scripted child: Wait blocks until released.
type fakeProcess struct {
	pid      int
	exitCode int
	waitErr  error
	release  chan struct{}
	once     sync.Once
}

func newFakeProcess(pid, exitCode int) *fakeProcess {
	return &fakeProcess{pid: pid, exitCode: exitCode, release: make(chan struct{})}
}

func (p *fakeProcess) Pid() int { return p.pid }

func (p *fakeProcess) Wait() (int, error) {
	<-p.release
	return p.exitCode, p.waitErr
}

// exit lets the scripted Wait return.
func (p *fakeProcess) exit() {
	p.once.Do(func() { close(p.release) })
}

// fakeSpawner records launch specs and hands back scripted processes.
type fakeSpawner struct {
	mutex     sync.Mutex
	specs     []platform.LaunchSpec
	opened    []string
	next      *fakeProcess
	spawnErr  error
	openErr   error
	nextPID   int
	processes []*fakeProcess
}

func newFakeSpawner() *fakeSpawner {
	return &fakeSpawner{nextPID: 1000}
}

func (s *fakeSpawner) Spawn(spec platform.LaunchSpec) (platform.Process, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.spawnErr != nil {
		return nil, s.spawnErr
	}
	s.specs = append(s.specs, spec)

	proc := s.next
	if proc == nil {
		s.nextPID++
		proc = newFakeProcess(s.nextPID, 0)
	}
	s.next = nil
	s.processes = append(s.processes, proc)
	return proc, nil
}

func (s *fakeSpawner) OpenWithDefault(path string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.openErr != nil {
		return s.openErr
	}
	s.opened = append(s.opened, path)
	return nil
}

func (s *fakeSpawner) lastSpec(t *testing.T) platform.LaunchSpec {
	t.Helper()
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if len(s.specs) == 0 {
		t.Fatal("Expected at least one spawn")
	}
	return s.specs[len(s.specs)-1]
}

// writeTarget creates a real file to launch so os.Stat succeeds.
func writeTarget(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "target.bin")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("Failed to create target file: %v", err)
	}
	return path
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("Condition not met before timeout")
}

func TestLaunchPathNotFound(t *testing.T) {
	t.Parallel()

	spawner := newFakeSpawner()
	launcher := NewLauncher(spawner, NewMockLaunchRepository(), testutils.NewCapturingLogger())

	missing := filepath.Join(t.TempDir(), "does-not-exist")
	result, err := launcher.LaunchPath(context.Background(), missing)
	if result != nil {
		t.Errorf("Expected nil result for missing target, got %+v", result)
	}
	if !launcherrors.IsLaunchNotFound(err) {
		t.Fatalf("Expected launch not-found error, got %v", err)
	}
	if err.Error() != "File not found." {
		t.Errorf("Expected message %q, got %q", "File not found.", err.Error())
	}
	if len(spawner.specs) != 0 {
		t.Errorf("Spawner should not be called for a missing target")
	}
}

func TestLaunchPathEmpty(t *testing.T) {
	t.Parallel()

	launcher := NewLauncher(newFakeSpawner(), nil, testutils.NewCapturingLogger())

	_, err := launcher.LaunchPath(context.Background(), "")
	if !launcherrors.IsLaunchValidation(err) {
		t.Fatalf("Expected validation error for empty path, got %v", err)
	}
}

func TestLaunchPathRejectsDirectory(t *testing.T) {
	t.Parallel()

	launcher := NewLauncher(newFakeSpawner(), nil, testutils.NewCapturingLogger())

	_, err := launcher.LaunchPath(context.Background(), t.TempDir())
	if !launcherrors.IsLaunchValidation(err) {
		t.Fatalf("Expected validation error for directory target, got %v", err)
	}
}

func TestLaunchPathSpawnsAndRecords(t *testing.T) {
	t.Parallel()

	spawner := newFakeSpawner()
	proc := newFakeProcess(4242, 0)
	spawner.next = proc
	repo := NewMockLaunchRepository()
	launcher := NewLauncher(spawner, repo, testutils.NewCapturingLogger())

	target := writeTarget(t)
	result, err := launcher.LaunchPathWithArgs(context.Background(), target, []string{"--flag"})
	if err != nil {
		t.Fatalf("LaunchPathWithArgs failed: %v", err)
	}
	if result.PID != 4242 {
		t.Errorf("Expected PID 4242, got %d", result.PID)
	}
	if result.TargetPath != target {
		t.Errorf("Expected target %q, got %q", target, result.TargetPath)
	}

	spec := spawner.lastSpec(t)
	if spec.Workdir != filepath.Dir(target) {
		t.Errorf("Expected workdir %q, got %q", filepath.Dir(target), spec.Workdir)
	}
	if len(spec.Args) != 1 || spec.Args[0] != "--flag" {
		t.Errorf("Expected args [--flag], got %v", spec.Args)
	}

	record, ok := repo.GetLaunch(1)
	if !ok {
		t.Fatal("Expected launch history record")
	}
	if record.PID != 4242 || record.TargetPath != target {
		t.Errorf("Unexpected history record: %+v", record)
	}
	if record.ExitedAt != nil {
		t.Error("Record should not be marked exited while the child runs")
	}

	children := launcher.RunningChildren()
	if len(children) != 1 || children[0].PID != 4242 {
		t.Fatalf("Expected one running child with PID 4242, got %v", children)
	}

	proc.exit()
	waitFor(t, 2*time.Second, func() bool {
		return len(launcher.RunningChildren()) == 0
	})

	waitFor(t, 2*time.Second, func() bool {
		record, ok := repo.GetLaunch(1)
		return ok && record.ExitedAt != nil
	})
	record, _ = repo.GetLaunch(1)
	if record.ExitCode == nil || *record.ExitCode != 0 {
		t.Errorf("Expected exit code 0, got %v", record.ExitCode)
	}
}

func TestLaunchPathReapRecordsAbnormalExit(t *testing.T) {
	t.Parallel()

	spawner := newFakeSpawner()
	proc := newFakeProcess(5151, 3)
	proc.waitErr = errors.New("signal: killed")
	spawner.next = proc
	repo := NewMockLaunchRepository()
	launcher := NewLauncher(spawner, repo, testutils.NewCapturingLogger())

	if _, err := launcher.LaunchPath(context.Background(), writeTarget(t)); err != nil {
		t.Fatalf("LaunchPath failed: %v", err)
	}

	proc.exit()
	waitFor(t, 2*time.Second, func() bool {
		record, ok := repo.GetLaunch(1)
		return ok && record.ExitedAt != nil
	})

	record, _ := repo.GetLaunch(1)
	if record.ExitCode == nil || *record.ExitCode != -1 {
		t.Errorf("Expected exit code -1 for abnormal exit, got %v", record.ExitCode)
	}
}

func TestLaunchPathSpawnFailure(t *testing.T) {
	t.Parallel()

	spawner := newFakeSpawner()
	spawner.spawnErr = errors.New("exec format error")
	launcher := NewLauncher(spawner, NewMockLaunchRepository(), testutils.NewCapturingLogger())

	_, err := launcher.LaunchPath(context.Background(), writeTarget(t))
	if !launcherrors.IsLaunchSpawnFailed(err) {
		t.Fatalf("Expected spawn-failed error, got %v", err)
	}
	if len(launcher.RunningChildren()) != 0 {
		t.Error("Failed spawn must not register a running child")
	}
}

func TestLaunchPathHistoryFailureDoesNotFailLaunch(t *testing.T) {
	t.Parallel()

	spawner := newFakeSpawner()
	proc := newFakeProcess(6001, 0)
	spawner.next = proc
	repo := NewMockLaunchRepository()
	repo.SaveLaunchErr = errors.New("disk I/O error")
	logger := testutils.NewCapturingLogger()
	launcher := NewLauncher(spawner, repo, logger)

	result, err := launcher.LaunchPath(context.Background(), writeTarget(t))
	if err != nil {
		t.Fatalf("Launch must succeed even when history fails: %v", err)
	}
	if result.PID != 6001 {
		t.Errorf("Expected PID 6001, got %d", result.PID)
	}
	if len(logger.EntriesAtLevel("ERROR")) == 0 {
		t.Error("Expected the history failure to be logged")
	}
	proc.exit()
}

func TestLaunchPathWithPersistenceDisabled(t *testing.T) {
	t.Parallel()

	spawner := newFakeSpawner()
	proc := newFakeProcess(7001, 0)
	spawner.next = proc
	repo := NewMockLaunchRepository()
	launcher := NewLauncher(spawner, repo, testutils.NewCapturingLogger())
	launcher.SetPersistenceEnabled(false)

	if _, err := launcher.LaunchPath(context.Background(), writeTarget(t)); err != nil {
		t.Fatalf("LaunchPath failed: %v", err)
	}
	if count, _ := repo.CountLaunches(context.Background()); count != 0 {
		t.Errorf("Expected no history with persistence disabled, got %d records", count)
	}
	proc.exit()
}

func TestOpenWithDefault(t *testing.T) {
	t.Parallel()

	spawner := newFakeSpawner()
	launcher := NewLauncher(spawner, nil, testutils.NewCapturingLogger())

	dir := t.TempDir()
	if err := launcher.OpenWithDefault(context.Background(), dir); err != nil {
		t.Fatalf("OpenWithDefault failed: %v", err)
	}
	if len(spawner.opened) != 1 || spawner.opened[0] != dir {
		t.Errorf("Expected default-open of %q, got %v", dir, spawner.opened)
	}
}

func TestOpenWithDefaultNotFound(t *testing.T) {
	t.Parallel()

	launcher := NewLauncher(newFakeSpawner(), nil, testutils.NewCapturingLogger())

	err := launcher.OpenWithDefault(context.Background(), filepath.Join(t.TempDir(), "ghost"))
	if !launcherrors.IsLaunchNotFound(err) {
		t.Fatalf("Expected launch not-found error, got %v", err)
	}
	if err.Error() != "File not found." {
		t.Errorf("Expected message %q, got %q", "File not found.", err.Error())
	}
}
