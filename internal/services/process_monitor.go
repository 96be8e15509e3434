package services

import (
	"sort"
	"sync"
	"time"

	"launchdock/internal/infrastructure/logging"
	"launchdock/internal/types"

	"github.com/shirou/gopsutil/v3/process"
)

const defaultMonitorInterval = 2 * time.Second

// ProcessMonitor periodically samples CPU and memory of the children the
// launcher spawned and keeps the latest snapshot for the frontend.
type ProcessMonitor struct {
	launcher *Launcher
	logger   logging.Logger
	interval time.Duration
	stop     chan struct{}
	stopOnce sync.Once
	mutex    sync.RWMutex
	snapshot []types.ProcessInfo
}

// NewProcessMonitor creates a monitor over the launcher's running children.
// A non-positive interval falls back to the default.
func NewProcessMonitor(launcher *Launcher, interval time.Duration, logger logging.Logger) *ProcessMonitor {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	if interval <= 0 {
		interval = defaultMonitorInterval
	}

	return &ProcessMonitor{
		launcher: launcher,
		logger:   logger,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start begins the background sampling loop.
func (m *ProcessMonitor) Start() {
	go m.loop()
}

// Stop terminates the sampling loop. Safe to call more than once.
func (m *ProcessMonitor) Stop() {
	m.stopOnce.Do(func() {
		close(m.stop)
	})
}

func (m *ProcessMonitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.sample()
		case <-m.stop:
			return
		}
	}
}

// sample polls each running child once. Children that vanished between the
// launcher snapshot and the poll are skipped; the reaper removes them.
func (m *ProcessMonitor) sample() {
	children := m.launcher.RunningChildren()

	infos := make([]types.ProcessInfo, 0, len(children))
	for _, child := range children {
		info := types.ProcessInfo{
			PID:        child.PID,
			TargetPath: child.TargetPath,
			StartedAt:  child.StartedAt,
		}

		proc, err := process.NewProcess(int32(child.PID))
		if err != nil {
			m.logger.Debug("Child not visible to process poll", "pid", child.PID, "error", err)
			continue
		}

		if cpu, err := proc.CPUPercent(); err == nil {
			info.CPUPercent = cpu
		}
		if mem, err := proc.MemoryInfo(); err == nil && mem != nil {
			info.MemoryRSS = mem.RSS
		}

		infos = append(infos, info)
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].StartedAt.Before(infos[j].StartedAt)
	})

	m.mutex.Lock()
	m.snapshot = infos
	m.mutex.Unlock()
}

// Snapshot returns the most recent sample of running children.
func (m *ProcessMonitor) Snapshot() []types.ProcessInfo {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	out := make([]types.ProcessInfo, len(m.snapshot))
	copy(out, m.snapshot)
	return out
}
