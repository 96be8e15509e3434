package types

import "time"

// LaunchRecord is one row of launch history. ExitedAt and ExitCode stay nil
// until the reaper observes the child exiting.
type LaunchRecord struct {
	ID         int64      `json:"id"`
	TargetPath string     `json:"targetPath"`
	Args       []string   `json:"args"`
	Workdir    string     `json:"workdir"`
	PID        int        `json:"pid"`
	StartedAt  time.Time  `json:"startedAt"`
	ExitedAt   *time.Time `json:"exitedAt,omitempty"`
	ExitCode   *int       `json:"exitCode,omitempty"`
}

// LaunchResult is what the launch commands return to the frontend.
type LaunchResult struct {
	TargetPath string    `json:"targetPath"`
	PID        int       `json:"pid"`
	StartedAt  time.Time `json:"startedAt"`
}

// ProcessInfo describes a still-running child launched by this shell.
type ProcessInfo struct {
	PID        int       `json:"pid"`
	TargetPath string    `json:"targetPath"`
	StartedAt  time.Time `json:"startedAt"`
	CPUPercent float64   `json:"cpuPercent"`
	MemoryRSS  uint64    `json:"memoryRss"`
}

// TargetCount is an aggregate of how often a target has been launched.
type TargetCount struct {
	TargetPath string `json:"targetPath"`
	Count      int64  `json:"count"`
}
