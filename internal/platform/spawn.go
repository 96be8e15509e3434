package platform

import (
	"errors"
	"os/exec"
)

// osSpawner implements Spawner with os/exec plus per-OS process attributes.
type osSpawner struct{}

// NewSpawner creates a Spawner for the current OS.
func NewSpawner() Spawner {
	return &osSpawner{}
}

// osProcess wraps the started command for the reaper.
type osProcess struct {
	cmd *exec.Cmd
}

func (p *osProcess) Pid() int {
	if p.cmd.Process == nil {
		return 0
	}
	return p.cmd.Process.Pid
}

// Wait blocks until the child exits. A normal exit with a non-zero code is
// not an error here; the code itself is the result.
func (p *osProcess) Wait() (int, error) {
	err := p.cmd.Wait()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}

// Spawn starts the target as a detached child process. The child does not
// inherit our stdio and survives this shell exiting.
func (s *osSpawner) Spawn(spec LaunchSpec) (Process, error) {
	cmd := exec.Command(spec.TargetPath, spec.Args...)
	cmd.Dir = spec.Workdir
	cmd.SysProcAttr = detachAttr()

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	return &osProcess{cmd: cmd}, nil
}

// OpenWithDefault hands the path to the OS default-open verb.
func (s *osSpawner) OpenWithDefault(path string) error {
	name, args := openCommand(path)
	cmd := exec.Command(name, args...)

	if err := cmd.Start(); err != nil {
		return err
	}

	// The helper is fire-and-forget; release it so it never turns into a
	// zombie waiting on us.
	return cmd.Process.Release()
}
