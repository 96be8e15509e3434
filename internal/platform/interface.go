package platform

// LaunchSpec describes a process to spawn.
type LaunchSpec struct {
	TargetPath string
	Args       []string
	Workdir    string
}

// Process is a spawned child as seen by the launcher service. Wait blocks
// until the child exits and returns its exit code; a negative code means the
// child terminated abnormally (signal, wait failure).
type Process interface {
	Pid() int
	Wait() (int, error)
}

// Spawner abstracts the OS-specific pieces of launching: detached process
// creation and the platform's default-open verb for documents and folders.
type Spawner interface {
	Spawn(spec LaunchSpec) (Process, error)
	OpenWithDefault(path string) error
}
