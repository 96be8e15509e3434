//go:build darwin

package platform

import "syscall"

// detachAttr puts the child in its own session so it keeps running after the
// shell quits.
func detachAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setsid: true}
}

// openCommand returns the default-open verb for macOS.
func openCommand(path string) (string, []string) {
	return "open", []string{path}
}

// iconCandidatePaths is empty on macOS; the window icon comes from the app
// bundle, not a file lookup.
func iconCandidatePaths() []string {
	return nil
}
