//go:build windows

package platform

import (
	"syscall"

	"golang.org/x/sys/windows"
)

// detachAttr detaches the child from our console and process group so closing
// the shell does not take it down.
func detachAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		HideWindow:    false,
		CreationFlags: windows.CREATE_NEW_PROCESS_GROUP | windows.DETACHED_PROCESS,
	}
}

// openCommand returns the default-open verb for Windows. rundll32 avoids the
// cmd.exe quoting rules around `start`.
func openCommand(path string) (string, []string) {
	return "rundll32", []string{"url.dll,FileProtocolHandler", path}
}

// iconCandidatePaths is empty on Windows; the window icon is embedded in the
// executable resources at build time.
func iconCandidatePaths() []string {
	return nil
}
