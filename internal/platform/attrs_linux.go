//go:build linux

package platform

import (
	"os"
	"path/filepath"
	"syscall"
)

// detachAttr puts the child in its own session so it is not tied to this
// process group and keeps running after the shell quits.
func detachAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setsid: true}
}

// openCommand returns the default-open verb for Linux desktops.
func openCommand(path string) (string, []string) {
	return "xdg-open", []string{path}
}

// iconCandidatePaths lists the places a packaged icon may live, most specific
// first. The executable-adjacent build directory covers dev runs; the XDG and
// hicolor paths cover installed packages.
func iconCandidatePaths() []string {
	var paths []string

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, "build", "appicon.png"),
			filepath.Join(exeDir, "appicon.png"),
		)
	}

	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		paths = append(paths, filepath.Join(dataHome, "icons", "launchdock.png"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".local", "share", "icons", "launchdock.png"))
	}

	paths = append(paths,
		"/usr/local/share/icons/hicolor/256x256/apps/launchdock.png",
		"/usr/share/icons/hicolor/256x256/apps/launchdock.png",
		"/usr/share/pixmaps/launchdock.png",
	)

	return paths
}
