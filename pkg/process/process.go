// Package process provides liveness checks for monitor PID handling.
package process

import (
	"os"
	"syscall"
)

// IsProcessAlive checks if a process with the given PID is still
// running. It uses signal 0, which probes for existence without
// delivering anything; works on Linux and macOS.
func IsProcessAlive(pid int) bool {
	if pid <= 0 {
		return false
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return false // Does not happen on Unix-like systems.
	}

	err = proc.Signal(syscall.Signal(0))

	// nil means alive with permission; EPERM means alive without it.
	return err == nil || os.IsPermission(err)
}
