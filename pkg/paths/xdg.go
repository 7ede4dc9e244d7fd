// Package paths provides XDG-compliant path resolution for crashkit.
//
// Resolution order:
// 1. CRASHKIT_HOME (portable root) → $CRASHKIT_HOME/{config,data,state}
// 2. XDG env vars → $XDG_*_HOME/crashkit
// 3. Platform defaults → ~/.config/crashkit, ~/.local/share/crashkit, etc.
package paths

import (
	"os"
	"path/filepath"
)

// ReporterLogFilename is the fixed name of the legacy upload log kept
// inside the crash-dump directory. One line per uploaded report.
const ReporterLogFilename = "uploads.log"

// getConfigHome returns the base config home directory.
func getConfigHome() string {
	if home := os.Getenv("CRASHKIT_HOME"); home != "" {
		return filepath.Join(home, "config")
	}
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return xdgConfigHome
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".config")
	}
	return ""
}

// getDataHome returns the base data home directory.
func getDataHome() string {
	if home := os.Getenv("CRASHKIT_HOME"); home != "" {
		return filepath.Join(home, "data")
	}
	if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
		return xdgDataHome
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".local", "share")
	}
	return ""
}

// getStateHome returns the base state home directory.
func getStateHome() string {
	if home := os.Getenv("CRASHKIT_HOME"); home != "" {
		return filepath.Join(home, "state")
	}
	if xdgStateHome := os.Getenv("XDG_STATE_HOME"); xdgStateHome != "" {
		return xdgStateHome
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".local", "state")
	}
	return ""
}

// ConfigDir returns the crashkit configuration directory.
// Used for config files like crashkit.yml.
func ConfigDir() string {
	base := getConfigHome()
	if base == "" {
		return ""
	}
	return filepath.Join(base, "crashkit")
}

// DataDir returns the crashkit data directory.
// Crash dumps and the report database live under here.
func DataDir() string {
	base := getDataHome()
	if base == "" {
		return ""
	}
	return filepath.Join(base, "crashkit")
}

// StateDir returns the crashkit state directory.
// Used for runtime state, PID files, logs.
func StateDir() string {
	base := getStateHome()
	if base == "" {
		return ""
	}
	return filepath.Join(base, "crashkit")
}

// CrashDumpDir returns the default crash-dump directory.
// Resolution order:
// 1. CRASHKIT_DUMP_DIR env var (explicit override)
// 2. DataDir()/crashes (standard location)
func CrashDumpDir() string {
	if dir := os.Getenv("CRASHKIT_DUMP_DIR"); dir != "" {
		return dir
	}
	data := DataDir()
	if data == "" {
		return ""
	}
	return filepath.Join(data, "crashes")
}

// UploadLogPath returns the path of the legacy upload log inside dir,
// or inside the default crash-dump directory when dir is empty.
func UploadLogPath(dir string) string {
	if dir == "" {
		dir = CrashDumpDir()
	}
	return filepath.Join(dir, ReporterLogFilename)
}

// RuntimeDir returns the crashkit runtime directory for sockets and pipes.
// Uses XDG_RUNTIME_DIR when available (Linux), falls back to StateDir (macOS).
func RuntimeDir() string {
	if home := os.Getenv("CRASHKIT_HOME"); home != "" {
		return filepath.Join(home, "run")
	}
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "crashkit")
	}
	return StateDir()
}

// SocketPath returns the path to the crash monitor unix socket.
func SocketPath() string {
	return filepath.Join(RuntimeDir(), "crashmon.sock")
}

// PidFilePath returns the path to the crash monitor PID file.
func PidFilePath() string {
	return filepath.Join(StateDir(), "crashmon.pid")
}

// EnsureDirs creates all crashkit directories if they don't exist.
func EnsureDirs() error {
	dirs := []string{
		ConfigDir(),
		DataDir(),
		StateDir(),
		CrashDumpDir(),
		RuntimeDir(),
	}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
