package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/grovetools/crashkit/pkg/paths"
)

var (
	loggers    = make(map[string]*logrus.Entry)
	loggersMu  sync.Mutex
	defaultCfg Config
)

// NewLogger creates and returns a pre-configured logger for a specific component.
// It uses a singleton pattern per component to avoid re-initializing.
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if logger, exists := loggers[component]; exists {
		return logger
	}

	entry := Configure(component, defaultCfg)
	loggers[component] = entry
	return entry
}

// Apply makes cfg the configuration for all component loggers. Already
// cached loggers are reconfigured in place so existing holders see the
// new settings; loggers created afterwards inherit cfg.
func Apply(cfg Config) {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	defaultCfg = cfg
	for component, entry := range loggers {
		configure(entry.Logger, component, cfg)
	}
}

// Configure builds a logger for component from cfg, applying
// CRASHKIT_LOG_LEVEL and CRASHKIT_LOG_CALLER overrides. Unlike
// NewLogger it does not consult or populate the component cache.
func Configure(component string, cfg Config) *logrus.Entry {
	logger := logrus.New()
	configure(logger, component, cfg)
	return logger.WithField("component", component)
}

// configure applies cfg to an existing logger.
func configure(logger *logrus.Logger, component string, cfg Config) {
	levelStr := "info"
	if os.Getenv("CRASHKIT_LOG_LEVEL") != "" {
		levelStr = os.Getenv("CRASHKIT_LOG_LEVEL")
	} else if cfg.Level != "" {
		levelStr = cfg.Level
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	logger.SetReportCaller(os.Getenv("CRASHKIT_LOG_CALLER") == "true" || cfg.ReportCaller)

	switch cfg.Format.Preset {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "simple":
		logger.SetFormatter(&TextFormatter{Config: FormatConfig{
			DisableTimestamp: true,
			DisableComponent: true,
			DisableColor:     cfg.Format.DisableColor,
		}})
	default:
		logger.SetFormatter(&TextFormatter{Config: cfg.Format})
	}

	var writers []io.Writer

	// File sink: explicit path wins, otherwise day-stamped file under
	// the crashkit state dir so reporter diagnostics survive the process.
	logFilePath := ""
	if cfg.File.Enabled && cfg.File.Path != "" {
		logFilePath = expandPath(cfg.File.Path)
	} else if stateDir := paths.StateDir(); stateDir != "" {
		dateStr := time.Now().Format("2006-01-02")
		logFilePath = filepath.Join(stateDir, "logs", fmt.Sprintf("%s-%s.log", component, dateStr))
	}
	if logFilePath != "" {
		dir := filepath.Dir(logFilePath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			if cfg.File.Enabled {
				logger.Warnf("Failed to create log directory %s: %v", dir, err)
			}
		} else {
			file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
			if err == nil {
				writers = append(writers, file)
			} else if cfg.File.Enabled {
				logger.Warnf("Failed to open log file %s: %v", logFilePath, err)
			}
		}
	}

	writers = append(writers, os.Stderr)

	if len(writers) == 1 {
		logger.SetOutput(writers[0])
	} else {
		logger.SetOutput(io.MultiWriter(writers...))
	}
}

// expandPath expands tilde in file paths
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
