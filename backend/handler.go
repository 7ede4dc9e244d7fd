package backend

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"sort"
	"strings"
)

// Executor creates exec.Cmd instances. This abstraction allows for
// dependency injection, enabling test-specific command creation logic
// (e.g., substituting a stub handler binary) without modifying
// production code.
type Executor interface {
	// Command creates a new exec.Cmd instance for the given command and arguments.
	Command(name string, args ...string) *exec.Cmd

	// CommandContext creates a new context-aware exec.Cmd instance.
	CommandContext(ctx context.Context, name string, args ...string) *exec.Cmd
}

// RealExecutor is the production implementation of the Executor
// interface, which uses the standard os/exec package to create commands.
type RealExecutor struct{}

// Command creates a standard exec.Cmd.
func (e *RealExecutor) Command(name string, args ...string) *exec.Cmd {
	return exec.Command(name, args...)
}

// CommandContext creates a standard context-aware exec.Cmd.
func (e *RealExecutor) CommandContext(ctx context.Context, name string, args ...string) *exec.Cmd {
	return exec.CommandContext(ctx, name, args...)
}

// HandlerLauncher builds and starts the out-of-process capture handler
// with validated arguments.
type HandlerLauncher struct {
	binary   string
	executor Executor
}

// NewHandlerLauncher creates a launcher for the named handler binary
// using a RealExecutor.
func NewHandlerLauncher(binary string) *HandlerLauncher {
	return NewHandlerLauncherWithExecutor(binary, &RealExecutor{})
}

// NewHandlerLauncherWithExecutor creates a launcher with a custom Executor.
func NewHandlerLauncherWithExecutor(binary string, exec Executor) *HandlerLauncher {
	return &HandlerLauncher{
		binary:   binary,
		executor: exec,
	}
}

// validateDatabaseDir ensures the report database path is safe to pass
// on a command line.
func validateDatabaseDir(path string) error {
	if path == "" {
		return fmt.Errorf("database directory cannot be empty")
	}
	if strings.Contains(path, "..") {
		return fmt.Errorf("database directory cannot contain '..'")
	}
	if strings.ContainsAny(path, ";|&$`") {
		return fmt.Errorf("database directory contains invalid characters")
	}
	return nil
}

// validateSubmitURL ensures the upload endpoint is an http(s) URL.
func validateSubmitURL(raw string) error {
	if raw == "" {
		return nil // uploads disabled, handler still captures
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid submit URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid submit URL scheme: %s", u.Scheme)
	}
	return nil
}

// validateAnnotationKey rejects annotation names that would break the
// key=value argument encoding.
func validateAnnotationKey(name string) error {
	if name == "" {
		return fmt.Errorf("annotation name cannot be empty")
	}
	if strings.ContainsAny(name, "=\n") {
		return fmt.Errorf("invalid annotation name: %s", name)
	}
	return nil
}

// Build assembles the handler command line from the backend options and
// initial annotations. Annotations are emitted in sorted order so the
// argv is deterministic.
func (hl *HandlerLauncher) Build(ctx context.Context, opts Options, annotations map[string]string) (*exec.Cmd, error) {
	if hl.binary == "" {
		return nil, fmt.Errorf("handler binary cannot be empty")
	}
	if err := validateDatabaseDir(opts.CrashesDirectory); err != nil {
		return nil, err
	}
	if err := validateSubmitURL(opts.SubmitURL); err != nil {
		return nil, err
	}

	args := []string{
		"--database=" + opts.CrashesDirectory,
	}
	if opts.SubmitURL != "" {
		args = append(args, "--url="+opts.SubmitURL)
	}
	if !opts.RateLimit {
		args = append(args, "--no-rate-limit")
	}
	if !opts.Compress {
		args = append(args, "--no-upload-gzip")
	}

	names := make([]string, 0, len(annotations))
	for name := range annotations {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := validateAnnotationKey(name); err != nil {
			return nil, err
		}
		args = append(args, fmt.Sprintf("--annotation=%s=%s", name, annotations[name]))
	}

	return hl.executor.CommandContext(ctx, hl.binary, args...), nil //nolint:gosec // arguments validated above
}

// Start builds the handler command and starts it detached. The handler
// runs for the rest of the process lifetime; we never wait on it.
func (hl *HandlerLauncher) Start(ctx context.Context, opts Options, annotations map[string]string) (*exec.Cmd, error) {
	cmd, err := hl.Build(ctx, opts, annotations)
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return cmd, nil
}
