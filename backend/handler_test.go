package backend

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingExecutor struct {
	name string
	args []string
}

func (r *recordingExecutor) Command(name string, args ...string) *exec.Cmd {
	r.name = name
	r.args = args
	return exec.Command("true")
}

func (r *recordingExecutor) CommandContext(ctx context.Context, name string, args ...string) *exec.Cmd {
	r.name = name
	r.args = args
	return exec.CommandContext(ctx, "true")
}

func TestHandlerLauncherBuildArgs(t *testing.T) {
	rec := &recordingExecutor{}
	hl := NewHandlerLauncherWithExecutor("/opt/bin/crashpad_handler", rec)

	_, err := hl.Build(context.Background(), Options{
		CrashesDirectory: "/tmp/crashes",
		SubmitURL:        "https://crash.example.com/submit",
		RateLimit:        false,
		Compress:         false,
	}, map[string]string{
		"ver":     "1.2.3",
		"channel": "beta",
	})
	require.NoError(t, err)

	assert.Equal(t, "/opt/bin/crashpad_handler", rec.name)
	assert.Equal(t, []string{
		"--database=/tmp/crashes",
		"--url=https://crash.example.com/submit",
		"--no-rate-limit",
		"--no-upload-gzip",
		"--annotation=channel=beta",
		"--annotation=ver=1.2.3",
	}, rec.args)
}

func TestHandlerLauncherRateLimitAndCompress(t *testing.T) {
	rec := &recordingExecutor{}
	hl := NewHandlerLauncherWithExecutor("crashpad_handler", rec)

	_, err := hl.Build(context.Background(), Options{
		CrashesDirectory: "/tmp/crashes",
		RateLimit:        true,
		Compress:         true,
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"--database=/tmp/crashes"}, rec.args)
}

func TestHandlerLauncherValidation(t *testing.T) {
	hl := NewHandlerLauncherWithExecutor("crashpad_handler", &recordingExecutor{})

	tests := []struct {
		name        string
		opts        Options
		annotations map[string]string
	}{
		{
			name: "empty database dir",
			opts: Options{},
		},
		{
			name: "directory traversal",
			opts: Options{CrashesDirectory: "/tmp/../etc/crashes"},
		},
		{
			name: "shell metacharacters",
			opts: Options{CrashesDirectory: "/tmp/crashes;rm"},
		},
		{
			name: "non-http submit url",
			opts: Options{CrashesDirectory: "/tmp/crashes", SubmitURL: "ftp://example.com"},
		},
		{
			name:        "annotation name with equals",
			opts:        Options{CrashesDirectory: "/tmp/crashes"},
			annotations: map[string]string{"bad=key": "v"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := hl.Build(context.Background(), tt.opts, tt.annotations)
			assert.Error(t, err)
		})
	}
}

func TestHandlerLauncherEmptyBinary(t *testing.T) {
	hl := NewHandlerLauncherWithExecutor("", &recordingExecutor{})
	_, err := hl.Build(context.Background(), Options{CrashesDirectory: "/tmp/crashes"}, nil)
	assert.Error(t, err)
}

func TestStructuredLaunchesHandlerInMainProcess(t *testing.T) {
	rec := &recordingExecutor{}
	b := NewStructured(Options{CrashesDirectory: t.TempDir()})
	b.UseLauncher(NewHandlerLauncherWithExecutor("crashpad_handler", rec))
	b.ApplyKey("channel", "beta")

	require.NoError(t, b.Initialize(""))

	assert.Equal(t, "crashpad_handler", rec.name)
	assert.Contains(t, rec.args, "--annotation=channel=beta")
	assert.NotZero(t, b.HandlerPID())
}

func TestStructuredChildProcessSkipsHandler(t *testing.T) {
	rec := &recordingExecutor{}
	b := NewStructured(Options{CrashesDirectory: t.TempDir()})
	b.UseLauncher(NewHandlerLauncherWithExecutor("crashpad_handler", rec))

	require.NoError(t, b.Initialize("renderer"))

	assert.Empty(t, rec.name)
	assert.Zero(t, b.HandlerPID())
}
