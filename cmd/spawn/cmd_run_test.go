//go:build unix

package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/vertti/spawn/pkg/spawn"
)

func requireExit(t *testing.T, err error, code int) {
	t.Helper()
	var ee *exitError
	require.True(t, errors.As(err, &ee), "expected exit error, got %v", err)
	assert.Equal(t, code, ee.code)
}

func TestRunRelaysOutput(t *testing.T) {
	stdout, stderr, err := executeWithStreams("", "run", "--", "sh", "-c", "echo out; echo err >&2")
	require.NoError(t, err)
	assert.Equal(t, "out\n", stdout)
	assert.Equal(t, "err\n", stderr)
}

func TestRunWithoutSeparator(t *testing.T) {
	stdout, _, err := executeWithStreams("", "run", "echo", "-n", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", stdout)
}

func TestRunRelaysStdin(t *testing.T) {
	stdout, _, err := executeWithStreams("line one\nline two\n", "run", "--", "cat")
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two\n", stdout)
}

func TestRunExitStatus(t *testing.T) {
	_, _, err := executeWithStreams("", "run", "--", "sh", "-c", "exit 3")
	requireExit(t, err, 3)
	assert.Equal(t, 3, exitCode(err))
}

func TestRunSignalledChild(t *testing.T) {
	_, _, err := executeWithStreams("", "run", "--", "sh", "-c", "kill -TERM $$")
	requireExit(t, err, 128+15)
}

func TestRunLaunchFailure(t *testing.T) {
	_, stderr, err := executeWithStreams("", "run", "--", "/nonexistent/program")
	requireExit(t, err, spawn.ExitNotRunnable)
	assert.Contains(t, stderr, "[FAIL]")
	assert.Contains(t, stderr, "run: /nonexistent/program")
	assert.Contains(t, stderr, "not found or not executable")
}

func TestRunEnvReplacesEnvironment(t *testing.T) {
	t.Setenv("SPAWN_TEST_INHERITED", "leaked")
	stdout, _, err := executeWithStreams("",
		"run", "--env", "PATH=/bin:/usr/bin", "--env", "FOO=bar",
		"--", "sh", "-c", `echo "$FOO:$SPAWN_TEST_INHERITED"`)
	require.NoError(t, err)
	assert.Equal(t, "bar:\n", stdout)
}

func TestRunEnvWithoutPath(t *testing.T) {
	_, stderr, err := executeWithStreams("", "run", "--env", "FOO=bar", "--", "sh", "-c", "true")
	requireExit(t, err, spawn.ExitNotRunnable)
	assert.Contains(t, stderr, "no search path available")
}

func TestRunDir(t *testing.T) {
	dir := t.TempDir()
	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)

	stdout, _, err := executeWithStreams("", "run", "--dir", dir, "--", "pwd", "-P")
	require.NoError(t, err)
	assert.Equal(t, want, strings.TrimSpace(stdout))
}

func TestRunMissingDirFallsBack(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	want, err := filepath.EvalSymlinks(wd)
	require.NoError(t, err)

	stdout, _, err := executeWithStreams("", "run", "--dir", "/nonexistent/dir", "--", "pwd", "-P")
	require.NoError(t, err)
	assert.Equal(t, want, strings.TrimSpace(stdout))
}

func TestRunFromFile(t *testing.T) {
	path := writeTempFile(t, "req.yaml", `argv: [sh, -c, 'echo "$GREETING"']
env:
  PATH: /bin:/usr/bin
  GREETING: hello from file
`)
	stdout, _, err := executeWithStreams("", "run", "--file", path)
	require.NoError(t, err)
	assert.Equal(t, "hello from file\n", stdout)
}

func TestRunFromFileFlagOverrides(t *testing.T) {
	path := writeTempFile(t, "req.json", `{"argv": ["sh", "-c", "echo $GREETING"], "env": ["PATH=/bin:/usr/bin", "GREETING=file"]}`)
	stdout, _, err := executeWithStreams("",
		"run", "--file", path, "--env", "PATH=/bin:/usr/bin", "--env", "GREETING=flag")
	require.NoError(t, err)
	assert.Equal(t, "flag\n", stdout)
}

func TestRunFromDiscoveredFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".spawn.json"),
		[]byte(`{"argv": ["echo", "discovered"]}`), 0o600))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Setenv("PWD", dir)
	t.Cleanup(func() { _ = os.Chdir(wd) })

	stdout, _, err := executeWithStreams("", "run")
	require.NoError(t, err)
	assert.Equal(t, "discovered\n", stdout)
}

func TestRunValidation(t *testing.T) {
	path := writeTempFile(t, "req.yaml", "argv: [true]\n")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"file and program", []string{"run", "--file", path, "--", "true"}, "only one of"},
		{"env without equals", []string{"run", "--env", "FOO", "--", "true"}, "expected KEY=VALUE"},
		{"env with empty key", []string{"run", "--env", "=x", "--", "true"}, "empty key"},
		{"missing file", []string{"run", "--file", "/nonexistent/req.yaml"}, "request file not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := executeWithStreams("", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Equal(t, 1, exitCode(err))
		})
	}
}

type capturingExecutor struct {
	name string
	args []string
	env  []string
}

func (c *capturingExecutor) Exec(name string, args, env []string) error {
	c.name, c.args, c.env = name, args, env
	return nil
}

func TestRunReplace(t *testing.T) {
	captured := &capturingExecutor{}
	old := executor
	executor = captured
	t.Cleanup(func() { executor = old })

	_, _, err := executeWithStreams("", "run", "--replace", "--env", "A=1", "--", "gdb", "-q")
	require.NoError(t, err)
	assert.Equal(t, "gdb", captured.name)
	assert.Equal(t, []string{"-q"}, captured.args)
	assert.Equal(t, []string{"A=1"}, captured.env)
}

func shortOutputGrace(t *testing.T) {
	t.Helper()
	old := outputGrace
	outputGrace = 100 * time.Millisecond
	t.Cleanup(func() { outputGrace = old })
}

func launchForRelay(t *testing.T, argv ...string) spawn.Result {
	t.Helper()
	res := spawn.New(spawn.Options{}).Launch(spawn.Request{Argv: argv})
	require.True(t, res.OK(), "launch failed: %s", res.ErrorMessage())
	t.Cleanup(func() { _ = unix.Kill(-res.Pid, unix.SIGKILL) })
	return res
}

func TestRelayCutsOffOutputHeldByBackgroundProcess(t *testing.T) {
	shortOutputGrace(t)
	res := launchForRelay(t, "/bin/sh", "-c", "sleep 30 & echo started")

	var stdout, stderr bytes.Buffer
	begin := time.Now()
	code, err := relay(strings.NewReader(""), &stdout, &stderr, &res, zap.NewNop())

	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "started\n", stdout.String())
	assert.Less(t, time.Since(begin), 10*time.Second, "relay must not wait for the background process")
	assert.Nil(t, res.Stdout)
	assert.Nil(t, res.Stderr)
}

func TestRelayDoesNotWaitForBlockedStdin(t *testing.T) {
	shortOutputGrace(t)
	res := launchForRelay(t, "/bin/sh", "-c", "exit 4")

	stdin, stdinWriter := io.Pipe()
	t.Cleanup(func() { _ = stdinWriter.Close() })

	type outcome struct {
		code int
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		var stdout, stderr bytes.Buffer
		code, err := relay(stdin, &stdout, &stderr, &res, zap.NewNop())
		done <- outcome{code, err}
	}()

	select {
	case got := <-done:
		require.NoError(t, got.err)
		assert.Equal(t, 4, got.code)
	case <-time.After(10 * time.Second):
		t.Fatal("relay blocked on stdin after the child exited")
	}
}
