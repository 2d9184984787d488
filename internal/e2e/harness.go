// Package e2e provides testing infrastructure for end-to-end CLI tests.
// It includes a harness for running CLI commands against an isolated hub
// and isolated tool directories, fixtures and assertion helpers.
package e2e

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauern/skillhub/internal/cli"
	"github.com/klauern/skillhub/internal/model"
)

// Result contains the outcome of running a CLI command.
type Result struct {
	// Stdout contains the captured standard output.
	Stdout string
	// Err is the error returned by the CLI command, if any.
	Err error
	// ExitCode is the inferred exit code (0 for success, 1 for error).
	ExitCode int
}

// Success returns true if the command completed without error.
func (r *Result) Success() bool {
	return r.Err == nil
}

// Harness runs CLI commands with SKILLHUB_HOME, HOME and every tool's
// skills directory pointed into a per-test temp directory.
type Harness struct {
	t        *testing.T
	homeDir  string
	toolDirs map[model.Tool]string
}

// harnessTools are the tools NewHarness wires up. Each gets its own
// skills directory, which also marks it detected.
var harnessTools = []model.Tool{model.Claude, model.Codex, model.Cursor}

// NewHarness creates a new E2E test harness.
func NewHarness(t *testing.T) *Harness {
	t.Helper()

	homeDir := t.TempDir()
	h := &Harness{
		t:        t,
		homeDir:  homeDir,
		toolDirs: make(map[model.Tool]string),
	}

	t.Setenv("HOME", filepath.Join(homeDir, "user"))
	t.Setenv("SKILLHUB_HOME", filepath.Join(homeDir, "skillhub"))
	t.Setenv("SKILLHUB_LOG_LEVEL", "error")
	t.Setenv("SKILLHUB_OUTPUT_COLOR", "never")

	for _, tool := range harnessTools {
		dir := filepath.Join(homeDir, "tools", tool.String(), "skills")
		if err := os.MkdirAll(dir, 0o750); err != nil {
			t.Fatalf("failed to create %s skills directory: %v", tool, err)
		}
		h.toolDirs[tool] = dir
		t.Setenv("SKILLHUB_"+toEnv(tool)+"_SKILLS_PATHS", dir)
	}
	return h
}

func toEnv(tool model.Tool) string {
	b := []byte(tool.String())
	for i, c := range b {
		switch {
		case c >= 'a' && c <= 'z':
			b[i] = c - 'a' + 'A'
		case c == '-':
			b[i] = '_'
		}
	}
	return string(b)
}

// SetEnv sets an environment variable for CLI commands run through this
// harness. It is restored when the test completes.
func (h *Harness) SetEnv(key, value string) {
	h.t.Helper()
	h.t.Setenv(key, value)
}

// HomeDir returns the isolated root directory for this test harness.
func (h *Harness) HomeDir() string {
	return h.homeDir
}

// HubSkillsDir returns where the hub keeps canonical skills.
func (h *Harness) HubSkillsDir() string {
	return filepath.Join(h.homeDir, "skillhub", "store", "skills")
}

// ToolDir returns the skills directory of a harness tool.
func (h *Harness) ToolDir(tool model.Tool) string {
	dir, ok := h.toolDirs[tool]
	if !ok {
		h.t.Fatalf("tool %s is not wired into the harness", tool)
	}
	return dir
}

// Run executes a CLI command with the given arguments and captures the
// output.
func (h *Harness) Run(args ...string) *Result {
	h.t.Helper()

	if len(args) == 0 || args[0] != "skillhub" {
		args = append([]string{"skillhub"}, args...)
	}

	oldStdout := os.Stdout
	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		h.t.Fatalf("failed to create stdout pipe: %v", err)
	}
	os.Stdout = stdoutW

	// Read concurrently so output larger than the pipe buffer cannot block
	// the command.
	var stdoutBuf bytes.Buffer
	var copyErr error
	copyDone := make(chan struct{})
	go func() {
		defer close(copyDone)
		_, copyErr = io.Copy(&stdoutBuf, stdoutR)
	}()

	cmdErr := cli.Run(context.Background(), args)

	if err := stdoutW.Close(); err != nil {
		h.t.Fatalf("failed to close stdout pipe writer: %v", err)
	}
	os.Stdout = oldStdout

	<-copyDone
	if copyErr != nil {
		h.t.Fatalf("failed to read captured stdout: %v", copyErr)
	}

	exitCode := 0
	if cmdErr != nil {
		exitCode = 1
	}
	return &Result{
		Stdout:   stdoutBuf.String(),
		Err:      cmdErr,
		ExitCode: exitCode,
	}
}
