package harness

import (
	"bytes"
	"context"
	"path/filepath"
	"time"

	"github.com/artpar/gitfav/internal/cli"
)

// CLIResult holds CLI execution results.
type CLIResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// CLIRunner executes CLI commands.
type CLIRunner struct {
	harness *E2EHarness
}

// Run executes a CLI command with the given arguments against the
// harness data directory and fake API.
func (r *CLIRunner) Run(args ...string) (*CLIResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.harness.timeout)
	defer cancel()

	start := time.Now()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	cmd := cli.NewRootCommand("test")
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(append(args,
		"--data-dir", r.harness.tmpDir,
		"--api-url", r.harness.server.BaseURL(),
		"--config", filepath.Join(r.harness.tmpDir, "config.yml"),
		"--log-level", "error",
	))

	err := cmd.ExecuteContext(ctx)

	result := &CLIResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		result.ExitCode = 1
	}

	return result, err
}

// Add bookmarks logins.
func (r *CLIRunner) Add(logins ...string) (*CLIResult, error) {
	return r.Run(append([]string{"add"}, logins...)...)
}

// ListJSON lists bookmarks as JSON.
func (r *CLIRunner) ListJSON() (*CLIResult, error) {
	return r.Run("list", "--json")
}

// Stars prints starred repositories for login.
func (r *CLIRunner) Stars(login string, opts ...string) (*CLIResult, error) {
	return r.Run(append([]string{"stars", login}, opts...)...)
}
