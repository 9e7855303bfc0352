// Package harness provides E2E testing utilities for gitfav.
package harness

import (
	"os"
	"testing"
	"time"

	"github.com/artpar/gitfav/internal/github/githubtest"
)

// E2EHarness is the main test orchestrator.
type E2EHarness struct {
	server  *githubtest.Server
	tmpDir  string
	timeout time.Duration
}

// Config configures the harness.
type Config struct {
	Timeout time.Duration // per CLI run; default 5 seconds
}

// New creates a new E2E harness with a fresh data directory and an empty
// fake GitHub API.
func New(t *testing.T, cfg Config) *E2EHarness {
	t.Helper()

	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}

	h := &E2EHarness{
		timeout: cfg.Timeout,
	}

	tmpDir, err := os.MkdirTemp("", "gitfav-e2e-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	h.tmpDir = tmpDir
	h.server = githubtest.New()

	t.Cleanup(h.cleanup)
	return h
}

func (h *E2EHarness) cleanup() {
	h.server.Close()
	os.RemoveAll(h.tmpDir)
}

// GitHub returns the fake GitHub API.
func (h *E2EHarness) GitHub() *githubtest.Server {
	return h.server
}

// CLI returns a CLI runner for this harness.
func (h *E2EHarness) CLI() *CLIRunner {
	return &CLIRunner{harness: h}
}

// TUI returns a TUI runner for this harness.
func (h *E2EHarness) TUI() *TUIRunner {
	return &TUIRunner{harness: h}
}
