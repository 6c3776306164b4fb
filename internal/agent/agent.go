// Package agent runs the Claude CLI as a child process and exposes its
// streaming output as a sequence of typed responses.
//
// A query produces exactly one child process. Stdout is decoded line by
// line and yielded as it arrives; stderr is drained by a goroutine for the
// whole process lifetime so the child can never block on a full pipe.
package agent

import (
	"context"
	"errors"

	"github.com/quocvuong92/ai-shell/internal/config"
)

// Errors surfaced to the user. Everything else stays internal.
var (
	// ErrNotInstalled means the CLI binary is missing from PATH
	ErrNotInstalled = errors.New("claude CLI not found, see https://docs.anthropic.com/en/docs/claude-code/getting-started")
	// ErrAuthUnrecoverable means login recovery ran but the retry still
	// failed authentication
	ErrAuthUnrecoverable = errors.New("authentication failed and login recovery did not help")
)

// Status describes the outcome of a readiness probe.
type Status int

const (
	// StatusReady means the CLI is installed and authenticated
	StatusReady Status = iota
	// StatusNotInstalled means the CLI binary is missing
	StatusNotInstalled
	// StatusNotLoggedIn means the CLI is installed but not authenticated
	StatusNotLoggedIn
)

// String returns a human-readable status.
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusNotInstalled:
		return "not installed"
	case StatusNotLoggedIn:
		return "not logged in"
	default:
		return "unknown"
	}
}

// Agent is an AI backend that answers one query at a time with a stream
// of responses.
type Agent interface {
	// Name returns the backend's display name
	Name() string

	// Available reports whether the backend binary is present
	Available() bool

	// Query starts the backend for one prompt. The returned stream is
	// finite and non-restartable; its channel closes when the child
	// process is gone.
	Query(ctx context.Context, prompt string) *Stream

	// TriggerLogin runs the backend's login flow and blocks until it
	// finishes or times out.
	TriggerLogin(ctx context.Context) error
}

// New returns the agent for the given configuration. The binary name in
// cfg may point at a test double.
func New(cfg *config.Config) Agent {
	return NewClaudeAgent(cfg)
}
