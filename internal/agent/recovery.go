package agent

import (
	"context"
	"fmt"
	"sync"

	"github.com/quocvuong92/ai-shell/internal/logging"
	"github.com/quocvuong92/ai-shell/internal/protocol"
)

// State tracks where a query is in the auth-recovery flow.
type State int

const (
	// StateRunning is the normal streaming path
	StateRunning State = iota
	// StateAuthFailureDetected means the stream carried an auth-failure
	// error
	StateAuthFailureDetected
	// StateRecovering means the login-trigger invocation is in flight
	StateRecovering
	// StateRetrying means the original query is being re-issued
	StateRetrying
	// StateFailed means recovery or the retry failed; the query is
	// abandoned
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateAuthFailureDetected:
		return "auth_failure_detected"
	case StateRecovering:
		return "recovering"
	case StateRetrying:
		return "retrying"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Runner drives one query through the agent, transparently recovering
// from authentication failures. At most one retry happens per query, so a
// broken login can never loop.
type Runner struct {
	agent Agent
	log   *logging.Logger
	state State

	mu      sync.Mutex
	current *Stream

	// OnRecoveryStart and OnRecoveryEnd bracket the login-trigger
	// invocation, for progress display.
	OnRecoveryStart func()
	OnRecoveryEnd   func(err error)
}

// NewRunner creates a Runner for the given agent.
func NewRunner(a Agent) *Runner {
	return &Runner{
		agent: a,
		log:   logging.DefaultLogger,
		state: StateRunning,
	}
}

// State returns the current recovery state.
func (r *Runner) State() State {
	return r.state
}

// Run streams one query into sink. The returned error is the only thing
// ever surfaced to the user: a spawn failure or an unrecoverable auth
// failure. Everything else is handled internally.
func (r *Runner) Run(ctx context.Context, query string, sink func(protocol.Response)) error {
	r.setState(StateRunning)

	stream := r.agent.Query(ctx, query)
	r.setCurrent(stream)
	authFailed := r.forward(stream, sink)
	if err := stream.Err(); err != nil {
		r.setState(StateFailed)
		return err
	}
	if !authFailed {
		return nil
	}

	r.setState(StateAuthFailureDetected)
	r.setState(StateRecovering)
	if r.OnRecoveryStart != nil {
		r.OnRecoveryStart()
	}
	loginErr := r.agent.TriggerLogin(ctx)
	if r.OnRecoveryEnd != nil {
		r.OnRecoveryEnd(loginErr)
	}
	if loginErr != nil {
		r.setState(StateFailed)
		return fmt.Errorf("login recovery failed: %w", loginErr)
	}

	r.setState(StateRetrying)
	retry := r.agent.Query(ctx, query)
	r.setCurrent(retry)
	authFailed = r.forward(retry, sink)
	if err := retry.Err(); err != nil {
		r.setState(StateFailed)
		return err
	}
	if authFailed {
		r.setState(StateFailed)
		return ErrAuthUnrecoverable
	}
	return nil
}

// forward drains the stream into sink and reports whether an auth-failure
// error went by. The sink sees every response in wire order, including
// errors; rendering decides what to show.
func (r *Runner) forward(stream *Stream, sink func(protocol.Response)) bool {
	authFailed := false
	for resp := range stream.Responses() {
		sink(resp)
		if e, ok := resp.(protocol.Error); ok && e.Type == protocol.ErrorNotLoggedIn {
			authFailed = true
		}
	}
	return authFailed
}

// Abort force-kills the in-flight child process, if any. Used on a second
// interrupt, when the user wants out now.
func (r *Runner) Abort() {
	r.mu.Lock()
	stream := r.current
	r.mu.Unlock()
	if stream != nil {
		stream.Kill()
	}
}

func (r *Runner) setCurrent(s *Stream) {
	r.mu.Lock()
	r.current = s
	r.mu.Unlock()
}

func (r *Runner) setState(s State) {
	if r.state != s {
		r.log.Debug("recovery state transition", logging.Fields{
			"from": r.state.String(),
			"to":   s.String(),
		})
	}
	r.state = s
}
