// Package intercept is the shell-facing hook for unresolved commands. It
// decides whether an unresolved command line becomes an AI query, drives
// the query pipeline, and reports a result the shell treats as a normal
// successful execution.
package intercept

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/quocvuong92/ai-shell/internal/agent"
	"github.com/quocvuong92/ai-shell/internal/config"
	"github.com/quocvuong92/ai-shell/internal/constants"
	"github.com/quocvuong92/ai-shell/internal/display"
	"github.com/quocvuong92/ai-shell/internal/logging"
	"github.com/quocvuong92/ai-shell/internal/protocol"
)

// Result is what the shell gets back for an unresolved command.
type Result struct {
	// Handled is false when the shell should report its own
	// command-not-found error; no child process was spawned.
	Handled bool

	// ExitCode is always zero when Handled: the AI answer is an
	// execution result indistinguishable from success.
	ExitCode int
}

// Interceptor routes unresolved command lines through the AI pipeline.
// Register one at shell startup; it is a pure mapping from command tokens
// to a Result, with output going straight to the inherited terminal.
type Interceptor struct {
	cfg   *config.Config
	agent agent.Agent
	log   *logging.Logger
}

// New creates an Interceptor around the given agent.
func New(cfg *config.Config, a agent.Agent) *Interceptor {
	return &Interceptor{
		cfg:   cfg,
		agent: a,
		log:   logging.DefaultLogger,
	}
}

// OnCommandNotFound handles one unresolved command line. Empty input and
// skip-list entries are declined so the shell shows its normal error;
// anything else becomes one AI query. Output is written directly to the
// terminal, not into the shell's capture mechanism.
func (i *Interceptor) OnCommandNotFound(ctx context.Context, tokens []string) Result {
	query := strings.TrimSpace(strings.Join(tokens, " "))
	if query == "" {
		return Result{Handled: false}
	}
	if i.cfg.ShouldSkip(tokens[0]) {
		i.log.Debug("skip-list hit", logging.Fields{"command": tokens[0]})
		return Result{Handled: false}
	}
	return i.Ask(ctx, query)
}

// Ask routes a query to the AI unconditionally, bypassing the skip-list.
// One-shot invocations use this: the user asked on purpose.
func (i *Interceptor) Ask(ctx context.Context, query string) Result {
	query = strings.TrimSpace(query)
	if query == "" {
		return Result{Handled: false}
	}

	queryID := uuid.New().String()
	i.log.Info("intercepted query", logging.Fields{"query_id": queryID, "query": query})

	if err := i.runQuery(ctx, query); err != nil {
		display.ShowError(err.Error())
		i.log.Error("query failed", err, logging.Fields{"query_id": queryID})
	}

	// The shell sees success either way; the worst outcome is no answer
	// this time.
	return Result{Handled: true, ExitCode: 0}
}

// runQuery drives one query to its terminal response, handling interrupts:
// the first Ctrl+C asks the child process group to wind down within the
// grace period, a second within the window kills it outright.
func (i *Interceptor) runQuery(ctx context.Context, query string) error {
	ctx, cancel := context.WithTimeout(ctx, i.cfg.QueryTimeout)
	defer cancel()

	var opts []display.Option
	if i.cfg.Render {
		opts = append(opts, display.WithMarkdown())
	}
	formatter := display.NewFormatter(opts...)

	runner := agent.NewRunner(i.agent)
	var sp interface{ Stop() }
	runner.OnRecoveryStart = func() {
		display.ShowNotice("\nClaude CLI requires login. Launching login process...")
		s := display.NewSpinner("Waiting for login to complete...")
		s.Start()
		sp = s
	}
	runner.OnRecoveryEnd = func(err error) {
		if sp != nil {
			sp.Stop()
			sp = nil
		}
		if err == nil {
			display.ShowNotice("Login completed. Retrying your request...")
		}
	}

	sigC := make(chan os.Signal, 2)
	signal.Notify(sigC, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigC)

	done := make(chan error, 1)
	go func() {
		done <- runner.Run(ctx, query, func(resp protocol.Response) {
			formatter.Format(resp)
		})
	}()

	var firstInterrupt time.Time
	for {
		select {
		case err := <-done:
			return err
		case <-sigC:
			now := time.Now()
			if firstInterrupt.IsZero() || now.Sub(firstInterrupt) > constants.DoubleInterruptWindow {
				firstInterrupt = now
				cancel()
			} else {
				runner.Abort()
			}
		}
	}
}
