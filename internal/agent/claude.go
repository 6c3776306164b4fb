package agent

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/quocvuong92/ai-shell/internal/config"
	"github.com/quocvuong92/ai-shell/internal/constants"
	"github.com/quocvuong92/ai-shell/internal/logging"
	"github.com/quocvuong92/ai-shell/internal/procgroup"
	"github.com/quocvuong92/ai-shell/internal/protocol"
)

// stderrKeep caps how much stderr is retained for diagnostics. The drain
// itself always reads to EOF, whatever the volume.
const stderrKeep = 64 * 1024

// maxLineSize bounds a single stdout line; tool results can be large.
// Longer lines are dropped, not fatal: the read loop keeps consuming so
// the child can never block writing stdout.
const maxLineSize = 1024 * 1024

// ClaudeAgent drives the Claude CLI in --print streaming mode.
type ClaudeAgent struct {
	bin          string
	grace        time.Duration
	loginTimeout time.Duration
	log          *logging.Logger
}

// NewClaudeAgent creates an agent using the binary named in cfg.
func NewClaudeAgent(cfg *config.Config) *ClaudeAgent {
	return &ClaudeAgent{
		bin:          cfg.ClaudeBinary,
		grace:        cfg.GracePeriod,
		loginTimeout: cfg.LoginTimeout,
		log:          logging.DefaultLogger,
	}
}

// Name returns the backend's display name.
func (a *ClaudeAgent) Name() string {
	return constants.DefaultAgentName
}

// Available reports whether the CLI binary is on PATH.
func (a *ClaudeAgent) Available() bool {
	_, err := exec.LookPath(a.bin)
	return err == nil
}

// Query starts one CLI invocation for prompt. All failures are reported
// in-band as Error responses; the stream always closes.
func (a *ClaudeAgent) Query(ctx context.Context, prompt string) *Stream {
	s := newStream(a.grace)
	go a.run(ctx, prompt, s)
	return s
}

// run owns the child process from spawn to reap. The stderr drain is
// joined before Wait so the process can never stall on a full pipe, and
// no pipe is released while a reader is still on it.
func (a *ClaudeAgent) run(ctx context.Context, prompt string, s *Stream) {
	defer close(s.responses)
	defer close(s.done)

	if !a.Available() {
		s.fail(ctx, protocol.Error{
			Content: ErrNotInstalled.Error(),
			Type:    protocol.ErrorCLINotFound,
		}, ErrNotInstalled)
		return
	}

	cmd := exec.Command(a.bin, "--print", "--verbose", "--output-format", "stream-json", prompt)
	procgroup.Setup(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		a.failSpawn(ctx, s, err)
		return
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		a.failSpawn(ctx, s, err)
		return
	}

	if err := cmd.Start(); err != nil {
		a.failSpawn(ctx, s, err)
		return
	}
	s.setProcess(cmd.Process)
	a.log.Debug("claude started", logging.Fields{"pid": cmd.Process.Pid})

	// Drain stderr for the entire process lifetime, independent of how
	// fast stdout is consumed.
	var drain sync.WaitGroup
	stderrText := ""
	drain.Add(1)
	go func() {
		defer drain.Done()
		stderrText = drainStderr(stderr)
	}()

	// First cancellation asks the process group to terminate and arms a
	// grace timer; the stdout loop then ends at EOF.
	watchDone := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			s.Interrupt()
		case <-watchDone:
		}
	}()

	decoder := protocol.NewDecoder()
	reader := bufio.NewReaderSize(stdout, 64*1024)
	for {
		line, tooLong, err := readLine(reader)
		if tooLong {
			a.log.Debug("dropping oversized stdout line", logging.Fields{"limit": maxLineSize})
		} else if line != "" {
			if resp, ok := decoder.Decode(line); ok {
				if !s.emit(ctx, resp) {
					break
				}
			}
		}
		if err != nil {
			if err != io.EOF {
				a.log.Warn("stdout read ended early", logging.Fields{"error": err.Error()})
			}
			break
		}
	}
	// Whatever ended the loop, stdout must be consumed to EOF or the
	// child can stall on a full pipe and Wait never returns.
	_, _ = io.Copy(io.Discard, stdout)

	drain.Wait()
	waitErr := cmd.Wait()
	close(watchDone)

	a.finish(ctx, s, stderrText, waitErr)
}

// finish emits trailing in-band errors derived from stderr and the exit
// code, mirroring what the CLI reports out-of-band.
func (a *ClaudeAgent) finish(ctx context.Context, s *Stream, stderrText string, waitErr error) {
	emitted := false
	if stderrText != "" {
		t := protocol.ClassifyError(stderrText)
		if t != protocol.ErrorUnknown || waitErr != nil {
			s.emit(ctx, protocol.Error{Content: stderrText, Type: t})
			emitted = true
		}
		a.log.Debug("claude stderr", logging.Fields{"text": stderrText})
	}
	if waitErr != nil && !emitted {
		s.emit(ctx, protocol.Error{
			Content: fmt.Sprintf("claude exited abnormally: %v", waitErr),
			Type:    protocol.ErrorUnknown,
		})
	}
}

func (a *ClaudeAgent) failSpawn(ctx context.Context, s *Stream, err error) {
	spawnErr := fmt.Errorf("failed to start %s: %w", a.bin, err)
	s.fail(ctx, protocol.Error{Content: spawnErr.Error(), Type: protocol.ErrorUnknown}, spawnErr)
}

// TriggerLogin runs a separate, non-interactive login invocation of the
// CLI and waits for it, bounded by the login timeout.
func (a *ClaudeAgent) TriggerLogin(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, a.loginTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, a.bin, "/login")
	out, err := cmd.CombinedOutput()
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("login timed out after %s", a.loginTimeout)
	}
	if err != nil {
		return fmt.Errorf("login invocation failed: %w (%s)", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// RunInteractive runs the CLI attached to the user's terminal, for
// commands like login that need the real TTY.
func (a *ClaudeAgent) RunInteractive(ctx context.Context, args ...string) error {
	if !a.Available() {
		return ErrNotInstalled
	}
	cmd := exec.CommandContext(ctx, a.bin, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Ready probes whether the CLI is installed and authenticated. Modeled on
// a short throwaway invocation; a probe that outlives its timeout is
// assumed healthy but slow.
func (a *ClaudeAgent) Ready(ctx context.Context) Status {
	if !a.Available() {
		return StatusNotInstalled
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DefaultProbeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, a.bin, "--print", "--output-format", "stream-json", "/exit")
	out, err := cmd.CombinedOutput()
	if ctx.Err() == context.DeadlineExceeded {
		return StatusReady
	}
	if protocol.ClassifyError(string(out)) == protocol.ErrorNotLoggedIn {
		return StatusNotLoggedIn
	}
	if err != nil {
		a.log.Debug("readiness probe failed", logging.Fields{"error": err.Error()})
	}
	return StatusReady
}

// readLine reads one stdout line, reporting lines over maxLineSize as
// tooLong instead of failing. An oversized line is consumed in full so
// the lines after it still decode.
func readLine(r *bufio.Reader) (line string, tooLong bool, err error) {
	var buf []byte
	for {
		frag, isPrefix, err := r.ReadLine()
		if err != nil {
			return string(buf), tooLong, err
		}
		if !tooLong {
			if len(buf)+len(frag) > maxLineSize {
				tooLong = true
				buf = nil
			} else {
				buf = append(buf, frag...)
			}
		}
		if !isPrefix {
			return string(buf), tooLong, nil
		}
	}
}

// drainStderr reads r to EOF, keeping only a capped prefix for
// diagnostics.
func drainStderr(r io.Reader) string {
	var buf bytes.Buffer
	_, _ = io.Copy(&buf, io.LimitReader(r, stderrKeep))
	_, _ = io.Copy(io.Discard, r)
	return strings.TrimSpace(buf.String())
}
