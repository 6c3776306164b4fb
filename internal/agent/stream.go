package agent

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/quocvuong92/ai-shell/internal/procgroup"
	"github.com/quocvuong92/ai-shell/internal/protocol"
)

// Stream is the finite, ordered response sequence of one query. It is not
// restartable; once the channel closes the child process has been reaped.
type Stream struct {
	responses chan protocol.Response
	done      chan struct{}
	grace     time.Duration

	mu   sync.Mutex
	proc *os.Process
	err  error
}

func newStream(grace time.Duration) *Stream {
	return &Stream{
		responses: make(chan protocol.Response, 8),
		done:      make(chan struct{}),
		grace:     grace,
	}
}

// Responses returns the ordered response channel. It closes after the
// child process exits and the stderr drain has joined.
func (s *Stream) Responses() <-chan protocol.Response {
	return s.responses
}

// Err returns the fatal error for streams that could not run at all
// (binary missing, spawn failure). Valid once the channel has closed.
func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Interrupt requests graceful termination: SIGTERM to the process group
// now, SIGKILL if teardown has not finished within the grace period.
func (s *Stream) Interrupt() {
	p := s.process()
	if p == nil {
		return
	}
	_ = procgroup.Terminate(p)
	go func() {
		select {
		case <-s.done:
		case <-time.After(s.grace):
			_ = procgroup.Kill(p)
		}
	}()
}

// Kill forces immediate termination of the process group, no grace.
func (s *Stream) Kill() {
	_ = procgroup.Kill(s.process())
}

// emit delivers one response, giving up if the consumer is gone.
func (s *Stream) emit(ctx context.Context, r protocol.Response) bool {
	select {
	case s.responses <- r:
		return true
	case <-ctx.Done():
		return false
	}
}

// fail records a fatal error and emits its in-band Error so the sequence
// still terminates with an Error variant.
func (s *Stream) fail(ctx context.Context, e protocol.Error, err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
	s.emit(ctx, e)
}

func (s *Stream) setProcess(p *os.Process) {
	s.mu.Lock()
	s.proc = p
	s.mu.Unlock()
}

func (s *Stream) process() *os.Process {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.proc
}
