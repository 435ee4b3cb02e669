// Package tunnel validates tunnel requests and supervises the ssh process
// that carries the forward.
package tunnel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/treykane/ssh-tunnel/internal/events"
	"github.com/treykane/ssh-tunnel/internal/failure"
	"github.com/treykane/ssh-tunnel/internal/model"
	"github.com/treykane/ssh-tunnel/internal/sshclient"
	"github.com/treykane/ssh-tunnel/internal/util"
)

// TunnelStarter abstracts SSH tunnel process creation for testing.
type TunnelStarter interface {
	StartTunnel(req model.TunnelRequest) (*sshclient.TunnelProcess, error)
}

// Journal records lifecycle events. *events.Store satisfies it.
type Journal interface {
	Append(evt events.Event) error
}

// Reporter receives the user-facing status transitions.
type Reporter interface {
	Established(req model.TunnelRequest)
	Stopping()
}

// Options configures a Supervisor.
type Options struct {
	// StopTimeout bounds the wait after SIGTERM before the process is killed.
	StopTimeout time.Duration
	Reporter    Reporter
	Journal     Journal
}

// Supervisor owns the single ssh process of a tunnel. It launches the
// process, then blocks until either the process exits or ctx is cancelled.
type Supervisor struct {
	starter TunnelStarter
	opts    Options

	mu    sync.Mutex
	proc  *sshclient.TunnelProcess
	state model.TunnelState
}

// NewSupervisor creates a supervisor that launches tunnels with starter.
func NewSupervisor(starter TunnelStarter, opts Options) *Supervisor {
	if opts.StopTimeout <= 0 {
		opts.StopTimeout = util.DefaultStopTimeout
	}
	return &Supervisor{starter: starter, opts: opts, state: model.TunnelDown}
}

// State returns the current tunnel state.
func (s *Supervisor) State() model.TunnelState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// PID returns the ssh process id, or 0 before launch.
func (s *Supervisor) PID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.proc.PID()
}

// Run launches the tunnel for req and waits. It returns nil when the ssh
// process exits, whatever its exit status, and when ctx is cancelled and the
// process has been stopped. Cancelling ctx is how interrupts are delivered.
func (s *Supervisor) Run(ctx context.Context, req model.TunnelRequest) error {
	s.mu.Lock()
	if s.proc != nil {
		pid := s.proc.PID()
		s.mu.Unlock()
		return fmt.Errorf("tunnel already launched (pid %d)", pid)
	}
	if ctx.Err() != nil {
		// Interrupted before launch: there is no process to signal.
		s.mu.Unlock()
		slog.Debug("interrupted before launch", "host", req.Host)
		return nil
	}
	s.state = model.TunnelStarting
	s.mu.Unlock()

	proc, err := s.starter.StartTunnel(req)
	if err != nil {
		s.setState(model.TunnelError)
		s.record(req, events.TypeStartFailed, model.TunnelError, 0, err.Error())
		return failure.Wrap(failure.KindLaunch, "failed to start ssh", err)
	}

	s.mu.Lock()
	s.proc = proc
	s.state = model.TunnelUp
	s.mu.Unlock()
	s.record(req, events.TypeStartSucceeded, model.TunnelUp, proc.PID(), "")
	if s.opts.Reporter != nil {
		s.opts.Reporter.Established(req)
	}

	done := make(chan error, 1)
	go func() { done <- proc.Cmd.Wait() }()

	select {
	case err := <-done:
		return s.exited(ctx, req, proc, err)
	case <-ctx.Done():
		return s.stop(req, proc, done)
	}
}

func (s *Supervisor) exited(ctx context.Context, req model.TunnelRequest, proc *sshclient.TunnelProcess, err error) error {
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		s.setState(model.TunnelError)
		s.record(req, events.TypeExited, model.TunnelError, proc.PID(), err.Error())
		return fmt.Errorf("wait for ssh (pid %d): %w", proc.PID(), err)
	}
	msg := "exit status 0"
	if exitErr != nil {
		msg = exitErr.Error()
	}
	// The tunnel client's own status is not propagated.
	slog.Debug("ssh exited", "pid", proc.PID(), "status", msg)
	s.setState(model.TunnelDown)
	if ctx.Err() != nil {
		// A terminal Ctrl+C reaches ssh too and it can exit first.
		if s.opts.Reporter != nil {
			s.opts.Reporter.Stopping()
		}
		s.record(req, events.TypeStopped, model.TunnelDown, proc.PID(), "interrupted")
		return nil
	}
	s.record(req, events.TypeExited, model.TunnelDown, proc.PID(), msg)
	return nil
}

func (s *Supervisor) stop(req model.TunnelRequest, proc *sshclient.TunnelProcess, done <-chan error) error {
	s.setState(model.TunnelStopping)
	if s.opts.Reporter != nil {
		s.opts.Reporter.Stopping()
	}

	grace := s.opts.StopTimeout
	if err := proc.Cmd.Process.Signal(syscall.SIGTERM); err != nil {
		slog.Debug("signal ssh", "pid", proc.PID(), "error", err)
		grace = 0
	}

	timer := time.NewTimer(grace)
	defer timer.Stop()
	select {
	case <-done:
	case <-timer.C:
		slog.Warn("ssh did not exit after SIGTERM, killing", "pid", proc.PID(), "timeout", s.opts.StopTimeout)
		if err := proc.Cmd.Process.Kill(); err != nil {
			slog.Warn("kill ssh", "pid", proc.PID(), "error", err)
		}
		<-done
	}

	s.setState(model.TunnelDown)
	s.record(req, events.TypeStopped, model.TunnelDown, proc.PID(), "interrupted")
	return nil
}

func (s *Supervisor) setState(st model.TunnelState) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

func (s *Supervisor) record(req model.TunnelRequest, typ string, st model.TunnelState, pid int, msg string) {
	if s.opts.Journal == nil {
		return
	}
	evt := events.Event{
		TunnelID:  RuntimeID(req),
		Host:      req.Host,
		EventType: typ,
		State:     st,
		Message:   msg,
		PID:       pid,
	}
	if err := s.opts.Journal.Append(evt); err != nil {
		slog.Warn("failed to append tunnel event", "event", typ, "error", err)
	}
}

// RuntimeID identifies a tunnel by destination and forward.
func RuntimeID(req model.TunnelRequest) string {
	return req.Destination() + "|" + req.Forward("").String()
}
