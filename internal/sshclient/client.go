// Package sshclient launches the system ssh binary in forward-only mode.
//
// This package does NOT implement the SSH protocol. It starts "ssh -N -L ..."
// with an explicit argv (never through a shell), so host and user values
// cannot inject shell syntax, and the user's ssh configuration, keys and agent
// apply unchanged.
package sshclient

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"

	"github.com/treykane/ssh-tunnel/internal/model"
	"github.com/treykane/ssh-tunnel/internal/util"
)

// TunnelProcess represents a running SSH tunnel process.
//
// The caller owns the lifecycle: it must call Cmd.Wait exactly once and may
// signal Cmd.Process to stop the tunnel.
type TunnelProcess struct {
	Cmd *exec.Cmd
}

// PID returns the OS process id, or 0 if the process was never started.
func (p *TunnelProcess) PID() int {
	if p == nil || p.Cmd == nil || p.Cmd.Process == nil {
		return 0
	}
	return p.Cmd.Process.Pid
}

// Options configures how the ssh process is built.
type Options struct {
	// Argv is the ssh binary followed by any leading arguments, e.g.
	// ["ssh", "-o", "ExitOnForwardFailure=yes"]. Empty means ["ssh"].
	Argv []string
	// BindAddress is prepended to the -L argument when non-empty.
	BindAddress string
	// Stdin, Stdout and Stderr default to the process's own streams so that
	// ssh can prompt for passwords and host key confirmation.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Client creates tunnel processes. It holds no process state and is safe for
// concurrent use.
type Client struct {
	opts Options
}

// New creates a new SSH client.
func New(opts Options) *Client {
	if len(opts.Argv) == 0 {
		opts.Argv = []string{util.DefaultSSHCommand}
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	return &Client{opts: opts}
}

// Binary returns the ssh executable name or path.
func (c *Client) Binary() string { return c.opts.Argv[0] }

// EnsureBinary checks that the configured ssh binary can be found.
func (c *Client) EnsureBinary() error {
	return EnsureBinary(c.Binary())
}

// EnsureBinary checks that name resolves to an executable on PATH.
func EnsureBinary(name string) error {
	if _, err := exec.LookPath(name); err != nil {
		return fmt.Errorf("%s binary not found in PATH: %w", name, err)
	}
	return nil
}

// BuildTunnelArgs constructs the ssh arguments (without the binary) for a
// forward-only tunnel of local port P to port P on the remote host:
//
//	[<extra args>..., "-N", "-L", "P:localhost:P", "user@host"]
func (c *Client) BuildTunnelArgs(req model.TunnelRequest) []string {
	extra := c.opts.Argv[1:]
	args := make([]string, 0, len(extra)+4)
	args = append(args, extra...)
	return append(args,
		"-N",
		"-L", req.Forward(c.opts.BindAddress).String(),
		req.Destination(),
	)
}

// Command returns the unstarted exec.Cmd for req.
func (c *Client) Command(req model.TunnelRequest) *exec.Cmd {
	cmd := exec.Command(c.Binary(), c.BuildTunnelArgs(req)...)
	cmd.Stdin = c.opts.Stdin
	cmd.Stdout = c.opts.Stdout
	cmd.Stderr = c.opts.Stderr
	return cmd
}

// StartTunnel starts the ssh process and returns once it has a PID. The
// caller must Wait on the returned process.
func (c *Client) StartTunnel(req model.TunnelRequest) (*TunnelProcess, error) {
	cmd := c.Command(req)
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	slog.Debug("ssh started", "pid", cmd.Process.Pid, "args", cmd.Args)
	return &TunnelProcess{Cmd: cmd}, nil
}
