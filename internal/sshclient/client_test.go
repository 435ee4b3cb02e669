package sshclient

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/treykane/ssh-tunnel/internal/model"
)

func TestBuildTunnelArgs(t *testing.T) {
	req := model.TunnelRequest{Host: "example.com", User: "alice", Port: 8080}
	for _, tc := range []struct {
		name string
		opts Options
		want []string
	}{
		{
			name: "default",
			want: []string{"-N", "-L", "8080:localhost:8080", "alice@example.com"},
		},
		{
			name: "bind address",
			opts: Options{BindAddress: "127.0.0.1"},
			want: []string{"-N", "-L", "127.0.0.1:8080:localhost:8080", "alice@example.com"},
		},
		{
			name: "extra args",
			opts: Options{Argv: []string{"ssh", "-o", "ExitOnForwardFailure=yes"}},
			want: []string{"-o", "ExitOnForwardFailure=yes", "-N", "-L", "8080:localhost:8080", "alice@example.com"},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := New(tc.opts).BuildTunnelArgs(req)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("args mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCommandUsesArgvWithoutShell(t *testing.T) {
	req := model.TunnelRequest{Host: "example.com;rm", User: "alice", Port: 22}
	cmd := New(Options{Argv: []string{"/usr/bin/ssh"}}).Command(req)
	want := []string{"/usr/bin/ssh", "-N", "-L", "22:localhost:22", "alice@example.com;rm"}
	if diff := cmp.Diff(want, cmd.Args); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestStartTunnelRecordsPID(t *testing.T) {
	// "echo" stands in for ssh: it prints its arguments and exits.
	if err := EnsureBinary("echo"); err != nil {
		t.Skip("echo not available")
	}
	var out bytes.Buffer
	c := New(Options{Argv: []string{"echo"}, Stdout: &out, Stderr: &out, Stdin: strings.NewReader("")})
	proc, err := c.StartTunnel(model.TunnelRequest{Host: "example.com", User: "alice", Port: 8080})
	if err != nil {
		t.Fatal(err)
	}
	if proc.PID() <= 0 {
		t.Fatalf("expected pid > 0, got %d", proc.PID())
	}
	if err := proc.Cmd.Wait(); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out.String()); got != "-N -L 8080:localhost:8080 alice@example.com" {
		t.Fatalf("unexpected child argv: %q", got)
	}
}

func TestStartTunnelMissingBinary(t *testing.T) {
	c := New(Options{Argv: []string{"definitely-not-an-ssh-binary"}})
	if err := c.EnsureBinary(); err == nil {
		t.Fatal("expected missing binary error")
	}
	if _, err := c.StartTunnel(model.TunnelRequest{Host: "h", User: "u", Port: 1}); err == nil {
		t.Fatal("expected start error")
	}
	var nilProc *TunnelProcess
	if nilProc.PID() != 0 {
		t.Fatal("nil process should report pid 0")
	}
}
