// Package model holds the value types shared by the tunnel packages.
package model

import "fmt"

// ForwardSpec defines one local->remote SSH tunnel mapping.
type ForwardSpec struct {
	LocalAddr  string `json:"local_addr,omitempty"`
	LocalPort  int    `json:"local_port"`
	RemoteAddr string `json:"remote_addr"`
	RemotePort int    `json:"remote_port"`
}

// String renders the forward in ssh -L syntax. An empty LocalAddr leaves the
// bind address to ssh.
func (f ForwardSpec) String() string {
	remote := f.RemoteAddr
	if remote == "" {
		remote = "localhost"
	}
	if f.LocalAddr == "" {
		return fmt.Sprintf("%d:%s:%d", f.LocalPort, remote, f.RemotePort)
	}
	return fmt.Sprintf("%s:%d:%s:%d", f.LocalAddr, f.LocalPort, remote, f.RemotePort)
}

// TunnelRequest is the validated command-line input. It is not modified
// after ParseRequest returns it.
type TunnelRequest struct {
	Host string `json:"host"`
	User string `json:"user"`
	Port int    `json:"port"`
}

// Destination returns the user@host argument passed to ssh.
func (r TunnelRequest) Destination() string {
	return r.User + "@" + r.Host
}

// Forward maps local port Port to the same port on the remote side.
func (r TunnelRequest) Forward(bindAddr string) ForwardSpec {
	return ForwardSpec{
		LocalAddr:  bindAddr,
		LocalPort:  r.Port,
		RemoteAddr: "localhost",
		RemotePort: r.Port,
	}
}

type TunnelState string

const (
	TunnelDown     TunnelState = "down"
	TunnelStarting TunnelState = "starting"
	TunnelUp       TunnelState = "up"
	TunnelError    TunnelState = "error"
	TunnelStopping TunnelState = "stopping"
)
