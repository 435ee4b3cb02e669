// Package util provides common utility functions and constants used across the
// tunnel packages. It imports no other internal/* package.
package util

import "time"

const (
	// AppName names the config directory under XDG_CONFIG_HOME.
	AppName = "ssh-tunnel"

	// ProbeAddr is the loopback address the port prober binds when no bind
	// address is configured.
	ProbeAddr = "127.0.0.1"

	// DefaultSSHCommand is used when config.yaml does not set ssh_command.
	DefaultSSHCommand = "ssh"

	// DefaultStopTimeout bounds how long the supervisor waits for the ssh
	// process to exit after SIGTERM before killing it.
	DefaultStopTimeout = 3 * time.Second
)
