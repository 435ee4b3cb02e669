// Package main is the entry point for the tunnel binary.
//
// tunnel forwards a local TCP port to the same port on a remote host by
// running the system ssh client in forward-only mode, and keeps the forward
// open until interrupted:
//
//	tunnel example.com alice 8080   # ssh -N -L 8080:localhost:8080 alice@example.com
//
// The command is built in internal/cli. Exit status is 1 for any setup
// failure and 0 once the ssh process has exited or the user interrupted it.
package main

import (
	"os"

	"github.com/treykane/ssh-tunnel/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
