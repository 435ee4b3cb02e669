// Package probe checks whether a local TCP port is already bound.
//
// The check is point-in-time: the probing listener is closed before Check
// returns, so nothing stops another process from taking the port afterwards.
package probe

import (
	"fmt"
	"log/slog"
	"net"

	"github.com/treykane/ssh-tunnel/internal/util"
)

// Status is the outcome of a probe.
type Status int

const (
	// Error means the bind failed for a reason other than a conflict.
	Error Status = iota
	Available
	InUse
)

func (s Status) String() string {
	switch s {
	case Available:
		return "available"
	case InUse:
		return "in use"
	default:
		return "error"
	}
}

// Check binds a TCP listener on addr:port and releases it immediately. An
// empty addr probes the loopback address. The returned error is non-nil only
// for Error.
func Check(addr string, port int) (Status, error) {
	if err := util.ValidatePort(port); err != nil {
		return Error, err
	}
	hostport := util.HostPort(util.NormalizeAddr(addr, util.ProbeAddr), port)
	ln, err := net.Listen("tcp", hostport)
	if err != nil {
		if isAddrInUse(err) {
			slog.Debug("probe: port in use", "addr", hostport)
			return InUse, nil
		}
		return Error, fmt.Errorf("bind %s: %w", hostport, err)
	}
	if err := ln.Close(); err != nil {
		slog.Debug("probe: close listener", "addr", hostport, "error", err)
	}
	return Available, nil
}
