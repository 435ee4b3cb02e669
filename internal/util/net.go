package util

import (
	"net"
	"strconv"
	"strings"
)

// NormalizeAddr returns the provided address if it is non-empty (after trimming
// whitespace), or the fallback value if the address is empty or whitespace-only.
//
//	NormalizeAddr("",        "127.0.0.1") → "127.0.0.1"
//	NormalizeAddr("0.0.0.0", "127.0.0.1") → "0.0.0.0"
func NormalizeAddr(addr, fallback string) string {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return fallback
	}
	return addr
}

// HostPort joins addr and port, bracketing IPv6 literals.
func HostPort(addr string, port int) string {
	return net.JoinHostPort(addr, strconv.Itoa(port))
}
