// Package transport defines the servers an application runs.
package transport

import (
	"context"
	"net"
	"strconv"
)

// Server is run by app.Application until shutdown.
type Server interface {
	// Run blocks until the server stops.
	Run() error
	Shutdown(context.Context) error
}

// ValidateAddress reports whether addr is a host:port pair with a usable
// port. An empty host listens on every interface and port 0 picks a
// free port.
func ValidateAddress(addr string) bool {
	host, port, err := net.SplitHostPort(addr)
	if err != nil || port == "" {
		return false
	}
	if host != "" && !isValidHost(host) {
		return false
	}
	p, err := strconv.Atoi(port)
	return err == nil && p >= 0 && p <= 65535
}

func isValidHost(host string) bool {
	if net.ParseIP(host) != nil {
		return true
	}
	if len(host) > 253 || host[0] == '-' || host[len(host)-1] == '-' {
		return false
	}
	for _, r := range host {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
		default:
			return false
		}
	}
	return true
}
