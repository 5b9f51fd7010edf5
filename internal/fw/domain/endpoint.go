package domain

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// Endpoint is an (address, port) pair submitted for a decision.
// It is not validated; any value can be decided on.
type Endpoint struct {
	Address string
	Port    int
}

// String renders the endpoint as host:port, bracketing IPv6 hosts.
func (e Endpoint) String() string {
	return net.JoinHostPort(e.Address, strconv.Itoa(e.Port))
}

// ParseEndpoint splits "host:port" (or "[v6]:port") into an Endpoint.
// The port must be numeric; range is not checked here.
func ParseEndpoint(s string) (Endpoint, error) {
	host, port, err := net.SplitHostPort(strings.TrimSpace(s))
	if err != nil {
		return Endpoint{}, fmt.Errorf("invalid endpoint %q: %w", s, err)
	}
	p, err := strconv.Atoi(port)
	if err != nil {
		return Endpoint{}, fmt.Errorf("invalid endpoint %q: non-numeric port %q", s, port)
	}
	return Endpoint{Address: host, Port: p}, nil
}
