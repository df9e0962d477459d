package port

import (
	"fmt"
	"net"
)

// Scanner checks whether ports are free on the host machine.
//
// The Allocator only knows the ports recorded in site env files. A port can
// still be held by something wpsite never created: a local MySQL, a
// different compose project, a dev server someone left running. Only the
// operating system knows about those, so the Scanner asks it directly by
// binding the port and closing it again. That needs no elevated
// permissions, unlike parsing /proc/net or shelling out to lsof or ss.
//
// A busy port does not stop a site from being created. The pair stays
// reserved through the site's env file, and the CLI warns that the site
// will not start until the port is freed.
//
// The struct is stateless. It is a type rather than bare functions so that
// options such as a bind address can be added later without breaking
// callers.
type Scanner struct{}

// NewScanner creates a new Scanner instance.
func NewScanner() *Scanner {
	return &Scanner{}
}

// IsPortAvailable checks whether a single port is free on the host.
//
// For TCP it attempts net.Listen("tcp", ":port"), for UDP
// net.ListenPacket("udp", ":port"). If the bind succeeds the port is free,
// and the listener is closed again before returning.
//
// It binds to all interfaces (":port" rather than "127.0.0.1:port")
// because Docker publishes the WordPress and phpMyAdmin ports on 0.0.0.0.
// Checking only loopback could report a port as free that compose then
// fails to publish.
//
// An unknown protocol reports the port as unavailable.
func (s *Scanner) IsPortAvailable(port int, protocol string) bool {
	addr := fmt.Sprintf(":%d", port)

	switch protocol {
	case "tcp":
		// Fails with "address already in use" when another process holds
		// the port.
		listener, err := net.Listen("tcp", addr)
		if err != nil {
			return false
		}
		defer func() { _ = listener.Close() }()
		return true

	case "udp":
		conn, err := net.ListenPacket("udp", addr)
		if err != nil {
			return false
		}
		defer func() { _ = conn.Close() }()
		return true

	default:
		return false
	}
}

// BusyPorts returns the subset of ports that are currently bound on the host
// over TCP, in the order given.
//
// Both site ports are HTTP, so only TCP is checked. The result is advisory:
// a port can be taken or released right after the check.
func (s *Scanner) BusyPorts(ports ...int) []int {
	var busy []int
	for _, p := range ports {
		if !s.IsPortAvailable(p, "tcp") {
			busy = append(busy, p)
		}
	}
	return busy
}
